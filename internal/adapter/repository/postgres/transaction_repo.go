package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create appends a new transaction to the log
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, type, amount, date, category, description, wallet_id, from_wallet_id, to_wallet_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		string(tx.Type),
		tx.Amount.String(),
		tx.Date,
		tx.Category,
		tx.Description,
		nullableID(tx.WalletID),
		nullableID(tx.FromWalletID),
		nullableID(tx.ToWalletID),
		tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by its ID
func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `
		SELECT id, type, amount, date, category, description, wallet_id, from_wallet_id, to_wallet_id, created_at
		FROM transactions
		WHERE id = $1
	`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}

	return tx, nil
}

// List retrieves transactions matching the filter, newest first with
// creation order breaking date ties.
func (r *transactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query := `
		SELECT id, type, amount, date, category, description, wallet_id, from_wallet_id, to_wallet_id, created_at
		FROM transactions
	`

	var conditions []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.WalletID != nil {
		p := arg(*filter.WalletID)
		conditions = append(conditions,
			fmt.Sprintf("(wallet_id = %s OR from_wallet_id = %s OR to_wallet_id = %s)", p, p, p))
	}
	if filter.Start != nil {
		conditions = append(conditions, fmt.Sprintf("date >= %s", arg(*filter.Start)))
	}
	if filter.End != nil {
		conditions = append(conditions, fmt.Sprintf("date <= %s", arg(*filter.End)))
	}

	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}
	query += " ORDER BY date DESC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}

// Delete removes a transaction by ID
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

func nullableID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// scanTransaction reads one transaction row from either a *sql.Row or
// *sql.Rows.
func scanTransaction(row interface{ Scan(...interface{}) error }) (*domain.Transaction, error) {
	var tx domain.Transaction
	var txType string
	var amountStr string
	var walletID, fromWalletID, toWalletID sql.NullString

	err := row.Scan(
		&tx.ID,
		&txType,
		&amountStr,
		&tx.Date,
		&tx.Category,
		&tx.Description,
		&walletID,
		&fromWalletID,
		&toWalletID,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Type = domain.TransactionType(txType)

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	tx.Amount = amount

	if tx.WalletID, err = parseNullableID(walletID); err != nil {
		return nil, fmt.Errorf("failed to parse wallet_id: %w", err)
	}
	if tx.FromWalletID, err = parseNullableID(fromWalletID); err != nil {
		return nil, fmt.Errorf("failed to parse from_wallet_id: %w", err)
	}
	if tx.ToWalletID, err = parseNullableID(toWalletID); err != nil {
		return nil, fmt.Errorf("failed to parse to_wallet_id: %w", err)
	}

	return &tx, nil
}

func parseNullableID(v sql.NullString) (*uuid.UUID, error) {
	if !v.Valid {
		return nil, nil
	}
	id, err := uuid.Parse(v.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
