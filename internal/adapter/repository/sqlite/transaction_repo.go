package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID.String(),
		string(tx.Type),
		tx.Amount.String(),
		tx.Date.UnixNano(),
		tx.Category,
		tx.Description,
		nullableID(tx.WalletID),
		nullableID(tx.FromWalletID),
		nullableID(tx.ToWalletID),
		tx.CreatedAt.UnixNano(),
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
		WHERE id = ?
	`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id.String()))
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

	if filter.WalletID != nil {
		conditions = append(conditions, "(wallet_id = ? OR from_wallet_id = ? OR to_wallet_id = ?)")
		id := filter.WalletID.String()
		args = append(args, id, id, id)
	}
	if filter.Start != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.Start.UnixNano())
	}
	if filter.End != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.End.UnixNano())
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
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
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id.String())
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
	return id.String()
}

// scanTransaction reads one transaction row from either a *sql.Row or
// *sql.Rows.
func scanTransaction(row interface{ Scan(...interface{}) error }) (*domain.Transaction, error) {
	var tx domain.Transaction
	var idStr, txType, amountStr string
	var walletID, fromWalletID, toWalletID sql.NullString
	var date, createdAt int64

	err := row.Scan(
		&idStr,
		&txType,
		&amountStr,
		&date,
		&tx.Category,
		&tx.Description,
		&walletID,
		&fromWalletID,
		&toWalletID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transaction id: %w", err)
	}
	tx.ID = id
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

	tx.Date = time.Unix(0, date)
	tx.CreatedAt = time.Unix(0, createdAt)

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
