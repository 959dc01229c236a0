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

// walletRepository implements domain.WalletRepository
type walletRepository struct {
	db *DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *DB) domain.WalletRepository {
	return &walletRepository{db: db}
}

// Create creates a new wallet
func (r *walletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (id, name, type, balance, budget, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var budget interface{}
	if wallet.Budget != nil {
		budget = wallet.Budget.String()
	}

	_, err := r.db.ExecContext(ctx, query,
		wallet.ID,
		wallet.Name,
		string(wallet.Type),
		wallet.Balance.String(),
		budget,
		wallet.CreatedAt,
		wallet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

// GetByID retrieves a wallet by its ID
func (r *walletRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `
		SELECT id, name, type, balance, budget, created_at, updated_at
		FROM wallets
		WHERE id = $1
	`

	wallet, err := scanWallet(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by ID: %w", err)
	}

	return wallet, nil
}

// List retrieves wallets, optionally filtered by type
func (r *walletRepository) List(ctx context.Context, typeFilter domain.WalletType) ([]*domain.Wallet, error) {
	query := `
		SELECT id, name, type, balance, budget, created_at, updated_at
		FROM wallets
	`
	args := []interface{}{}
	if typeFilter != "" {
		query += ` WHERE type = $1`
		args = append(args, string(typeFilter))
	}
	query += ` ORDER BY created_at, name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallets: %w", err)
	}

	return wallets, nil
}

// Update persists the wallet's mutable attributes. The balance column is
// owned by AdjustBalances and deliberately absent here.
func (r *walletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		UPDATE wallets
		SET name = $2, type = $3, budget = $4, updated_at = $5
		WHERE id = $1
	`

	var budget interface{}
	if wallet.Budget != nil {
		budget = wallet.Budget.String()
	}

	result, err := r.db.ExecContext(ctx, query,
		wallet.ID,
		wallet.Name,
		string(wallet.Type),
		budget,
		wallet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// Delete removes a wallet by ID
func (r *walletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// AdjustBalances applies all balance deltas in one database transaction,
// so a transfer's two sides commit together or not at all.
func (r *walletRepository) AdjustBalances(ctx context.Context, effects []domain.BalanceEffect) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE wallets
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
	`

	for _, effect := range effects {
		result, err := dbTx.ExecContext(ctx, query, effect.WalletID, effect.Delta.String())
		if err != nil {
			return fmt.Errorf("failed to adjust wallet balance: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check adjust result: %w", err)
		}
		if affected == 0 {
			return domain.ErrWalletNotFound
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit balance adjustment: %w", err)
	}

	return nil
}

// scanWallet reads one wallet row from either a *sql.Row or *sql.Rows.
func scanWallet(row interface{ Scan(...interface{}) error }) (*domain.Wallet, error) {
	var wallet domain.Wallet
	var walletType string
	var balanceStr string
	var budgetStr sql.NullString

	err := row.Scan(
		&wallet.ID,
		&wallet.Name,
		&walletType,
		&balanceStr,
		&budgetStr,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	wallet.Type = domain.WalletType(walletType)

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	wallet.Balance = balance

	if budgetStr.Valid {
		budget, err := decimal.NewFromString(budgetStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse budget: %w", err)
		}
		wallet.Budget = &budget
	}

	return &wallet, nil
}
