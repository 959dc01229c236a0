package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *walletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (id, name, type, balance, budget, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var budget interface{}
	if wallet.Budget != nil {
		budget = wallet.Budget.String()
	}

	_, err := r.db.ExecContext(ctx, query,
		wallet.ID.String(),
		wallet.Name,
		string(wallet.Type),
		wallet.Balance.String(),
		budget,
		wallet.CreatedAt.UnixNano(),
		wallet.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

func (r *walletRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `
		SELECT id, name, type, balance, budget, created_at, updated_at
		FROM wallets
		WHERE id = ?
	`

	wallet, err := scanWallet(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by ID: %w", err)
	}

	return wallet, nil
}

func (r *walletRepository) List(ctx context.Context, typeFilter domain.WalletType) ([]*domain.Wallet, error) {
	query := `
		SELECT id, name, type, balance, budget, created_at, updated_at
		FROM wallets
	`
	args := []interface{}{}
	if typeFilter != "" {
		query += ` WHERE type = ?`
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

func (r *walletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		UPDATE wallets
		SET name = ?, type = ?, budget = ?, updated_at = ?
		WHERE id = ?
	`

	var budget interface{}
	if wallet.Budget != nil {
		budget = wallet.Budget.String()
	}

	result, err := r.db.ExecContext(ctx, query,
		wallet.Name,
		string(wallet.Type),
		budget,
		wallet.UpdatedAt.UnixNano(),
		wallet.ID.String(),
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

func (r *walletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM wallets WHERE id = ?`, id.String())
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

// AdjustBalances applies all balance deltas in one database transaction.
// Balances are decimal strings, so the arithmetic happens in Go rather
// than in SQLite's floating-point engine.
func (r *walletRepository) AdjustBalances(ctx context.Context, effects []domain.BalanceEffect) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	now := time.Now().UnixNano()
	for _, effect := range effects {
		var balanceStr string
		err := dbTx.QueryRowContext(ctx,
			`SELECT balance FROM wallets WHERE id = ?`, effect.WalletID.String(),
		).Scan(&balanceStr)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrWalletNotFound
			}
			return fmt.Errorf("failed to read wallet balance: %w", err)
		}

		balance, err := decimal.NewFromString(balanceStr)
		if err != nil {
			return fmt.Errorf("failed to parse balance: %w", err)
		}

		_, err = dbTx.ExecContext(ctx,
			`UPDATE wallets SET balance = ?, updated_at = ? WHERE id = ?`,
			balance.Add(effect.Delta).String(), now, effect.WalletID.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to adjust wallet balance: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit balance adjustment: %w", err)
	}

	return nil
}

func scanWallet(row interface{ Scan(...interface{}) error }) (*domain.Wallet, error) {
	var wallet domain.Wallet
	var idStr, walletType, balanceStr string
	var budgetStr sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(
		&idStr,
		&wallet.Name,
		&walletType,
		&balanceStr,
		&budgetStr,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse wallet id: %w", err)
	}
	wallet.ID = id
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

	wallet.CreatedAt = time.Unix(0, createdAt)
	wallet.UpdatedAt = time.Unix(0, updatedAt)

	return &wallet, nil
}
