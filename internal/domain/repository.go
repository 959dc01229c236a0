package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransactionFilter narrows a transaction listing. Nil fields are
// ignored. WalletID matches participation in any role (wallet_id,
// from_wallet_id or to_wallet_id); Start and End bound the transaction
// date inclusively at full timestamp precision.
type TransactionFilter struct {
	WalletID *uuid.UUID
	Start    *time.Time
	End      *time.Time
}

// WalletRepository defines the interface for wallet persistence operations
type WalletRepository interface {
	// Create creates a new wallet
	Create(ctx context.Context, wallet *Wallet) error

	// GetByID retrieves a wallet by its ID.
	// Returns ErrWalletNotFound if no such wallet exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// List retrieves wallets, optionally filtered by type.
	// If typeFilter is empty, returns all wallets.
	List(ctx context.Context, typeFilter WalletType) ([]*Wallet, error)

	// Update persists the wallet's mutable attributes (name, type,
	// budget). It never touches the balance.
	Update(ctx context.Context, wallet *Wallet) error

	// Delete removes a wallet by ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustBalances applies the given signed deltas to the stored
	// balances. All deltas commit together or not at all; a transfer's
	// two sides are never observable half-applied.
	AdjustBalances(ctx context.Context, effects []BalanceEffect) error
}

// TransactionRepository defines the interface for transaction persistence
// operations. Transactions are immutable once created: there is no update.
type TransactionRepository interface {
	// Create appends a new transaction to the log
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction by its ID.
	// Returns ErrTransactionNotFound if no such transaction exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// List retrieves transactions matching the filter, ordered by date
	// descending with creation order as a stable tiebreak.
	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)

	// Delete removes a transaction by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
