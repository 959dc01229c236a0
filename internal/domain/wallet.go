package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletType represents the type of wallet in the system
type WalletType string

const (
	WalletTypeSavings       WalletType = "savings"
	WalletTypeTransactional WalletType = "transactional"
)

// Wallet represents a named monetary account with a running balance.
// Balance is a derived, cached view of the transaction log: it is mutated
// only through the ledger service, never directly by a caller.
type Wallet struct {
	ID        uuid.UUID
	Name      string
	Type      WalletType
	Balance   decimal.Decimal
	Budget    *decimal.Decimal // nil = no budget tracking
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate ensures the wallet adheres to domain rules
// Returns an error if validation fails
func (w *Wallet) Validate() error {
	if w.Name == "" {
		return ErrEmptyWalletName
	}

	if w.Type != WalletTypeSavings && w.Type != WalletTypeTransactional {
		return ErrInvalidWalletType
	}

	// Budget is optional, but may never be negative
	if w.Budget != nil && w.Budget.IsNegative() {
		return ErrNegativeBudget
	}

	return nil
}
