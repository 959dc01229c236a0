package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Default category labels applied when the caller supplies none.
const (
	CategoryUncategorized = "Uncategorized"
	CategoryTransfer      = "Transfer"
)

// Transaction represents an immutable record of a monetary movement.
// It is a tagged variant: income and expense reference a single wallet
// through WalletID, transfer references two distinct wallets through
// FromWalletID and ToWalletID. There is no update operation; corrections
// are modeled as delete + recreate.
type Transaction struct {
	ID          uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal // absolute value, always positive
	Date        time.Time
	Category    string
	Description string

	WalletID     *uuid.UUID // income / expense
	FromWalletID *uuid.UUID // transfer source
	ToWalletID   *uuid.UUID // transfer destination

	CreatedAt time.Time
}

// BalanceEffect is a signed delta to apply to a single wallet's stored
// balance.
type BalanceEffect struct {
	WalletID uuid.UUID
	Delta    decimal.Decimal
}

// Validate ensures the transaction adheres to domain rules, checking the
// variant-specific wallet references exhaustively.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.Date.IsZero() {
		return ErrInvalidDate
	}

	switch t.Type {
	case TransactionTypeIncome, TransactionTypeExpense:
		if t.WalletID == nil {
			return ErrMissingWalletRef
		}
		if t.FromWalletID != nil || t.ToWalletID != nil {
			return ErrInvalidTransactionType
		}

	case TransactionTypeTransfer:
		if t.FromWalletID == nil || t.ToWalletID == nil {
			return ErrMissingWalletRef
		}
		if t.WalletID != nil {
			return ErrInvalidTransactionType
		}
		if *t.FromWalletID == *t.ToWalletID {
			return ErrSameWalletTransfer
		}

	default:
		return ErrInvalidTransactionType
	}

	return nil
}

// Effects returns the signed balance deltas applying this transaction
// produces:
//
//	income    +amount on WalletID
//	expense   -amount on WalletID
//	transfer  -amount on FromWalletID, +amount on ToWalletID
//
// The transaction must have passed Validate.
func (t *Transaction) Effects() []BalanceEffect {
	switch t.Type {
	case TransactionTypeIncome:
		return []BalanceEffect{{WalletID: *t.WalletID, Delta: t.Amount}}
	case TransactionTypeExpense:
		return []BalanceEffect{{WalletID: *t.WalletID, Delta: t.Amount.Neg()}}
	case TransactionTypeTransfer:
		return []BalanceEffect{
			{WalletID: *t.FromWalletID, Delta: t.Amount.Neg()},
			{WalletID: *t.ToWalletID, Delta: t.Amount},
		}
	}
	return nil
}

// ReverseEffects returns the exact inverse of Effects, restoring every
// affected wallet to its pre-apply balance.
func (t *Transaction) ReverseEffects() []BalanceEffect {
	effects := t.Effects()
	reversed := make([]BalanceEffect, len(effects))
	for i, e := range effects {
		reversed[i] = BalanceEffect{WalletID: e.WalletID, Delta: e.Delta.Neg()}
	}
	return reversed
}

// WalletIDs returns the distinct wallets this transaction touches.
func (t *Transaction) WalletIDs() []uuid.UUID {
	switch t.Type {
	case TransactionTypeIncome, TransactionTypeExpense:
		if t.WalletID != nil {
			return []uuid.UUID{*t.WalletID}
		}
	case TransactionTypeTransfer:
		if t.FromWalletID != nil && t.ToWalletID != nil {
			return []uuid.UUID{*t.FromWalletID, *t.ToWalletID}
		}
	}
	return nil
}

// References reports whether the transaction touches the given wallet in
// any role.
func (t *Transaction) References(walletID uuid.UUID) bool {
	for _, id := range t.WalletIDs() {
		if id == walletID {
			return true
		}
	}
	return false
}

// DefaultCategory returns the category label used when the caller
// supplies none.
func DefaultCategory(txType TransactionType) string {
	if txType == TransactionTypeTransfer {
		return CategoryTransfer
	}
	return CategoryUncategorized
}
