package domain

import (
	"errors"
	"fmt"
)

// Validation errors are user-correctable input errors. They are reported
// synchronously and never retried automatically.
var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidDate        = errors.New("date is missing or not parseable")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrSameWalletTransfer = errors.New("cannot transfer to the same wallet")
	ErrInsufficientFunds  = errors.New("insufficient balance")

	ErrEmptyWalletName   = errors.New("wallet name cannot be empty")
	ErrInvalidWalletType = errors.New("wallet type must be savings or transactional")
	ErrNegativeBudget    = errors.New("wallet budget cannot be negative")

	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrMissingWalletRef       = errors.New("transaction is missing its wallet reference")

	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrWalletHasTransactions = errors.New("cannot delete wallet with existing transactions")
)

// MaintainerError wraps an infrastructure failure during balance
// maintenance. The mutation it belongs to has been rolled back in full,
// and the caller may safely retry.
type MaintainerError struct {
	Op  string
	Err error
}

func (e *MaintainerError) Error() string {
	return fmt.Sprintf("balance maintainer %s: %v", e.Op, e.Err)
}

func (e *MaintainerError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is an infrastructure failure whose
// mutation was rolled back and can be resubmitted.
func IsRetryable(err error) bool {
	var me *MaintainerError
	return errors.As(err, &me)
}
