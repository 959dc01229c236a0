package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/backend/internal/domain"
)

// CreateTransactionInput represents the input for posting a transaction.
// WalletID is required for income/expense; FromWalletID and ToWalletID
// are required for transfer. A zero Date defaults to the current time,
// an empty Category to the per-type default label.
type CreateTransactionInput struct {
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	Description string

	WalletID     *uuid.UUID
	FromWalletID *uuid.UUID
	ToWalletID   *uuid.UUID
}

// Service is the validated mutation path of the ledger: it applies a
// transaction's signed effects to the wallets it touches and keeps each
// stored balance consistent with the transaction log.
//
// The funds check and the balance write for one transaction execute as a
// single logical unit under per-wallet locks, so a rejection for
// insufficient funds is authoritative at commit time and no concurrent
// mutation can interleave between check and write.
type Service struct {
	WalletRepo      domain.WalletRepository
	TransactionRepo domain.TransactionRepository

	locker *walletLocker
	now    func() time.Time
}

// NewService creates a new ledger Service instance
func NewService(walletRepo domain.WalletRepository, transactionRepo domain.TransactionRepository) *Service {
	return &Service{
		WalletRepo:      walletRepo,
		TransactionRepo: transactionRepo,
		locker:          newWalletLocker(),
		now:             time.Now,
	}
}

// CreateTransaction validates the candidate, applies its balance effects
// and persists the record. On success it returns the transaction together
// with the post-mutation state of every wallet it touched, so callers
// need no secondary refresh round-trip.
//
// A transfer touches two wallets all-or-nothing: if the balance write
// fails, the already-persisted record is removed again and the error is
// reported as retryable.
func (s *Service) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, []*domain.Wallet, error) {
	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	category := input.Category
	if category == "" {
		category = domain.DefaultCategory(input.Type)
	}

	tx := &domain.Transaction{
		ID:           uuid.New(),
		Type:         input.Type,
		Amount:       input.Amount,
		Date:         date,
		Category:     category,
		Description:  input.Description,
		WalletID:     input.WalletID,
		FromWalletID: input.FromWalletID,
		ToWalletID:   input.ToWalletID,
		CreatedAt:    s.now(),
	}

	if err := tx.Validate(); err != nil {
		return nil, nil, err
	}

	walletIDs := tx.WalletIDs()
	unlock := s.locker.lock(walletIDs...)
	defer unlock()

	// Existence and funds checks run against balances read inside the
	// critical section, never against a cached value.
	wallets, err := s.readWallets(ctx, walletIDs)
	if err != nil {
		return nil, nil, err
	}

	if err := checkFunds(tx, wallets); err != nil {
		return nil, nil, err
	}

	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		return nil, nil, &domain.MaintainerError{Op: "append transaction", Err: err}
	}

	if err := s.WalletRepo.AdjustBalances(ctx, tx.Effects()); err != nil {
		// Roll back the log append so the record never exists without
		// its wallet-side effect.
		if delErr := s.TransactionRepo.Delete(ctx, tx.ID); delErr != nil {
			err = errors.Join(err, delErr)
		}
		return nil, nil, &domain.MaintainerError{Op: "apply", Err: err}
	}

	updated, err := s.readWallets(ctx, walletIDs)
	if err != nil {
		return nil, nil, err
	}

	return tx, updated, nil
}

// DeleteTransaction reverses the transaction's balance effects and
// removes the record, returning the restored wallet states. Deleting a
// transaction that does not exist reports ErrTransactionNotFound.
func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) ([]*domain.Wallet, error) {
	// First read resolves which wallets to lock; the authoritative read
	// happens again inside the critical section.
	tx, err := s.TransactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	walletIDs := tx.WalletIDs()
	unlock := s.locker.lock(walletIDs...)
	defer unlock()

	tx, err = s.TransactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.WalletRepo.AdjustBalances(ctx, tx.ReverseEffects()); err != nil {
		return nil, &domain.MaintainerError{Op: "reverse", Err: err}
	}

	if err := s.TransactionRepo.Delete(ctx, id); err != nil {
		// Re-apply the forward effects so balances stay consistent with
		// the still-present record.
		if applyErr := s.WalletRepo.AdjustBalances(ctx, tx.Effects()); applyErr != nil {
			err = errors.Join(err, applyErr)
		}
		return nil, &domain.MaintainerError{Op: "remove transaction", Err: err}
	}

	return s.readWallets(ctx, walletIDs)
}

// GetWalletBalance returns the wallet's current stored balance.
func (s *Service) GetWalletBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	wallet, err := s.WalletRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

func (s *Service) readWallets(ctx context.Context, ids []uuid.UUID) ([]*domain.Wallet, error) {
	wallets := make([]*domain.Wallet, 0, len(ids))
	for _, id := range ids {
		wallet, err := s.WalletRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}
	return wallets, nil
}

// checkFunds enforces the sufficient-funds invariant for the outflow side
// of the transaction. Income never requires funds.
func checkFunds(tx *domain.Transaction, wallets []*domain.Wallet) error {
	var sourceID uuid.UUID
	switch tx.Type {
	case domain.TransactionTypeExpense:
		sourceID = *tx.WalletID
	case domain.TransactionTypeTransfer:
		sourceID = *tx.FromWalletID
	default:
		return nil
	}

	for _, wallet := range wallets {
		if wallet.ID == sourceID {
			if wallet.Balance.LessThan(tx.Amount) {
				return domain.ErrInsufficientFunds
			}
			return nil
		}
	}

	return domain.ErrWalletNotFound
}
