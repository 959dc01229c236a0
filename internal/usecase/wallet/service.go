package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/backend/internal/domain"
)

// CreateWalletInput represents the input for creating a wallet. The
// initial balance is the wallet's funding; after creation the balance is
// mutated only by the ledger service.
type CreateWalletInput struct {
	Name           string
	Type           domain.WalletType
	InitialBalance decimal.Decimal
	Budget         *decimal.Decimal
}

// UpdateWalletInput carries the mutable wallet attributes. Zero-valued
// fields keep their current value; the balance is not updatable here.
type UpdateWalletInput struct {
	Name   string
	Type   domain.WalletType
	Budget *decimal.Decimal
}

// Service handles wallet lifecycle operations
type Service struct {
	WalletRepo      domain.WalletRepository
	TransactionRepo domain.TransactionRepository

	now func() time.Time
}

// NewService creates a new wallet Service instance
func NewService(walletRepo domain.WalletRepository, transactionRepo domain.TransactionRepository) *Service {
	return &Service{
		WalletRepo:      walletRepo,
		TransactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// CreateWallet creates a wallet with an explicit initial balance.
func (s *Service) CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error) {
	now := s.now()
	wallet := &domain.Wallet{
		ID:        uuid.New(),
		Name:      input.Name,
		Type:      input.Type,
		Balance:   input.InitialBalance,
		Budget:    input.Budget,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := wallet.Validate(); err != nil {
		return nil, err
	}

	if err := s.WalletRepo.Create(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return wallet, nil
}

// GetWallet retrieves a wallet by ID.
func (s *Service) GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	return s.WalletRepo.GetByID(ctx, id)
}

// ListWallets retrieves wallets, optionally filtered by type.
func (s *Service) ListWallets(ctx context.Context, typeFilter domain.WalletType) ([]*domain.Wallet, error) {
	wallets, err := s.WalletRepo.List(ctx, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

// UpdateWallet updates name, type and budget. The balance stays untouched:
// it belongs to the ledger.
func (s *Service) UpdateWallet(ctx context.Context, id uuid.UUID, input UpdateWalletInput) (*domain.Wallet, error) {
	wallet, err := s.WalletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		wallet.Name = input.Name
	}
	if input.Type != "" {
		wallet.Type = input.Type
	}
	if input.Budget != nil {
		wallet.Budget = input.Budget
	}
	wallet.UpdatedAt = s.now()

	if err := wallet.Validate(); err != nil {
		return nil, err
	}

	if err := s.WalletRepo.Update(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	return wallet, nil
}

// DeleteWallet removes a wallet. Deletion is rejected while any
// transaction still references the wallet, so balances elsewhere stay
// reconstructable from the log.
func (s *Service) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	if _, err := s.WalletRepo.GetByID(ctx, id); err != nil {
		return err
	}

	txs, err := s.TransactionRepo.List(ctx, domain.TransactionFilter{WalletID: &id})
	if err != nil {
		return fmt.Errorf("failed to check wallet transactions: %w", err)
	}
	if len(txs) > 0 {
		return domain.ErrWalletHasTransactions
	}

	if err := s.WalletRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}

	return nil
}

// TotalByType sums the balances of all wallets of the given type; an
// empty type sums every wallet.
func (s *Service) TotalByType(ctx context.Context, typeFilter domain.WalletType) (decimal.Decimal, error) {
	wallets, err := s.WalletRepo.List(ctx, typeFilter)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list wallets: %w", err)
	}

	total := decimal.Zero
	for _, wallet := range wallets {
		total = total.Add(wallet.Balance)
	}
	return total, nil
}
