package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dompetku/backend/internal/domain"
)

// WalletView is the wallet-scoped slice of the ledger: every transaction
// the wallet participates in, plus income/expense totals counting only
// transactions where the wallet is the direct reference.
type WalletView struct {
	Wallet       *domain.Wallet
	Transactions []*domain.Transaction
	Totals       PeriodTotals
}

// Service derives read-only aggregates from the transaction log. It never
// mutates stored state; every query is a pure function of the snapshot it
// reads plus its parameters.
type Service struct {
	WalletRepo      domain.WalletRepository
	TransactionRepo domain.TransactionRepository

	now func() time.Time
}

// NewService creates a new report Service instance
func NewService(walletRepo domain.WalletRepository, transactionRepo domain.TransactionRepository) *Service {
	return &Service{
		WalletRepo:      walletRepo,
		TransactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// List returns transactions matching the filter, date descending.
func (s *Service) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	txs, err := s.TransactionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// Recent returns the latest transactions by date, limit defaulting to 10.
func (s *Service) Recent(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	txs, err := s.TransactionRepo.List(ctx, domain.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return RecentTransactions(txs, limit), nil
}

// PeriodTotals sums income and expense within [start, end] inclusive.
func (s *Service) PeriodTotals(ctx context.Context, start, end time.Time) (PeriodTotals, error) {
	txs, err := s.TransactionRepo.List(ctx, domain.TransactionFilter{Start: &start, End: &end})
	if err != nil {
		return PeriodTotals{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	return TotalsBetween(txs, start, end), nil
}

// CategoryBreakdown groups expenses within [start, end] by category.
func (s *Service) CategoryBreakdown(ctx context.Context, start, end time.Time) ([]CategoryTotal, error) {
	txs, err := s.TransactionRepo.List(ctx, domain.TransactionFilter{Start: &start, End: &end})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return ExpenseByCategory(txs, start, end), nil
}

// DailySeries produces the trailing daily income/expense series ending
// today in the process-local timezone.
func (s *Service) DailySeries(ctx context.Context, days int) ([]DailyTotal, error) {
	txs, err := s.TransactionRepo.List(ctx, domain.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return DailyTotals(txs, days, s.now()), nil
}

// WalletView returns the wallet, its transactions in any role, and its
// wallet-scoped totals.
func (s *Service) WalletView(ctx context.Context, walletID uuid.UUID) (*WalletView, error) {
	wallet, err := s.WalletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	txs, err := s.TransactionRepo.List(ctx, domain.TransactionFilter{WalletID: &walletID})
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}

	return &WalletView{
		Wallet:       wallet,
		Transactions: txs,
		Totals:       WalletScopedTotals(txs, walletID),
	}, nil
}
