package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dompetku/backend/internal/domain"
	"github.com/dompetku/backend/internal/usecase/report"
)

// Summary is the aggregate view the dashboard renders: total balance of
// savings wallets, the current month's income/expense totals, and the
// latest transactions.
type Summary struct {
	TotalBalance   decimal.Decimal
	MonthlyTotals  report.PeriodTotals
	WalletCount    int
	Wallets        []*domain.Wallet
	RecentActivity []*domain.Transaction
}

// Service handles dashboard-related operations
type Service struct {
	WalletRepo      domain.WalletRepository
	TransactionRepo domain.TransactionRepository

	now func() time.Time
}

// NewService creates a new dashboard Service instance
func NewService(walletRepo domain.WalletRepository, transactionRepo domain.TransactionRepository) *Service {
	return &Service{
		WalletRepo:      walletRepo,
		TransactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// GetSummary assembles the dashboard summary. The wallet listing and the
// transaction snapshot are independent reads and fetched concurrently.
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	var (
		wallets []*domain.Wallet
		txs     []*domain.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		wallets, err = s.WalletRepo.List(gctx, "")
		if err != nil {
			return fmt.Errorf("failed to list wallets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		txs, err = s.TransactionRepo.List(gctx, domain.TransactionFilter{})
		if err != nil {
			return fmt.Errorf("failed to list transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalBalance := decimal.Zero
	for _, wallet := range wallets {
		if wallet.Type == domain.WalletTypeSavings {
			totalBalance = totalBalance.Add(wallet.Balance)
		}
	}

	start, end := monthBounds(s.now())

	return &Summary{
		TotalBalance:   totalBalance,
		MonthlyTotals:  report.TotalsBetween(txs, start, end),
		WalletCount:    len(wallets),
		Wallets:        wallets,
		RecentActivity: report.RecentTransactions(txs, 10),
	}, nil
}

// monthBounds returns the inclusive bounds of the calendar month
// containing t, in t's timezone.
func monthBounds(t time.Time) (time.Time, time.Time) {
	year, month, _ := t.Date()
	start := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
