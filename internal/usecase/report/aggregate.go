package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/backend/internal/domain"
)

// PeriodTotals holds the income and expense sums of a period.
type PeriodTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// CategoryTotal is one bucket of an expense-by-category breakdown.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// DailyTotal is one calendar day of a daily income/expense series.
type DailyTotal struct {
	Day     time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// The functions below are pure over their transaction snapshot: same
// snapshot and parameters always produce the same result, and nothing is
// mutated. Transfers never contribute to income or expense totals.

// RecentTransactions returns the first limit transactions by date
// descending, creation order as a stable tiebreak. A non-positive limit
// defaults to 10.
func RecentTransactions(txs []*domain.Transaction, limit int) []*domain.Transaction {
	if limit <= 0 {
		limit = 10
	}

	sorted := make([]*domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// TotalsBetween sums income and expense amounts of transactions whose
// date falls within [start, end], inclusive at full timestamp precision.
func TotalsBetween(txs []*domain.Transaction, start, end time.Time) PeriodTotals {
	totals := PeriodTotals{Income: decimal.Zero, Expense: decimal.Zero}

	for _, tx := range txs {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		switch tx.Type {
		case domain.TransactionTypeIncome:
			totals.Income = totals.Income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			totals.Expense = totals.Expense.Add(tx.Amount)
		}
	}

	return totals
}

// ExpenseByCategory groups expense transactions within [start, end] by
// category, summing amounts per bucket. An empty category lands in the
// "Uncategorized" bucket. Buckets are ordered by amount descending, then
// category name, so equal inputs yield equal output.
func ExpenseByCategory(txs []*domain.Transaction, start, end time.Time) []CategoryTotal {
	buckets := make(map[string]decimal.Decimal)

	for _, tx := range txs {
		if tx.Type != domain.TransactionTypeExpense {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		category := tx.Category
		if category == "" {
			category = domain.CategoryUncategorized
		}
		buckets[category] = buckets[category].Add(tx.Amount)
	}

	breakdown := make([]CategoryTotal, 0, len(buckets))
	for category, amount := range buckets {
		breakdown = append(breakdown, CategoryTotal{Category: category, Amount: amount})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if !breakdown[i].Amount.Equal(breakdown[j].Amount) {
			return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
		}
		return breakdown[i].Category < breakdown[j].Category
	})

	return breakdown
}

// DailyTotals produces one income/expense pair per calendar day for the
// trailing window of the given length ending on today, inclusive. A
// transaction belongs to the day its date falls on in today's timezone.
func DailyTotals(txs []*domain.Transaction, days int, today time.Time) []DailyTotal {
	if days <= 0 {
		days = 7
	}

	loc := today.Location()
	year, month, day := today.Date()
	windowEnd := time.Date(year, month, day, 0, 0, 0, 0, loc)

	series := make([]DailyTotal, days)
	index := make(map[time.Time]int, days)
	for i := 0; i < days; i++ {
		d := windowEnd.AddDate(0, 0, i-days+1)
		series[i] = DailyTotal{Day: d, Income: decimal.Zero, Expense: decimal.Zero}
		index[d] = i
	}

	for _, tx := range txs {
		y, m, d := tx.Date.In(loc).Date()
		key := time.Date(y, m, d, 0, 0, 0, 0, loc)
		i, ok := index[key]
		if !ok {
			continue
		}
		switch tx.Type {
		case domain.TransactionTypeIncome:
			series[i].Income = series[i].Income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			series[i].Expense = series[i].Expense.Add(tx.Amount)
		}
	}

	return series
}

// WalletScopedTotals sums income and expense of transactions where the
// wallet is the direct wallet reference. A transfer's destination-side
// inflow is deliberately not income here: it is a transfer, tracked
// separately.
func WalletScopedTotals(txs []*domain.Transaction, walletID uuid.UUID) PeriodTotals {
	totals := PeriodTotals{Income: decimal.Zero, Expense: decimal.Zero}

	for _, tx := range txs {
		if tx.WalletID == nil || *tx.WalletID != walletID {
			continue
		}
		switch tx.Type {
		case domain.TransactionTypeIncome:
			totals.Income = totals.Income.Add(tx.Amount)
		case domain.TransactionTypeExpense:
			totals.Expense = totals.Expense.Add(tx.Amount)
		}
	}

	return totals
}
