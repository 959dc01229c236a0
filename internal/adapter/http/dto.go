package http

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dompetku/backend/internal/domain"
	"github.com/dompetku/backend/internal/usecase/report"
)

// Amounts travel as decimal strings end to end; timestamps as RFC3339.

type walletResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Balance   string  `json:"balance"`
	Budget    *string `json:"budget,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type transactionResponse struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Amount       string  `json:"amount"`
	Date         string  `json:"date"`
	Category     string  `json:"category"`
	Description  string  `json:"description,omitempty"`
	WalletID     *string `json:"wallet_id,omitempty"`
	FromWalletID *string `json:"from_wallet_id,omitempty"`
	ToWalletID   *string `json:"to_wallet_id,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type periodTotalsResponse struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

type categoryTotalResponse struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

type dailyTotalResponse struct {
	Day     string `json:"day"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

func toWalletResponse(w *domain.Wallet) walletResponse {
	resp := walletResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		Type:      string(w.Type),
		Balance:   w.Balance.String(),
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.Format(time.RFC3339),
	}
	if w.Budget != nil {
		budget := w.Budget.String()
		resp.Budget = &budget
	}
	return resp
}

func toWalletResponses(wallets []*domain.Wallet) []walletResponse {
	resp := make([]walletResponse, 0, len(wallets))
	for _, w := range wallets {
		resp = append(resp, toWalletResponse(w))
	}
	return resp
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:           tx.ID.String(),
		Type:         string(tx.Type),
		Amount:       tx.Amount.String(),
		Date:         tx.Date.Format(time.RFC3339),
		Category:     tx.Category,
		Description:  tx.Description,
		WalletID:     idString(tx.WalletID),
		FromWalletID: idString(tx.FromWalletID),
		ToWalletID:   idString(tx.ToWalletID),
		CreatedAt:    tx.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionResponses(txs []*domain.Transaction) []transactionResponse {
	resp := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, toTransactionResponse(tx))
	}
	return resp
}

func toPeriodTotalsResponse(t report.PeriodTotals) periodTotalsResponse {
	return periodTotalsResponse{
		Income:  t.Income.String(),
		Expense: t.Expense.String(),
	}
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// parseDate accepts either a calendar date (YYYY-MM-DD) or a full RFC3339
// timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", s)
}

func parseOptionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", s)
	}
	return &id, nil
}
