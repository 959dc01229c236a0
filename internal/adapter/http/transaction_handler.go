package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/backend/internal/domain"
	"github.com/dompetku/backend/internal/usecase/ledger"
)

type createTransactionRequest struct {
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	WalletID     string `json:"wallet_id"`
	FromWalletID string `json:"from_wallet_id"`
	ToWalletID   string `json:"to_wallet_id"`
}

func (s *Server) createTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = parseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	input := ledger.CreateTransactionInput{
		Type:        domain.TransactionType(req.Type),
		Amount:      amount,
		Date:        date,
		Category:    req.Category,
		Description: req.Description,
	}

	if input.WalletID, err = parseOptionalID(req.WalletID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet_id"})
		return
	}
	if input.FromWalletID, err = parseOptionalID(req.FromWalletID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from_wallet_id"})
		return
	}
	if input.ToWalletID, err = parseOptionalID(req.ToWalletID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to_wallet_id"})
		return
	}

	tx, wallets, err := s.ledgerService.CreateTransaction(c.Request.Context(), input)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"transaction": toTransactionResponse(tx),
		"wallets":     toWalletResponses(wallets),
	})
}

func (s *Server) listTransactions(c *gin.Context) {
	var filter domain.TransactionFilter

	if walletIDStr := c.Query("wallet_id"); walletIDStr != "" {
		id, err := uuid.Parse(walletIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet ID"})
			return
		}
		filter.WalletID = &id
	}

	if startStr := c.Query("start_date"); startStr != "" {
		start, err := parseDate(startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Start = &start
	}

	if endStr := c.Query("end_date"); endStr != "" {
		end, err := parseDate(endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.End = &end
	}

	txs, err := s.reportService.List(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": toTransactionResponses(txs)})
}

func (s *Server) deleteTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	wallets, err := s.ledgerService.DeleteTransaction(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallets": toWalletResponses(wallets)})
}
