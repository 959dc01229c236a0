package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/backend/internal/domain"
	"github.com/dompetku/backend/internal/usecase/wallet"
)

type createWalletRequest struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	InitialBalance string  `json:"initial_balance"`
	Budget         *string `json:"budget"`
}

type updateWalletRequest struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Budget *string `json:"budget"`
}

func (s *Server) createWallet(c *gin.Context) {
	var req createWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	input := wallet.CreateWalletInput{
		Name: req.Name,
		Type: domain.WalletType(req.Type),
	}

	if req.InitialBalance != "" {
		balance, err := decimal.NewFromString(req.InitialBalance)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid initial balance"})
			return
		}
		input.InitialBalance = balance
	}

	if req.Budget != nil {
		budget, err := decimal.NewFromString(*req.Budget)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget"})
			return
		}
		input.Budget = &budget
	}

	created, err := s.walletService.CreateWallet(c.Request.Context(), input)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toWalletResponse(created))
}

func (s *Server) listWallets(c *gin.Context) {
	typeFilter := domain.WalletType(c.Query("type"))

	wallets, err := s.walletService.ListWallets(c.Request.Context(), typeFilter)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallets": toWalletResponses(wallets)})
}

func (s *Server) getWallet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet ID"})
		return
	}

	found, err := s.walletService.GetWallet(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWalletResponse(found))
}

func (s *Server) updateWallet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet ID"})
		return
	}

	var req updateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	input := wallet.UpdateWalletInput{
		Name: req.Name,
		Type: domain.WalletType(req.Type),
	}
	if req.Budget != nil {
		budget, err := decimal.NewFromString(*req.Budget)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget"})
			return
		}
		input.Budget = &budget
	}

	updated, err := s.walletService.UpdateWallet(c.Request.Context(), id, input)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWalletResponse(updated))
}

func (s *Server) deleteWallet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet ID"})
		return
	}

	if err := s.walletService.DeleteWallet(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) getWalletBalance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet ID"})
		return
	}

	balance, err := s.ledgerService.GetWalletBalance(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet_id": id.String(), "balance": balance.String()})
}

func (s *Server) getWalletView(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet ID"})
		return
	}

	view, err := s.reportService.WalletView(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":       toWalletResponse(view.Wallet),
		"transactions": toTransactionResponses(view.Transactions),
		"totals":       toPeriodTotalsResponse(view.Totals),
	})
}
