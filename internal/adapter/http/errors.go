package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dompetku/backend/internal/domain"
)

// writeError translates domain errors into HTTP status codes. Validation
// failures map to 400, missing entities to 404, state conflicts to 409,
// rejected business rules to 422 and retryable maintainer errors to 503.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		status = http.StatusNotFound

	case errors.Is(err, domain.ErrInsufficientFunds):
		status = http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrWalletHasTransactions):
		status = http.StatusConflict

	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrSameWalletTransfer),
		errors.Is(err, domain.ErrEmptyWalletName),
		errors.Is(err, domain.ErrInvalidWalletType),
		errors.Is(err, domain.ErrNegativeBudget),
		errors.Is(err, domain.ErrInvalidTransactionType),
		errors.Is(err, domain.ErrMissingWalletRef):
		status = http.StatusBadRequest

	case domain.IsRetryable(err):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
