// Package http exposes the ledger over a JSON REST API.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dompetku/backend/internal/log"
	"github.com/dompetku/backend/internal/usecase/dashboard"
	"github.com/dompetku/backend/internal/usecase/ledger"
	"github.com/dompetku/backend/internal/usecase/report"
	"github.com/dompetku/backend/internal/usecase/wallet"
)

// Server wires the use case services into a gin router.
type Server struct {
	ledgerService    *ledger.Service
	walletService    *wallet.Service
	reportService    *report.Service
	dashboardService *dashboard.Service

	logger   *log.Logger
	apiToken string
}

// NewServer creates a new HTTP server adapter. An empty apiToken disables
// authentication.
func NewServer(
	ledgerService *ledger.Service,
	walletService *wallet.Service,
	reportService *report.Service,
	dashboardService *dashboard.Service,
	logger *log.Logger,
	apiToken string,
) *Server {
	return &Server{
		ledgerService:    ledgerService,
		walletService:    walletService,
		reportService:    reportService,
		dashboardService: dashboardService,
		logger:           logger.WithComponent(log.ComponentHTTP),
		apiToken:         apiToken,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(s.logger))
	router.Use(CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	if s.apiToken != "" {
		api.Use(TokenAuth(s.apiToken))
	}
	{
		wallets := api.Group("/wallets")
		{
			wallets.POST("", s.createWallet)
			wallets.GET("", s.listWallets)
			wallets.GET("/:id", s.getWallet)
			wallets.PUT("/:id", s.updateWallet)
			wallets.DELETE("/:id", s.deleteWallet)
			wallets.GET("/:id/balance", s.getWalletBalance)
			wallets.GET("/:id/view", s.getWalletView)
		}

		transactions := api.Group("/transactions")
		{
			transactions.POST("", s.createTransaction)
			transactions.GET("", s.listTransactions)
			transactions.DELETE("/:id", s.deleteTransaction)
		}

		reports := api.Group("/reports")
		{
			reports.GET("/summary", s.getSummary)
			reports.GET("/period-totals", s.getPeriodTotals)
			reports.GET("/categories", s.getCategoryBreakdown)
			reports.GET("/daily", s.getDailySeries)
		}
	}

	return router
}
