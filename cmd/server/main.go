package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/dompetku/backend/internal/adapter/http"
	"github.com/dompetku/backend/internal/adapter/repository/memory"
	"github.com/dompetku/backend/internal/adapter/repository/postgres"
	"github.com/dompetku/backend/internal/adapter/repository/sqlite"
	"github.com/dompetku/backend/internal/config"
	"github.com/dompetku/backend/internal/domain"
	"github.com/dompetku/backend/internal/log"
	"github.com/dompetku/backend/internal/usecase/dashboard"
	"github.com/dompetku/backend/internal/usecase/ledger"
	"github.com/dompetku/backend/internal/usecase/report"
	"github.com/dompetku/backend/internal/usecase/wallet"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	walletRepo, transactionRepo, closeStore, err := buildRepositories(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "backend", cfg.DataBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ledgerService := ledger.NewService(walletRepo, transactionRepo)
	walletService := wallet.NewService(walletRepo, transactionRepo)
	reportService := report.NewService(walletRepo, transactionRepo)
	dashboardService := dashboard.NewService(walletRepo, transactionRepo)

	server := httpadapter.NewServer(
		ledgerService,
		walletService,
		reportService,
		dashboardService,
		logger,
		cfg.APIToken,
	)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(httpServer, cfg, logger)
}

// buildRepositories constructs the repository pair for the configured
// backend and returns a close function for the underlying store.
func buildRepositories(cfg *config.Config, logger *log.Logger) (domain.WalletRepository, domain.TransactionRepository, func(), error) {
	storageLogger := logger.WithComponent(log.ComponentStorage)

	switch cfg.DataBackend {
	case config.BackendPostgres:
		db, err := postgres.NewDB(cfg.PostgresConnStr())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.RunMigrations(db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		storageLogger.Info("connected to postgres")
		return postgres.NewWalletRepository(db), postgres.NewTransactionRepository(db), func() { db.Close() }, nil

	case config.BackendSQLite:
		db, err := sqlite.NewDB(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		storageLogger.Info("opened sqlite database", "path", cfg.SQLiteDBPath)
		return sqlite.NewWalletRepository(db), sqlite.NewTransactionRepository(db), func() { db.Close() }, nil

	case config.BackendMemory:
		store := memory.NewStore()
		storageLogger.Warn("using in-memory storage, data will not survive restarts")
		return memory.NewWalletRepository(store), memory.NewTransactionRepository(store), func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(httpServer *http.Server, cfg *config.Config, logger *log.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return
	}
	logger.Info("server stopped")
}
