package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Holdings-Ledger-Backend/internal/api"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/config"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/database"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/logging"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/repository"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/scheduler"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/service"
	"github.com/ndewijer/Holdings-Ledger-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.New(cfg.Log)
	logging.SetGlobalLogger(logger)

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal().Err(err).Str("dir", dir).Msg("Failed to create database directory")
		}
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	schemaVersion, err := database.Migrate(ctx, db)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}

	logger.Info().
		Str("path", cfg.Database.Path).
		Int64("schema_version", schemaVersion).
		Str("app_version", version.Version).
		Str("base_currency", cfg.Ledger.BaseCurrency).
		Msg("Connected to database")

	// Create repositories
	instrumentRepo := repository.NewInstrumentRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	valuationRepo := repository.NewValuationRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	// Create services
	base := cfg.Ledger.BaseCurrency
	now := service.SystemClock
	serviceLog := logging.Component(logger, "service")

	positionService := service.NewPositionService(instrumentRepo, transactionRepo, valuationRepo, now)
	portfolioService := service.NewPortfolioService(instrumentRepo, positionService, base, now, serviceLog)
	snapshotService := service.NewSnapshotService(portfolioService, snapshotRepo, now, serviceLog)

	services := api.Services{
		System:       service.NewSystemService(db, base),
		Instruments:  service.NewInstrumentService(instrumentRepo, now),
		Transactions: service.NewTransactionService(instrumentRepo, transactionRepo, base, now),
		Valuations:   service.NewValuationService(instrumentRepo, valuationRepo, base, now),
		Positions:    positionService,
		Portfolio:    portfolioService,
		Snapshots:    snapshotService,
	}

	if cfg.Snapshot.OnStartup {
		if _, err := snapshotService.CreateStartupSnapshot(ctx); err != nil {
			logger.Warn().Err(err).Msg("Startup snapshot failed")
		}
	}

	// Background jobs
	sched := scheduler.New(ctx, logger)
	if cfg.Snapshot.Schedule != "" {
		job := scheduler.NewAutoSnapshotJob(snapshotService, logger)
		if err := sched.AddJob(cfg.Snapshot.Schedule, job); err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.Snapshot.Schedule).Msg("Invalid snapshot schedule")
		}
	}
	sched.Start()

	// Create router
	router := api.NewRouter(services, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	<-ctx.Done()

	logger.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	sched.Stop()

	logger.Info().Msg("Server exited")
}
