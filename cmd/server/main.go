package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gatewise/escrowd/internal/adapter/assetregistry"
	"github.com/gatewise/escrowd/internal/adapter/httpapi"
	"github.com/gatewise/escrowd/internal/adapter/ledger"
	"github.com/gatewise/escrowd/internal/adapter/repository/memory"
	"github.com/gatewise/escrowd/internal/adapter/repository/postgres"
	"github.com/gatewise/escrowd/internal/config"
	"github.com/gatewise/escrowd/internal/domain"
	"github.com/gatewise/escrowd/internal/usecase/authz"
	"github.com/gatewise/escrowd/internal/usecase/report"
	"github.com/gatewise/escrowd/internal/usecase/seeder"
	"github.com/gatewise/escrowd/internal/usecase/transfer"
)

const serviceName = "escrowd"

// version is stamped at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// 1. Configuration and logging
	cfg, err := config.Parse()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 2. Transfer record store
	var transferRepo domain.TransferRepository
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := postgres.NewDB(cfg.DBConnString())
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		transferRepo = postgres.NewTransferRepository(db)
	case config.BackendMemory:
		transferRepo = memory.NewTransferRepository()
	default:
		logger.Fatal("unknown storage backend", zap.String("backend", cfg.StorageBackend))
	}

	// 3. Collaborators: asset registry and ledger
	httpClient := &http.Client{Timeout: 10 * time.Second}

	var registry domain.AssetRegistry
	var memRegistry *assetregistry.Memory
	switch cfg.RegistryBackend {
	case config.BackendHTTP:
		registry = assetregistry.NewHTTPClient(cfg.RegistryURL, httpClient)
	case config.BackendMemory:
		memRegistry = assetregistry.NewMemory()
		registry = memRegistry
	default:
		logger.Fatal("unknown registry backend", zap.String("backend", cfg.RegistryBackend))
	}

	var book domain.Ledger
	var memLedger *ledger.Memory
	switch cfg.LedgerBackend {
	case config.BackendHTTP:
		book = ledger.NewHTTPClient(cfg.LedgerURL, httpClient)
	case config.BackendMemory:
		memLedger = ledger.NewMemory()
		book = memLedger
	default:
		logger.Fatal("unknown ledger backend", zap.String("backend", cfg.LedgerBackend))
	}

	// Seed dev fixtures when both collaborators run in memory
	if memRegistry != nil && memLedger != nil {
		if err := seeder.NewDevSeeder(memRegistry, memLedger).Seed(context.Background()); err != nil {
			logger.Fatal("failed to seed dev fixtures", zap.Error(err))
		}
		logger.Info("dev fixtures seeded",
			zap.String("restricted_denom", seeder.DevRestrictedDenom),
			zap.String("admin", seeder.DevAdmin),
		)
	}

	// 4. Services
	transferService := transfer.NewTransferService(
		transferRepo,
		registry,
		book,
		authz.NewPolicy(registry),
		cfg.EscrowAccount,
	)
	reportService := report.NewReportService(transferRepo)

	// 5. HTTP server
	apiServer := httpapi.NewServer(transferService, reportService, logger, httpapi.Info{
		Service:  serviceName,
		Instance: cfg.InstanceName,
		Version:  version,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: apiServer.Router(cfg.AuthToken),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("storage", cfg.StorageBackend),
			zap.String("version", version),
		)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	waitForShutdown(server, logger, serveErr, cfg.ShutdownTimeout)
}

// newLogger builds a production JSON logger at the configured level
func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(parsed)
	return logCfg.Build()
}

// waitForShutdown waits for SIGTERM or SIGINT and drains the server gracefully
func waitForShutdown(server *http.Server, logger *zap.Logger, serveErr <-chan error, timeout time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serveErr:
		logger.Fatal("http server failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	logger.Info("http server stopped")
}
