package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/kitchen-inventory-api/internal/application/service"
	"github.com/sangkips/kitchen-inventory-api/internal/config"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	domainRepo "github.com/sangkips/kitchen-inventory-api/internal/domain/repository"
	"github.com/sangkips/kitchen-inventory-api/internal/infrastructure/database"
	"github.com/sangkips/kitchen-inventory-api/internal/infrastructure/repository"
	"github.com/sangkips/kitchen-inventory-api/internal/logger"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/handler"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/routes"
	"github.com/sangkips/kitchen-inventory-api/internal/store"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logg := logger.New(cfg.Log)

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	stores := store.NewContext(logg)
	var stockRepo domainRepo.StockLedgerRepository
	var idempotencyRepo domainRepo.IdempotencyRepository

	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, logg)
		if err != nil {
			logg.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.AutoMigrate(db, logg); err != nil {
			logg.Fatalf("Failed to run migrations: %v", err)
		}

		stockRepo = repository.NewStockItemRepository(db)
		idempotencyRepo = repository.NewIdempotencyRepository(db)

		// A failed load leaves that store empty; the service still starts
		if err := stores.Load(context.Background(), store.Repositories{
			StockItems:  stockRepo,
			GRVs:        repository.NewSnapshotRepository[entity.GRV](db),
			StockIssues: repository.NewSnapshotRepository[entity.StockIssueLine](db),
			Recipes:     repository.NewSnapshotRepository[entity.Recipe](db),
			Batches:     repository.NewSnapshotRepository[entity.BatchProduction](db),
			StockTakes:  repository.NewSnapshotRepository[entity.StockTakeSession](db),
		}); err != nil {
			logg.WithError(err).Warn("some stores failed to load")
		}
	} else {
		logg.Info("database disabled, running in memory")
		idempotencyRepo = repository.NewMemoryIdempotencyRepository()
	}

	// Initialize services
	ledger := service.NewStockLedger(stores.StockItems, logg)
	if stockRepo != nil && cfg.Ledger.RemoteEnabled {
		service.NewRemoteFirstDeduction(ledger, service.NewRemoteDeduction(stockRepo), cfg.Ledger.RemoteTimeout)
		logg.WithField("timeout", cfg.Ledger.RemoteTimeout.String()).Info("remote-first deduction enabled")
	}

	grvService := service.NewGRVService(stores.GRVs, ledger, cfg.Tax.VATRate, logg)
	issueService := service.NewStockIssueService(stores.StockIssues, ledger, logg)
	recipeService := service.NewRecipeService(stores, ledger, logg)
	batchService := service.NewBatchProductionService(stores.Batches, recipeService, ledger, logg)
	stockTakeService := service.NewStockTakeService(stores.StockTakes, ledger, logg)

	// Initialize handlers
	handlers := &routes.Handlers{
		StockItem:       handler.NewStockItemHandler(ledger, grvService),
		GRV:             handler.NewGRVHandler(grvService),
		StockIssue:      handler.NewStockIssueHandler(issueService),
		Recipe:          handler.NewRecipeHandler(recipeService),
		BatchProduction: handler.NewBatchProductionHandler(batchService),
		StockTake:       handler.NewStockTakeHandler(stockTakeService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Logger:          logg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeIdempotencyKeys(ctx, idempotencyRepo, logg)

	go func() {
		logg.WithFields(logrus.Fields{"port": port, "env": cfg.App.Env}).Infof("Starting %s server", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.WithError(err).Error("server shutdown failed")
	}
	if err := stores.Flush(shutdownCtx); err != nil {
		logg.WithError(err).Error("failed to flush stores")
	}
}

func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, logg *logrus.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				logg.Warnf("failed to purge idempotency keys: %v", err)
			}
		}
	}
}
