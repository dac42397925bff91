// Package main is the entry point for the cantina API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cantina/internal/config"
	"cantina/internal/domain/backup"
	"cantina/internal/domain/catalogs/customer"
	"cantina/internal/domain/catalogs/product"
	"cantina/internal/domain/ledger"
	"cantina/internal/domain/reports"
	v1 "cantina/internal/infrastructure/http/v1"
	"cantina/internal/infrastructure/storage/postgres"
	"cantina/internal/infrastructure/storage/postgres/catalog_repo"
	"cantina/internal/infrastructure/storage/postgres/ledger_repo"
	"cantina/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.DevMode,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting cantina server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	// --- Repositories ---
	customerRepo := catalog_repo.NewCustomerRepo(pool)
	productRepo := catalog_repo.NewProductRepo(pool)
	saleRepo := ledger_repo.NewSaleRepo(pool)
	entryRepo := ledger_repo.NewEntryRepo(pool)

	// --- Services ---
	customerService := customer.NewService(customerRepo)
	productService := product.NewService(productRepo)
	engine := ledger.NewEngine(customerRepo, productRepo, saleRepo, entryRepo)
	reportsService := reports.NewService(saleRepo, entryRepo, productRepo)
	backupService := backup.NewService(customerRepo, productRepo, saleRepo, entryRepo)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:      pool,
		Logger:    log,
		Customers: customerService,
		Products:  productService,
		Engine:    engine,
		Reports:   reportsService,
		Backup:    backupService,
		DevMode:   cfg.DevMode,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
