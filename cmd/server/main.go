// Package main is the entry point for the confina API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"confina/internal/config"
	"confina/internal/domain/finance/allocation"
	"confina/internal/domain/finance/costing"
	"confina/internal/domain/finance/dre"
	"confina/internal/domain/finance/ledger"
	"confina/internal/domain/finance/sale"
	"confina/internal/domain/finance/simulation"
	"confina/internal/domain/herd/lot"
	"confina/internal/domain/herd/pen"
	v1 "confina/internal/infrastructure/http/v1"
	"confina/internal/infrastructure/storage/postgres"
	"confina/internal/infrastructure/storage/postgres/finance_repo"
	"confina/internal/infrastructure/storage/postgres/herd_repo"
	"confina/pkg/logger"
	"confina/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Info("starting confina server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.ConnectionString())
	poolCfg.MaxConns = cfg.DB.MaxConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)
	numeratorService := numerator.New(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	lotRepo := herd_repo.NewLotRepo(txManager)
	penRepo := herd_repo.NewPenRepo(txManager)
	linkRepo := herd_repo.NewLinkRepo(txManager)
	entryRepo := finance_repo.NewEntryRepo(txManager)
	saleRepo := finance_repo.NewSaleRepo(txManager)
	allocationRepo := finance_repo.NewAllocationRepo(txManager)

	// --- Services ---
	ledgerService := ledger.NewService(entryRepo, lotRepo, numeratorService, txManager)
	lotService := lot.NewService(lotRepo, ledgerService, numeratorService)
	penService := pen.NewService(penRepo, linkRepo, lotRepo, txManager)
	saleService := sale.NewService(saleRepo, lotRepo, ledgerService, numeratorService)
	allocationService := allocation.NewService(
		allocationRepo, lotRepo, ledgerService, numeratorService, txManager, auditService)

	aggregator := costing.New(entryRepo, penService)
	dreBuilder := dre.NewBuilder(lotRepo, saleRepo, aggregator, penService)
	dreComparator := dre.NewComparator(dreBuilder)
	simulator := simulation.New(lotRepo, aggregator)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:          pool,
		Logger:        log,
		Lots:          lotService,
		Pens:          penService,
		Ledger:        ledgerService,
		Sales:         saleService,
		Allocations:   allocationService,
		DREBuilder:    dreBuilder,
		DREComparator: dreComparator,
		Simulator:     simulator,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
