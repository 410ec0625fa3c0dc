// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"confina/internal/config"
	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/finance/allocation"
	"confina/internal/domain/finance/ledger"
	"confina/internal/domain/finance/sale"
	"confina/internal/domain/herd/lot"
	"confina/internal/domain/herd/pen"
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
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.ConnectionString()))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedDemoData(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}

// seedDemoData builds a small but complete feedlot: two pens, two lots with
// their entry costs, running feed and health entries, one applied rateio and
// one sale. Enough to exercise every statement line.
func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	txManager := postgres.NewTxManager(pool)
	numeratorService := numerator.New(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		return fmt.Errorf("create audit service: %w", err)
	}

	lotRepo := herd_repo.NewLotRepo(txManager)
	penRepo := herd_repo.NewPenRepo(txManager)
	linkRepo := herd_repo.NewLinkRepo(txManager)
	entryRepo := finance_repo.NewEntryRepo(txManager)
	saleRepo := finance_repo.NewSaleRepo(txManager)
	allocationRepo := finance_repo.NewAllocationRepo(txManager)

	ledgerService := ledger.NewService(entryRepo, lotRepo, numeratorService, txManager)
	lotService := lot.NewService(lotRepo, ledgerService, numeratorService)
	penService := pen.NewService(penRepo, linkRepo, lotRepo, txManager)
	saleService := sale.NewService(saleRepo, lotRepo, ledgerService, numeratorService)
	allocationService := allocation.NewService(
		allocationRepo, lotRepo, ledgerService, numeratorService, txManager, auditService)

	today := time.Now().UTC().Truncate(24 * time.Hour)

	// --- Pens ---
	penA, err := penService.CreatePen(ctx, "C-01", 120, "setor norte")
	if err != nil {
		return fmt.Errorf("create pen C-01: %w", err)
	}
	penB, err := penService.CreatePen(ctx, "C-02", 100, "setor sul")
	if err != nil {
		return fmt.Errorf("create pen C-02: %w", err)
	}

	// --- Lots ---
	lotA, err := lotService.Receive(ctx, lot.ReceiveInput{
		PurchaseID:    id.New(),
		EntryDate:     today.AddDate(0, 0, -90),
		Quantity:      110,
		WeightKg:      39600, // 360 kg/head
		EstimatedGMD:  1.4,
		PurchaseValue: types.MustMoney("462000"),
		FreightValue:  types.MustMoney("8800"),
	})
	if err != nil {
		return fmt.Errorf("receive lot A: %w", err)
	}

	lotB, err := lotService.Receive(ctx, lot.ReceiveInput{
		PurchaseID:    id.New(),
		EntryDate:     today.AddDate(0, 0, -60),
		Quantity:      90,
		WeightKg:      30600, // 340 kg/head
		EstimatedGMD:  1.2,
		PurchaseValue: types.MustMoney("351000"),
		FreightValue:  types.MustMoney("7200"),
	})
	if err != nil {
		return fmt.Errorf("receive lot B: %w", err)
	}

	if _, err := penService.Allocate(ctx, lotA.ID, penA.ID, 110, lotA.EntryDate); err != nil {
		return fmt.Errorf("allocate lot A: %w", err)
	}
	if _, err := penService.Allocate(ctx, lotB.ID, penB.ID, 90, lotB.EntryDate); err != nil {
		return fmt.Errorf("allocate lot B: %w", err)
	}

	// --- Running costs ---
	type entrySeed struct {
		lotID    id.ID
		daysAgo  int
		category ledger.Category
		amount   string
		desc     string
	}

	entries := []entrySeed{
		{lotA.ID, 75, ledger.CategoryFeed, "38500", "ração milho/silagem"},
		{lotA.ID, 45, ledger.CategoryFeed, "41200", "ração milho/silagem"},
		{lotA.ID, 15, ledger.CategoryFeed, "43800", "ração milho/silagem"},
		{lotA.ID, 80, ledger.CategoryHealth, "5500", "vacinação e vermífugo"},
		{lotA.ID, 30, ledger.CategoryHealth, "2750", "reforço sanitário"},
		{lotB.ID, 50, ledger.CategoryFeed, "28800", "ração milho/silagem"},
		{lotB.ID, 20, ledger.CategoryFeed, "30600", "ração milho/silagem"},
		{lotB.ID, 55, ledger.CategoryHealth, "4500", "vacinação e vermífugo"},
	}
	for _, e := range entries {
		entry := ledger.NewEntry(today.AddDate(0, 0, -e.daysAgo), e.category,
			ledger.CostCenterFattening, types.MustMoney(e.amount), ledger.TargetLot, e.lotID)
		entry.Description = e.desc
		if err := ledgerService.Post(ctx, entry); err != nil {
			return fmt.Errorf("post %s entry: %w", e.category, err)
		}
	}

	// Financial result inputs. Statements only see lot-targeted entries, so
	// interest is attributed to the lot whose custeio it financed.
	finRevenue := ledger.NewEntry(today.AddDate(0, 0, -10), ledger.CategoryFinancialRevenue,
		ledger.CostCenterFinancial, types.MustMoney("1200"), ledger.TargetLot, lotA.ID)
	finRevenue.Description = "rendimento de aplicação"
	if err := ledgerService.Post(ctx, finRevenue); err != nil {
		return fmt.Errorf("post financial revenue: %w", err)
	}

	finExpense := ledger.NewEntry(today.AddDate(0, 0, -8), ledger.CategoryFinancialExpense,
		ledger.CostCenterFinancial, types.MustMoney("4600"), ledger.TargetLot, lotB.ID)
	finExpense.Description = "juros de custeio"
	if err := ledgerService.Post(ctx, finExpense); err != nil {
		return fmt.Errorf("post financial expense: %w", err)
	}

	// --- Rateio: last month's administrative overhead, by head-days ---
	draft, err := allocationService.CreateDraft(ctx, allocation.CreateInput{
		CostType:    allocation.CostAdministrative,
		Method:      allocation.MethodByDays,
		PeriodStart: today.AddDate(0, -1, 0),
		PeriodEnd:   today,
		TotalAmount: types.MustMoney("18000"),
	})
	if err != nil {
		return fmt.Errorf("create rateio draft: %w", err)
	}
	if _, err := allocationService.Approve(ctx, draft.ID); err != nil {
		return fmt.Errorf("approve rateio: %w", err)
	}
	if _, err := allocationService.Apply(ctx, draft.ID); err != nil {
		return fmt.Errorf("apply rateio: %w", err)
	}

	// --- Partial sale from lot A ---
	saleRec := sale.NewRecord(lotA.ID, today.AddDate(0, 0, -5),
		40, 20800, 54.0, types.MustMoney("315"))
	saleRec.Buyer = "Frigorífico Boa Carne"
	if err := saleService.Register(ctx, saleRec); err != nil {
		return fmt.Errorf("register sale: %w", err)
	}

	log.Infow("demo data seeded",
		"pens", 2,
		"lots", 2,
		"rateio", draft.Number,
		"sale", saleRec.Number,
	)
	return nil
}
