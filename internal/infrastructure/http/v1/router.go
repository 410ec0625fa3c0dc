// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"confina/internal/domain/finance/allocation"
	"confina/internal/domain/finance/dre"
	"confina/internal/domain/finance/ledger"
	"confina/internal/domain/finance/sale"
	"confina/internal/domain/finance/simulation"
	"confina/internal/domain/herd/lot"
	"confina/internal/domain/herd/pen"
	"confina/internal/infrastructure/http/v1/handlers"
	"confina/internal/infrastructure/http/v1/middleware"
	"confina/internal/infrastructure/storage/postgres"
	"confina/pkg/logger"
)

// RouterConfig holds the wired services the API exposes.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	Lots        *lot.Service
	Pens        *pen.Service
	Ledger      *ledger.Service
	Sales       *sale.Service
	Allocations *allocation.Service

	DREBuilder    *dre.Builder
	DREComparator *dre.Comparator
	Simulator     *simulation.Simulator
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		lotHandler := handlers.NewLotHandler(base, cfg.Lots)
		simulationHandler := handlers.NewSimulationHandler(base, cfg.Simulator)
		lots := api.Group("/lots")
		{
			lots.POST("", lotHandler.Receive)
			lots.GET("", lotHandler.List)
			lots.GET("/:id", lotHandler.Get)
			lots.DELETE("/:id", lotHandler.Delete)
			lots.POST("/:id/deaths", lotHandler.RecordDeaths)
			lots.POST("/:id/weight-loss", lotHandler.RecordWeightLoss)
			lots.POST("/:id/simulation", simulationHandler.Simulate)
		}

		penHandler := handlers.NewPenHandler(base, cfg.Pens)
		pens := api.Group("/pens")
		{
			pens.POST("", penHandler.Create)
			pens.GET("", penHandler.List)
			pens.GET("/:id", penHandler.Get)
			pens.POST("/:id/links", penHandler.Allocate)
			pens.POST("/links/:id/remove", penHandler.RemoveLink)
		}

		ledgerHandler := handlers.NewLedgerHandler(base, cfg.Ledger)
		entries := api.Group("/ledger/entries")
		{
			entries.POST("", ledgerHandler.Post)
			entries.GET("", ledgerHandler.List)
			entries.POST("/:id/void", ledgerHandler.Void)
		}

		saleHandler := handlers.NewSaleHandler(base, cfg.Sales)
		api.POST("/sales", saleHandler.Register)

		allocationHandler := handlers.NewAllocationHandler(base, cfg.Allocations)
		allocations := api.Group("/allocations")
		{
			allocations.POST("", allocationHandler.CreateDraft)
			allocations.GET("", allocationHandler.List)
			allocations.GET("/:id", allocationHandler.Get)
			allocations.DELETE("/:id", allocationHandler.Delete)
			allocations.PUT("/:id/lines", allocationHandler.OverrideLine)
			allocations.POST("/:id/approve", allocationHandler.Approve)
			allocations.POST("/:id/apply", allocationHandler.Apply)
		}

		dreHandler := handlers.NewDREHandler(base, cfg.DREBuilder, cfg.DREComparator)
		dreGroup := api.Group("/dre")
		{
			dreGroup.POST("/statement", dreHandler.Build)
			dreGroup.POST("/statement/csv", dreHandler.ExportCSV)
			dreGroup.POST("/compare", dreHandler.Compare)
		}
	}

	return router
}
