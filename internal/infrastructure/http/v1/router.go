// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"cantina/internal/domain/backup"
	"cantina/internal/domain/catalogs/customer"
	"cantina/internal/domain/catalogs/product"
	"cantina/internal/domain/ledger"
	"cantina/internal/domain/reports"
	"cantina/internal/infrastructure/http/v1/handlers"
	"cantina/internal/infrastructure/http/v1/middleware"
	"cantina/internal/infrastructure/storage/postgres"
	"cantina/pkg/logger"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	Customers *customer.Service
	Products  *product.Service
	Engine    *ledger.Engine
	Reports   *reports.Service
	Backup    *backup.Service

	DevMode bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	customerHandler := handlers.NewCustomerHandler(base, cfg.Customers)
	productHandler := handlers.NewProductHandler(base, cfg.Products, cfg.Engine)
	posHandler := handlers.NewPOSHandler(base, cfg.Engine)
	ledgerHandler := handlers.NewLedgerHandler(base, cfg.Engine)
	reportsHandler := handlers.NewReportsHandler(base, cfg.Reports)
	backupHandler := handlers.NewBackupHandler(base, cfg.Backup)

	api := router.Group("/api/v1")
	{
		customers := api.Group("/customers")
		{
			customers.GET("", customerHandler.List)
			customers.POST("", customerHandler.Create)
			customers.GET("/:id", customerHandler.Get)
			customers.PUT("/:id", customerHandler.Update)
			customers.DELETE("/:id", customerHandler.Delete)
			customers.POST("/:id/credit-block", customerHandler.SetCreditBlock)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.POST("", productHandler.Create)
			products.GET("/low-stock", productHandler.LowStock)
			products.GET("/:id", productHandler.Get)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
			products.POST("/:id/stock-adjust", productHandler.AdjustStock)
		}

		sales := api.Group("/sales")
		{
			sales.POST("", posHandler.FinalizeSale)
			sales.GET("", posHandler.List)
			sales.GET("/:id", posHandler.Get)
		}

		ledgerGroup := api.Group("/ledger")
		{
			ledgerGroup.GET("", ledgerHandler.List)
			ledgerGroup.POST("/reconcile", ledgerHandler.Reconcile)
			ledgerGroup.GET("/:customerId", ledgerHandler.Get)
			ledgerGroup.POST("/:customerId/payments", ledgerHandler.RecordPayment)
		}

		reportsGroup := api.Group("/reports")
		{
			reportsGroup.GET("/dashboard", reportsHandler.Dashboard)
			reportsGroup.GET("/period", reportsHandler.Period)
			reportsGroup.GET("/period/export", reportsHandler.ExportPeriodCSV)
		}

		backupGroup := api.Group("/backup")
		{
			backupGroup.GET("/export", backupHandler.Export)
			backupGroup.POST("/import", backupHandler.Import)
		}
	}

	return router
}
