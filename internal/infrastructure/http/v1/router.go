package v1

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/core/numerator"
	"stockroom/internal/domain/auth"
	"stockroom/internal/domain/documents/stock_in"
	"stockroom/internal/domain/documents/stock_out"
	"stockroom/internal/domain/documents/stocktake"
	"stockroom/internal/domain/material"
	"stockroom/internal/domain/reports"
	"stockroom/internal/domain/warning"
	"stockroom/internal/infrastructure/http/v1/handlers"
	"stockroom/internal/infrastructure/http/v1/middleware"
	"stockroom/internal/infrastructure/storage/postgres"
	"stockroom/internal/infrastructure/storage/postgres/catalog_repo"
	"stockroom/internal/infrastructure/storage/postgres/document_repo"
	"stockroom/internal/infrastructure/storage/postgres/report_repo"
	"stockroom/internal/infrastructure/storage/postgres/warning_repo"
	"stockroom/pkg/logger"
)

// RouterConfig holds everything the router needs to wire the API.
type RouterConfig struct {
	// Pool is the database connection pool (health checks and stats)
	Pool *postgres.Pool

	// TxManager runs repository work in transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Numerator for bill/task number generation
	Numerator numerator.Generator
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

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		// Everything below requires a valid token
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerMaterialRoutes(protected, cfg)
		registerMovementRoutes(protected, cfg)
		registerWarningRoutes(protected, cfg)
		registerStocktakeRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerMaterialRoutes registers the material catalog plus the read-only
// stock query view of the same data.
func registerMaterialRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	repo := catalog_repo.NewMaterialRepo(cfg.TxManager)
	service := material.NewService(repo, cfg.TxManager)
	handler := handlers.NewMaterialHandler(baseHandler, service)

	materials := rg.Group("/materials")
	RegisterCatalogRoutes(materials, handler, "material")
	materials.POST("/:id/status", middleware.RequirePermission(auth.PermMaterialUpdate), handler.SetStatus)

	// Balance-centric listing of the same catalog, for roles that may look
	// at stock levels without managing master data
	stock := rg.Group("/stock")
	stock.Use(middleware.RequireAnyPermission(auth.PermStockQueryView, auth.PermMaterialView))
	stock.GET("", handler.List)
	stock.GET("/summary", handler.StockSummary)
	stock.GET("/:id", handler.Get)
}

// registerMovementRoutes registers inbound and outbound ledger endpoints.
func registerMovementRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	materialRepo := catalog_repo.NewMaterialRepo(cfg.TxManager)

	inRepo := document_repo.NewStockInRepo(cfg.TxManager)
	inService := stock_in.NewService(inRepo, materialRepo, cfg.Numerator, cfg.TxManager)
	inHandler := handlers.NewStockInHandler(baseHandler, inService)
	RegisterMovementRoutes(rg.Group("/stock-ins"), inHandler, "stock_in")

	outRepo := document_repo.NewStockOutRepo(cfg.TxManager)
	outService := stock_out.NewService(outRepo, materialRepo, cfg.Numerator, cfg.TxManager)
	outHandler := handlers.NewStockOutHandler(baseHandler, outService)
	RegisterMovementRoutes(rg.Group("/stock-outs"), outHandler, "stock_out")
}

// registerWarningRoutes registers warning endpoints.
func registerWarningRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	repo := warning_repo.NewWarningRepo(cfg.TxManager)
	materialRepo := catalog_repo.NewMaterialRepo(cfg.TxManager)
	service := warning.NewService(repo, materialRepo, cfg.TxManager)
	handler := handlers.NewWarningHandler(baseHandler, service)

	warnings := rg.Group("/warnings")
	warnings.GET("", middleware.RequirePermission(auth.PermWarningView), handler.List)
	warnings.GET("/statistics", middleware.RequirePermission(auth.PermWarningView), handler.Statistics)
	warnings.POST("/check", middleware.RequirePermission(auth.PermWarningCheck), handler.Check)
}

// registerStocktakeRoutes registers counting task endpoints.
func registerStocktakeRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()
	materialRepo := catalog_repo.NewMaterialRepo(cfg.TxManager)

	// Completion books differences through the regular movement services so
	// adjustment bills look like any other movement
	inService := stock_in.NewService(document_repo.NewStockInRepo(cfg.TxManager), materialRepo, cfg.Numerator, cfg.TxManager)
	outService := stock_out.NewService(document_repo.NewStockOutRepo(cfg.TxManager), materialRepo, cfg.Numerator, cfg.TxManager)

	repo := document_repo.NewStocktakeRepo(cfg.TxManager)
	service := stocktake.NewService(repo, materialRepo, inService, outService, cfg.Numerator, cfg.TxManager)
	handler := handlers.NewStocktakeHandler(baseHandler, service)

	tasks := rg.Group("/stocktakes")
	tasks.GET("", middleware.RequirePermission(auth.PermStocktakeView), handler.List)
	tasks.POST("", middleware.RequirePermission(auth.PermStocktakeCreate), handler.Create)
	tasks.GET("/:id", middleware.RequirePermission(auth.PermStocktakeView), handler.Get)
	tasks.PUT("/:id/items/:itemId", middleware.RequirePermission(auth.PermStocktakeSubmit), handler.SubmitItem)
	tasks.POST("/:id/complete", middleware.RequirePermission(auth.PermStocktakeComplete), handler.Complete)
	tasks.POST("/:id/cancel", middleware.RequirePermission(auth.PermStocktakeCancel), handler.Cancel)
}

// registerReportRoutes registers statistics and report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	repo := report_repo.NewReportRepo(cfg.TxManager)
	service := reports.NewService(repo)
	handler := handlers.NewReportsHandler(baseHandler, service)

	statistics := rg.Group("/statistics")
	statistics.GET("/overview", middleware.RequirePermission(auth.PermStatisticsView), handler.Overview)
	statistics.GET("/trend", middleware.RequirePermission(auth.PermStatisticsView), handler.Trend)
	statistics.GET("/ranking", middleware.RequirePermission(auth.PermStatisticsView), handler.Ranking)
	statistics.GET("/categories", middleware.RequirePermission(auth.PermStatisticsView), handler.Categories)

	monthly := rg.Group("/reports/monthly")
	monthly.GET("", middleware.RequirePermission(auth.PermMonthlyReportView), handler.MonthlyList)
	monthly.GET("/:month", middleware.RequirePermission(auth.PermMonthlyReportView), handler.MonthlyDetail)
}
