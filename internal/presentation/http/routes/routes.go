package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/kitchen-inventory-api/internal/config"
	domainRepo "github.com/sangkips/kitchen-inventory-api/internal/domain/repository"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/handler"
	"github.com/sangkips/kitchen-inventory-api/internal/presentation/http/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	StockItem       *handler.StockItemHandler
	GRV             *handler.GRVHandler
	StockIssue      *handler.StockIssueHandler
	Recipe          *handler.RecipeHandler
	BatchProduction *handler.BatchProductionHandler
	StockTake       *handler.StockTakeHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Logger          *logrus.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Per-client rate limiter
		rateLimiter := middleware.NewClientRateLimiter(rateLimiterConfig(deps.Cfg.RateLimit))
		v1.Use(rateLimiter.Middleware())

		registerStockItemRoutes(v1, h)
		registerGRVRoutes(v1, h, deps)
		registerStockIssueRoutes(v1, h, deps)
		registerRecipeRoutes(v1, h)
		registerOrderRoutes(v1, h, deps)
		registerBatchProductionRoutes(v1, h, deps)
		registerStockTakeRoutes(v1, h, deps)
	}

	return router
}

func rateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	rl.CleanupInterval = 5 * time.Minute
	rl.EntryTTL = 10 * time.Minute
	return rl
}

func idempotencyConfig(deps *Deps) middleware.IdempotencyConfig {
	return middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo, Logger: deps.Logger}
}

func registerStockItemRoutes(rg *gin.RouterGroup, h *Handlers) {
	items := rg.Group("/stock-items")
	{
		items.GET("", h.StockItem.List)
		items.POST("", h.StockItem.Create)
		items.GET("/low-stock", h.StockItem.LowStock)
		items.GET("/:id", h.StockItem.Get)
		items.PUT("/:id", h.StockItem.Update)
		items.DELETE("/:id", h.StockItem.Delete)
		items.GET("/:id/cost-tiers", h.StockItem.CostTiers)
	}
}

func registerGRVRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	grvs := rg.Group("/grvs")
	grvs.Use(middleware.Idempotency(idempotencyConfig(deps)))
	{
		grvs.GET("", h.GRV.List)
		grvs.POST("", h.GRV.Create)
		grvs.GET("/:id", h.GRV.Get)
		grvs.PUT("/:id", h.GRV.Update)
		grvs.DELETE("/:id", h.GRV.Delete)
		grvs.POST("/:id/confirm", h.GRV.Confirm)
		grvs.POST("/:id/cancel", h.GRV.Cancel)
	}
}

func registerStockIssueRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	issues := rg.Group("/stock-issues")
	issues.Use(middleware.Idempotency(idempotencyConfig(deps)))
	{
		issues.GET("", h.StockIssue.List)
		issues.POST("", h.StockIssue.Create)
		issues.GET("/:issueNo", h.StockIssue.Get)
	}
}

func registerRecipeRoutes(rg *gin.RouterGroup, h *Handlers) {
	recipes := rg.Group("/recipes")
	{
		recipes.GET("", h.Recipe.List)
		recipes.POST("", h.Recipe.Create)
		recipes.GET("/:code", h.Recipe.Get)
		recipes.PUT("/:code", h.Recipe.Update)
		recipes.DELETE("/:code", h.Recipe.Delete)
		recipes.GET("/:code/explode", h.Recipe.Explode)
		recipes.GET("/:code/max-producible", h.Recipe.MaxProducible)
	}
}

func registerOrderRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := rg.Group("/orders")
	{
		// A retried sale must never deduct twice
		orders.POST("/consume", middleware.IdempotencyRequired(idempotencyConfig(deps)), h.Recipe.ConsumeOrder)
	}
}

func registerBatchProductionRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	batches := rg.Group("/batch-productions")
	batches.Use(middleware.Idempotency(idempotencyConfig(deps)))
	{
		batches.GET("", h.BatchProduction.List)
		batches.POST("", h.BatchProduction.Create)
		batches.GET("/:id", h.BatchProduction.Get)
		batches.DELETE("/:id", h.BatchProduction.Delete)
	}
}

func registerStockTakeRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	takes := rg.Group("/stock-takes")
	takes.Use(middleware.Idempotency(idempotencyConfig(deps)))
	{
		takes.GET("", h.StockTake.List)
		takes.POST("", h.StockTake.Create)
		takes.GET("/latest", h.StockTake.Latest)
		takes.GET("/:id", h.StockTake.Get)
	}
}
