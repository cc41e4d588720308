package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"kasir-pos-backend/internal/config"
	domainRepo "kasir-pos-backend/internal/domain/repository"
	"kasir-pos-backend/internal/presentation/http/handler"
	"kasir-pos-backend/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Voucher     *handler.VoucherHandler
	Promotion   *handler.PromotionHandler
	Transaction *handler.TransactionHandler
	Member      *handler.MemberHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Per-client rate limiter
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		v1.Use(rateLimiter.Middleware())

		registerVoucherRoutes(v1, h)
		registerPromotionRoutes(v1, h)
		registerTransactionRoutes(v1, h, deps)
		registerMemberRoutes(v1, h)
	}

	return router
}

func registerVoucherRoutes(v1 *gin.RouterGroup, h *Handlers) {
	vouchers := v1.Group("/vouchers")
	{
		vouchers.GET("", h.Voucher.List)
		vouchers.POST("", h.Voucher.Create)
		// Validation is read-only and never consumes a usage slot
		vouchers.POST("/validate", h.Voucher.Validate)
		vouchers.GET("/:id", h.Voucher.Get)
		vouchers.PUT("/:id", h.Voucher.Update)
		vouchers.DELETE("/:id", h.Voucher.Delete)
	}
}

func registerPromotionRoutes(v1 *gin.RouterGroup, h *Handlers) {
	promotions := v1.Group("/promotions")
	{
		promotions.GET("", h.Promotion.List)
		promotions.POST("", h.Promotion.Create)
		// Display-path preview; checkout recomputes authoritatively
		promotions.POST("/calculate", h.Promotion.Calculate)
		promotions.GET("/:id", h.Promotion.Get)
		promotions.PUT("/:id", h.Promotion.Update)
		promotions.DELETE("/:id", h.Promotion.Delete)
	}
}

func registerTransactionRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	transactions := v1.Group("/transactions")
	{
		transactions.GET("", h.Transaction.List)
		// Checkout commit uses idempotency middleware to prevent duplicates
		transactions.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Transaction.Create)
		transactions.GET("/:id", h.Transaction.Get)
		// Receipt reprint looks transactions up by the printed invoice number
		transactions.GET("/invoice/:invoiceNo", h.Transaction.GetByInvoice)
	}
}

func registerMemberRoutes(v1 *gin.RouterGroup, h *Handlers) {
	members := v1.Group("/members")
	{
		members.GET("", h.Member.List)
		members.POST("", h.Member.Create)
		members.GET("/:id", h.Member.Get)
		members.GET("/:id/points", h.Member.PointHistory)
		members.PUT("/:id", h.Member.Update)
		members.DELETE("/:id", h.Member.Delete)
	}
}
