package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"kasir-pos-backend/internal/application/service"
	"kasir-pos-backend/internal/config"
	"kasir-pos-backend/internal/infrastructure/cache"
	"kasir-pos-backend/internal/infrastructure/database"
	"kasir-pos-backend/internal/infrastructure/repository"
	"kasir-pos-backend/internal/presentation/http/handler"
	"kasir-pos-backend/internal/presentation/http/routes"
	"kasir-pos-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	logger.Init(cfg.App.Env, cfg.App.LogLevel)

	// Money fields serialize as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	voucherRepo := repository.NewVoucherRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	productRepo := repository.NewProductRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Periodic sweep of expired idempotency keys
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("Failed to purge expired idempotency keys")
			}
		}
	}()

	// Display-path promotion snapshot cache
	promotionCache := cache.NewPromotionCache(cfg.Checkout.PromotionCacheTTL)

	// Initialize services
	voucherService := service.NewVoucherService(voucherRepo)
	promotionService := service.NewPromotionService(promotionRepo, promotionCache)
	memberService := service.NewMemberService(memberRepo)
	checkoutService := service.NewCheckoutService(
		txManager,
		voucherService,
		promotionService,
		voucherRepo,
		productRepo,
		memberRepo,
		transactionRepo,
		cfg.Checkout.TaxRate,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Voucher:     handler.NewVoucherHandler(voucherService),
		Promotion:   handler.NewPromotionHandler(promotionService),
		Transaction: handler.NewTransactionHandler(checkoutService),
		Member:      handler.NewMemberHandler(memberService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logger.Info().
		Str("service", cfg.App.Name).
		Str("env", cfg.App.Env).
		Str("port", port).
		Msg("Starting server")

	if err := router.Run(":" + port); err != nil {
		logger.Error().Err(err).Msg("Failed to start server")
		os.Exit(1)
	}
}
