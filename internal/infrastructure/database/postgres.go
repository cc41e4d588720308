package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"kasir-pos-backend/internal/config"
	"kasir-pos-backend/internal/domain/entity"
	"kasir-pos-backend/pkg/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	logger.Info().Msg("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	logger.Info().Msg("Running database migrations...")

	err := db.AutoMigrate(
		// Catalog collaborator
		&entity.Category{},
		&entity.Product{},

		// Discount engine
		&entity.Voucher{},
		&entity.VoucherUsage{},
		&entity.Promotion{},
		&entity.PromotionProduct{},
		&entity.PromotionCategory{},

		// Loyalty
		&entity.Member{},
		&entity.MemberPointEntry{},

		// Checkout
		&entity.Transaction{},
		&entity.TransactionItem{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("Database migrations completed")
	return nil
}
