package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kasir-pos-backend/internal/domain/entity"
	"kasir-pos-backend/pkg/pagination"
)

// PromotionRepository defines the interface for promotion data operations
type PromotionRepository interface {
	Create(ctx context.Context, promotion *entity.Promotion) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error)
	// Update persists the promotion and replaces both eligibility sets
	// wholesale (delete-then-recreate, not diffed) in one transaction.
	Update(ctx context.Context, promotion *entity.Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *PromotionFilterParams) ([]entity.Promotion, int64, error)

	// ListActive returns promotions that are active and whose validity window
	// contains now, most recently created first, with eligibility sets loaded.
	ListActive(ctx context.Context, now time.Time) ([]entity.Promotion, error)
}

// PromotionFilterParams contains filtering parameters for promotion queries
type PromotionFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	IsActive   *bool
}
