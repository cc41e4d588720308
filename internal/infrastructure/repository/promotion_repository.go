package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kasir-pos-backend/internal/domain/entity"
	domainRepo "kasir-pos-backend/internal/domain/repository"
)

type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository creates a new promotion repository
func NewPromotionRepository(db *gorm.DB) domainRepo.PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) Create(ctx context.Context, promotion *entity.Promotion) error {
	return dbFrom(ctx, r.db).Create(promotion).Error
}

func (r *promotionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error) {
	var promotion entity.Promotion
	err := dbFrom(ctx, r.db).
		Preload("Products").Preload("Categories").
		First(&promotion, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

// Update replaces the promotion row and both eligibility sets wholesale:
// existing targets are deleted and the new sets recreated in one transaction.
func (r *promotionRepository) Update(ctx context.Context, promotion *entity.Promotion) error {
	return dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.PromotionProduct{}, "promotion_id = ?", promotion.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.PromotionCategory{}, "promotion_id = ?", promotion.ID).Error; err != nil {
			return err
		}

		for i := range promotion.Products {
			promotion.Products[i].ID = uuid.Nil
			promotion.Products[i].PromotionID = promotion.ID
		}
		for i := range promotion.Categories {
			promotion.Categories[i].ID = uuid.Nil
			promotion.Categories[i].PromotionID = promotion.ID
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(promotion).Error
	})
}

func (r *promotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.PromotionProduct{}, "promotion_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.PromotionCategory{}, "promotion_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Promotion{}, "id = ?", id).Error
	})
}

func (r *promotionRepository) List(ctx context.Context, params *domainRepo.PromotionFilterParams) ([]entity.Promotion, int64, error) {
	var promotions []entity.Promotion
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Promotion{})

	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}
	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Products").Preload("Categories").
		Order("created_at DESC").
		Find(&promotions).Error

	return promotions, total, err
}

func (r *promotionRepository) ListActive(ctx context.Context, now time.Time) ([]entity.Promotion, error) {
	var promotions []entity.Promotion
	err := dbFrom(ctx, r.db).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Preload("Products").Preload("Categories").
		Order("created_at DESC").
		Find(&promotions).Error
	return promotions, err
}
