package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kasir-pos-backend/internal/domain/entity"
	domainRepo "kasir-pos-backend/internal/domain/repository"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return dbFrom(ctx, r.db).Create(product).Error
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := dbFrom(ctx, r.db).
		Preload("Category").
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

// AtomicDecrementBatch decrements stock for multiple products using
// UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?
// per product. Any product whose guard fails is reported and the whole
// batch rolls back.
func (r *productRepository) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	if len(decrements) == 0 {
		return nil, nil
	}

	var failedIDs []uuid.UUID
	err := dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		for id, amount := range decrements {
			result := tx.Model(&entity.Product{}).
				Where("id = ? AND stock >= ?", id, amount).
				Update("stock", gorm.Expr("stock - ?", amount))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, id)
			}
		}
		if len(failedIDs) > 0 {
			// Roll back the partial decrements; the caller gets the IDs.
			return errInsufficientStock
		}
		return nil
	})
	if errors.Is(err, errInsufficientStock) {
		return failedIDs, nil
	}
	return nil, err
}

var errInsufficientStock = errors.New("insufficient stock")
