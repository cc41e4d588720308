package repository

import (
	"context"

	"github.com/google/uuid"

	"kasir-pos-backend/internal/domain/entity"
)

// ProductRepository is the catalog collaborator: it resolves prices and
// categories for cart lines and owns stock decrements. Product admin CRUD
// lives outside this service.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByIDs retrieves multiple products in a single query.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)

	// AtomicDecrementBatch decrements stock for multiple products, failing the
	// whole batch if any product would go negative. Returns the IDs that had
	// insufficient stock.
	AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error)
}
