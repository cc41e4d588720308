package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kasir-pos-backend/internal/domain/entity"
	"kasir-pos-backend/pkg/pagination"
)

// MemberRepository defines the interface for loyalty member operations.
// Point redemption is a conditional update so concurrent checkouts cannot
// drive a balance negative.
type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error)
	GetByCode(ctx context.Context, code string) (*entity.Member, error)
	Update(ctx context.Context, member *entity.Member) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *MemberFilterParams) ([]entity.Member, int64, error)

	// AtomicRedeemPoints subtracts points iff the member holds at least that
	// many. Returns false when the balance was insufficient.
	AtomicRedeemPoints(ctx context.Context, id uuid.UUID, points int) (bool, error)

	// AddPoints credits earned points to the member's balance.
	AddPoints(ctx context.Context, id uuid.UUID, points int) error

	// AddTotalSpent adds a completed transaction total to the member's lifetime spend.
	AddTotalSpent(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	CreatePointEntry(ctx context.Context, entry *entity.MemberPointEntry) error
	ListPointEntries(ctx context.Context, memberID uuid.UUID, params *pagination.PaginationParams) ([]entity.MemberPointEntry, int64, error)
}

// MemberFilterParams contains filtering parameters for member queries
type MemberFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
}
