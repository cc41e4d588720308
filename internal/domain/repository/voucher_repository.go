package repository

import (
	"context"

	"github.com/google/uuid"

	"kasir-pos-backend/internal/domain/entity"
	"kasir-pos-backend/pkg/pagination"
)

// VoucherRepository defines the interface for voucher data operations.
// Counter mutation is exposed only as a conditional increment so the
// usage-limit invariant cannot be raced at the application layer.
type VoucherRepository interface {
	Create(ctx context.Context, voucher *entity.Voucher) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error)
	// GetByCode matches case-insensitively against the stored (upper-case) code.
	GetByCode(ctx context.Context, code string) (*entity.Voucher, error)
	Update(ctx context.Context, voucher *entity.Voucher) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *VoucherFilterParams) ([]entity.Voucher, int64, error)

	// IncrementUsage adds 1 to usage_count iff the voucher is below its usage
	// limit (or has none). Returns false when the increment was rejected,
	// meaning a concurrent redemption took the last slot.
	IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)

	// CountMemberRedemptions counts completed redemptions of a voucher by one member.
	CountMemberRedemptions(ctx context.Context, voucherID, memberID uuid.UUID) (int64, error)

	CreateUsage(ctx context.Context, usage *entity.VoucherUsage) error
}

// VoucherFilterParams contains filtering parameters for voucher queries
type VoucherFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	IsActive   *bool
}
