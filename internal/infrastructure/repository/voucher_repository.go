package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kasir-pos-backend/internal/domain/entity"
	domainRepo "kasir-pos-backend/internal/domain/repository"
)

type voucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a new voucher repository
func NewVoucherRepository(db *gorm.DB) domainRepo.VoucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) Create(ctx context.Context, voucher *entity.Voucher) error {
	return dbFrom(ctx, r.db).Create(voucher).Error
}

func (r *voucherRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	var voucher entity.Voucher
	err := dbFrom(ctx, r.db).First(&voucher, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) GetByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	var voucher entity.Voucher
	err := dbFrom(ctx, r.db).First(&voucher, "UPPER(code) = ?", strings.ToUpper(code)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) Update(ctx context.Context, voucher *entity.Voucher) error {
	return dbFrom(ctx, r.db).Save(voucher).Error
}

func (r *voucherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Voucher{}, "id = ?", id).Error
}

func (r *voucherRepository) List(ctx context.Context, params *domainRepo.VoucherFilterParams) ([]entity.Voucher, int64, error) {
	var vouchers []entity.Voucher
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Voucher{})

	if params.Search != "" {
		query = query.Where("code ILIKE ? OR name ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}
	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&vouchers).Error

	return vouchers, total, err
}

// IncrementUsage performs the conditional update
// UPDATE vouchers SET usage_count = usage_count + 1
// WHERE id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)
// so the usage-limit invariant holds under concurrent redemptions.
func (r *voucherRepository) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&entity.Voucher{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", id).
		Update("usage_count", gorm.Expr("usage_count + 1"))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *voucherRepository) CountMemberRedemptions(ctx context.Context, voucherID, memberID uuid.UUID) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.VoucherUsage{}).
		Where("voucher_id = ? AND member_id = ?", voucherID, memberID).
		Count(&count).Error
	return count, err
}

func (r *voucherRepository) CreateUsage(ctx context.Context, usage *entity.VoucherUsage) error {
	return dbFrom(ctx, r.db).Create(usage).Error
}
