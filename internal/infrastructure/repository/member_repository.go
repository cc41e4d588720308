package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kasir-pos-backend/internal/domain/entity"
	domainRepo "kasir-pos-backend/internal/domain/repository"
	"kasir-pos-backend/pkg/pagination"
)

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) domainRepo.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	return dbFrom(ctx, r.db).Create(member).Error
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	var member entity.Member
	err := dbFrom(ctx, r.db).First(&member, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) GetByCode(ctx context.Context, code string) (*entity.Member, error) {
	var member entity.Member
	err := dbFrom(ctx, r.db).First(&member, "UPPER(code) = ?", strings.ToUpper(code)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) Update(ctx context.Context, member *entity.Member) error {
	return dbFrom(ctx, r.db).Save(member).Error
}

func (r *memberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Member{}, "id = ?", id).Error
}

func (r *memberRepository) List(ctx context.Context, params *domainRepo.MemberFilterParams) ([]entity.Member, int64, error) {
	var members []entity.Member
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Member{})

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ? OR phone ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&members).Error

	return members, total, err
}

// AtomicRedeemPoints subtracts points only while the balance covers them:
// UPDATE members SET points = points - ? WHERE id = ? AND points >= ?
func (r *memberRepository) AtomicRedeemPoints(ctx context.Context, id uuid.UUID, points int) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&entity.Member{}).
		Where("id = ? AND points >= ?", id, points).
		Update("points", gorm.Expr("points - ?", points))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *memberRepository) AddPoints(ctx context.Context, id uuid.UUID, points int) error {
	return dbFrom(ctx, r.db).Model(&entity.Member{}).
		Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", points)).Error
}

func (r *memberRepository) AddTotalSpent(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return dbFrom(ctx, r.db).Model(&entity.Member{}).
		Where("id = ?", id).
		Update("total_spent", gorm.Expr("total_spent + ?", amount)).Error
}

func (r *memberRepository) CreatePointEntry(ctx context.Context, entry *entity.MemberPointEntry) error {
	return dbFrom(ctx, r.db).Create(entry).Error
}

func (r *memberRepository) ListPointEntries(ctx context.Context, memberID uuid.UUID, params *pagination.PaginationParams) ([]entity.MemberPointEntry, int64, error) {
	var entries []entity.MemberPointEntry
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.MemberPointEntry{}).
		Where("member_id = ?", memberID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&entries).Error

	return entries, total, err
}
