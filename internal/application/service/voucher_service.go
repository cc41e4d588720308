package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kasir-pos-backend/internal/domain/entity"
	"kasir-pos-backend/internal/domain/enum"
	"kasir-pos-backend/internal/domain/repository"
	"kasir-pos-backend/pkg/apperror"
	"kasir-pos-backend/pkg/money"
	"kasir-pos-backend/pkg/pagination"
)

// VoucherService validates voucher codes against a cart subtotal and manages
// voucher definitions. Evaluation never mutates usage counters: the increment
// happens once, at checkout commit, so a cashier can re-check a code any
// number of times before finalizing payment.
type VoucherService struct {
	voucherRepo repository.VoucherRepository
	now         func() time.Time
}

// NewVoucherService creates a new voucher service
func NewVoucherService(voucherRepo repository.VoucherRepository) *VoucherService {
	return &VoucherService{
		voucherRepo: voucherRepo,
		now:         time.Now,
	}
}

// UsageContext identifies who is redeeming. Per-user limiting applies only
// when a member is present: guest checkouts are exempt.
type UsageContext struct {
	UserID   *uuid.UUID
	MemberID *uuid.UUID
}

// VoucherEvaluation is the outcome of validating one voucher code
type VoucherEvaluation struct {
	Valid          bool             `json:"valid"`
	Voucher        *entity.Voucher  `json:"voucher,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"`
	Reason         apperror.Reason  `json:"reason,omitempty"`
	Message        string           `json:"message,omitempty"`
}

func rejected(reason apperror.Reason, message string) *VoucherEvaluation {
	return &VoucherEvaluation{Valid: false, Reason: reason, Message: message}
}

// Evaluate validates a voucher code against a subtotal and usage context.
// Checks short-circuit in a fixed order so rejection messages are
// deterministic. Returns a non-nil evaluation unless the store itself failed.
func (s *VoucherService) Evaluate(ctx context.Context, code string, subtotal decimal.Decimal, usage UsageContext) (*VoucherEvaluation, error) {
	voucher, err := s.voucherRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return rejected(apperror.ReasonVoucherNotFound, "Voucher not found"), nil
	}

	if !voucher.IsActive {
		return rejected(apperror.ReasonVoucherInactive, "Voucher is not active"), nil
	}

	if !voucher.InWindow(s.now().UTC()) {
		return rejected(apperror.ReasonVoucherExpired, "Voucher is expired or not yet started"), nil
	}

	if voucher.MinPurchase != nil && subtotal.LessThan(*voucher.MinPurchase) {
		return rejected(apperror.ReasonBelowMinPurchase,
			fmt.Sprintf("Minimum purchase of %s required", voucher.MinPurchase.StringFixed(0))), nil
	}

	if voucher.UsageLimit != nil && voucher.UsageCount >= *voucher.UsageLimit {
		return rejected(apperror.ReasonUsageLimitExceeded, "Voucher usage limit exceeded"), nil
	}

	if usage.MemberID != nil && voucher.PerUserLimit != nil {
		used, err := s.voucherRepo.CountMemberRedemptions(ctx, voucher.ID, *usage.MemberID)
		if err != nil {
			return nil, err
		}
		if used >= int64(*voucher.PerUserLimit) {
			return rejected(apperror.ReasonPerUserLimitExceeded,
				fmt.Sprintf("Voucher already used %d of %d times by this member", used, *voucher.PerUserLimit)), nil
		}
	}

	discount := voucherDiscount(voucher, subtotal)
	return &VoucherEvaluation{
		Valid:          true,
		Voucher:        voucher,
		DiscountAmount: &discount,
	}, nil
}

// voucherDiscount computes the discount for a voucher that passed all checks,
// rounded to 2 places.
func voucherDiscount(v *entity.Voucher, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch v.Type {
	case enum.VoucherTypePercentage:
		discount = money.Percent(subtotal, v.Value)
		if v.MaxDiscount != nil && discount.GreaterThan(*v.MaxDiscount) {
			discount = *v.MaxDiscount
		}
	case enum.VoucherTypeFixedAmount:
		// A fixed voucher never discounts more than the subtotal.
		discount = money.Min(v.Value, subtotal)
	case enum.VoucherTypeFreeShipping:
		// Flat amount standing in for a shipping cost; there is no real
		// shipping leg at the register.
		discount = v.Value
	}
	return money.Round(discount)
}

// CreateVoucherInput represents the create voucher input
type CreateVoucherInput struct {
	Code         string
	Name         string
	Type         enum.VoucherType
	Value        decimal.Decimal
	MinPurchase  *decimal.Decimal
	MaxDiscount  *decimal.Decimal
	UsageLimit   *int
	PerUserLimit *int
	StartDate    time.Time
	EndDate      time.Time
	IsActive     bool
}

// CreateVoucher creates a new voucher definition
func (s *VoucherService) CreateVoucher(ctx context.Context, input *CreateVoucherInput) (*entity.Voucher, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, apperror.NewBadRequestError("Voucher code is required")
	}
	if !input.Type.Valid() {
		return nil, apperror.NewBadRequestError("Invalid voucher type")
	}
	if input.Value.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.NewBadRequestError("Voucher value must be greater than 0")
	}
	if input.Type == enum.VoucherTypePercentage && input.Value.GreaterThan(money.Hundred) {
		return nil, apperror.NewBadRequestError("Percentage value cannot exceed 100")
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, apperror.NewBadRequestError("End date must not be before start date")
	}

	existing, err := s.voucherRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError(fmt.Sprintf("Voucher code %s already exists", code))
	}

	voucher := &entity.Voucher{
		Code:         code,
		Name:         input.Name,
		Type:         input.Type,
		Value:        input.Value,
		MinPurchase:  input.MinPurchase,
		MaxDiscount:  input.MaxDiscount,
		UsageLimit:   input.UsageLimit,
		PerUserLimit: input.PerUserLimit,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		IsActive:     input.IsActive,
	}

	if err := s.voucherRepo.Create(ctx, voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

// UpdateVoucherInput represents the update voucher input; nil fields are left unchanged
type UpdateVoucherInput struct {
	Name         *string
	Value        *decimal.Decimal
	MinPurchase  *decimal.Decimal
	MaxDiscount  *decimal.Decimal
	UsageLimit   *int
	PerUserLimit *int
	StartDate    *time.Time
	EndDate      *time.Time
	IsActive     *bool
}

// UpdateVoucher updates an existing voucher definition
func (s *VoucherService) UpdateVoucher(ctx context.Context, id uuid.UUID, input *UpdateVoucherInput) (*entity.Voucher, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Voucher")
	}

	if input.Name != nil {
		voucher.Name = *input.Name
	}
	if input.Value != nil {
		if input.Value.LessThanOrEqual(decimal.Zero) {
			return nil, apperror.NewBadRequestError("Voucher value must be greater than 0")
		}
		if voucher.Type == enum.VoucherTypePercentage && input.Value.GreaterThan(money.Hundred) {
			return nil, apperror.NewBadRequestError("Percentage value cannot exceed 100")
		}
		voucher.Value = *input.Value
	}
	if input.MinPurchase != nil {
		voucher.MinPurchase = input.MinPurchase
	}
	if input.MaxDiscount != nil {
		voucher.MaxDiscount = input.MaxDiscount
	}
	if input.UsageLimit != nil {
		voucher.UsageLimit = input.UsageLimit
	}
	if input.PerUserLimit != nil {
		voucher.PerUserLimit = input.PerUserLimit
	}
	if input.StartDate != nil {
		voucher.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		voucher.EndDate = *input.EndDate
	}
	if voucher.EndDate.Before(voucher.StartDate) {
		return nil, apperror.NewBadRequestError("End date must not be before start date")
	}
	if input.IsActive != nil {
		voucher.IsActive = *input.IsActive
	}

	if err := s.voucherRepo.Update(ctx, voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

// GetVoucher retrieves a voucher by ID
func (s *VoucherService) GetVoucher(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperror.NewNotFoundError("Voucher")
	}
	return voucher, nil
}

// DeleteVoucher removes a voucher definition
func (s *VoucherService) DeleteVoucher(ctx context.Context, id uuid.UUID) error {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if voucher == nil {
		return apperror.NewNotFoundError("Voucher")
	}
	return s.voucherRepo.Delete(ctx, id)
}

// ListVouchers lists vouchers with filtering
func (s *VoucherService) ListVouchers(ctx context.Context, params *repository.VoucherFilterParams) (*pagination.PaginatedResult[entity.Voucher], error) {
	vouchers, total, err := s.voucherRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(vouchers, pag), nil
}
