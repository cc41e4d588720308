package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateVoucherRequest represents a voucher creation request
type CreateVoucherRequest struct {
	Code         string           `json:"code" binding:"required,min=1,max=50"`
	Name         string           `json:"name" binding:"required,min=2,max=255"`
	Type         string           `json:"type" binding:"required"`
	Value        decimal.Decimal  `json:"value" binding:"required"`
	MinPurchase  *decimal.Decimal `json:"min_purchase"`
	MaxDiscount  *decimal.Decimal `json:"max_discount"`
	UsageLimit   *int             `json:"usage_limit" binding:"omitempty,min=1"`
	PerUserLimit *int             `json:"per_user_limit" binding:"omitempty,min=1"`
	StartDate    time.Time        `json:"start_date" binding:"required"`
	EndDate      time.Time        `json:"end_date" binding:"required"`
	IsActive     bool             `json:"is_active"`
}

// UpdateVoucherRequest represents a voucher update request; omitted fields are unchanged
type UpdateVoucherRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Value        *decimal.Decimal `json:"value"`
	MinPurchase  *decimal.Decimal `json:"min_purchase"`
	MaxDiscount  *decimal.Decimal `json:"max_discount"`
	UsageLimit   *int             `json:"usage_limit" binding:"omitempty,min=1"`
	PerUserLimit *int             `json:"per_user_limit" binding:"omitempty,min=1"`
	StartDate    *time.Time       `json:"start_date"`
	EndDate      *time.Time       `json:"end_date"`
	IsActive     *bool            `json:"is_active"`
}

// ValidateVoucherRequest represents a voucher validation request
type ValidateVoucherRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal" binding:"required"`
	UserID   *uuid.UUID      `json:"user_id"` // cashier
	MemberID *uuid.UUID      `json:"member_id"`
}
