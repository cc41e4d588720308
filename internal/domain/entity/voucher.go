package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kasir-pos-backend/internal/domain/enum"
)

// Voucher represents a code-redeemable discount with usage caps
type Voucher struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Code         string           `gorm:"size:100;unique;not null" json:"code"` // stored upper-case
	Name         string           `gorm:"size:255;not null" json:"name"`
	Type         enum.VoucherType `gorm:"size:30;not null" json:"type"`
	Value        decimal.Decimal  `gorm:"type:numeric(15,2);not null" json:"value"`
	MinPurchase  *decimal.Decimal `gorm:"type:numeric(15,2)" json:"min_purchase,omitempty"`
	MaxDiscount  *decimal.Decimal `gorm:"type:numeric(15,2)" json:"max_discount,omitempty"` // caps PERCENTAGE only
	UsageLimit   *int             `json:"usage_limit,omitempty"`
	UsageCount   int              `gorm:"default:0" json:"usage_count"` // monotonic, never decremented
	PerUserLimit *int             `json:"per_user_limit,omitempty"`
	StartDate    time.Time        `gorm:"not null" json:"start_date"`
	EndDate      time.Time        `gorm:"not null" json:"end_date"` // inclusive
	IsActive     bool             `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Usages []VoucherUsage `gorm:"foreignKey:VoucherID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new voucher
func (v *Voucher) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Voucher model
func (Voucher) TableName() string {
	return "vouchers"
}

// InWindow reports whether now falls inside the voucher's validity window,
// boundaries included.
func (v *Voucher) InWindow(now time.Time) bool {
	return !now.Before(v.StartDate) && !now.After(v.EndDate)
}

// VoucherUsage records one redemption of a voucher by a transaction.
// MemberID is nil for guest checkouts; UserID is the cashier who committed.
type VoucherUsage struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	VoucherID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"voucher_id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	MemberID      *uuid.UUID      `gorm:"type:uuid;index" json:"member_id,omitempty"`
	UserID        *uuid.UUID      `gorm:"type:uuid" json:"user_id,omitempty"`
	Discount      decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"discount"`
	CreatedAt     time.Time       `json:"created_at"`

	// Relationships
	Voucher Voucher `gorm:"foreignKey:VoucherID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new voucher usage
func (u *VoucherUsage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the VoucherUsage model
func (VoucherUsage) TableName() string {
	return "voucher_usages"
}
