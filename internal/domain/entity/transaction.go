package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kasir-pos-backend/internal/domain/enum"
)

// Transaction is the persisted checkout record. Discount figures are part of
// the snapshot and are never recomputed later: voucher and promotion
// definitions may change after the sale.
type Transaction struct {
	ID                uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo         string             `gorm:"size:100;unique;not null" json:"invoice_no"`
	UserID            *uuid.UUID         `gorm:"type:uuid;index" json:"user_id,omitempty"` // cashier
	MemberID          *uuid.UUID         `gorm:"type:uuid;index" json:"member_id,omitempty"`
	VoucherID         *uuid.UUID         `gorm:"type:uuid;index" json:"voucher_id,omitempty"`
	SubTotal          decimal.Decimal    `gorm:"type:numeric(18,2);not null" json:"sub_total"`
	Tax               decimal.Decimal    `gorm:"type:numeric(18,2);not null" json:"tax"`
	VoucherDiscount   decimal.Decimal    `gorm:"type:numeric(18,2);default:0" json:"voucher_discount"`
	PromotionDiscount decimal.Decimal    `gorm:"type:numeric(18,2);default:0" json:"promotion_discount"`
	PointsUsed        int                `gorm:"default:0" json:"points_used"`
	PointsEarned      int                `gorm:"default:0" json:"points_earned"`
	Total             decimal.Decimal    `gorm:"type:numeric(18,2);not null" json:"total"`
	PaymentMethod     enum.PaymentMethod `gorm:"size:50" json:"payment_method"`
	AmountPaid        decimal.Decimal    `gorm:"type:numeric(18,2);default:0" json:"amount_paid"`
	ChangeAmount      decimal.Decimal    `gorm:"type:numeric(18,2);default:0" json:"change_amount"`
	// Itemized applied-promotion breakdown, serialized as JSON for audit/reprint.
	DiscountDetail string         `gorm:"type:jsonb" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Member  *Member           `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Voucher *Voucher          `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
	Items   []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionItem is one cart line frozen at commit time
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid" json:"category_id,omitempty"`
	ProductName   string          `gorm:"size:255;not null" json:"product_name"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"unit_price"`
	Total         decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total"`
	CreatedAt     time.Time       `json:"created_at"`

	// Relationships
	Transaction Transaction `gorm:"foreignKey:TransactionID" json:"-"`
	Product     Product     `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new transaction item
func (ti *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if ti.ID == uuid.Nil {
		ti.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}
