package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kasir-pos-backend/internal/domain/enum"
)

// Promotion represents an automatically-applied, rule-based discount
// triggered by cart contents.
type Promotion struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Name          string             `gorm:"size:255;not null" json:"name"`
	Description   *string            `gorm:"type:text" json:"description,omitempty"`
	Type          enum.PromotionType `gorm:"size:30;not null" json:"type"`
	DiscountValue decimal.Decimal    `gorm:"type:numeric(15,2);not null" json:"discount_value"`
	DiscountType  enum.DiscountType  `gorm:"size:20;not null;default:'PERCENTAGE'" json:"discount_type"`
	MinQuantity   *int               `json:"min_quantity,omitempty"` // BULK_DISCOUNT
	BuyQuantity   *int               `json:"buy_quantity,omitempty"` // BUY_X_GET_Y
	GetQuantity   *int               `json:"get_quantity,omitempty"` // BUY_X_GET_Y
	StartDate     time.Time          `gorm:"not null" json:"start_date"`
	EndDate       time.Time          `gorm:"not null" json:"end_date"` // inclusive
	IsActive      bool               `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Eligibility sets, replaced wholesale on update
	Products   []PromotionProduct  `gorm:"foreignKey:PromotionID" json:"products,omitempty"`
	Categories []PromotionCategory `gorm:"foreignKey:PromotionID" json:"categories,omitempty"`
}

// BeforeCreate generates a UUID before creating a new promotion
func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Promotion model
func (Promotion) TableName() string {
	return "promotions"
}

// InWindow reports whether now falls inside the promotion's validity window,
// boundaries included.
func (p *Promotion) InWindow(now time.Time) bool {
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// PromotionProduct targets a promotion at a single product
type PromotionProduct struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PromotionID uuid.UUID `gorm:"type:uuid;not null;index" json:"promotion_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new promotion product
func (pp *PromotionProduct) BeforeCreate(tx *gorm.DB) error {
	if pp.ID == uuid.Nil {
		pp.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PromotionProduct model
func (PromotionProduct) TableName() string {
	return "promotion_products"
}

// PromotionCategory targets a promotion at a whole category
type PromotionCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PromotionID uuid.UUID `gorm:"type:uuid;not null;index" json:"promotion_id"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`

	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new promotion category
func (pc *PromotionCategory) BeforeCreate(tx *gorm.DB) error {
	if pc.ID == uuid.Nil {
		pc.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PromotionCategory model
func (PromotionCategory) TableName() string {
	return "promotion_categories"
}
