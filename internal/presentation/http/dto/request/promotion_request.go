package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePromotionRequest represents a promotion create/replace request
type CreatePromotionRequest struct {
	Name          string          `json:"name" binding:"required,min=2,max=255"`
	Description   *string         `json:"description"`
	Type          string          `json:"type" binding:"required"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	DiscountType  string          `json:"discount_type" binding:"required"`
	MinQuantity   *int            `json:"min_quantity" binding:"omitempty,min=1"`
	BuyQuantity   *int            `json:"buy_quantity" binding:"omitempty,min=1"`
	GetQuantity   *int            `json:"get_quantity" binding:"omitempty,min=1"`
	StartDate     time.Time       `json:"start_date" binding:"required"`
	EndDate       time.Time       `json:"end_date" binding:"required"`
	IsActive      bool            `json:"is_active"`
	ProductIDs    []uuid.UUID     `json:"product_ids"`
	CategoryIDs   []uuid.UUID     `json:"category_ids"`
}

// CalculateDiscountRequest represents a cart discount preview request
type CalculateDiscountRequest struct {
	Items []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CartItemRequest is one cart line in a discount preview
type CartItemRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	CategoryID *uuid.UUID      `json:"category_id"`
	Quantity   int             `json:"quantity" binding:"required,min=1"`
	UnitPrice  decimal.Decimal `json:"unit_price" binding:"required"`
}
