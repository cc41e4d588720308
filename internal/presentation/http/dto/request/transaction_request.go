package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutRequest represents a checkout commit request
type CheckoutRequest struct {
	UserID        *uuid.UUID            `json:"user_id"` // cashier
	MemberID      *uuid.UUID            `json:"member_id"`
	VoucherCode   string                `json:"voucher_code"`
	PointsUsed    int                   `json:"points_used" binding:"min=0"`
	PaymentMethod string                `json:"payment_method" binding:"required,oneof=CASH CARD QRIS TRANSFER"`
	AmountPaid    decimal.Decimal       `json:"amount_paid" binding:"required"`
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CheckoutItemRequest is one requested line. Unit prices come from the
// catalog, so only the product and quantity are accepted.
type CheckoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}
