package enum

// PromotionType represents the trigger rule of a promotion
type PromotionType string

const (
	PromotionTypeProductDiscount  PromotionType = "PRODUCT_DISCOUNT"
	PromotionTypeCategoryDiscount PromotionType = "CATEGORY_DISCOUNT"
	PromotionTypeBulkDiscount     PromotionType = "BULK_DISCOUNT"
	PromotionTypeBuyXGetY         PromotionType = "BUY_X_GET_Y"
)

// Valid reports whether the promotion type is a known value
func (t PromotionType) Valid() bool {
	switch t {
	case PromotionTypeProductDiscount, PromotionTypeCategoryDiscount,
		PromotionTypeBulkDiscount, PromotionTypeBuyXGetY:
		return true
	}
	return false
}

// DiscountType represents how a promotion's discount value is interpreted.
// Note: the calculation path for PRODUCT/CATEGORY/BULK promotions still uses
// the value<=100 threshold rule instead of this field, kept for compatibility
// with existing promotion data.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

// Valid reports whether the discount type is a known value
func (t DiscountType) Valid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}
