package enum

// VoucherType represents how a voucher's value is interpreted
type VoucherType string

const (
	VoucherTypePercentage   VoucherType = "PERCENTAGE"
	VoucherTypeFixedAmount  VoucherType = "FIXED_AMOUNT"
	VoucherTypeFreeShipping VoucherType = "FREE_SHIPPING"
)

// Valid reports whether the voucher type is a known value
func (t VoucherType) Valid() bool {
	switch t {
	case VoucherTypePercentage, VoucherTypeFixedAmount, VoucherTypeFreeShipping:
		return true
	}
	return false
}
