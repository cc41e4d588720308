package money

import "github.com/shopspring/decimal"

// Precision is the number of fractional digits kept on all monetary amounts.
const Precision = 2

var (
	// Zero is the zero amount.
	Zero = decimal.Zero

	// Hundred is used for percentage calculations.
	Hundred = decimal.NewFromInt(100)
)

// Round rounds an amount to Precision decimal places using round-half-up.
// decimal.Round rounds half away from zero, which for the non-negative
// amounts produced by discount math is exactly round-half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Precision)
}

// Percent returns base * pct / 100, unrounded.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(Hundred)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// ClampFloor returns d, or floor if d is below it.
func ClampFloor(d, floor decimal.Decimal) decimal.Decimal {
	if d.LessThan(floor) {
		return floor
	}
	return d
}
