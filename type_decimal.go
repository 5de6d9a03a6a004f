package portfolio

import "github.com/shopspring/decimal"

// divisionScale is the number of decimal places kept by Divide.
const divisionScale = 16

var hundred = decimal.NewFromInt(100)

// Divide returns a/b rounded half-up to a fixed scale, or zero when b is zero.
func Divide(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.DivRound(b, divisionScale)
}

// Percentage returns a as a percentage of b, or zero when b is zero.
func Percentage(a, b decimal.Decimal) decimal.Decimal {
	return Divide(a, b).Mul(hundred)
}

// PercentageChange returns the relative change from old to new in percent, or zero when old is zero.
func PercentageChange(old, new decimal.Decimal) decimal.Decimal {
	return Percentage(new.Sub(old), old)
}

// AbsoluteDifference returns |a-b|.
func AbsoluteDifference(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b).Abs()
}

// Negate returns -a.
func Negate(a decimal.Decimal) decimal.Decimal {
	return a.Neg()
}
