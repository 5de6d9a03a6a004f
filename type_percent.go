package portfolio

import (
	"github.com/shopspring/decimal"
)

// Percent is a percentage value: 4.5 means 4.5%.
type Percent struct {
	value decimal.Decimal
}

func P[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

func (p Percent) Decimal() decimal.Decimal { return p.value }
func (p Percent) Float() float64           { return p.value.InexactFloat64() }
func (p Percent) IsZero() bool             { return p.value.IsZero() }

// Equal compares with a precision of 1/10000 of a percent.
func (p Percent) Equal(q Percent) bool {
	return AbsoluteDifference(p.value, q.value).LessThan(decimal.New(1, -4))
}

func (p Percent) String() string {
	return p.value.StringFixed(2) + "%"
}

// SignedString is like String with an explicit sign, and "-" for zero.
func (p Percent) SignedString() string {
	s := p.value.StringFixed(2)
	switch {
	case s == "0.00" || s == "-0.00":
		return "-"
	case p.value.IsPositive():
		return "+" + s + "%"
	default:
		return s + "%"
	}
}

func (p Percent) MarshalJSON() ([]byte, error)  { return p.value.Round(4).MarshalJSON() }
func (p *Percent) UnmarshalJSON(b []byte) error { return p.value.UnmarshalJSON(b) }
