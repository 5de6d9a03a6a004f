package portfolio

import (
	"fmt"
	"math"

	"github.com/ostigter/portfolio-manager/date"
)

// TimeRange is a look-back window for price performance.
type TimeRange int

const (
	TenYears TimeRange = iota
	FiveYears
	ThreeYears
	OneYear
	OneMonth
	FiveDays
	OneDay
)

var timeRanges = [...]struct {
	name  string
	years int
	from  func(date.Date) date.Date
}{
	TenYears:   {"10y", 10, func(d date.Date) date.Date { return d.AddYears(-10) }},
	FiveYears:  {"5y", 5, func(d date.Date) date.Date { return d.AddYears(-5) }},
	ThreeYears: {"3y", 3, func(d date.Date) date.Date { return d.AddYears(-3) }},
	OneYear:    {"1y", 1, func(d date.Date) date.Date { return d.AddYears(-1) }},
	OneMonth:   {"1m", 0, func(d date.Date) date.Date { return d.AddMonths(-1) }},
	FiveDays:   {"5d", 0, func(d date.Date) date.Date { return d.Add(-5) }},
	OneDay:     {"1d", 0, func(d date.Date) date.Date { return d.Add(-1) }},
}

func (r TimeRange) String() string { return timeRanges[r].name }

// Years is the window length in whole years, 0 for windows shorter than a year.
func (r TimeRange) Years() int { return timeRanges[r].years }

// From returns the day the window opens, counted back from ref. Prices on that day are excluded.
func (r TimeRange) From(ref date.Date) date.Date { return timeRanges[r].from(ref) }

// ParseTimeRange reads "10y", "5y", "3y", "1y", "1m", "5d" or "1d".
func ParseTimeRange(s string) (TimeRange, error) {
	for i, r := range timeRanges {
		if r.name == s {
			return TimeRange(i), nil
		}
	}
	return 0, fmt.Errorf("unknown time range %q", s)
}

// Performance describes how a closing-price series moved over a window.
//
// Statistics run on float64: they are indicators over market data, never
// booked into the ledger.
type Performance struct {
	Range      TimeRange
	Count      int
	StartPrice float64
	EndPrice   float64
	LowPrice   float64
	HighPrice  float64
	Change     float64
	ChangePerc float64
	// Volatility is the mean distance of each price from the straight line
	// between the first and last price, in percent of the price.
	Volatility float64
}

// NewPerformance computes the performance of the closing prices strictly after r.From(ref).
func NewPerformance(prices *date.History[float64], r TimeRange, ref date.Date) (Performance, error) {
	values := prices.After(r.From(ref))
	if len(values) == 0 {
		return Performance{}, fmt.Errorf("%s window before %s: %w", r, ref, ErrNoPrices)
	}
	count := len(values)
	p := Performance{
		Range:      r,
		Count:      count,
		StartPrice: values[0],
		EndPrice:   values[count-1],
		LowPrice:   math.MaxFloat64,
		HighPrice:  -math.MaxFloat64,
	}
	p.Change = p.EndPrice - p.StartPrice
	if p.StartPrice != 0 {
		p.ChangePerc = p.Change / p.StartPrice * 100
	}
	slope := p.Change / float64(count)
	for i, v := range values {
		p.LowPrice = min(p.LowPrice, v)
		p.HighPrice = max(p.HighPrice, v)
		if v != 0 {
			trend := p.StartPrice + float64(i)*slope
			p.Volatility += math.Abs(v-trend) / v * 100
		}
	}
	p.Volatility /= float64(count)
	return p, nil
}

// CAGR is the compound annual growth rate in percent; the plain change for windows under a year.
func (p Performance) CAGR() float64 {
	years := p.Range.Years()
	if years < 1 || p.StartPrice == 0 {
		return p.ChangePerc
	}
	return (math.Pow(p.EndPrice/p.StartPrice, 1/float64(years)) - 1) * 100
}

// Discount is how far the last price sits below the window high, relative to the high-low spread.
func (p Performance) Discount() float64 {
	spread := p.HighPrice - p.LowPrice
	if spread <= 0 {
		return 0
	}
	return max(0, (p.HighPrice-p.EndPrice)/spread*100)
}
