package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// tolerance used when comparing reported figures.
var tolerance = decimal.New(1, -2)

// ms returns the instant n milliseconds after the epoch.
func ms(n int64) time.Time { return time.UnixMilli(n).UTC() }

func usd(v float64) Money { return M(v) }

// decimaler is implemented by Money, Quantity and Percent.
type decimaler interface{ Decimal() decimal.Decimal }

// near fails the test when got is further than one cent from want.
func near(t *testing.T, name string, got decimaler, want float64) {
	t.Helper()
	w := decimal.NewFromFloat(want)
	if AbsoluteDifference(got.Decimal(), w).GreaterThan(tolerance) {
		t.Errorf("%s = %s, want %s", name, got.Decimal().StringFixed(4), w)
	}
}

// testStocks returns the two stocks used across the portfolio tests.
func testStocks() *Stocks {
	tst1 := NewStock("TST1", "Test Stock 1")
	tst1.Price, tst1.DividendRate = usd(20), usd(1)
	tst2 := NewStock("TST2", "Test Stock 2")
	tst2.Price, tst2.DividendRate = usd(10), usd(0.25)
	return NewStocks(tst1, tst2)
}
