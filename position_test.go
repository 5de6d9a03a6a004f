package portfolio

import (
	"errors"
	"testing"
)

func TestPosition(t *testing.T) {
	stock := NewStock("TST", "Test Stock")
	stock.Price, stock.DividendRate = usd(20), usd(1)
	p := NewPosition(stock, IncomeTax{})

	apply := func(tx Transaction) {
		t.Helper()
		if err := p.Add(tx); err != nil {
			t.Fatalf("Add(%v) error = %v", tx, err)
		}
	}

	// Buy 100 @ $20 with $5 fee.
	apply(NewBuy(ms(1), "TST", Q(100), usd(20), usd(5)))
	near(t, "Shares", p.Shares(), 100)
	near(t, "CurrentCost", p.CurrentCost(), 2005)
	near(t, "CurrentValue", p.CurrentValue(), 2000)
	near(t, "CurrentResult", p.CurrentResult(), -5)
	near(t, "CurrentResultPercentage", p.CurrentResultPercentage(), -0.25)
	near(t, "AnnualIncome", p.AnnualIncome(), 100)
	near(t, "YieldOnCost", p.YieldOnCost(), 4.99)
	near(t, "TotalReturnPercentage", p.TotalReturnPercentage(), -0.25)

	// Dividend $1 per share.
	apply(NewDividend(ms(2), "TST", Q(100), usd(1), usd(0)))
	near(t, "TotalIncome", p.TotalIncome(), 100)
	near(t, "TotalReturn", p.TotalReturn(), 95)
	near(t, "TotalReturnPercentage", p.TotalReturnPercentage(), 4.74)

	// Price halves.
	stock.Price = usd(10)
	near(t, "CurrentResult", p.CurrentResult(), -1005)
	near(t, "CurrentResultPercentage", p.CurrentResultPercentage(), -50.12)
	near(t, "TotalReturn", p.TotalReturn(), -905)
	near(t, "TotalReturnPercentage", p.TotalReturnPercentage(), -45.14)

	// Buy 100 more @ $10 with $5 fee.
	apply(NewBuy(ms(3), "TST", Q(100), usd(10), usd(5)))
	near(t, "CurrentCost", p.CurrentCost(), 3010)
	near(t, "CostPerShare", p.CostPerShare(), 15.05)
	near(t, "CurrentResult", p.CurrentResult(), -1010)
	near(t, "CurrentResultPercentage", p.CurrentResultPercentage(), -33.55)
	near(t, "AnnualIncome", p.AnnualIncome(), 200)
	near(t, "YieldOnCost", p.YieldOnCost(), 6.64)
	near(t, "TotalReturn", p.TotalReturn(), -910)
	near(t, "TotalReturnPercentage", p.TotalReturnPercentage(), -30.23)

	// Price recovers.
	stock.Price = usd(20)
	near(t, "CurrentResult", p.CurrentResult(), 990)
	near(t, "CurrentResultPercentage", p.CurrentResultPercentage(), 32.89)
	near(t, "TotalReturnPercentage", p.TotalReturnPercentage(), 36.21)

	// Dividend raised to $1.25.
	stock.DividendRate = usd(1.25)
	near(t, "AnnualIncome", p.AnnualIncome(), 250)
	near(t, "YieldOnCost", p.YieldOnCost(), 8.31)
	apply(NewDividend(ms(4), "TST", Q(200), usd(1.25), usd(0)))
	near(t, "TotalIncome", p.TotalIncome(), 350)
	near(t, "TotalReturn", p.TotalReturn(), 1340)
	near(t, "TotalReturnPercentage", p.TotalReturnPercentage(), 44.52)

	// Sell everything @ $20 with $10 fee.
	apply(NewSell(ms(5), "TST", Q(200), usd(20), usd(10)))
	if p.IsOpen() {
		t.Errorf("IsOpen() = true after selling all shares")
	}
	near(t, "CurrentCost", p.CurrentCost(), 0)
	near(t, "CurrentValue", p.CurrentValue(), 0)
	near(t, "TotalCost", p.TotalCost(), 3020)
	near(t, "RealizedResult", p.RealizedResult(), 980)
	near(t, "TotalReturn", p.TotalReturn(), 1330)
	near(t, "TotalReturnPercentage", p.TotalReturnPercentage(), 44.04)
	near(t, "YieldOnCost", p.YieldOnCost(), 0)
	near(t, "CostPerShare", p.CostPerShare(), 0)
}

func TestPosition_BuySellRoundTrip(t *testing.T) {
	tests := []struct {
		name            string
		buyFee, sellFee float64
		dividend        float64
		wantReturn      float64
	}{
		{"no fees", 0, 0, 0, 0},
		{"fees", 1, 2, 0, -3},
		{"fees and dividend", 1, 2, 1, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock := NewStock("TST", "Test Stock")
			stock.Price = usd(10)
			p := NewPosition(stock, IncomeTax{})
			txs := []Transaction{NewBuy(ms(1), "TST", Q(10), usd(10), usd(tt.buyFee))}
			if tt.dividend != 0 {
				txs = append(txs, NewDividend(ms(2), "TST", Q(10), usd(tt.dividend), usd(0)))
			}
			txs = append(txs, NewSell(ms(3), "TST", Q(10), usd(10), usd(tt.sellFee)))
			for _, tx := range txs {
				if err := p.Add(tx); err != nil {
					t.Fatalf("Add(%v) error = %v", tx, err)
				}
			}
			near(t, "Shares", p.Shares(), 0)
			if !p.CurrentCost().IsZero() {
				t.Errorf("CurrentCost() = %s, want exactly zero", p.CurrentCost().Decimal())
			}
			near(t, "RealizedResult", p.RealizedResult(), -tt.buyFee-tt.sellFee)
			near(t, "TotalIncome", p.TotalIncome(), 10*tt.dividend)
			near(t, "TotalReturn", p.TotalReturn(), tt.wantReturn)
		})
	}
}

func TestPosition_Oversell(t *testing.T) {
	stock := NewStock("TST", "Test Stock")
	p := NewPosition(stock, IncomeTax{})
	if err := p.Add(NewBuy(ms(1), "TST", Q(10), usd(5), usd(0))); err != nil {
		t.Fatalf("Add(buy) error = %v", err)
	}
	err := p.Add(NewSell(ms(2), "TST", Q(11), usd(5), usd(0)))
	if !errors.Is(err, ErrOversell) {
		t.Fatalf("Add(sell 11) error = %v, want ErrOversell", err)
	}
	near(t, "Shares", p.Shares(), 10)
	near(t, "CurrentCost", p.CurrentCost(), 50)
	near(t, "TotalCost", p.TotalCost(), 50)
}

func TestPosition_ResidualCostSnapsToZero(t *testing.T) {
	p := NewPosition(NewStock("TST", "Test Stock"), IncomeTax{})
	// 3 shares for $100: the average cost does not divide exactly.
	if err := p.Add(NewBuy(ms(1), "TST", Q(3), M(100).Div(Q(3)), usd(0))); err != nil {
		t.Fatalf("Add(buy) error = %v", err)
	}
	for i := range 3 {
		if err := p.Add(NewSell(ms(int64(2+i)), "TST", Q(1), usd(40), usd(0))); err != nil {
			t.Fatalf("Add(sell) error = %v", err)
		}
	}
	if !p.CurrentCost().IsZero() {
		t.Errorf("CurrentCost() = %s, want exactly zero", p.CurrentCost().Decimal())
	}
}

func TestPosition_DividendTax(t *testing.T) {
	stock := NewStock("TST", "Test Stock")
	stock.Price, stock.DividendRate = usd(10), usd(2)
	p := NewPosition(stock, IncomeTax{Deduct: true, Rate: DefaultIncomeTaxRate})

	if err := p.Add(NewBuy(ms(1), "TST", Q(50), usd(10), usd(0))); err != nil {
		t.Fatalf("Add(buy) error = %v", err)
	}
	if err := p.Add(NewDividend(ms(2), "TST", Q(50), usd(0.5), usd(0))); err != nil {
		t.Fatalf("Add(dividend) error = %v", err)
	}
	near(t, "TotalIncome", p.TotalIncome(), 21.25)
	near(t, "AnnualIncome", p.AnnualIncome(), 85)
	near(t, "RealizedResult", p.RealizedResult(), 0)
}

type bogusTransaction struct{ Buy }

func TestPosition_UnknownTransactionType(t *testing.T) {
	p := NewPosition(NewStock("TST", "Test Stock"), IncomeTax{})
	tx := bogusTransaction{NewBuy(ms(1), "TST", Q(1), usd(1), usd(0))}
	if err := p.Add(tx); !errors.Is(err, ErrInvalidTransactionType) {
		t.Errorf("Add(%T) error = %v, want ErrInvalidTransactionType", tx, err)
	}
}
