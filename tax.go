package portfolio

import "github.com/shopspring/decimal"

// DefaultIncomeTaxRate is the withholding applied to dividends when deduction is on.
var DefaultIncomeTaxRate = decimal.RequireFromString("0.15")

// IncomeTax is the dividend tax policy in force for a rebuild.
type IncomeTax struct {
	Deduct bool
	Rate   decimal.Decimal // fraction, 0.15 for 15%
}

// Net returns gross income after tax, or gross when deduction is off.
func (t IncomeTax) Net(gross Money) Money {
	if !t.Deduct {
		return gross
	}
	return gross.Scale(decimal.NewFromInt(1).Sub(t.Rate))
}

// Env is the outside state a portfolio rebuild reads: the stock lookup and
// the tax policy. It is passed explicitly to every rebuild.
type Env struct {
	Stocks StockLookup
	Tax    IncomeTax
}
