package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minCost is the residual cost below which a position's cost basis snaps to zero after a sale.
var minCost = decimal.New(1, -2)

// Position is the average-cost holding of a single stock, built by applying
// that stock's transactions in chronological order.
type Position struct {
	stock *Stock
	tax   IncomeTax

	shares         Quantity
	currentCost    Money // cost basis of the shares still held
	totalCost      Money // every purchase cost and fee ever paid
	totalIncome    Money // dividends, net of tax
	realizedResult Money // sale profits and losses
	totalReturn    Money // realized part of the total return
}

// NewPosition returns an empty position for stock under the given tax policy.
func NewPosition(stock *Stock, tax IncomeTax) *Position {
	return &Position{stock: stock, tax: tax}
}

// Add applies one transaction of this position's stock.
//
// A failed Add leaves the position unchanged.
func (p *Position) Add(tx Transaction) error {
	switch tx := tx.(type) {
	case Buy:
		p.buy(tx)
	case Sell:
		return p.sell(tx)
	case Dividend:
		p.dividend(tx)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidTransactionType, tx)
	}
	return nil
}

func (p *Position) buy(tx Buy) {
	cost := tx.Value().Add(tx.Fee)
	p.shares = p.shares.Add(tx.Shares)
	p.currentCost = p.currentCost.Add(cost)
	p.totalCost = p.totalCost.Add(cost)
}

func (p *Position) sell(tx Sell) error {
	if tx.Shares.GreaterThan(p.shares) {
		return fmt.Errorf("%w: selling %s %s, holding %s", ErrOversell, tx.Shares, tx.Symbol, p.shares)
	}
	avg := p.currentCost.Div(p.shares)
	p.currentCost = p.currentCost.Sub(avg.Mul(tx.Shares))
	if p.currentCost.value.LessThan(minCost) {
		p.currentCost = Money{}
	}
	p.shares = p.shares.Sub(tx.Shares)
	p.totalCost = p.totalCost.Add(tx.Fee)

	profit := tx.Price.Sub(avg).Mul(tx.Shares).Sub(tx.Fee)
	p.realizedResult = p.realizedResult.Add(profit)
	p.totalReturn = p.totalReturn.Add(profit)
	return nil
}

func (p *Position) dividend(tx Dividend) {
	income := p.tax.Net(tx.Value())
	p.totalIncome = p.totalIncome.Add(income)
	p.totalReturn = p.totalReturn.Add(income)
}

func (p *Position) Stock() *Stock            { return p.stock }
func (p *Position) Shares() Quantity         { return p.shares }
func (p *Position) IsOpen() bool             { return p.shares.IsPositive() }
func (p *Position) CurrentCost() Money       { return p.currentCost }
func (p *Position) TotalCost() Money         { return p.totalCost }
func (p *Position) TotalIncome() Money       { return p.totalIncome }
func (p *Position) RealizedResult() Money    { return p.realizedResult }
func (p *Position) CurrentValue() Money      { return p.stock.Price.Mul(p.shares) }
func (p *Position) CurrentResult() Money     { return p.CurrentValue().Sub(p.currentCost) }
func (p *Position) CostPerShare() Money      { return p.currentCost.Div(p.shares) }
func (p *Position) YieldOnCost() Percent     { return p.AnnualIncome().PercentOf(p.currentCost) }
func (p *Position) TotalReturn() Money       { return p.CurrentResult().Add(p.totalReturn) }
func (p *Position) TotalReturnPercentage() Percent {
	return p.TotalReturn().PercentOf(p.totalCost)
}

// CurrentResultPercentage is the unrealized result relative to the cost basis.
func (p *Position) CurrentResultPercentage() Percent {
	return p.CurrentResult().PercentOf(p.currentCost)
}

// AnnualIncome is the expected yearly dividend on the shares held, net of tax.
func (p *Position) AnnualIncome() Money {
	return p.tax.Net(p.stock.DividendRate.Mul(p.shares))
}

func (p *Position) String() string {
	return fmt.Sprintf("%s: %s shares, cost %s, value %s", p.stock, p.shares, p.currentCost, p.CurrentValue())
}
