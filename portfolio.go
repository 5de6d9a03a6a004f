package portfolio

import (
	"fmt"
	"maps"
	"slices"
)

// Portfolio is the set of positions derived from a transaction list.
//
// It is rebuilt from scratch by Update; nothing is maintained incrementally.
type Portfolio struct {
	transactions []Transaction
	positions    map[string]*Position

	currentCost    Money
	currentValue   Money
	totalCost      Money
	annualIncome   Money
	totalIncome    Money
	realizedResult Money
	totalReturn    Money
}

// NewPortfolio returns a portfolio holding txs. Call Update to compute positions.
func NewPortfolio(txs ...Transaction) *Portfolio {
	return &Portfolio{
		transactions: slices.Clone(txs),
		positions:    make(map[string]*Position),
	}
}

// Add appends a transaction. It takes effect on the next Update.
func (p *Portfolio) Add(tx Transaction) { p.transactions = append(p.transactions, tx) }

// Transactions returns the transactions in chronological order.
func (p *Portfolio) Transactions() []Transaction {
	txs := slices.Clone(p.transactions)
	SortTransactions(txs)
	return txs
}

// Update recomputes every position and aggregate from the transactions.
//
// Transactions of stocks unknown to env are skipped. If a transaction cannot
// be applied the portfolio is left empty and the error names the transaction.
func (p *Portfolio) Update(env Env) error {
	p.reset()
	if env.Stocks == nil {
		env.Stocks = NewStocks()
	}
	SortTransactions(p.transactions)

	for _, tx := range p.transactions {
		stock := env.Stocks.Stock(tx.Ticker())
		if stock == nil {
			continue
		}
		pos, ok := p.positions[stock.Symbol]
		if !ok {
			pos = NewPosition(stock, env.Tax)
			p.positions[stock.Symbol] = pos
		}
		if err := pos.Add(tx); err != nil {
			p.reset()
			return fmt.Errorf("applying %s %s on %s: %w", tx.What(), tx.Ticker(), tx.When().Format("2006-01-02 15:04:05.000"), err)
		}
	}

	for _, pos := range p.positions {
		p.currentCost = p.currentCost.Add(pos.CurrentCost())
		p.currentValue = p.currentValue.Add(pos.CurrentValue())
		p.totalCost = p.totalCost.Add(pos.TotalCost())
		p.annualIncome = p.annualIncome.Add(pos.AnnualIncome())
		p.totalIncome = p.totalIncome.Add(pos.TotalIncome())
		p.realizedResult = p.realizedResult.Add(pos.RealizedResult())
		p.totalReturn = p.totalReturn.Add(pos.TotalReturn())
	}
	return nil
}

func (p *Portfolio) reset() {
	clear(p.positions)
	if p.positions == nil {
		p.positions = make(map[string]*Position)
	}
	p.currentCost, p.currentValue, p.totalCost = Money{}, Money{}, Money{}
	p.annualIncome, p.totalIncome = Money{}, Money{}
	p.realizedResult, p.totalReturn = Money{}, Money{}
}

// Position returns the position of symbol, or nil.
func (p *Portfolio) Position(symbol string) *Position { return p.positions[symbol] }

// Positions returns every position, open or closed, ordered by stock name.
func (p *Portfolio) Positions() []*Position {
	return slices.SortedFunc(maps.Values(p.positions), func(a, b *Position) int {
		return compareStocks(a.stock, b.stock)
	})
}

// OpenPositions returns the positions that still hold shares, ordered by stock name.
func (p *Portfolio) OpenPositions() []*Position {
	return slices.DeleteFunc(p.Positions(), func(pos *Position) bool { return !pos.IsOpen() })
}

func (p *Portfolio) CurrentCost() Money    { return p.currentCost }
func (p *Portfolio) CurrentValue() Money   { return p.currentValue }
func (p *Portfolio) TotalCost() Money      { return p.totalCost }
func (p *Portfolio) AnnualIncome() Money   { return p.annualIncome }
func (p *Portfolio) TotalIncome() Money    { return p.totalIncome }
func (p *Portfolio) RealizedResult() Money { return p.realizedResult }
func (p *Portfolio) TotalReturn() Money    { return p.totalReturn }
func (p *Portfolio) CurrentResult() Money  { return p.currentValue.Sub(p.currentCost) }

func (p *Portfolio) CurrentResultPercentage() Percent {
	return p.CurrentResult().PercentOf(p.currentCost)
}

func (p *Portfolio) YieldOnCost() Percent { return p.annualIncome.PercentOf(p.currentCost) }

func (p *Portfolio) TotalReturnPercentage() Percent {
	return p.totalReturn.PercentOf(p.totalCost)
}
