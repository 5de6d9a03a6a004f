package portfolio

import (
	"fmt"
	"slices"

	"github.com/ostigter/portfolio-manager/date"
)

// PeriodResult summarizes one calendar period of the ledger.
type PeriodResult struct {
	Range       date.Range
	Days        int   // days of the period covered by the ledger
	AverageCost Money // mean of the end-of-day cost basis
	EndCost     Money // cost basis at the end of the last covered day
	Income      Money
}

// IncomeYield is the period income relative to the average cost basis.
func (r PeriodResult) IncomeYield() Percent { return r.Income.PercentOf(r.AverageCost) }

// OverallResult summarizes the whole ledger history.
type OverallResult struct {
	Range       date.Range
	Days        int
	AverageCost Money
	Income      Money
}

// ReturnOnAverageCost expresses a total return relative to the average cost basis.
func (r OverallResult) ReturnOnAverageCost(totalReturn Money) Percent {
	return totalReturn.PercentOf(r.AverageCost)
}

// PeriodicResults splits the ledger history into calendar periods and reports
// the average daily cost basis and the dividend income of each one. Days run
// from the first transaction up to and including until.
func PeriodicResults(txs []Transaction, tax IncomeTax, until date.Date, period date.Period) ([]PeriodResult, error) {
	var (
		rows    []PeriodResult
		results Results
		current PeriodResult
	)
	emit := func() {
		current.Days = results.Days()
		current.AverageCost = results.AverageCost()
		current.Income = results.Income()
		rows = append(rows, current)
	}
	err := walkDays(txs, tax, until, func(day date.Date, cost, income Money) {
		if !current.Range.Contains(day) {
			if results.Days() > 0 {
				emit()
			}
			results.Reset()
			current = PeriodResult{Range: date.NewRange(day, period)}
		}
		results.RecordDay(day)
		results.AddCost(cost)
		results.AddIncome(income)
		current.EndCost = cost
	})
	if err != nil {
		return nil, err
	}
	if results.Days() > 0 {
		emit()
	}
	return rows, nil
}

// OverallResults reports the average daily cost basis and the dividend income over the whole history.
func OverallResults(txs []Transaction, tax IncomeTax, until date.Date) (OverallResult, error) {
	var (
		results Results
		first   date.Date
	)
	err := walkDays(txs, tax, until, func(day date.Date, cost, income Money) {
		if first.IsZero() {
			first = day
		}
		results.RecordDay(day)
		results.AddCost(cost)
		results.AddIncome(income)
	})
	if err != nil {
		return OverallResult{}, err
	}
	return OverallResult{
		Range:       date.Range{From: first, To: until},
		Days:        results.Days(),
		AverageCost: results.AverageCost(),
		Income:      results.Income(),
	}, nil
}

// lot is the running average-cost basis of one symbol.
type lot struct {
	shares Quantity
	cost   Money
}

// walkDays replays txs day by day from the first transaction to until. For
// every day it reports the end-of-day cost basis of all holdings and the
// dividend income received that day. Income follows the Position rule:
// shares times price, net of tax, with the dividend fee ignored.
func walkDays(txs []Transaction, tax IncomeTax, until date.Date, visit func(day date.Date, cost, income Money)) error {
	if len(txs) == 0 {
		return nil
	}
	txs = slices.Clone(txs)
	SortTransactions(txs)

	lots := make(map[string]*lot)
	var basis Money
	next := 0
	for day := date.Of(txs[0].When()); !day.After(until); day = day.Add(1) {
		var income Money
		for ; next < len(txs) && !date.Of(txs[next].When()).After(day); next++ {
			tx := txs[next]
			l := lots[tx.Ticker()]
			if l == nil {
				l = new(lot)
				lots[tx.Ticker()] = l
			}
			switch tx := tx.(type) {
			case Buy:
				cost := tx.Value().Add(tx.Fee)
				l.shares = l.shares.Add(tx.Shares)
				l.cost = l.cost.Add(cost)
				basis = basis.Add(cost)
			case Sell:
				if tx.Shares.GreaterThan(l.shares) {
					return fmt.Errorf("selling %s %s on %s: %w", tx.Shares, tx.Symbol, day, ErrOversell)
				}
				removed := l.cost.Div(l.shares).Mul(tx.Shares)
				l.shares = l.shares.Sub(tx.Shares)
				l.cost = l.cost.Sub(removed)
				if l.cost.value.LessThan(minCost) {
					removed = removed.Add(l.cost)
					l.cost = Money{}
				}
				basis = basis.Sub(removed)
			case Dividend:
				income = income.Add(tax.Net(tx.Value()))
			default:
				return fmt.Errorf("%w: %T", ErrInvalidTransactionType, tx)
			}
		}
		visit(day, basis, income)
	}
	return nil
}
