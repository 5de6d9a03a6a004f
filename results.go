package portfolio

import "github.com/ostigter/portfolio-manager/date"

// Results accumulates day count, cost samples and income over a period.
// Its zero value is ready to use.
type Results struct {
	last   date.Date
	days   int
	costs  Money
	income Money
}

// RecordDay counts day if it is later than the last recorded day.
func (r *Results) RecordDay(day date.Date) {
	if r.last.IsZero() || day.After(r.last) {
		r.last = day
		r.days++
	}
}

func (r *Results) AddCost(m Money)   { r.costs = r.costs.Add(m) }
func (r *Results) AddIncome(m Money) { r.income = r.income.Add(m) }

func (r *Results) Days() int     { return r.days }
func (r *Results) Costs() Money  { return r.costs }
func (r *Results) Income() Money { return r.income }

// AverageCost is the accumulated cost divided by the day count, zero before any day.
func (r *Results) AverageCost() Money { return r.costs.DivN(r.days) }

// Reset zeroes the counters. The last recorded day is kept so it is never counted twice.
func (r *Results) Reset() {
	r.days = 0
	r.costs = Money{}
	r.income = Money{}
}
