package portfolio

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Stock is a tradeable instrument together with its latest market data.
//
// Price, ChangePerc and DividendRate are refreshed from a Quoter; the other
// fields are reference data maintained by the user.
type Stock struct {
	Symbol         string       `json:"symbol"`
	Name           string       `json:"name"`
	Price          Money        `json:"price"`
	ChangePerc     Percent      `json:"changePerc"`
	TargetPrice    Money        `json:"targetPrice"`
	DividendRate   Money        `json:"divRate"` // annual dividend per share
	DividendGrowth Percent      `json:"divGrowth"`
	YearsDivGrowth int          `json:"yearsDivGrowth"` // -1 when unknown
	CreditRating   CreditRating `json:"creditRating"`
	Comment        string       `json:"comment,omitempty"`
}

// NewStock returns a stock with unknown dividend history and no rating.
func NewStock(symbol, name string) *Stock {
	return &Stock{Symbol: symbol, Name: name, YearsDivGrowth: -1}
}

func (s *Stock) String() string { return fmt.Sprintf("%s (%s)", s.Name, s.Symbol) }

// Equal compares stocks by symbol.
func (s *Stock) Equal(o *Stock) bool { return s != nil && o != nil && s.Symbol == o.Symbol }

// Yield is the annual dividend rate as a percentage of the current price.
func (s *Stock) Yield() Percent { return s.DividendRate.PercentOf(s.Price) }

// TargetUpside is the distance from the current price to the target price, in percent.
func (s *Stock) TargetUpside() Percent {
	if s.TargetPrice.IsZero() {
		return Percent{}
	}
	return Percent{value: PercentageChange(s.Price.value, s.TargetPrice.value)}
}

// compareStocks orders by name, then by symbol.
func compareStocks(a, b *Stock) int {
	return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Symbol, b.Symbol))
}

// StockLookup resolves a symbol to its stock, or nil when unknown.
type StockLookup interface {
	Stock(symbol string) *Stock
}

// Stocks is the registry of known stocks keyed by symbol.
// It is not safe for concurrent use; Ledger guards it.
type Stocks struct {
	bySymbol map[string]*Stock
}

func NewStocks(stocks ...*Stock) *Stocks {
	r := &Stocks{bySymbol: make(map[string]*Stock, len(stocks))}
	for _, s := range stocks {
		r.Add(s)
	}
	return r
}

// Stock implements StockLookup.
func (r *Stocks) Stock(symbol string) *Stock {
	if r == nil {
		return nil
	}
	return r.bySymbol[symbol]
}

// Add registers s, and returns false if its symbol is already known.
func (r *Stocks) Add(s *Stock) bool {
	if _, exists := r.bySymbol[s.Symbol]; exists {
		return false
	}
	r.bySymbol[s.Symbol] = s
	return true
}

// Delete removes a stock, and returns false if it was not known.
func (r *Stocks) Delete(symbol string) bool {
	if _, exists := r.bySymbol[symbol]; !exists {
		return false
	}
	delete(r.bySymbol, symbol)
	return true
}

func (r *Stocks) Len() int { return len(r.bySymbol) }

// All iterates over the stocks sorted by name.
func (r *Stocks) All() iter.Seq[*Stock] {
	return slices.Values(slices.SortedFunc(maps.Values(r.bySymbol), compareStocks))
}
