package portfolio

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
)

// Options are the user preferences stored with a ledger.
type Options struct {
	DeductIncomeTax     bool `json:"deductIncomeTax"`
	ShowClosedPositions bool `json:"showClosedPositions"`
	RoundTotals         bool `json:"roundTotals"`
}

// Ledger is the application state: known stocks, the transaction list and
// the user options. It is safe for concurrent use.
//
// Every read of derived figures goes through Portfolio, which rebuilds from
// scratch under the read lock.
type Ledger struct {
	mu           sync.RWMutex
	stocks       *Stocks
	transactions []Transaction
	options      Options
	taxRate      decimal.Decimal
}

// NewLedger creates an empty ledger using the default income tax rate.
func NewLedger() *Ledger {
	return &Ledger{stocks: NewStocks(), taxRate: DefaultIncomeTaxRate}
}

// RestoreLedger builds a ledger from stored data. Transactions are taken as
// they are: references to unknown stocks are kept and skipped on rebuild.
func RestoreLedger(stocks []Stock, txs []Transaction, opts Options) *Ledger {
	l := NewLedger()
	for _, s := range stocks {
		l.stocks.Add(&s)
	}
	l.transactions = slices.Clone(txs)
	Renumber(l.transactions)
	l.options = opts
	return l
}

// SetIncomeTaxRate sets the fraction withheld from dividends when deduction is on.
func (l *Ledger) SetIncomeTaxRate(rate decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.taxRate = rate
}

// IncomeTax returns the tax policy currently in force.
func (l *Ledger) IncomeTax() IncomeTax {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.incomeTax()
}

func (l *Ledger) incomeTax() IncomeTax {
	return IncomeTax{Deduct: l.options.DeductIncomeTax, Rate: l.taxRate}
}

func (l *Ledger) Options() Options {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.options
}

func (l *Ledger) SetOptions(o Options) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.options = o
}

// Stock returns a copy of the stock with that symbol.
func (l *Ledger) Stock(symbol string) (Stock, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s := l.stocks.Stock(symbol)
	if s == nil {
		return Stock{}, false
	}
	return *s, true
}

// Stocks returns a copy of every known stock, ordered by name.
func (l *Ledger) Stocks() []Stock {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.copyStocks()
}

func (l *Ledger) copyStocks() []Stock {
	stocks := make([]Stock, 0, l.stocks.Len())
	for s := range l.stocks.All() {
		stocks = append(stocks, *s)
	}
	return stocks
}

// Snapshot is the persisted state of a ledger at one instant.
type Snapshot struct {
	Options      Options
	Stocks       []Stock
	Transactions []Transaction
}

// Snapshot copies the options, stocks and transactions under a single read
// lock, so that no mutation lands between them.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot{
		Options:      l.options,
		Stocks:       l.copyStocks(),
		Transactions: slices.Clone(l.transactions),
	}
}

// AddStock registers a new stock.
func (l *Ledger) AddStock(s Stock) error {
	if s.Symbol == "" {
		return fmt.Errorf("stock symbol is missing")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.stocks.Add(&s) {
		return fmt.Errorf("%w: %s", ErrStockExists, s.Symbol)
	}
	log.Info().Str("symbol", s.Symbol).Str("name", s.Name).Msg("added stock")
	return nil
}

// UpdateStock applies edit to the stock with that symbol. The symbol itself cannot change.
func (l *Ledger) UpdateStock(symbol string, edit func(*Stock)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.stocks.Stock(symbol)
	if s == nil {
		return fmt.Errorf("%w: %s", ErrUnknownStock, symbol)
	}
	edit(s)
	s.Symbol = symbol
	return nil
}

// DeleteStock removes a stock that no transaction refers to.
func (l *Ledger) DeleteStock(symbol string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.hasPosition(symbol) {
		return fmt.Errorf("%w: %s", ErrStockInUse, symbol)
	}
	if !l.stocks.Delete(symbol) {
		return fmt.Errorf("%w: %s", ErrUnknownStock, symbol)
	}
	log.Info().Str("symbol", symbol).Msg("deleted stock")
	return nil
}

// HasPosition reports whether any transaction refers to symbol.
func (l *Ledger) HasPosition(symbol string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.hasPosition(symbol)
}

func (l *Ledger) hasPosition(symbol string) bool {
	return slices.ContainsFunc(l.transactions, func(tx Transaction) bool { return tx.Ticker() == symbol })
}

// Transactions returns the transactions in chronological order, numbered from 1.
func (l *Ledger) Transactions() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.transactions)
}

// Transaction finds a transaction by its reference.
func (l *Ledger) Transaction(ref uuid.UUID) (Transaction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.Ref() == ref })
	if i < 0 {
		return nil, false
	}
	return l.transactions[i], true
}

// AddTransaction validates tx and records it. A transaction that would leave
// the ledger inconsistent, such as selling more than is held, is rejected.
func (l *Ledger) AddTransaction(tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stocks.Stock(tx.Ticker()) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownStock, tx.Ticker())
	}
	for _, other := range l.transactions {
		if Collides(tx, other) {
			log.Warn().Str("symbol", tx.Ticker()).Time("date", tx.When()).Msg("another transaction has the same symbol and timestamp")
			break
		}
	}
	return l.commit(append(slices.Clone(l.transactions), tx))
}

// DeleteTransaction removes the transaction with that reference.
func (l *Ledger) DeleteTransaction(ref uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.Ref() == ref })
	if i < 0 {
		return fmt.Errorf("no transaction %s", ref)
	}
	return l.commit(slices.Delete(slices.Clone(l.transactions), i, i+1))
}

// commit replaces the transaction list if it replays without error.
func (l *Ledger) commit(txs []Transaction) error {
	if err := NewPortfolio(txs...).Update(l.env()); err != nil {
		return err
	}
	Renumber(txs)
	l.transactions = txs
	return nil
}

// env snapshots the stocks so that a portfolio outlives the lock.
func (l *Ledger) env() Env {
	snapshot := NewStocks()
	for s := range l.stocks.All() {
		c := *s
		snapshot.Add(&c)
	}
	return Env{Stocks: snapshot, Tax: l.incomeTax()}
}

// Portfolio rebuilds the portfolio from the current transactions and stock data.
func (l *Ledger) Portfolio() (*Portfolio, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p := NewPortfolio(l.transactions...)
	if err := p.Update(l.env()); err != nil {
		return nil, err
	}
	return p, nil
}

// OwnedStocks returns the stocks currently held, or every traded stock when
// closed positions are shown, ordered by name.
func (l *Ledger) OwnedStocks() ([]Stock, error) {
	p, err := l.Portfolio()
	if err != nil {
		return nil, err
	}
	showClosed := l.Options().ShowClosedPositions
	var stocks []Stock
	for _, pos := range p.Positions() {
		if pos.IsOpen() || showClosed {
			stocks = append(stocks, *pos.Stock())
		}
	}
	return stocks, nil
}
