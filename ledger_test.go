package portfolio

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger()
	for s := range testStocks().All() {
		if err := l.AddStock(*s); err != nil {
			t.Fatalf("AddStock(%s) error = %v", s.Symbol, err)
		}
	}
	return l
}

func TestLedger_Stocks(t *testing.T) {
	l := newTestLedger(t)
	if err := l.AddStock(*NewStock("TST1", "Duplicate")); !errors.Is(err, ErrStockExists) {
		t.Errorf("AddStock(duplicate) error = %v, want ErrStockExists", err)
	}
	if got := len(l.Stocks()); got != 2 {
		t.Errorf("len(Stocks()) = %d, want 2", got)
	}
	if err := l.UpdateStock("TST1", func(s *Stock) { s.Price = usd(30); s.Symbol = "HACK" }); err != nil {
		t.Fatalf("UpdateStock() error = %v", err)
	}
	s, ok := l.Stock("TST1")
	if !ok || !s.Price.Equal(usd(30)) {
		t.Errorf("Stock(TST1) = %v, %v; want price $30", s, ok)
	}

	if err := l.AddTransaction(NewBuy(ms(1), "TST1", Q(1), usd(1), usd(0))); err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}
	if !l.HasPosition("TST1") || l.HasPosition("TST2") {
		t.Errorf("HasPosition() = %v, %v; want true, false", l.HasPosition("TST1"), l.HasPosition("TST2"))
	}
	if err := l.DeleteStock("TST1"); !errors.Is(err, ErrStockInUse) {
		t.Errorf("DeleteStock(TST1) error = %v, want ErrStockInUse", err)
	}
	if err := l.DeleteStock("TST2"); err != nil {
		t.Errorf("DeleteStock(TST2) error = %v", err)
	}
	if err := l.DeleteStock("TST2"); !errors.Is(err, ErrUnknownStock) {
		t.Errorf("DeleteStock(TST2) twice error = %v, want ErrUnknownStock", err)
	}
}

func TestLedger_Transactions(t *testing.T) {
	l := newTestLedger(t)
	buy := NewBuy(ms(2), "TST1", Q(100), usd(20), usd(5))
	div := NewDividend(ms(3), "TST1", Q(100), usd(1), usd(0))
	early := NewBuy(ms(1), "TST2", Q(100), usd(10), usd(1))
	for _, tx := range []Transaction{buy, div, early} {
		if err := l.AddTransaction(tx); err != nil {
			t.Fatalf("AddTransaction(%v) error = %v", tx, err)
		}
	}

	txs := l.Transactions()
	if len(txs) != 3 || !txs[0].Equal(early) || txs[0].Number() != 1 || txs[2].Number() != 3 {
		t.Errorf("Transactions() = %v, want early buy first and numbers 1..3", txs)
	}

	if err := l.AddTransaction(NewSell(ms(4), "TST1", Q(101), usd(20), usd(0))); !errors.Is(err, ErrOversell) {
		t.Errorf("AddTransaction(oversell) error = %v, want ErrOversell", err)
	}
	if err := l.AddTransaction(NewBuy(ms(4), "NOPE", Q(1), usd(1), usd(0))); !errors.Is(err, ErrUnknownStock) {
		t.Errorf("AddTransaction(unknown stock) error = %v, want ErrUnknownStock", err)
	}
	if err := l.AddTransaction(NewBuy(ms(4), "TST1", Q(0), usd(1), usd(0))); !errors.Is(err, ErrInvalidTransaction) {
		t.Errorf("AddTransaction(zero shares) error = %v, want ErrInvalidTransaction", err)
	}
	if got := len(l.Transactions()); got != 3 {
		t.Errorf("len(Transactions()) after rejections = %d, want 3", got)
	}

	if err := l.AddTransaction(NewSell(ms(5), "TST1", Q(100), usd(25), usd(5))); err != nil {
		t.Fatalf("AddTransaction(sell) error = %v", err)
	}
	// removing the buy would leave the sell uncovered
	if err := l.DeleteTransaction(buy.Ref()); !errors.Is(err, ErrOversell) {
		t.Errorf("DeleteTransaction(buy) error = %v, want ErrOversell", err)
	}
	if err := l.DeleteTransaction(div.Ref()); err != nil {
		t.Errorf("DeleteTransaction(dividend) error = %v", err)
	}
	if _, ok := l.Transaction(div.Ref()); ok {
		t.Errorf("Transaction(dividend) still found after delete")
	}
}

func TestLedger_Portfolio(t *testing.T) {
	l := newTestLedger(t)
	for _, tx := range []Transaction{
		NewBuy(ms(1), "TST1", Q(100), usd(20), usd(5)),
		NewBuy(ms(2), "TST2", Q(100), usd(10), usd(1)),
		NewDividend(ms(3), "TST1", Q(100), usd(1), usd(0)),
		NewSell(ms(4), "TST2", Q(100), usd(15), usd(2)),
	} {
		if err := l.AddTransaction(tx); err != nil {
			t.Fatalf("AddTransaction(%v) error = %v", tx, err)
		}
	}

	l.SetOptions(Options{DeductIncomeTax: true})
	p, err := l.Portfolio()
	if err != nil {
		t.Fatalf("Portfolio() error = %v", err)
	}
	near(t, "TotalIncome", p.TotalIncome(), 85)

	owned, err := l.OwnedStocks()
	if err != nil {
		t.Fatalf("OwnedStocks() error = %v", err)
	}
	if len(owned) != 1 || owned[0].Symbol != "TST1" {
		t.Errorf("OwnedStocks() = %v, want [TST1]", owned)
	}
	l.SetOptions(Options{ShowClosedPositions: true})
	if owned, _ := l.OwnedStocks(); len(owned) != 2 {
		t.Errorf("OwnedStocks() with closed = %v, want 2 stocks", owned)
	}

	// a built portfolio does not see later price changes
	_ = l.UpdateStock("TST1", func(s *Stock) { s.Price = usd(40) })
	near(t, "CurrentValue", p.CurrentValue(), 2000)
}

func TestLedger_ConcurrentReaders(t *testing.T) {
	l := newTestLedger(t)
	if err := l.AddTransaction(NewBuy(ms(1), "TST1", Q(100), usd(20), usd(5))); err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = l.UpdateStock("TST1", func(s *Stock) { s.Price = M(20 + i) })
				return
			}
			if _, err := l.Portfolio(); err != nil {
				t.Errorf("Portfolio() error = %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestLedger_SnapshotIsConsistent(t *testing.T) {
	l := NewLedger()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 200 {
			symbol := fmt.Sprintf("S%03d", i)
			if err := l.AddStock(*NewStock(symbol, symbol)); err != nil {
				t.Errorf("AddStock(%s) error = %v", symbol, err)
				return
			}
			if err := l.AddTransaction(NewBuy(ms(int64(i+1)), symbol, Q(1), usd(10), usd(0))); err != nil {
				t.Errorf("AddTransaction(%s) error = %v", symbol, err)
				return
			}
		}
	}()

	check := func(snap Snapshot) {
		t.Helper()
		known := make(map[string]bool, len(snap.Stocks))
		for _, s := range snap.Stocks {
			known[s.Symbol] = true
		}
		for _, tx := range snap.Transactions {
			if !known[tx.Ticker()] {
				t.Fatalf("Snapshot() has a transaction of %s but not the stock", tx.Ticker())
			}
		}
	}
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		check(l.Snapshot())
	}
	snap := l.Snapshot()
	check(snap)
	if len(snap.Stocks) != 200 || len(snap.Transactions) != 200 {
		t.Errorf("Snapshot() = %d stocks, %d transactions, want 200 each", len(snap.Stocks), len(snap.Transactions))
	}
	if n := snap.Transactions[199].Number(); n != 200 {
		t.Errorf("last transaction number = %d, want 200", n)
	}
}
