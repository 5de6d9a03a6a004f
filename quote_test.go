package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

type fakeQuoter struct {
	prices map[string]Quote
	calls  atomic.Int32
}

func (f *fakeQuoter) Quote(_ context.Context, symbol string) (Quote, error) {
	f.calls.Add(1)
	q, ok := f.prices[symbol]
	if !ok {
		return Quote{}, fmt.Errorf("no quote for %s", symbol)
	}
	return q, nil
}

func TestLedger_RefreshPrices(t *testing.T) {
	l := newTestLedger(t)
	if err := l.AddStock(*NewStock("MISS", "Missing")); err != nil {
		t.Fatalf("AddStock() error = %v", err)
	}
	rate := usd(1.5)
	q := &fakeQuoter{prices: map[string]Quote{
		"TST1": {Price: usd(21), ChangePerc: P(5), DividendRate: &rate},
		"TST2": {Price: usd(9)},
	}}

	updated, err := l.RefreshPrices(context.Background(), q, 2)
	if updated != 2 {
		t.Errorf("RefreshPrices() updated = %d, want 2", updated)
	}
	if err == nil {
		t.Errorf("RefreshPrices() error = nil, want the MISS failure")
	}
	if got := q.calls.Load(); got != 3 {
		t.Errorf("quoter called %d times, want 3", got)
	}

	tst1, _ := l.Stock("TST1")
	near(t, "TST1.Price", tst1.Price, 21)
	near(t, "TST1.DividendRate", tst1.DividendRate, 1.5)
	near(t, "TST1.ChangePerc", tst1.ChangePerc, 5)
	tst2, _ := l.Stock("TST2")
	near(t, "TST2.Price", tst2.Price, 9)
	near(t, "TST2.DividendRate", tst2.DividendRate, 0.25) // kept when not quoted
}

func TestLedger_RefreshPricesCancelled(t *testing.T) {
	l := newTestLedger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q := quoterFunc(func(ctx context.Context, _ string) (Quote, error) { return Quote{}, ctx.Err() })
	updated, err := l.RefreshPrices(ctx, q, 0)
	if updated != 0 || !errors.Is(err, context.Canceled) {
		t.Errorf("RefreshPrices() = %d, %v; want 0, context.Canceled", updated, err)
	}
}

type quoterFunc func(ctx context.Context, symbol string) (Quote, error)

func (f quoterFunc) Quote(ctx context.Context, symbol string) (Quote, error) { return f(ctx, symbol) }
