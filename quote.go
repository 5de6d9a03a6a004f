package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"
)

// Quote is the latest market data for one stock.
type Quote struct {
	Price        Money
	ChangePerc   Percent
	DividendRate *Money // nil when the source does not publish it
}

// Quoter fetches the latest market data of a stock.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// RefreshPrices fetches a quote for every stock, at most workers at a time,
// then applies the successful ones. It returns how many stocks were updated
// and the joined errors of the ones that failed.
//
// Fetching runs without holding the ledger lock; each worker only writes its
// own result slot and results are applied once every worker is done.
func (l *Ledger) RefreshPrices(ctx context.Context, q Quoter, workers int) (int, error) {
	stocks := l.Stocks()
	quotes := make([]*Quote, len(stocks))
	errs := make([]error, len(stocks))

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, s := range stocks {
		g.Go(func() error {
			quote, err := q.Quote(ctx, s.Symbol)
			if err != nil {
				errs[i] = fmt.Errorf("quote %s: %w", s.Symbol, err)
				log.Warn().Str("symbol", s.Symbol).Err(err).Msg("price refresh failed")
				return nil
			}
			quotes[i] = &quote
			return nil
		})
	}
	// workers never return an error
	_ = g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	updated := 0
	for i, quote := range quotes {
		if quote == nil {
			continue
		}
		s := l.stocks.Stock(stocks[i].Symbol)
		if s == nil {
			// deleted while fetching
			continue
		}
		s.Price = quote.Price
		s.ChangePerc = quote.ChangePerc
		if quote.DividendRate != nil {
			s.DividendRate = *quote.DividendRate
		}
		updated++
	}
	log.Info().Int("updated", updated).Int("stocks", len(stocks)).Dur("elapsed", time.Since(start)).Msg("refreshed prices")
	return updated, errors.Join(errs...)
}
