package quote

import (
	"context"
	"fmt"
	"sync"

	portfolio "github.com/ostigter/portfolio-manager"
)

// Static serves quotes from a fixed table.
type Static struct {
	mu     sync.RWMutex
	quotes map[string]portfolio.Quote
}

func NewStatic(quotes map[string]portfolio.Quote) *Static {
	s := &Static{quotes: make(map[string]portfolio.Quote, len(quotes))}
	for k, v := range quotes {
		s.quotes[k] = v
	}
	return s
}

// Set replaces the quote of symbol.
func (s *Static) Set(symbol string, q portfolio.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[symbol] = q
}

func (s *Static) Quote(ctx context.Context, symbol string) (portfolio.Quote, error) {
	if err := ctx.Err(); err != nil {
		return portfolio.Quote{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[symbol]
	if !ok {
		return portfolio.Quote{}, fmt.Errorf("%w: no quote for %s", portfolio.ErrUnknownStock, symbol)
	}
	return q, nil
}
