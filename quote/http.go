// Package quote provides portfolio.Quoter implementations.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/patrickmn/go-cache"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	portfolio "github.com/ostigter/portfolio-manager"
)

// ErrNoValue is returned when a JSONPath expression selects nothing usable.
var ErrNoValue = errors.New("no value at path")

// HTTP fetches quotes from a JSON endpoint. The URL template contains
// "{symbol}", replaced by the escaped stock symbol; each field of the
// quote is extracted from the response with a JSONPath expression.
type HTTP struct {
	urlTemplate  string
	pricePath    string
	changePath   string
	dividendPath string

	client  *http.Client
	limiter *rate.Limiter
	cache   *cache.Cache
}

// Option configures an HTTP quoter.
type Option func(*HTTP)

// WithChangePath sets the expression of the daily change in percent. Empty disables it.
func WithChangePath(path string) Option { return func(h *HTTP) { h.changePath = path } }

// WithDividendPath sets the expression of the annual dividend per share. Empty disables it.
func WithDividendPath(path string) Option { return func(h *HTTP) { h.dividendPath = path } }

// WithRateLimit allows perSecond requests per second with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(h *HTTP) {
		if burst < 1 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithCacheTTL keeps responses for ttl. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(h *HTTP) {
		if ttl <= 0 {
			h.cache = nil
			return
		}
		h.cache = cache.New(ttl, 2*ttl)
	}
}

func WithTimeout(d time.Duration) Option { return func(h *HTTP) { h.client.Timeout = d } }

// WithClient replaces the http client, keeping its own timeout.
func WithClient(c *http.Client) Option { return func(h *HTTP) { h.client = c } }

// NewHTTP returns a quoter reading the price at pricePath.
func NewHTTP(urlTemplate, pricePath string, opts ...Option) (*HTTP, error) {
	if !strings.Contains(urlTemplate, "{symbol}") {
		return nil, fmt.Errorf("quote url %q has no {symbol} placeholder", urlTemplate)
	}
	if pricePath == "" {
		return nil, fmt.Errorf("quote price path is missing")
	}
	h := &HTTP{
		urlTemplate: urlTemplate,
		pricePath:   pricePath,
		client:      &http.Client{Timeout: 10 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(2), 1),
		cache:       cache.New(time.Minute, 2*time.Minute),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Quote implements portfolio.Quoter.
func (h *HTTP) Quote(ctx context.Context, symbol string) (portfolio.Quote, error) {
	doc, err := h.fetch(ctx, symbol)
	if err != nil {
		return portfolio.Quote{}, err
	}

	var q portfolio.Quote
	price, err := lookup(h.pricePath, doc)
	if err != nil {
		return q, fmt.Errorf("price of %s: %w", symbol, err)
	}
	q.Price = portfolio.M(price)

	if h.changePath != "" {
		change, err := lookup(h.changePath, doc)
		if err != nil {
			return q, fmt.Errorf("change of %s: %w", symbol, err)
		}
		q.ChangePerc = portfolio.P(change)
	}
	if h.dividendPath != "" {
		// many sources omit the dividend for non paying stocks
		if div, err := lookup(h.dividendPath, doc); err == nil {
			m := portfolio.M(div)
			q.DividendRate = &m
		} else {
			log.Debug().Str("symbol", symbol).Err(err).Msg("no dividend rate in quote")
		}
	}
	return q, nil
}

func (h *HTTP) fetch(ctx context.Context, symbol string) (any, error) {
	addr := strings.ReplaceAll(h.urlTemplate, "{symbol}", url.PathEscape(symbol))
	if h.cache != nil {
		if doc, ok := h.cache.Get(addr); ok {
			return doc, nil
		}
	}

	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error retrieving %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	log.Debug().Str("url", addr).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("quote request")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error retrieving %s: %s", symbol, resp.Status)
	}
	var doc any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", symbol, err)
	}
	if h.cache != nil {
		h.cache.SetDefault(addr, doc)
	}
	return doc, nil
}

// lookup evaluates path on doc and reads the result as a decimal. Numbers
// and numeric strings are accepted; a single element list is unwrapped.
func lookup(path string, doc any) (decimal.Decimal, error) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %v", ErrNoValue, path, err)
	}
	// jsonpath returns a list for wildcard and slice expressions
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return decimal.Zero, fmt.Errorf("%w %q", ErrNoValue, path)
		}
		v = list[0]
	}
	switch v := v.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(v), "%")
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return decimal.Zero, fmt.Errorf("%w %q: %q is not a number", ErrNoValue, path, v)
		}
		return decimal.NewFromString(s)
	default:
		return decimal.Zero, fmt.Errorf("%w %q: unexpected %T", ErrNoValue, path, v)
	}
}
