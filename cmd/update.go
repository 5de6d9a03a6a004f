package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/config"
	"github.com/ostigter/portfolio-manager/quote"
)

type updateCmd struct{}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "update stock prices from the configured quote source" }
func (*updateCmd) Usage() string {
	return `pm update

  Fetches the latest quote of every stock, concurrently, and saves the
  ledger. Stocks whose quote fails keep their previous price.
`
}
func (*updateCmd) SetFlags(*flag.FlagSet) {}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, true, func(l *portfolio.Ledger) error {
		if err := refresh(ctx, l); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		return nil
	})
}

// refresh updates the prices of l from the configured quoter.
func refresh(ctx context.Context, l *portfolio.Ledger) error {
	cfg, err := Config()
	if err != nil {
		return err
	}
	q, err := newQuoter(cfg.Quotes)
	if err != nil {
		return err
	}
	n, err := l.RefreshPrices(ctx, q, cfg.Quotes.Workers)
	fmt.Fprintf(os.Stderr, "Updated %d of %d stocks\n", n, len(l.Stocks()))
	return err
}

func newQuoter(qc config.QuotesConfig) (*quote.HTTP, error) {
	if qc.URL == "" {
		return nil, fmt.Errorf("no quote source: set [quotes] url in the configuration")
	}
	return quote.NewHTTP(qc.URL, qc.PricePath,
		quote.WithChangePath(qc.ChangePath),
		quote.WithDividendPath(qc.DividendPath),
		quote.WithRateLimit(qc.Rate, qc.Burst),
		quote.WithCacheTTL(qc.CacheDuration()),
		quote.WithTimeout(qc.TimeoutDuration()),
	)
}
