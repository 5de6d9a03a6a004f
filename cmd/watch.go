package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/server"
)

type watchCmd struct {
	schedule string
	serve    bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh prices on a schedule" }
func (*watchCmd) Usage() string {
	return `pm watch [-schedule <cron>] [-serve]

  Refreshes prices and saves the ledger on a cron schedule, such as
  "@every 15m" or "*/30 9-17 * * MON-FRI", logging the portfolio totals
  after each refresh. With -serve, also serves the JSON API.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", "", "Cron schedule (defaults to [watch] schedule)")
	f.BoolVar(&c.serve, "serve", false, "Also serve the JSON API")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	schedule := c.schedule
	if schedule == "" {
		schedule = cfg.Watch.Schedule
	}
	q, err := newQuoter(cfg.Quotes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	l, s, err := OpenLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := func() {
		jobCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		n, err := l.RefreshPrices(jobCtx, q, cfg.Quotes.Workers)
		if err != nil {
			log.Warn().Err(err).Msg("some prices could not be refreshed")
		}
		if n == 0 {
			return
		}
		if err := s.Save(jobCtx, l); err != nil {
			log.Error().Err(err).Msg("failed to save ledger")
			return
		}
		logTotals(l)
	}

	c2 := cron.New()
	if _, err := c2.AddFunc(schedule, job); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid schedule %q: %v\n", schedule, err)
		return subcommands.ExitUsageError
	}
	c2.Start()
	log.Info().Str("schedule", schedule).Msg("watching prices")

	if c.serve {
		go func() {
			if err := server.New(l, cfg.Server.AllowedOrigins).ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				log.Error().Err(err).Msg("api server stopped")
				stop()
			}
		}()
	}

	<-ctx.Done()
	// wait for a running job to finish
	<-c2.Stop().Done()
	return subcommands.ExitSuccess
}

func logTotals(l *portfolio.Ledger) {
	p, err := l.Portfolio()
	if err != nil {
		log.Error().Err(err).Msg("failed to rebuild portfolio")
		return
	}
	log.Info().
		Str("value", p.CurrentValue().String()).
		Str("result", p.CurrentResult().SignedString()).
		Str("result_perc", p.CurrentResultPercentage().SignedString()).
		Str("annual_income", p.AnnualIncome().String()).
		Msg("portfolio")
}
