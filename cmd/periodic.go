package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/date"
	"github.com/ostigter/portfolio-manager/renderer"
)

// periodicCmd reports average cost and income per calendar period.
type periodicCmd struct {
	name   string
	period date.Period
	until  string
}

func newPeriodicCmd(name string) *periodicCmd {
	p, err := date.ParsePeriod(name)
	if err != nil {
		panic(err)
	}
	return &periodicCmd{name: name, period: p}
}

func (c *periodicCmd) Name() string { return c.name }
func (c *periodicCmd) Synopsis() string {
	return fmt.Sprintf("display %s average cost and dividend income", c.name)
}
func (c *periodicCmd) Usage() string {
	return fmt.Sprintf(`pm %s [-d <date>]

  Displays, for each %s period since the first transaction, the average
  daily cost basis, the dividend income and the income yield, followed by
  the overall results.
`, c.name, c.period)
}

func (c *periodicCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.until, "d", date.Today().String(), "Last day of the report")
}

func (c *periodicCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	until, err := date.Parse(c.until)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, false, func(l *portfolio.Ledger) error {
		txs, tax := l.Transactions(), l.IncomeTax()
		rows, err := portfolio.PeriodicResults(txs, tax, until, c.period)
		if err != nil {
			return err
		}
		overall, err := portfolio.OverallResults(txs, tax, until)
		if err != nil {
			return err
		}
		p, err := l.Portfolio()
		if err != nil {
			return err
		}
		printMarkdown(renderer.PeriodicMarkdown(c.period, rows, overall, p.TotalReturn(), l.Options().RoundTotals))
		return nil
	})
}
