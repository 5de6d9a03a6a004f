package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"

	portfolio "github.com/ostigter/portfolio-manager"
)

type optionsCmd struct {
	deductTax   string
	showClosed  string
	roundTotals string
}

func (*optionsCmd) Name() string     { return "options" }
func (*optionsCmd) Synopsis() string { return "show or change the ledger options" }
func (*optionsCmd) Usage() string {
	return `pm options [-deduct-tax true|false] [-show-closed true|false] [-round-totals true|false]

  Without flags, prints the current options.
`
}

func (c *optionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.deductTax, "deduct-tax", "", "Deduct income tax from dividends")
	f.StringVar(&c.showClosed, "show-closed", "", "Show closed positions in reports")
	f.StringVar(&c.roundTotals, "round-totals", "", "Round report totals to whole units")
}

func (c *optionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	changed := f.NFlag() > 0
	return withLedger(ctx, changed, func(l *portfolio.Ledger) error {
		opts := l.Options()
		for _, o := range []struct {
			name  string
			value string
			dst   *bool
		}{
			{"deduct-tax", c.deductTax, &opts.DeductIncomeTax},
			{"show-closed", c.showClosed, &opts.ShowClosedPositions},
			{"round-totals", c.roundTotals, &opts.RoundTotals},
		} {
			if o.value == "" {
				continue
			}
			v, err := strconv.ParseBool(o.value)
			if err != nil {
				return fmt.Errorf("-%s: %w", o.name, err)
			}
			*o.dst = v
		}
		l.SetOptions(opts)

		fmt.Fprintf(os.Stdout, "deduct-tax:   %t (rate %s)\n", opts.DeductIncomeTax, l.IncomeTax().Rate)
		fmt.Fprintf(os.Stdout, "show-closed:  %t\n", opts.ShowClosedPositions)
		fmt.Fprintf(os.Stdout, "round-totals: %t\n", opts.RoundTotals)
		return nil
	})
}
