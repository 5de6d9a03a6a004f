package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/renderer"
)

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	symbol string
	update bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display positions and portfolio totals" }
func (*holdingCmd) Usage() string {
	return `pm holding [-s <symbol>] [-u]

  Displays every open position with cost, value, result and income, and the
  portfolio totals. With -s, displays the details of a single position.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Display a single position")
	f.BoolVar(&c.update, "u", false, "update with latest prices before calculating the report")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, c.update, func(l *portfolio.Ledger) error {
		if c.update {
			if err := refresh(ctx, l); err != nil {
				// stale prices still make a report
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
		p, err := l.Portfolio()
		if err != nil {
			return err
		}
		if c.symbol == "" {
			printMarkdown(renderer.HoldingMarkdown(p, l.Options()))
			return nil
		}
		pos := p.Position(strings.TrimSpace(c.symbol))
		if pos == nil {
			return fmt.Errorf("no position in %s", c.symbol)
		}
		printMarkdown(renderer.PositionMarkdown(pos))
		return nil
	})
}
