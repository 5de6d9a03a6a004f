package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/renderer"
)

// stockFlags are the reference data flags shared by add-stock and edit-stock.
type stockFlags struct {
	symbol   string
	name     string
	price    string
	target   string
	divRate  string
	divGrow  string
	years    int
	rating   string
	comment  string
	setFlags map[string]bool
}

func (s *stockFlags) register(f *flag.FlagSet) {
	f.StringVar(&s.symbol, "s", "", "Stock symbol (required)")
	f.StringVar(&s.name, "n", "", "Stock name")
	f.StringVar(&s.price, "p", "", "Current price")
	f.StringVar(&s.target, "target", "", "Target price")
	f.StringVar(&s.divRate, "div", "", "Annual dividend per share")
	f.StringVar(&s.divGrow, "growth", "", "Dividend growth in percent")
	f.IntVar(&s.years, "years", -1, "Consecutive years of dividend growth, -1 when unknown")
	f.StringVar(&s.rating, "rating", "", "Credit rating, e.g. AA-")
	f.StringVar(&s.comment, "comment", "", "Free text comment")
}

// parse reads the flags the user actually set.
func (s *stockFlags) parse(f *flag.FlagSet) error {
	s.symbol = strings.TrimSpace(s.symbol)
	if s.symbol == "" {
		return fmt.Errorf("-s symbol is required")
	}
	s.setFlags = make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { s.setFlags[fl.Name] = true })
	return nil
}

// apply copies every set flag onto st.
func (s *stockFlags) apply(st *portfolio.Stock) error {
	money := func(flagName, v string, dst *portfolio.Money) error {
		if !s.setFlags[flagName] {
			return nil
		}
		m, err := portfolio.ParseMoney(v)
		if err != nil {
			return fmt.Errorf("-%s: %w", flagName, err)
		}
		*dst = m
		return nil
	}
	if s.setFlags["n"] {
		st.Name = s.name
	}
	if err := money("p", s.price, &st.Price); err != nil {
		return err
	}
	if err := money("target", s.target, &st.TargetPrice); err != nil {
		return err
	}
	if err := money("div", s.divRate, &st.DividendRate); err != nil {
		return err
	}
	if s.setFlags["growth"] {
		g, err := decimal.NewFromString(s.divGrow)
		if err != nil {
			return fmt.Errorf("-growth: %w", err)
		}
		st.DividendGrowth = portfolio.P(g)
	}
	if s.setFlags["years"] {
		st.YearsDivGrowth = s.years
	}
	if s.setFlags["rating"] {
		r, err := portfolio.ParseCreditRating(s.rating)
		if err != nil {
			return err
		}
		st.CreditRating = r
	}
	if s.setFlags["comment"] {
		st.Comment = s.comment
	}
	return nil
}

type addStockCmd struct{ stock stockFlags }

func (*addStockCmd) Name() string     { return "add-stock" }
func (*addStockCmd) Synopsis() string { return "add a stock to the registry" }
func (*addStockCmd) Usage() string {
	return `pm add-stock -s <symbol> -n <name> [-p <price>] [-div <rate>] [-rating <rating>] ...

  Registers a stock. Transactions can only refer to registered stocks.
`
}
func (c *addStockCmd) SetFlags(f *flag.FlagSet) { c.stock.register(f) }

func (c *addStockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.stock.parse(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	st := portfolio.NewStock(c.stock.symbol, c.stock.symbol)
	if err := c.stock.apply(st); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, true, func(l *portfolio.Ledger) error {
		if err := l.AddStock(*st); err != nil {
			return err
		}
		fmt.Printf("Added %s\n", st)
		return nil
	})
}

type editStockCmd struct{ stock stockFlags }

func (*editStockCmd) Name() string     { return "edit-stock" }
func (*editStockCmd) Synopsis() string { return "change the reference data of a stock" }
func (*editStockCmd) Usage() string {
	return `pm edit-stock -s <symbol> [-n <name>] [-target <price>] [-div <rate>] ...

  Updates only the fields given on the command line.
`
}
func (c *editStockCmd) SetFlags(f *flag.FlagSet) { c.stock.register(f) }

func (c *editStockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.stock.parse(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, true, func(l *portfolio.Ledger) error {
		var applyErr error
		err := l.UpdateStock(c.stock.symbol, func(st *portfolio.Stock) {
			// apply on a copy so a bad flag leaves the stock untouched
			edited := *st
			if applyErr = c.stock.apply(&edited); applyErr == nil {
				*st = edited
			}
		})
		if err != nil {
			return err
		}
		return applyErr
	})
}

type deleteStockCmd struct{ symbol string }

func (*deleteStockCmd) Name() string     { return "delete-stock" }
func (*deleteStockCmd) Synopsis() string { return "remove a stock without transactions" }
func (*deleteStockCmd) Usage() string    { return "pm delete-stock -s <symbol>\n" }
func (c *deleteStockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Stock symbol")
}

func (c *deleteStockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbol := strings.TrimSpace(c.symbol)
	if symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -s symbol is required")
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, true, func(l *portfolio.Ledger) error {
		return l.DeleteStock(symbol)
	})
}

type stocksCmd struct{ owned bool }

func (*stocksCmd) Name() string     { return "stocks" }
func (*stocksCmd) Synopsis() string { return "list registered stocks" }
func (*stocksCmd) Usage() string {
	return `pm stocks [-owned]

  Lists stocks with their latest market data, ordered by name.
`
}
func (c *stocksCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.owned, "owned", false, "Only list stocks currently held")
}

func (c *stocksCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, false, func(l *portfolio.Ledger) error {
		stocks := l.Stocks()
		if c.owned {
			var err error
			if stocks, err = l.OwnedStocks(); err != nil {
				return err
			}
		}
		printMarkdown(renderer.StocksMarkdown(stocks))
		return nil
	})
}
