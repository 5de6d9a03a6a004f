package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"github.com/phuslu/log"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/date"
	"github.com/ostigter/portfolio-manager/renderer"
)

type analyzeCmd struct {
	dir    string
	output string
	date   string
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "score stocks on their price history" }
func (*analyzeCmd) Usage() string {
	return `pm analyze [-dir <prices>] [-o <file.csv>] [-d <date>] [symbol...]

  Reads the closing prices of each stock from <dir>/<SYMBOL>.csv and scores
  it on its 10, 5 and 1 year performance. Stocks without enough history are
  skipped. With -o, the analysis is also written as a ';' separated file.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Directory of price history files (defaults to <data_dir>/prices)")
	f.StringVar(&c.output, "o", "", "Write the analysis to this CSV file")
	f.StringVar(&c.date, "d", date.Today().String(), "Reference date of the analysis")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ref, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, err := Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.dir == "" {
		c.dir = filepath.Join(cfg.DataDir, "prices")
	}

	return withLedger(ctx, false, func(l *portfolio.Ledger) error {
		stocks, err := selectStocks(l, f.Args())
		if err != nil {
			return err
		}
		var analyses []portfolio.Analysis
		for _, st := range stocks {
			a, err := analyzeFile(&st, filepath.Join(c.dir, st.Symbol+".csv"), ref)
			if err != nil {
				log.Warn().Str("symbol", st.Symbol).Err(err).Msg("skipping analysis")
				continue
			}
			analyses = append(analyses, a)
		}
		if len(analyses) == 0 {
			return fmt.Errorf("no stock could be analyzed from %s", c.dir)
		}
		printMarkdown(renderer.AnalysisMarkdown(analyses))

		if c.output == "" {
			return nil
		}
		out, err := os.Create(c.output)
		if err != nil {
			return err
		}
		if err := portfolio.WriteAnalysisCSV(out, analyses); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Analyzed %d stocks, output written to %s\n", len(analyses), c.output)
		return nil
	})
}

// selectStocks returns the named stocks, or every stock when none is named.
func selectStocks(l *portfolio.Ledger, symbols []string) ([]portfolio.Stock, error) {
	if len(symbols) == 0 {
		return l.Stocks(), nil
	}
	var stocks []portfolio.Stock
	for _, s := range symbols {
		st, ok := l.Stock(strings.TrimSpace(s))
		if !ok {
			return nil, fmt.Errorf("%w: %s", portfolio.ErrUnknownStock, s)
		}
		stocks = append(stocks, st)
	}
	return stocks, nil
}

func analyzeFile(st *portfolio.Stock, path string, ref date.Date) (portfolio.Analysis, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return portfolio.Analysis{}, fmt.Errorf("%w: no price file %s", portfolio.ErrNoPrices, path)
	}
	if err != nil {
		return portfolio.Analysis{}, err
	}
	defer f.Close()
	prices, err := portfolio.DecodePriceHistory(f)
	if err != nil {
		return portfolio.Analysis{}, fmt.Errorf("%s: %w", path, err)
	}
	return portfolio.Analyze(st, prices, ref)
}
