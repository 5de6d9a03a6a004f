// Package cmd implements the pm command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/phuslu/log"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/config"
	"github.com/ostigter/portfolio-manager/store"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	groups := Commands()
	for _, group := range slices.Sorted(maps.Keys(groups)) {
		for _, cmd := range groups[group] {
			c.Register(cmd, group)
		}
	}
}

// Commands returns the pm subcommands by group.
func Commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"stocks": {
			&addStockCmd{},
			&editStockCmd{},
			&deleteStockCmd{},
			&stocksCmd{},
		},
		"transactions": {
			newTxCmd(portfolio.TypeBuy),
			newTxCmd(portfolio.TypeSell),
			newTxCmd(portfolio.TypeDividend),
			&transactionsCmd{},
			&deleteTxCmd{},
		},
		"reports": {
			&holdingCmd{},
			newPeriodicCmd("monthly"),
			newPeriodicCmd("quarterly"),
			newPeriodicCmd("yearly"),
			&analyzeCmd{},
		},
		"settings": {
			&optionsCmd{},
			&topicCmd{},
		},
		"market": {
			&updateCmd{},
			&serveCmd{},
			&watchCmd{},
		},
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", envOr("PM_CONFIG", "pm.toml"), "Path to the TOML configuration file")
	Verbose    = flag.Bool("v", false, "Verbose output: log at debug level")
	rawOutput  = flag.Bool("raw", false, "Print markdown without terminal styling")
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

var (
	loadOnce  sync.Once
	loadedCfg *config.Config
	loadErr   error
)

// Config loads the configuration once and installs the logger it describes.
func Config() (*config.Config, error) {
	loadOnce.Do(func() {
		loadedCfg, loadErr = config.Load(*configFile)
		if loadErr != nil {
			return
		}
		level := loadedCfg.Logging.Level
		if *Verbose {
			level = "debug"
		}
		log.DefaultLogger = config.NewLogger(level, loadedCfg.Logging.Color, os.Stderr)
	})
	return loadedCfg, loadErr
}

// OpenLedger opens the configured store and loads the ledger from it.
// The caller must close the store.
func OpenLedger(ctx context.Context) (*portfolio.Ledger, portfolio.Store, error) {
	cfg, err := Config()
	if err != nil {
		return nil, nil, err
	}
	s, err := store.Open(cfg.Store.Kind, cfg.StorePath())
	if err != nil {
		return nil, nil, err
	}
	l, err := s.Load(ctx)
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("loading ledger: %w", err)
	}
	rate, err := cfg.IncomeTaxRate()
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	l.SetIncomeTaxRate(rate)
	return l, s, nil
}

// withLedger runs fn on the loaded ledger and saves it afterwards when save is set.
func withLedger(ctx context.Context, save bool, fn func(*portfolio.Ledger) error) subcommands.ExitStatus {
	l, s, err := OpenLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := fn(l); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if !save {
		return subcommands.ExitSuccess
	}
	if err := s.Save(ctx, l); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, or prints it as is with -raw.
func printMarkdown(md string) {
	if *rawOutput {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
