// Package config loads the pm configuration: a TOML file, an optional .env
// file and PM_* environment overrides, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for pm.
type Config struct {
	DataDir string        `toml:"data_dir"`
	Store   StoreConfig   `toml:"store"`
	Tax     TaxConfig     `toml:"tax"`
	Logging LoggingConfig `toml:"logging"`
	Quotes  QuotesConfig  `toml:"quotes"`
	Server  ServerConfig  `toml:"server"`
	Watch   WatchConfig   `toml:"watch"`
}

// StoreConfig selects where the ledger is persisted.
type StoreConfig struct {
	Kind string `toml:"kind"` // "jsonl" or "sqlite"
	Path string `toml:"path"` // relative paths are resolved against data_dir
}

type TaxConfig struct {
	Rate string `toml:"rate"` // fraction withheld from dividends, "0.15"
}

type LoggingConfig struct {
	Level string `toml:"level"`
	Color bool   `toml:"color"`
}

// QuotesConfig describes a JSON quote endpoint. URL contains "{symbol}".
type QuotesConfig struct {
	URL          string  `toml:"url"`
	PricePath    string  `toml:"price_path"`
	ChangePath   string  `toml:"change_path"`
	DividendPath string  `toml:"dividend_path"`
	Rate         float64 `toml:"rate"` // requests per second
	Burst        int     `toml:"burst"`
	CacheTTL     string  `toml:"cache_ttl"`
	Timeout      string  `toml:"timeout"`
	Workers      int     `toml:"workers"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type WatchConfig struct {
	Schedule string `toml:"schedule"` // cron schedule, "@every 15m"
}

// Default returns a Config with every field set.
func Default() *Config {
	return &Config{
		DataDir: "data",
		Store:   StoreConfig{Kind: "jsonl", Path: "portfolio"},
		Tax:     TaxConfig{Rate: "0.15"},
		Logging: LoggingConfig{Level: "info", Color: true},
		Quotes: QuotesConfig{
			PricePath:  "$.price",
			ChangePath: "$.changePercent",
			Rate:       2,
			Burst:      1,
			CacheTTL:   "1m",
			Timeout:    "10s",
			Workers:    4,
		},
		Server: ServerConfig{
			Addr:           "localhost:5001",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Watch: WatchConfig{Schedule: "@every 15m"},
	}
}

// Load reads path (a missing file is not an error), then applies the .env
// file of the working directory and PM_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.DataDir, "PM_DATA_DIR")
	setString(&cfg.Store.Kind, "PM_STORE")
	setString(&cfg.Store.Path, "PM_STORE_PATH")
	setString(&cfg.Tax.Rate, "PM_INCOME_TAX_RATE")
	setString(&cfg.Logging.Level, "PM_LOG_LEVEL")
	setString(&cfg.Quotes.URL, "PM_QUOTES_URL")
	setString(&cfg.Server.Addr, "PM_SERVER_ADDR")
	setString(&cfg.Watch.Schedule, "PM_WATCH_SCHEDULE")
	if v := os.Getenv("PM_QUOTES_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Quotes.Workers = n
		}
	}
	if v := os.Getenv("PM_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks the values that are parsed lazily elsewhere.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case "jsonl", "sqlite":
	default:
		return fmt.Errorf("unknown store kind %q, want jsonl or sqlite", c.Store.Kind)
	}
	rate, err := c.IncomeTaxRate()
	if err != nil {
		return err
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("income tax rate %s out of [0, 1]", rate)
	}
	for name, d := range map[string]string{"cache_ttl": c.Quotes.CacheTTL, "timeout": c.Quotes.Timeout} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("quotes.%s: %w", name, err)
		}
	}
	return nil
}

// IncomeTaxRate parses the configured dividend tax rate.
func (c *Config) IncomeTaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Tax.Rate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid income tax rate %q: %w", c.Tax.Rate, err)
	}
	return rate, nil
}

// StorePath returns the store location, resolved against DataDir.
func (c *Config) StorePath() string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(c.DataDir, c.Store.Path)
}

func (c QuotesConfig) CacheDuration() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return time.Minute
	}
	return d
}

func (c QuotesConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// NewLogger returns a console logger writing to w at the given level.
func NewLogger(level string, color bool, w io.Writer) log.Logger {
	return log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05",
		Writer:     &log.ConsoleWriter{Writer: w, ColorOutput: color},
	}
}
