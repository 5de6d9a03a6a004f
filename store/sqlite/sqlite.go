// Package sqlite stores a ledger in a SQLite database. The schema is
// managed by embedded goose migrations; decimals are stored as text and
// transaction timestamps as Unix milliseconds.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // SQLite driver

	portfolio "github.com/ostigter/portfolio-manager"
)

//go:embed migrations/*.sql
var migrations embed.FS

const optionsKey = "options"

// Store is a SQLite backed ledger store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates it to the latest schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA timezone = 'UTC'"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set timezone: %w", err)
	}
	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	for _, r := range results {
		log.Info().Int64("version", r.Source.Version).Dur("elapsed", r.Duration).Msg("applied migration")
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// Load reads the whole ledger.
func (s *Store) Load(ctx context.Context) (*portfolio.Ledger, error) {
	opts, err := s.loadOptions(ctx)
	if err != nil {
		return nil, err
	}
	stocks, err := s.loadStocks(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.loadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return portfolio.RestoreLedger(stocks, txs, opts), nil
}

func (s *Store) loadOptions(ctx context.Context) (portfolio.Options, error) {
	var (
		opts portfolio.Options
		raw  string
	)
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", optionsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return opts, nil
	}
	if err != nil {
		return opts, fmt.Errorf("failed to read options: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return opts, fmt.Errorf("failed to decode options: %w", err)
	}
	return opts, nil
}

func (s *Store) loadStocks(ctx context.Context) ([]portfolio.Stock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, name, price, change_perc, target_price, div_rate, div_growth,
		       years_div_growth, credit_rating, comment
		FROM stocks ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	var stocks []portfolio.Stock
	for rows.Next() {
		var st portfolio.Stock
		var price, change, target, divRate, divGrowth, rating string
		err := rows.Scan(&st.Symbol, &st.Name, &price, &change, &target, &divRate, &divGrowth,
			&st.YearsDivGrowth, &rating, &st.Comment)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		var p decimals
		st.Price = portfolio.M(p.parse(price))
		st.ChangePerc = portfolio.P(p.parse(change))
		st.TargetPrice = portfolio.M(p.parse(target))
		st.DividendRate = portfolio.M(p.parse(divRate))
		st.DividendGrowth = portfolio.P(p.parse(divGrowth))
		if p.err != nil {
			return nil, fmt.Errorf("stock %s: %w", st.Symbol, p.err)
		}
		if st.CreditRating, err = portfolio.ParseCreditRating(rating); err != nil {
			return nil, fmt.Errorf("stock %s: %w", st.Symbol, err)
		}
		stocks = append(stocks, st)
	}
	return stocks, rows.Err()
}

func (s *Store) loadTransactions(ctx context.Context) ([]portfolio.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ref, type, date, symbol, shares, price, fee
		FROM transactions ORDER BY date, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []portfolio.Transaction
	for rows.Next() {
		var (
			ref, kind, symbol, shares, price, fee string
			millis                                int64
		)
		if err := rows.Scan(&ref, &kind, &millis, &symbol, &shares, &price, &fee); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		id, err := uuid.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("transaction %q: %w", ref, err)
		}
		var p decimals
		q, pr, f := p.parse(shares), p.parse(price), p.parse(fee)
		if p.err != nil {
			return nil, fmt.Errorf("transaction %s: %w", ref, p.err)
		}
		tx, err := portfolio.Restore(portfolio.TransactionType(kind), id, time.UnixMilli(millis).UTC(),
			symbol, portfolio.Q(q), portfolio.M(pr), portfolio.M(f))
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", ref, err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// decimals parses a sequence of columns, keeping the first error.
type decimals struct{ err error }

func (p *decimals) parse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil && p.err == nil {
		p.err = err
	}
	return d
}

// Save rewrites every table inside one transaction.
func (s *Store) Save(ctx context.Context, l *portfolio.Ledger) (err error) {
	snap := l.Snapshot()
	rawOpts, err := json.Marshal(snap.Options)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("rollback failed")
			}
		}
	}()

	for _, stmt := range []string{"DELETE FROM transactions", "DELETE FROM stocks"} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, optionsKey, string(rawOpts))
	if err != nil {
		return fmt.Errorf("failed to save options: %w", err)
	}

	for _, st := range snap.Stocks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO stocks (symbol, name, price, change_perc, target_price, div_rate, div_growth,
			                    years_div_growth, credit_rating, comment)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			st.Symbol, st.Name, st.Price.Decimal().String(), st.ChangePerc.Decimal().String(),
			st.TargetPrice.Decimal().String(), st.DividendRate.Decimal().String(),
			st.DividendGrowth.Decimal().String(), st.YearsDivGrowth, st.CreditRating.String(), st.Comment)
		if err != nil {
			return fmt.Errorf("failed to save stock %s: %w", st.Symbol, err)
		}
	}

	for _, t := range snap.Transactions {
		shares, price, fee := t.Amounts()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (ref, type, date, symbol, shares, price, fee)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.Ref().String(), string(t.What()), t.When().UnixMilli(), t.Ticker(),
			shares.Decimal().String(), price.Decimal().String(), fee.Decimal().String())
		if err != nil {
			return fmt.Errorf("failed to save transaction %s: %w", t.Ref(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	log.Debug().Int("stocks", len(snap.Stocks)).Int("transactions", len(snap.Transactions)).Msg("saved ledger")
	return nil
}
