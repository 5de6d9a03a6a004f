// Package jsonl stores a ledger as two files in a directory: book.json with
// the options and stocks, and ledger.jsonl with one transaction per line.
package jsonl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/phuslu/log"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/date"
)

const (
	BookFile   = "book.json"
	LedgerFile = "ledger.jsonl"

	// Backups is the number of daily backups kept for each file.
	Backups = 5
)

// Store is a directory based ledger store.
type Store struct {
	dir string
}

// Open returns a store in dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string  { return s.dir }
func (s *Store) Close() error { return nil }

// Load reads both files. Missing files load as empty.
func (s *Store) Load(ctx context.Context) (*portfolio.Ledger, error) {
	var (
		opts   portfolio.Options
		stocks []portfolio.Stock
		txs    []portfolio.Transaction
	)
	err := s.read(BookFile, func(r io.Reader) (err error) {
		opts, stocks, err = portfolio.DecodeStocks(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err = s.read(LedgerFile, func(r io.Reader) (err error) {
		txs, err = portfolio.DecodeTransactions(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Str("dir", s.dir).Int("stocks", len(stocks)).Int("transactions", len(txs)).Msg("loaded ledger")
	return portfolio.RestoreLedger(stocks, txs, opts), nil
}

func (s *Store) read(name string, decode func(io.Reader) error) error {
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	if err := decode(f); err != nil {
		return fmt.Errorf("%s: %w", f.Name(), err)
	}
	return nil
}

// Save backs up then atomically replaces both files.
func (s *Store) Save(ctx context.Context, l *portfolio.Ledger) error {
	snap := l.Snapshot()
	err := s.write(BookFile, func(w io.Writer) error {
		return portfolio.EncodeStocks(w, snap.Options, snap.Stocks)
	})
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(LedgerFile, func(w io.Writer) error {
		return portfolio.EncodeTransactions(w, snap.Transactions)
	})
}

// write encodes into a temporary file then renames it over name.
func (s *Store) write(name string, encode func(io.Writer) error) error {
	path := filepath.Join(s.dir, name)
	if err := backup(path, date.Today()); err != nil {
		// a failed backup must not prevent saving
		log.Warn().Str("file", path).Err(err).Msg("backup failed")
	}

	f, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// backup copies path to path.YYYY-MM-DD once per day and prunes old copies.
func backup(path string, today date.Date) error {
	target := path + "." + today.String()
	if _, err := os.Stat(target); err == nil {
		return nil
	}
	src, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}
	return prune(path, Backups)
}

// prune removes all but the keep most recent backups of path.
func prune(path string, keep int) error {
	matches, err := filepath.Glob(path + ".*")
	if err != nil {
		return err
	}
	var backups []string
	for _, m := range matches {
		if _, err := date.Parse(strings.TrimPrefix(m, path+".")); err == nil {
			backups = append(backups, m)
		}
	}
	// dates sort lexically
	slices.Sort(backups)
	var errs []error
	for len(backups) > keep {
		errs = append(errs, os.Remove(backups[0]))
		backups = backups[1:]
	}
	return errors.Join(errs...)
}
