package portfolio

import "context"

// Store persists a ledger: stock reference data, options and transactions.
// The income tax rate is configuration and is not stored.
type Store interface {
	// Load returns the stored ledger, or an empty one if nothing was saved yet.
	Load(ctx context.Context) (*Ledger, error)
	// Save replaces the stored ledger with l.
	Save(ctx context.Context, l *Ledger) error
	Close() error
}
