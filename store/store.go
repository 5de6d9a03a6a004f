// Package store opens the ledger store selected by configuration.
package store

import (
	"fmt"

	portfolio "github.com/ostigter/portfolio-manager"
	"github.com/ostigter/portfolio-manager/store/jsonl"
	"github.com/ostigter/portfolio-manager/store/sqlite"
)

// Kinds lists the supported store kinds.
var Kinds = []string{"jsonl", "sqlite"}

// Open opens a store of the given kind at path: a directory for "jsonl",
// a database file for "sqlite".
func Open(kind, path string) (portfolio.Store, error) {
	switch kind {
	case "jsonl":
		return jsonl.Open(path)
	case "sqlite":
		return sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}
