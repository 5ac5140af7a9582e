// Package store persists the record list. Every backend loads and saves the
// whole list; a missing backing store loads as an empty list.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gravitrone/cocoon/internal/record"
	"github.com/gravitrone/cocoon/internal/store/sqlite"
)

// Store loads and saves the full record list.
type Store interface {
	Load(ctx context.Context) ([]record.Record, error)
	Save(ctx context.Context, records []record.Record) error
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

var (
	_ Store = (*JSONFile)(nil)
	_ Store = (*sqlite.Store)(nil)
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Path       string
	Passphrase string
	Logger     *slog.Logger
}

// DefaultPath returns the data file location for a backend inside dir.
func DefaultPath(dir, backend string) string {
	if backend == BackendSQLite {
		return filepath.Join(dir, "cocoon_data.db")
	}
	return filepath.Join(dir, "cocoon_data.json")
}

// Open returns the configured backend. The caller closes it with Close.
func Open(opts Options) (Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendJSON
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	switch backend {
	case BackendJSON:
		var jopts []JSONOption
		if opts.Passphrase != "" {
			jopts = append(jopts, WithPassphrase(opts.Passphrase))
		}
		jopts = append(jopts, WithLogger(logger))
		return NewJSONFile(opts.Path, jopts...), nil
	case BackendSQLite:
		if opts.Passphrase != "" {
			return nil, fmt.Errorf("encryption is only supported by the json store")
		}
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		db := sqlite.NewStore(opts.Path)
		if err := db.Open(); err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

// Close releases backends that hold resources.
func Close(s Store) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
