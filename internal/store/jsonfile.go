package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gravitrone/cocoon/internal/record"
)

// document is the on-disk shape of the data file.
type document struct {
	Documents []record.Record `json:"documents"`
}

// JSONFile stores records in a single JSON file, optionally encrypted.
type JSONFile struct {
	path       string
	passphrase []byte
	logger     *slog.Logger
}

// JSONOption configures a JSONFile.
type JSONOption func(*JSONFile)

// WithPassphrase encrypts the file with a key derived from passphrase.
func WithPassphrase(passphrase string) JSONOption {
	return func(f *JSONFile) {
		f.passphrase = []byte(passphrase)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) JSONOption {
	return func(f *JSONFile) {
		f.logger = logger
	}
}

// NewJSONFile creates a store at path.
func NewJSONFile(path string, opts ...JSONOption) *JSONFile {
	f := &JSONFile{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the data file path.
func (f *JSONFile) Path() string {
	return f.path
}

// Load reads all records. A missing or empty file yields an empty list.
func (f *JSONFile) Load(ctx context.Context) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.logger.Debug("data file missing, starting empty", "path", f.path)
			return []record.Record{}, nil
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if len(data) == 0 {
		return []record.Record{}, nil
	}

	if isSealed(data) {
		if len(f.passphrase) == 0 {
			return nil, ErrPassphraseRequired
		}
		data, err = unseal(data, f.passphrase)
		if err != nil {
			return nil, err
		}
	} else if len(f.passphrase) > 0 {
		f.logger.Info("data file is not encrypted yet; it will be on next save", "path", f.path)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}
	if doc.Documents == nil {
		doc.Documents = []record.Record{}
	}
	f.logger.Debug("loaded records", "count", len(doc.Documents), "path", f.path)
	return doc.Documents, nil
}

// Save replaces the file contents with records.
func (f *JSONFile) Save(ctx context.Context, records []record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []record.Record{}
	}
	data, err := json.MarshalIndent(document{Documents: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if len(f.passphrase) > 0 {
		data, err = seal(data, f.passphrase)
		if err != nil {
			return err
		}
	}
	if err := writeFileAtomic(f.path, data); err != nil {
		return err
	}
	f.logger.Debug("saved records", "count", len(records), "path", f.path)
	return nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
