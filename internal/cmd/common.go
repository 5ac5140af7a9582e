package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gravitrone/cocoon/internal/config"
	"github.com/gravitrone/cocoon/internal/platform"
	"github.com/gravitrone/cocoon/internal/record"
	"github.com/gravitrone/cocoon/internal/search"
	"github.com/gravitrone/cocoon/internal/store"
)

// PassphraseEnv overrides the passphrase prompt for encrypted data files.
const PassphraseEnv = "COCOON_PASSPHRASE"

// Collaborators replaced in tests.
var (
	newClipboard = func() platform.Clipboard { return platform.NewSystemClipboard() }
	newOpener    = func(browser string, logger *slog.Logger) platform.Opener {
		return platform.NewBrowserOpener(browser, logger)
	}
)

// ReadPassphrase returns $COCOON_PASSPHRASE or prompts for one on in.
func ReadPassphrase(in io.Reader, out io.Writer) (string, error) {
	if p := os.Getenv(PassphraseEnv); p != "" {
		return p, nil
	}
	reader := bufio.NewReader(in)
	fmt.Fprint(out, "passphrase: ")
	line, _ := reader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("passphrase is required")
	}
	return line, nil
}

// OpenStore opens the store the config selects, asking for a passphrase when
// the data file is encrypted.
func OpenStore(cfg *config.Config, in io.Reader, out io.Writer, logger *slog.Logger) (store.Store, error) {
	opts := store.Options{
		Backend: cfg.Store,
		Path:    cfg.ResolvedDataPath(),
		Logger:  logger,
	}
	if cfg.Encrypt {
		pass, err := ReadPassphrase(in, out)
		if err != nil {
			return nil, err
		}
		opts.Passphrase = pass
	}
	return store.Open(opts)
}

// CommandLogger logs to w when log_level is debug and discards otherwise.
func CommandLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.LogLevel != "debug" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// session bundles what the record commands need.
type session struct {
	cfg     *config.Config
	store   store.Store
	records record.List
	logger  *slog.Logger
}

func openSession(ctx context.Context, in io.Reader, out, errOut io.Writer) (*session, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, err
	}
	logger := CommandLogger(cfg, errOut)
	s, err := OpenStore(cfg, in, out, logger)
	if err != nil {
		return nil, err
	}
	records, err := s.Load(ctx)
	if err != nil {
		_ = store.Close(s)
		return nil, fmt.Errorf("load records: %w", err)
	}
	return &session{cfg: cfg, store: s, records: records, logger: logger}, nil
}

func (s *session) save(ctx context.Context, records record.List) error {
	if err := s.store.Save(ctx, records); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	s.records = records
	return nil
}

func (s *session) close() {
	_ = store.Close(s.store)
}

func (s *session) best(query string) (record.Record, error) {
	results := search.NewEngine().Search(s.records, query)
	if len(results) == 0 {
		return record.Record{}, fmt.Errorf("no record matches %q", query)
	}
	return results[0].Item, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, record.ErrNotFound)
}
