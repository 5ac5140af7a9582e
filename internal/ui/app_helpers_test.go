package ui

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/cocoon/internal/launcher"
	"github.com/gravitrone/cocoon/internal/platform"
	"github.com/gravitrone/cocoon/internal/record"
)

type memStore struct {
	mu      sync.Mutex
	records []record.Record
	saves   [][]record.Record
	loadErr error
	saveErr error
}

func (m *memStore) Load(context.Context) ([]record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]record.Record(nil), m.records...), nil
}

func (m *memStore) Save(_ context.Context, records []record.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append([]record.Record(nil), records...)
	m.saves = append(m.saves, m.records)
	return nil
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

type fakeClipboard struct{ writes []string }

func (c *fakeClipboard) WriteText(text string) error {
	c.writes = append(c.writes, text)
	return nil
}

type fakeOpener struct{ opened []string }

func (o *fakeOpener) Open(_ context.Context, uri string) error {
	if err := platform.ValidateLink(uri); err != nil {
		return err
	}
	o.opened = append(o.opened, uri)
	return nil
}

type harness struct {
	store  *memStore
	clip   *fakeClipboard
	opener *fakeOpener
}

func fixtureRecords() []record.Record {
	return []record.Record{
		{ID: "pp", Type: "Passport", Owner: "alice", DefaultField: "number",
			Fields:   record.NewFields("number", "P1", "country", "USA"),
			FileLink: "https://example.com/pp.pdf"},
		{ID: "pp2", Type: "Passport", Owner: "bob", DefaultField: "number",
			Fields: record.NewFields("number", "P2", "country", "Canada")},
		{ID: "pp3", Type: "Passport", Owner: "carol", DefaultField: "missing",
			Fields: record.NewFields("number", "P3")},
		{ID: "lic", Type: "Driver License", Owner: "alice", DefaultField: "number",
			Fields: record.NewFields("number", "D1", "state", "CA"), IsTemporary: true},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastToasts(t *testing.T) {
	t.Helper()
	old := toastTTL
	toastTTL = time.Millisecond
	t.Cleanup(func() { toastTTL = old })
}

// newTestApp builds an app over the fixture records, sized and loaded.
func newTestApp(t *testing.T) (App, *harness) {
	t.Helper()
	fastToasts(t)

	h := &harness{
		store:  &memStore{records: fixtureRecords()},
		clip:   &fakeClipboard{},
		opener: &fakeOpener{},
	}
	app := NewApp(Options{
		Store:      h.store,
		Dispatcher: launcher.NewDispatcher(h.clip, h.opener, quietLogger()),
		Logger:     quietLogger(),
	})
	app = update(t, app, tea.WindowSizeMsg{Width: 100, Height: 40})
	app = update(t, app, app.loadCmd()())
	require.False(t, app.loading)
	return app, h
}

func update(t *testing.T, app App, msg tea.Msg) App {
	t.Helper()
	model, _ := app.Update(msg)
	out, ok := model.(App)
	require.True(t, ok)
	return out
}

func press(t *testing.T, app App, keys ...tea.KeyMsg) App {
	t.Helper()
	for _, k := range keys {
		app = update(t, app, k)
	}
	return app
}

func typeText(t *testing.T, app App, text string) App {
	t.Helper()
	for _, r := range text {
		app = update(t, app, runeKey(r))
	}
	return app
}

func key(typ tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: typ}
}

// runCmd executes cmd and any batched commands, returning every message.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// feed executes cmd and hands the resulting messages back to the app.
func feed(t *testing.T, app App, cmd tea.Cmd) App {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		app = update(t, app, msg)
	}
	return app
}

func isQuitCmd(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}
