package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/cocoon/internal/config"
	"github.com/gravitrone/cocoon/internal/launcher"
	"github.com/gravitrone/cocoon/internal/record"
	"github.com/gravitrone/cocoon/internal/search"
	"github.com/gravitrone/cocoon/internal/store"
	"github.com/gravitrone/cocoon/internal/ui/components"
)

// --- Messages ---

type clearToastMsg struct{}
type recordsLoadedMsg struct {
	records []record.Record
	err     error
}
type savedMsg struct {
	gen uint64
	err error
}
type linkOpenedMsg struct {
	label  string
	opened bool
	err    error
}

// errStoreUnavailable is reported for changes made after the store failed to load.
var errStoreUnavailable = errors.New("store unavailable, changes not saved")

// toastTTL is how long a toast stays on screen.
var toastTTL = 2500 * time.Millisecond

type appToast struct {
	level string
	text  string
}

// overlay is the launcher window. Hiding it ends the program.
type overlay struct {
	hidden bool
}

func (o *overlay) Hide() {
	o.hidden = true
}

// saver serializes saves so an older snapshot never overwrites a newer one.
type saver struct {
	mu      sync.Mutex
	store   store.Store
	written uint64
}

func (s *saver) save(ctx context.Context, gen uint64, records []record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.written {
		return nil
	}
	if err := s.store.Save(ctx, records); err != nil {
		return err
	}
	s.written = gen
	return nil
}

// Options wires the app to its collaborators. Store and Dispatcher may be nil
// in tests.
type Options struct {
	Config     *config.Config
	Store      store.Store
	Dispatcher *launcher.Dispatcher
	Engine     *search.Engine
	Logger     *slog.Logger
}

// --- App Model ---

// App is the root TUI model: the launcher, its sub-views and the feedback
// panels.
type App struct {
	ctx        context.Context
	config     *config.Config
	logger     *slog.Logger
	session    *launcher.Session
	dispatcher *launcher.Dispatcher
	saver      *saver
	window     *overlay
	keys       keymap

	query    textinput.Model
	spinner  spinner.Model
	viewport components.Viewport
	form     FormModel

	width    int
	height   int
	loading  bool
	err      string
	helpOpen bool
	toast    *appToast
	saveGen  uint64
}

// NewApp creates the root application model.
func NewApp(opts Options) App {
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	window := &overlay{}

	ti := textinput.New()
	ti.Prompt = "› "
	ti.PromptStyle = PromptStyle
	ti.Placeholder = "Search documents, @owner to filter"
	ti.CharLimit = 128
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AccentStyle

	a := App{
		ctx:        context.Background(),
		config:     cfg,
		logger:     logger,
		session:    launcher.NewSession(opts.Engine, window),
		dispatcher: opts.Dispatcher,
		window:     window,
		keys:       keymap{vim: cfg.VimKeys},
		query:      ti,
		spinner:    sp,
		viewport:   components.NewViewport(8),
	}
	if opts.Store != nil {
		a.saver = &saver{store: opts.Store}
		a.loading = true
	}
	return a
}

// Hidden reports whether the launcher was dismissed with the escape key.
func (a App) Hidden() bool {
	return a.window.hidden
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if a.saver != nil {
		cmds = append(cmds, a.spinner.Tick, a.loadCmd())
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.PageSize = a.pageSize()
		a.viewport.Follow(a.session.Selection().SelectedIndex, len(a.session.Results()))
		return a, nil

	case recordsLoadedMsg:
		a.loading = false
		if msg.err != nil {
			// A store that failed to load is never overwritten.
			a.saver = nil
			a.err = fmt.Sprintf("load documents: %v", msg.err)
			return a, nil
		}
		a.session.Load(msg.records)
		a.session.SetQuery(a.query.Value())
		a.logger.Debug("records loaded", "count", len(msg.records))
		return a, nil

	case savedMsg:
		if msg.err != nil {
			a.logger.Warn("save failed", "err", msg.err)
			a.session.SaveFailed(msg.err)
			return a, nil
		}
		if msg.gen == a.saveGen {
			a.session.SaveSucceeded()
		}
		return a, nil

	case linkOpenedMsg:
		if msg.err != nil {
			a.logger.Warn("open link failed", "record", msg.label, "err", msg.err)
			return a, nil
		}
		if !msg.opened {
			return a, nil
		}
		return a, a.setToast("success", "Opened link for "+msg.label)

	case clearToastMsg:
		a.toast = nil
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	if a.session.Subview() == launcher.SubviewAdd || a.session.Subview() == launcher.SubviewEdit {
		a.form, cmd = a.form.Update(msg)
	} else {
		a.query, cmd = a.query.Update(msg)
	}
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isQuit(msg) {
		return a, tea.Quit
	}

	// Any key dismisses the error box, then is handled as usual.
	// Esc only dismisses.
	if a.err != "" || a.session.SaveErr() != nil {
		a.err = ""
		a.session.DismissError()
		if isBack(msg) {
			return a, nil
		}
	}

	if a.helpOpen {
		if isBack(msg) || isKey(msg, "?") {
			a.helpOpen = false
		}
		return a, nil
	}

	switch a.session.Subview() {
	case launcher.SubviewConfirmDelete:
		return a.handleConfirmDelete(msg)
	case launcher.SubviewAdd, launcher.SubviewEdit:
		return a.handleForm(msg)
	}

	if isBack(msg) {
		if a.session.Escape() == launcher.EscapeHide {
			a.logger.Debug("launcher hidden")
			return a, tea.Quit
		}
		return a, nil
	}

	return a.handleLauncher(msg)
}

func (a App) handleLauncher(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := a.session
	switch {
	case a.keys.up(msg):
		s.Up()
		a.followSelection()
		return a, nil
	case a.keys.down(msg):
		s.Down()
		a.followSelection()
		return a, nil
	case a.keys.expand(msg):
		s.Expand()
		return a, nil
	case a.keys.collapse(msg) && s.State() == launcher.Expanded:
		s.Collapse()
		return a, nil
	case isEnter(msg):
		rec, ok := s.Current()
		if !ok {
			return a, nil
		}
		return a, a.copyDefault(rec)
	case isOpenLink(msg):
		rec, ok := s.Current()
		if !ok {
			return a, nil
		}
		return a, a.openLinkCmd(rec)
	case isAdd(msg):
		s.OpenSubview(launcher.SubviewAdd, "")
		a.form = NewAddForm()
		return a, textinput.Blink
	case isEdit(msg):
		rec, ok := s.Current()
		if !ok {
			return a, nil
		}
		s.OpenSubview(launcher.SubviewEdit, rec.ID)
		a.form = NewEditForm(rec)
		return a, textinput.Blink
	case isDelete(msg):
		if rec, ok := s.Current(); ok {
			s.OpenSubview(launcher.SubviewConfirmDelete, rec.ID)
		}
		return a, nil
	case isKey(msg, "?") && (s.State() == launcher.Expanded || a.query.Value() == ""):
		a.helpOpen = true
		return a, nil
	}

	if s.State() == launcher.Expanded {
		if i, ok := fieldDigit(msg); ok {
			rec, _ := s.Expanded()
			keys := rec.Fields.Keys()
			if i >= len(keys) {
				return a, nil
			}
			return a, a.copyField(rec, keys[i])
		}
	}

	var cmd tea.Cmd
	before := a.query.Value()
	a.query, cmd = a.query.Update(msg)
	if a.query.Value() != before {
		s.SetQuery(a.query.Value())
		a.viewport.Offset = 0
	}
	return a, cmd
}

func (a App) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := a.session
	switch {
	case isKey(msg, "y"):
		id := s.SubjectID()
		rec, _ := s.Records().Find(id)
		s.CloseSubview()
		snapshot, err := s.Remove(id)
		if err != nil {
			a.err = err.Error()
			return a, nil
		}
		a.followSelection()
		return a, a.commit(snapshot, "Deleted "+rec.Label())
	case isKey(msg, "n"):
		s.CloseSubview()
	case isBack(msg):
		s.Escape()
	}
	return a, nil
}

func (a App) handleForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := a.session
	switch {
	case isBack(msg):
		s.Escape()
		return a, nil
	case isSave(msg):
		rec, err := a.form.Record()
		if err != nil {
			a.form = a.form.WithError(err)
			return a, nil
		}
		var snapshot []record.Record
		verb := "Added "
		if a.form.Editing() {
			verb = "Saved "
			snapshot, err = s.Replace(rec)
		} else {
			snapshot, err = s.Add(rec)
		}
		if err != nil {
			a.form = a.form.WithError(err)
			return a, nil
		}
		s.CloseSubview()
		return a, a.commit(snapshot, verb+rec.Label())
	}

	var cmd tea.Cmd
	a.form, cmd = a.form.Update(msg)
	return a, cmd
}

func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	s := a.session
	if a.helpOpen || s.Subview() != launcher.SubviewNone || s.State() != launcher.Listing {
		return a, nil
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		s.Up()
		a.followSelection()
	case msg.Button == tea.MouseButtonWheelDown:
		s.Down()
		a.followSelection()
	case msg.Action == tea.MouseActionMotion:
		if row := a.rowAt(msg.Y); row >= 0 {
			s.Hover(row)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if row := a.rowAt(msg.Y); row >= 0 {
			s.ExpandAt(row)
		}
	}
	return a, nil
}

// rowAt maps a screen line to a result index, or -1.
func (a App) rowAt(y int) int {
	// Results panel: top border, grid header and rule precede the rows.
	top := lipgloss.Height(a.renderHeader()) + lipgloss.Height(a.renderQuery()) + 3
	return a.viewport.RowAt(y-top, len(a.session.Results()))
}

func (a *App) followSelection() {
	a.viewport.Follow(a.session.Selection().SelectedIndex, len(a.session.Results()))
}

func (a App) pageSize() int {
	if a.height <= 0 {
		return 8
	}
	reserved := lipgloss.Height(a.renderHeader()) + lipgloss.Height(a.renderQuery()) + 9
	if n := a.height - reserved; n > 3 {
		return n
	}
	return 3
}

// --- Commands ---

func (a App) loadCmd() tea.Cmd {
	st := a.saver.store
	ctx := a.ctx
	return func() tea.Msg {
		records, err := st.Load(ctx)
		return recordsLoadedMsg{records: records, err: err}
	}
}

// commit persists a mutation already applied to the session and confirms it.
// Without a store the change stays in memory and is flagged as unsaved.
func (a *App) commit(snapshot []record.Record, done string) tea.Cmd {
	if a.saver == nil {
		a.logger.Warn("change not saved", "err", errStoreUnavailable)
		a.session.SaveFailed(errStoreUnavailable)
		return nil
	}
	return tea.Batch(a.persist(snapshot), a.setToast("success", done))
}

// persist hands the snapshot to the store in the background. The in-memory
// list has already changed.
func (a *App) persist(records []record.Record) tea.Cmd {
	if a.saver == nil {
		return nil
	}
	a.saveGen++
	gen := a.saveGen
	sv := a.saver
	ctx := a.ctx
	return func() tea.Msg {
		return savedMsg{gen: gen, err: sv.save(ctx, gen, records)}
	}
}

func (a *App) copyDefault(rec record.Record) tea.Cmd {
	if a.dispatcher == nil {
		return nil
	}
	copied, err := a.dispatcher.CopyDefaultField(rec)
	if err != nil {
		a.err = fmt.Sprintf("copy: %v", err)
		return nil
	}
	if !copied {
		return nil
	}
	return a.setToast("success", fmt.Sprintf("Copied %s of %s", rec.DefaultField, rec.Label()))
}

func (a *App) copyField(rec record.Record, key string) tea.Cmd {
	if a.dispatcher == nil {
		return nil
	}
	copied, err := a.dispatcher.CopyField(rec, key)
	if err != nil {
		a.err = fmt.Sprintf("copy: %v", err)
		return nil
	}
	if !copied {
		return nil
	}
	return a.setToast("success", fmt.Sprintf("Copied %s of %s", key, rec.Label()))
}

func (a App) openLinkCmd(rec record.Record) tea.Cmd {
	if a.dispatcher == nil || rec.FileLink == "" {
		return nil
	}
	d := a.dispatcher
	ctx := a.ctx
	return func() tea.Msg {
		opened, err := d.OpenFileLink(ctx, rec)
		return linkOpenedMsg{label: rec.Label(), opened: opened, err: err}
	}
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

// --- View ---

func (a App) View() string {
	header := centerBlockUniform(a.renderHeader(), a.width)
	query := centerBlockUniform(a.renderQuery(), a.width)

	var content string
	switch {
	case a.helpOpen:
		content = a.renderHelp()
	case a.session.Subview() == launcher.SubviewConfirmDelete:
		content = a.renderConfirmDelete()
	case a.session.Subview() != launcher.SubviewNone:
		content = a.form.View(a.width)
	case a.session.State() == launcher.Expanded:
		content = a.renderDetail()
	default:
		content = a.renderResults()
	}
	content = centerBlockUniform(content, a.width)

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if msg := a.errorText(); msg != "" {
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox("Error", msg, a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return header + "\n" + query + "\n" + content + "\n\n" + hints + feedback
}

func (a App) errorText() string {
	if a.err != "" {
		return a.err
	}
	if err := a.session.SaveErr(); err != nil {
		return fmt.Sprintf("save failed: %v", err)
	}
	return ""
}

// renderHeader returns the banner followed by one blank line.
func (a App) renderHeader() string {
	return RenderBanner(a.height) + "\n"
}

func (a App) renderQuery() string {
	a.query.Width = components.BoxContentWidth(a.width) - 4
	if a.session.Subview() == launcher.SubviewNone && a.session.State() == launcher.Listing {
		return components.ActiveBox(a.query.View(), a.width)
	}
	return components.Box(a.query.View(), a.width)
}

func (a App) renderResults() string {
	s := a.session
	results := s.Results()
	switch {
	case a.loading:
		return components.TitledBox("Documents", a.spinner.View()+" "+MutedStyle.Render("Loading documents..."), a.width)
	case len(s.Records()) == 0:
		return components.TitledBox("Documents", MutedStyle.Render("No documents yet. ctrl+n adds one."), a.width)
	case strings.TrimSpace(s.Query()) == "":
		return components.TitledBox("Documents", MutedStyle.Render("Type to search. @name limits results to one owner."), a.width)
	case len(results) == 0:
		return components.TitledBox("Documents", MutedStyle.Render("No matches."), a.width)
	}

	start, end := a.viewport.Range(len(results))
	rows := make([][]string, 0, end-start)
	for _, r := range results[start:end] {
		owner := ""
		if r.Item.Owner != "" {
			owner = "@" + strings.ToLower(r.Item.Owner)
		}
		value, _ := r.Item.DefaultValue()
		rows = append(rows, []string{r.Item.Type, owner, fmt.Sprintf("%.2f", r.Score), value})
	}
	// The last column absorbs spare width.
	columns := []components.Column{
		{Header: "Type", Width: 18},
		{Header: "Owner", Width: 10},
		{Header: "Score", Width: 5, Align: lipgloss.Right},
		{Header: "Value", Width: 8},
	}

	width := components.BoxContentWidth(a.width)
	grid := components.Grid(columns, rows, width, s.Selection().SelectedIndex-start)
	title := fmt.Sprintf("Documents %d/%d", s.Selection().SelectedIndex+1, len(results))
	return components.TitledBox(title, grid, a.width)
}

func (a App) renderDetail() string {
	rec, ok := a.session.Expanded()
	if !ok {
		return a.renderResults()
	}
	keys := rec.Fields.Keys()
	rows := make([]components.TableRow, 0, len(keys)+2)
	for i, k := range keys {
		v, _ := rec.Fields.Get(k)
		label := k
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, k)
		}
		rows = append(rows, components.TableRow{Label: label, Value: v, Marked: k == rec.DefaultField})
	}
	body := ""
	if len(rows) > 0 {
		body = components.TableBody(rows, components.BoxContentWidth(a.width))
	} else {
		body = MutedStyle.Render("No fields.")
	}
	if rec.FileLink != "" {
		body += "\n\n" + MutedStyle.Render("link ") + LinkStyle.Render(components.ClampTextWidth(rec.FileLink, components.BoxContentWidth(a.width)-5))
	}
	if rec.IsTemporary {
		body += "\n" + TemporaryStyle.Render("temporary document")
	}
	return components.ActiveTitledBox(rec.Label(), body, a.width)
}

func (a App) renderConfirmDelete() string {
	rec, _ := a.session.Records().Find(a.session.SubjectID())
	summary := []components.TableRow{{Label: "Type", Value: rec.Type}}
	if rec.Owner != "" {
		summary = append(summary, components.TableRow{Label: "Owner", Value: rec.Owner})
	}
	if v, ok := rec.DefaultValue(); ok {
		summary = append(summary, components.TableRow{Label: rec.DefaultField, Value: v, Marked: true})
	}
	return components.ConfirmSummaryDialog("Delete", "Delete this document?", summary, a.width)
}

func (a App) renderHelp() string {
	hints := a.launcherHints()
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"), "")
	for _, h := range hints {
		lines = append(lines, "  "+h.Render())
	}
	return components.TitledBox("Help", strings.Join(lines, "\n"), a.width)
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Done"
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, SuccessStyle.Render(a.toast.text), a.width)
}

func (a App) statusHints() []components.Hint {
	switch {
	case a.helpOpen:
		return []components.Hint{{Key: "esc", Desc: "Back"}}
	case a.session.Subview() == launcher.SubviewConfirmDelete:
		return []components.Hint{{Key: "y", Desc: "Delete"}, {Key: "n", Desc: "Keep"}}
	case a.session.Subview() != launcher.SubviewNone:
		return []components.Hint{
			{Key: "tab", Desc: "Next"},
			{Key: "ctrl+s", Desc: "Save"},
			{Key: "esc", Desc: "Cancel"},
		}
	}
	return a.launcherHints()
}

func (a App) launcherHints() []components.Hint {
	if a.session.State() == launcher.Expanded {
		return []components.Hint{
			{Key: "enter", Desc: "Copy default"},
			{Key: "1-9", Desc: "Copy field"},
			{Key: "ctrl+o", Desc: "Open link"},
			{Key: "ctrl+e", Desc: "Edit"},
			{Key: "ctrl+d", Desc: "Delete"},
			{Key: "←", Desc: "Back"},
			{Key: "esc", Desc: "Close"},
		}
	}
	return []components.Hint{
		{Key: "↑/↓", Desc: "Select"},
		{Key: "→", Desc: "Details"},
		{Key: "enter", Desc: "Copy"},
		{Key: "ctrl+n", Desc: "Add"},
		{Key: "?", Desc: "Help"},
		{Key: "esc", Desc: "Hide"},
	}
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
