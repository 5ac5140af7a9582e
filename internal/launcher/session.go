// Package launcher holds the quick-launcher session: the record list, the
// current query and its ranked results, and the keyboard selection state.
// All methods run on the UI goroutine; nothing here is safe for concurrent use.
package launcher

import (
	"github.com/gravitrone/cocoon/internal/record"
	"github.com/gravitrone/cocoon/internal/search"
)

// State is the selection state.
type State int

const (
	// Listing shows the ranked result list.
	Listing State = iota
	// Expanded shows the detail view of one record.
	Expanded
)

func (s State) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "listing"
}

// Subview is a view layered over the launcher.
type Subview int

const (
	// SubviewNone shows the plain launcher.
	SubviewNone Subview = iota
	// SubviewAdd is the new-document form.
	SubviewAdd
	// SubviewEdit is the form for an existing document.
	SubviewEdit
	// SubviewConfirmDelete asks before removing a document.
	SubviewConfirmDelete
)

// Selection is the highlighted row and the expanded record id.
type Selection struct {
	SelectedIndex int
	ExpandedID    string
}

// Window hides the launcher.
type Window interface {
	Hide()
}

// EscapeOutcome reports what an Escape press did.
type EscapeOutcome int

const (
	// EscapeCollapsed closed the detail view.
	EscapeCollapsed EscapeOutcome = iota
	// EscapeCancelledSubview closed a form or confirm view.
	EscapeCancelledSubview
	// EscapeHide hid the launcher window.
	EscapeHide
)

// Session is the launcher state for one run of the overlay.
type Session struct {
	engine  *search.Engine
	window  Window
	records record.List
	query   string
	results []search.Result
	sel     Selection

	subview   Subview
	subjectID string // record the sub-view acts on
	returnTo  string // expanded id to restore when the sub-view closes

	saveErr error
}

// NewSession creates a session searching with engine. window may be nil.
func NewSession(engine *search.Engine, window Window) *Session {
	if engine == nil {
		engine = search.NewEngine()
	}
	return &Session{engine: engine, window: window}
}

// Load replaces the record list, e.g. after the store finished loading.
func (s *Session) Load(records []record.Record) {
	s.records = append(record.List(nil), records...)
	s.refresh()
}

// Records returns the in-memory record list.
func (s *Session) Records() record.List {
	return s.records
}

// Query returns the raw query string.
func (s *Session) Query() string {
	return s.query
}

// Results returns the ranked results of the current query.
func (s *Session) Results() []search.Result {
	return s.results
}

// Selection returns the current selection.
func (s *Session) Selection() Selection {
	return s.sel
}

// State returns Listing or Expanded.
func (s *Session) State() State {
	if s.sel.ExpandedID != "" {
		return Expanded
	}
	return Listing
}

// Subview returns the open sub-view.
func (s *Session) Subview() Subview {
	return s.subview
}

// SubjectID returns the id of the record an edit or delete sub-view targets.
func (s *Session) SubjectID() string {
	return s.subjectID
}

// SetQuery re-runs the search for raw. A changed query always returns to
// Listing with the first row selected.
func (s *Session) SetQuery(raw string) {
	if raw == s.query && s.results != nil {
		return
	}
	s.query = raw
	s.results = s.engine.Search(s.records, raw)
	s.sel = Selection{}
}

// Down moves the highlight down, stopping at the last result.
func (s *Session) Down() {
	if !s.listingWithResults() {
		return
	}
	if s.sel.SelectedIndex < len(s.results)-1 {
		s.sel.SelectedIndex++
	}
}

// Up moves the highlight up, stopping at the first result.
func (s *Session) Up() {
	if !s.listingWithResults() {
		return
	}
	if s.sel.SelectedIndex > 0 {
		s.sel.SelectedIndex--
	}
}

// Hover highlights row i when it exists.
func (s *Session) Hover(i int) {
	if !s.listingWithResults() || i < 0 || i >= len(s.results) {
		return
	}
	s.sel.SelectedIndex = i
}

// Expand opens the detail view of the highlighted result.
func (s *Session) Expand() bool {
	if !s.listingWithResults() {
		return false
	}
	s.sel.ExpandedID = s.results[s.sel.SelectedIndex].Item.ID
	return true
}

// ExpandAt highlights row i and expands it, as a click does.
func (s *Session) ExpandAt(i int) bool {
	if !s.listingWithResults() || i < 0 || i >= len(s.results) {
		return false
	}
	s.sel.SelectedIndex = i
	return s.Expand()
}

// Collapse returns to Listing keeping the highlighted row.
func (s *Session) Collapse() bool {
	if s.sel.ExpandedID == "" {
		return false
	}
	s.sel.ExpandedID = ""
	return true
}

// Selected returns the highlighted result while listing.
func (s *Session) Selected() (record.Record, bool) {
	if !s.listingWithResults() {
		return record.Record{}, false
	}
	return s.results[s.sel.SelectedIndex].Item, true
}

// Commit returns the record the commit key acts on. It does not change state.
func (s *Session) Commit() (record.Record, bool) {
	return s.Selected()
}

// Expanded returns the record shown in the detail view.
func (s *Session) Expanded() (record.Record, bool) {
	id := s.sel.ExpandedID
	if id == "" {
		return record.Record{}, false
	}
	for _, r := range s.results {
		if r.Item.ID == id {
			return r.Item, true
		}
	}
	return s.records.Find(id)
}

// Current returns the expanded record, or the highlighted one while listing.
func (s *Session) Current() (record.Record, bool) {
	if rec, ok := s.Expanded(); ok {
		return rec, true
	}
	return s.Selected()
}

// OpenSubview opens v for the record with subjectID (empty for add). The
// detail view, if any, is restored when the sub-view closes.
func (s *Session) OpenSubview(v Subview, subjectID string) {
	if v == SubviewNone {
		s.CloseSubview()
		return
	}
	s.returnTo = s.sel.ExpandedID
	s.sel.ExpandedID = ""
	s.subview = v
	s.subjectID = subjectID
}

// CloseSubview closes the open sub-view.
func (s *Session) CloseSubview() {
	if s.subview == SubviewNone {
		return
	}
	s.subview = SubviewNone
	s.subjectID = ""
	if s.returnTo != "" {
		if _, ok := s.records.Find(s.returnTo); ok {
			s.sel.ExpandedID = s.returnTo
		}
	}
	s.returnTo = ""
}

// Escape applies the dismiss key: collapse the detail view, else cancel the
// sub-view, else hide the window.
func (s *Session) Escape() EscapeOutcome {
	if s.Collapse() {
		return EscapeCollapsed
	}
	if s.subview != SubviewNone {
		s.subview = SubviewNone
		s.subjectID = ""
		s.returnTo = ""
		return EscapeCancelledSubview
	}
	if s.window != nil {
		s.window.Hide()
	}
	return EscapeHide
}

// --- Optimistic updates ---

// Mutation derives the next record list from the current one.
type Mutation func(record.List) (record.List, error)

// Apply runs m against the record list, swaps the result in immediately and
// returns the snapshot to persist. Nothing is rolled back if the save fails.
func (s *Session) Apply(m Mutation) ([]record.Record, error) {
	next, err := m(s.records)
	if err != nil {
		return nil, err
	}
	s.records = next
	s.refresh()
	out := make([]record.Record, len(next))
	copy(out, next)
	return out, nil
}

// Add appends rec and returns the list to persist.
func (s *Session) Add(rec record.Record) ([]record.Record, error) {
	return s.Apply(func(l record.List) (record.List, error) { return l.Add(rec) })
}

// Replace swaps in an edited record and returns the list to persist.
func (s *Session) Replace(rec record.Record) ([]record.Record, error) {
	return s.Apply(func(l record.List) (record.List, error) { return l.Replace(rec) })
}

// Remove deletes the record with id and returns the list to persist.
func (s *Session) Remove(id string) ([]record.Record, error) {
	return s.Apply(func(l record.List) (record.List, error) { return l.Remove(id) })
}

// SaveFailed flags a failed save. The in-memory list stays as it is.
func (s *Session) SaveFailed(err error) {
	s.saveErr = err
}

// SaveSucceeded clears a previous save error.
func (s *Session) SaveSucceeded() {
	s.saveErr = nil
}

// SaveErr returns the last save error, if any.
func (s *Session) SaveErr() error {
	return s.saveErr
}

// DismissError clears the save error banner.
func (s *Session) DismissError() {
	s.saveErr = nil
}

// refresh re-runs the current query against the record list, clamping the
// highlight and dropping an expanded id that no longer exists.
func (s *Session) refresh() {
	s.results = s.engine.Search(s.records, s.query)
	if s.sel.SelectedIndex >= len(s.results) {
		s.sel.SelectedIndex = len(s.results) - 1
	}
	if s.sel.SelectedIndex < 0 {
		s.sel.SelectedIndex = 0
	}
	if s.sel.ExpandedID != "" {
		if _, ok := s.records.Find(s.sel.ExpandedID); !ok {
			s.sel.ExpandedID = ""
		}
	}
	if s.returnTo != "" {
		if _, ok := s.records.Find(s.returnTo); !ok {
			s.returnTo = ""
		}
	}
}

func (s *Session) listingWithResults() bool {
	return s.sel.ExpandedID == "" && len(s.results) > 0
}
