// Package record defines the document records cocoon searches and the
// in-memory list that holds them.
package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when adding a record whose id is already stored.
	ErrDuplicateID = errors.New("duplicate record id")
)

// Record is a stored document entry.
type Record struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Owner        string `json:"owner,omitempty"`
	DefaultField string `json:"defaultField"`
	Fields       Fields `json:"fields"`
	FileLink     string `json:"fileLink"`
	IsTemporary  bool   `json:"isTemporary"`
}

// New returns a record with a fresh id.
func New(typ string) Record {
	return Record{ID: NewID(), Type: typ}
}

// NewID returns a random record id.
func NewID() string {
	return uuid.NewString()
}

// Validate checks the fields every stored record needs.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("record id is required")
	}
	if strings.TrimSpace(r.Type) == "" {
		return fmt.Errorf("record type is required")
	}
	return nil
}

// DefaultValue returns the default field value. A stale or empty default
// field yields ok == false.
func (r Record) DefaultValue() (string, bool) {
	if r.DefaultField == "" {
		return "", false
	}
	v, ok := r.Fields.Get(r.DefaultField)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// OwnedBy reports whether the record's owner matches owner, ignoring case.
func (r Record) OwnedBy(owner string) bool {
	return r.Owner != "" && strings.EqualFold(r.Owner, owner)
}

// Clone returns a copy that shares no mutable state with r.
func (r Record) Clone() Record {
	out := r
	out.Fields = r.Fields.Clone()
	return out
}

// Label is the one-line display name used in listings.
func (r Record) Label() string {
	if r.Owner == "" {
		return r.Type
	}
	return fmt.Sprintf("%s (@%s)", r.Type, strings.ToLower(r.Owner))
}

// --- List ---

// List is the ordered record store. Mutating methods return a new list.
type List []Record

// Find returns the record with the given id.
func (l List) Find(id string) (Record, bool) {
	if i := l.Index(id); i >= 0 {
		return l[i], true
	}
	return Record{}, false
}

// Index returns the position of id, or -1.
func (l List) Index(id string) int {
	for i, r := range l {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Add appends rec, rejecting duplicate ids.
func (l List) Add(rec Record) (List, error) {
	if err := rec.Validate(); err != nil {
		return l, err
	}
	if l.Index(rec.ID) >= 0 {
		return l, fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
	}
	out := make(List, 0, len(l)+1)
	out = append(out, l...)
	return append(out, rec), nil
}

// Replace swaps the record with rec.ID for rec, keeping its position.
func (l List) Replace(rec Record) (List, error) {
	if err := rec.Validate(); err != nil {
		return l, err
	}
	i := l.Index(rec.ID)
	if i < 0 {
		return l, fmt.Errorf("%w: %s", ErrNotFound, rec.ID)
	}
	out := make(List, len(l))
	copy(out, l)
	out[i] = rec
	return out, nil
}

// Remove drops the record with the given id.
func (l List) Remove(id string) (List, error) {
	i := l.Index(id)
	if i < 0 {
		return l, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	out := make(List, 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...), nil
}

// Owners returns the distinct lower-cased owners in store order.
func (l List) Owners() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range l {
		o := strings.ToLower(strings.TrimSpace(r.Owner))
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}
