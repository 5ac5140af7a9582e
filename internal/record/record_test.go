package record

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsKeepInsertionOrder(t *testing.T) {
	f := NewFields("number", "X123", "expires", "2030-01-01", "state", "CA")
	f.Set("number", "Y999")

	assert.Equal(t, []string{"number", "expires", "state"}, f.Keys())
	v, ok := f.Get("number")
	assert.True(t, ok)
	assert.Equal(t, "Y999", v)
}

func TestFieldsDeleteDoesNotAffectClone(t *testing.T) {
	f := NewFields("a", "1", "b", "2", "c", "3")
	c := f.Clone()

	c.Delete("b")

	assert.Equal(t, []string{"a", "c"}, c.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, f.Keys())
	_, ok := c.Get("b")
	assert.False(t, ok)
}

func TestFieldsJSONPreservesDocumentOrder(t *testing.T) {
	var f Fields
	err := json.Unmarshal([]byte(`{"zeta":"1","alpha":"2","skip":null,"mid":"3"}`), &f)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, f.Keys())

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","alpha":"2","mid":"3"}`, string(out))
}

func TestFieldsUnmarshalRejectsArray(t *testing.T) {
	var f Fields
	err := json.Unmarshal([]byte(`["a"]`), &f)
	assert.Error(t, err)
}

func TestRecordJSONShapeMatchesDataFile(t *testing.T) {
	raw := `{"id":"a","type":"Passport","owner":"Alice","defaultField":"number",` +
		`"fields":{"number":"P1","expires":"2031"},"fileLink":"https://x","isTemporary":false}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	assert.Equal(t, "Passport", rec.Type)
	assert.Equal(t, []string{"number", "expires"}, rec.Fields.Keys())

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestDefaultValueToleratesStaleKey(t *testing.T) {
	rec := Record{ID: "a", Type: "License", DefaultField: "number", Fields: NewFields("number", "D1")}
	v, ok := rec.DefaultValue()
	assert.True(t, ok)
	assert.Equal(t, "D1", v)

	rec.Fields = rec.Fields.Clone()
	rec.Fields.Delete("number")
	_, ok = rec.DefaultValue()
	assert.False(t, ok)

	rec.DefaultField = ""
	_, ok = rec.DefaultValue()
	assert.False(t, ok)
}

func TestDefaultValueEmptyStringIsAbsent(t *testing.T) {
	rec := Record{ID: "a", Type: "License", DefaultField: "number", Fields: NewFields("number", "")}
	_, ok := rec.DefaultValue()
	assert.False(t, ok)
}

func TestOwnedByIgnoresCase(t *testing.T) {
	rec := Record{Owner: "Alice"}
	assert.True(t, rec.OwnedBy("alice"))
	assert.False(t, rec.OwnedBy("bob"))
	assert.False(t, Record{}.OwnedBy(""))
}

func TestListAddRejectsDuplicate(t *testing.T) {
	l := List{{ID: "a", Type: "X"}}
	_, err := l.Add(Record{ID: "a", Type: "Y"})
	assert.True(t, errors.Is(err, ErrDuplicateID))

	out, err := l.Add(Record{ID: "b", Type: "Y"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, l, 1)
}

func TestListAddValidates(t *testing.T) {
	_, err := List{}.Add(Record{ID: "a"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "type")
}

func TestListReplaceKeepsPosition(t *testing.T) {
	l := List{{ID: "a", Type: "X"}, {ID: "b", Type: "Y"}, {ID: "c", Type: "Z"}}
	out, err := l.Replace(Record{ID: "b", Type: "Y2"})
	require.NoError(t, err)

	assert.Equal(t, "Y2", out[1].Type)
	assert.Equal(t, "Y", l[1].Type)

	_, err = l.Replace(Record{ID: "nope", Type: "Q"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListRemove(t *testing.T) {
	l := List{{ID: "a", Type: "X"}, {ID: "b", Type: "Y"}}
	out, err := l.Remove("a")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].ID)

	_, err = out.Remove("a")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListOwnersDistinctLowercase(t *testing.T) {
	l := List{{Owner: "Alice"}, {Owner: "bob"}, {Owner: "ALICE"}, {}}
	assert.Equal(t, []string{"alice", "bob"}, l.Owners())
}

func TestNewAssignsID(t *testing.T) {
	a := New("Passport")
	b := New("Passport")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestParseFieldPairs(t *testing.T) {
	f, err := ParseFieldPairs([]string{"number = P1", "", "country=USA", "note=a=b", "number=P2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"number", "country", "note"}, f.Keys())
	v, _ := f.Get("number")
	assert.Equal(t, "P2", v)
	v, _ = f.Get("note")
	assert.Equal(t, "a=b", v)
	assert.Equal(t, []string{"number=P2", "country=USA", "note=a=b"}, f.Pairs())

	_, err = ParseFieldPairs([]string{"novalue"})
	assert.ErrorContains(t, err, "key=value")
	_, err = ParseFieldPairs([]string{"=x"})
	assert.Error(t, err)
}
