package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseDirectJSON(t *testing.T) {
	res, err := ParseResponse(`{"name": "Alice", "number": "P1", "text": "raw text", "expires": "2030"}`)

	require.NoError(t, err)
	assert.Equal(t, "raw text", res.Text)
	assert.Equal(t, []string{"name", "number", "expires"}, res.Metadata.Keys())
}

func TestParseResponseFencedBlock(t *testing.T) {
	reply := "Here is the analysis:\n```json\n{\"number\": \"D1\", \"state\": \"CA\"}\n```\nDone."
	res, err := ParseResponse(reply)

	require.NoError(t, err)
	assert.Empty(t, res.Text)
	v, ok := res.Metadata.Get("state")
	assert.True(t, ok)
	assert.Equal(t, "CA", v)
}

func TestParseResponseNonStringValues(t *testing.T) {
	res, err := ParseResponse(`{"age": 42, "valid": true, "address": {"city": "LA"}, "gone": null}`)

	require.NoError(t, err)
	age, _ := res.Metadata.Get("age")
	assert.Equal(t, "42", age)
	valid, _ := res.Metadata.Get("valid")
	assert.Equal(t, "true", valid)
	addr, _ := res.Metadata.Get("address")
	assert.Equal(t, `{"city":"LA"}`, addr)
	_, ok := res.Metadata.Get("gone")
	assert.False(t, ok)
}

func TestParseResponseUnparseable(t *testing.T) {
	for _, reply := range []string{"", "no json here", "```json\nnot json\n```", "[1,2]"} {
		_, err := ParseResponse(reply)
		assert.ErrorIs(t, err, ErrUnparseable, reply)
	}
}

func TestToRecordPrefersNumberAsDefault(t *testing.T) {
	res, err := ParseResponse(`{"state": "CA", "number": "D1"}`)
	require.NoError(t, err)

	rec := ToRecord(res, " Driver License ", "alice")
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Driver License", rec.Type)
	assert.Equal(t, "alice", rec.Owner)
	assert.Equal(t, "number", rec.DefaultField)
	assert.NoError(t, rec.Validate())
}

func TestToRecordFallsBackToFirstField(t *testing.T) {
	res, err := ParseResponse(`{"provider": "Aetna", "policyNumber": "X"}`)
	require.NoError(t, err)

	rec := ToRecord(res, "Insurance", "")
	assert.Equal(t, "provider", rec.DefaultField)

	empty := ToRecord(Result{}, "Insurance", "")
	assert.Empty(t, empty.DefaultField)
}

func TestPrompt(t *testing.T) {
	assert.Contains(t, Prompt("passport"), "This is a passport.")
	assert.Contains(t, Prompt(""), "This is a document.")
	assert.Contains(t, Prompt("x"), `"text" field`)
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "scan.png")
	require.NoError(t, os.WriteFile(pngPath, []byte("\x89PNG\r\n\x1a\n0000"), 0600))
	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("hello"), 0600))

	img, err := LoadImage(pngPath)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)

	_, err = LoadImage(txtPath)
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = LoadImage(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
