package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/cocoon/internal/record"
	"github.com/gravitrone/cocoon/internal/store/sqlite"
)

func TestStore_LoadEmptyDatabase(t *testing.T) {
	t.Parallel()

	s := sqlite.NewStore(":memory:")
	require.NoError(t, s.Open())
	defer s.Close()

	recs, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestStore_SaveLoadKeepsOrderAndFields(t *testing.T) {
	t.Parallel()

	s := sqlite.NewStore(filepath.Join(t.TempDir(), "cocoon.db"))
	require.NoError(t, s.Open())
	defer s.Close()
	ctx := context.Background()

	in := []record.Record{
		{ID: "z", Type: "Passport", Owner: "alice", DefaultField: "number",
			Fields: record.NewFields("number", "P1", "country", "USA"), FileLink: "https://x", IsTemporary: true},
		{ID: "a", Type: "License", Fields: record.NewFields("state", "CA", "number", "D1")},
	}
	require.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "z", out[0].ID)
	assert.Equal(t, "a", out[1].ID)
	assert.Equal(t, []string{"number", "country"}, out[0].Fields.Keys())
	assert.Equal(t, []string{"state", "number"}, out[1].Fields.Keys())
	assert.True(t, out[0].IsTemporary)
	assert.Equal(t, "https://x", out[0].FileLink)
}

func TestStore_SaveReplacesPreviousList(t *testing.T) {
	t.Parallel()

	s := sqlite.NewStore(":memory:")
	require.NoError(t, s.Open())
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []record.Record{{ID: "a", Type: "X"}, {ID: "b", Type: "Y"}}))
	require.NoError(t, s.Save(ctx, []record.Record{{ID: "b", Type: "Y2"}}))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Y2", out[0].Type)
}

func TestStore_OpenInvalidPath(t *testing.T) {
	t.Parallel()

	s := sqlite.NewStore("/nonexistent/path/db.sqlite")
	require.Error(t, s.Open())
}
