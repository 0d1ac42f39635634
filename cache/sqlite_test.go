package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	db, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, ok, err := db.Get(ctx, "exercises")
	require.NoError(t, err)
	require.False(t, ok, "fresh cache should have no value")

	require.NoError(t, db.Set(ctx, "exercises", `[{"name":"Squat"}]`))
	got, ok, err := db.Get(ctx, "exercises")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[{"name":"Squat"}]`, got)

	// Overwrite keeps a single row per key.
	require.NoError(t, db.Set(ctx, "exercises", `[]`))
	got, ok, err = db.Get(ctx, "exercises")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[]`, got)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, "exercises", `["Bench Press"]`))
	require.NoError(t, db.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, ok, err := reopened.Get(ctx, "exercises")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `["Bench Press"]`, got)
}

func TestSQLiteDelete(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, db.Set(ctx, "k", "v"))
	require.NoError(t, db.Delete(ctx, "k"))
	_, ok, err := db.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting a missing key is a no-op.
	require.NoError(t, db.Delete(ctx, "k"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "exercises")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Set(ctx, "exercises", "[]"))
	got, ok, err := m.Get(ctx, "exercises")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "[]", got)

	require.NoError(t, m.Delete(ctx, "exercises"))
	_, ok, err = m.Get(ctx, "exercises")
	require.NoError(t, err)
	require.False(t, ok)
}
