package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "state", "zoomport.db"))
	require.NoError(t, err, "NewDB should create parent directories and schema")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestNewDB_FreshFile verifies schema creation on an empty database file.
func TestNewDB_FreshFile(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"ext_state", "runs"} {
		var name string
		err := db.Connection().QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&name)
		require.NoError(t, err, "%s table should exist", table)
		require.Equal(t, table, name)
	}
}

// TestNewDB_Reopen verifies migrations tolerate an already-current database
// and that reopening backs the file up first.
func TestNewDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zoomport.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db.ExtState().Set(SectionZoomport, KeyLastRoot, "/music"))
	require.NoError(t, db.Close())

	db, err = NewDB(path)
	require.NoError(t, err, "second open should not error")
	defer func() { _ = db.Close() }()

	v, ok, err := db.ExtState().Get(SectionZoomport, KeyLastRoot)
	require.NoError(t, err)
	require.True(t, ok, "value should survive reopen")
	require.Equal(t, "/music", v)

	_, err = os.Stat(path + ".bak")
	require.NoError(t, err, "reopening an existing database should leave a backup")
}

func TestExtStateGetSet(t *testing.T) {
	db := openTestDB(t)
	st := db.ExtState()

	_, ok, err := st.Get(SectionZoomport, KeyLastRoot)
	require.NoError(t, err)
	require.False(t, ok, "missing key should report !ok without error")

	require.NoError(t, st.Set(SectionZoomport, KeyLastRoot, "/music/field"))
	v, ok, err := st.Get(SectionZoomport, KeyLastRoot)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "/music/field", v)

	// Overwrite replaces the value.
	require.NoError(t, st.Set(SectionZoomport, KeyLastRoot, "/music/other"))
	v, ok, err = st.Get(SectionZoomport, KeyLastRoot)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "/music/other", v)

	// Sections are isolated namespaces.
	require.NoError(t, st.Set("other", KeyLastRoot, "/elsewhere"))
	v, ok, err = st.Get(SectionZoomport, KeyLastRoot)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "/music/other", v)
}

func TestRunRepository(t *testing.T) {
	db := openTestDB(t)
	runs := db.Runs()

	// Empty history.
	list, err := runs.List(0)
	require.NoError(t, err)
	require.Empty(t, list)
	root, err := runs.LastRoot()
	require.NoError(t, err)
	require.Empty(t, root)

	first := &RunRecord{Root: "/music/a", Folders: 2, Items: 5, TotalLength: 37.5, Elapsed: 1200 * time.Millisecond}
	require.NoError(t, runs.Record(first))
	require.Positive(t, first.ID)
	require.False(t, first.CreatedAt.IsZero())

	second := &RunRecord{Root: "/music/b", Folders: 1, Items: 1, TotalLength: 4, Elapsed: 300 * time.Millisecond}
	require.NoError(t, runs.Record(second))

	// Newest first.
	list, err = runs.List(0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "/music/b", list[0].Root)
	require.Equal(t, "/music/a", list[1].Root)
	require.Equal(t, 5, list[1].Items)
	require.Equal(t, 1200*time.Millisecond, list[1].Elapsed)

	// Limit applies.
	list, err = runs.List(1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "/music/b", list[0].Root)

	root, err = runs.LastRoot()
	require.NoError(t, err)
	require.Equal(t, "/music/b", root)
}
