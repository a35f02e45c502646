// ABOUTME: Tests for SQLite store implementation
// ABOUTME: Covers file creation, drivers, migrations of legacy tables, and persistence across reopen

package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteStore(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	// Verify the database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if store.Path() != dbPath {
		t.Errorf("Path mismatch: got %q, want %q", store.Path(), dbPath)
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	// Verify the database file was created in the nested directory
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestNewSQLiteStore_InMemory(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.InsertHabit(ctx, &Habit{Name: "in memory"}))

	// Every statement must see the same database
	habits, err := store.ListHabits(ctx)
	require.NoError(t, err)
	assert.Len(t, habits, 1)
}

func TestOpenSQLiteStore_RejectsUnknownDriver(t *testing.T) {
	_, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "test.db"), "postgres")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported sqlite driver")
}

func TestOpenSQLiteStore_EmptyDriverUsesDefault(t *testing.T) {
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "test.db"), "")
	require.NoError(t, err)
	defer store.Close()

	habits, err := store.ListHabits(context.Background())
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habits.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	h := &Habit{Name: "Journal", Description: StringPtr("Date: 05.06.2031\nDay: Thursday\nOne page"), Completed: true}
	require.NoError(t, first.InsertHabit(ctx, h))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.GetHabit(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestSQLiteStore_MigratesLegacyTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "legacy.db")

	// A database written before description and completion were tracked
	legacy, err := sql.Open(DriverSQLite, dbPath)
	require.NoError(t, err)
	_, err = legacy.Exec(`CREATE TABLE habits (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = legacy.Exec(`INSERT INTO habits (name) VALUES ('old habit')`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	habits, err := store.ListHabits(context.Background())
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "old habit", habits[0].Name)
	assert.Nil(t, habits[0].Description)
	assert.False(t, habits[0].Completed)

	// Running migrations again is a no-op
	require.NoError(t, store.runMigrations())
}

func TestSQLiteStore_RefreshPicksUpExternalWrites(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shared.db")
	ctx := context.Background()

	watcher, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer watcher.Close()

	writer, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer writer.Close()

	ch, err := watcher.WatchHabits(t.Context())
	require.NoError(t, err)
	nextRows(t, ch, func(rows []*Habit) bool { return len(rows) == 0 })

	// The second handle's write is invisible to watchers until Refresh
	require.NoError(t, writer.InsertHabit(ctx, &Habit{Name: "from another process"}))
	require.NoError(t, watcher.Refresh(ctx))

	rows := nextRows(t, ch, func(rows []*Habit) bool { return len(rows) == 1 })
	assert.Equal(t, "from another process", rows[0].Name)
}

func TestSQLiteStore_ClosedStoreErrors(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.ListHabits(context.Background())
	assert.Error(t, err)
}

func TestSQLiteStore_NotifyIgnoresCancelledContext(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.WatchHabits(ctx)
	require.NoError(t, err)

	// The write has committed; the caller's context ends before the re-read.
	_, err = s.db.ExecContext(ctx, `INSERT INTO habits (name, is_completed) VALUES (?, 0)`, "committed")
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	s.notify(cancelled)

	latest, ok := s.changes.Latest()
	require.True(t, ok)
	require.Len(t, latest, 1)
	assert.Equal(t, "committed", latest[0].Name)
}
