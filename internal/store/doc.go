// Package store provides persistent storage for habits using SQLite.
//
// # Architecture
//
// HabitStore is the storage accessor for the single habits table:
//
//   - ListHabits: every row, newest identity first
//   - WatchHabits: live stream of the full row set
//   - InsertHabit / UpdateHabit / DeleteHabit / DeleteAllHabits: mutations
//   - GetHabit / Refresh: lookups and out-of-process change handling
//
// SQLiteStore is the durable implementation and MockStore the in-memory one
// used by tests. Both publish a fresh row set after every successful
// mutation through an internal broadcast.Broadcaster; writers never get an
// acknowledgment other than the returned error.
//
// # Schema
//
//	CREATE TABLE habits (
//	    id           INTEGER PRIMARY KEY AUTOINCREMENT,
//	    name         TEXT NOT NULL,
//	    description  TEXT,
//	    is_completed INTEGER NOT NULL DEFAULT 0
//	);
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode and a busy timeout so that a second
// process (for example a CLI invocation while the TUI is open) can write:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA busy_timeout=5000;
//
// Two drivers are supported: "sqlite" (modernc.org/sqlite, pure Go, the
// default) and "sqlite3" (github.com/mattn/go-sqlite3, cgo).
//
// Database file locations:
//
//   - Default: ~/.local/share/habits/habits.db
//   - Testing: :memory: (in-memory database)
//
// # Error Handling
//
// ErrNotFound is returned by GetHabit for unknown IDs. Update and delete of
// missing rows are no-ops. All other failures are wrapped and returned
// unchanged in meaning.
//
// # Testing
//
// Use NewMockStore() for unit tests:
//
//	s := store.NewMockStore()
//
// Use NewSQLiteStore(":memory:") for integration tests with real SQLite.
//
// # Migrations
//
// Column migrations run automatically on open and are idempotent.
package store
