// ABOUTME: SQLite implementation of HabitStore using database/sql
// ABOUTME: Supports the pure-Go modernc driver and the cgo mattn driver, with schema creation and migrations

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/2389/healthy-habits/internal/broadcast"
)

// Driver names accepted by OpenSQLiteStore.
const (
	DriverSQLite  = "sqlite"  // modernc.org/sqlite, pure Go
	DriverSQLite3 = "sqlite3" // github.com/mattn/go-sqlite3, requires cgo
)

// SQLiteStore implements HabitStore using SQLite
type SQLiteStore struct {
	db      *sql.DB
	path    string
	logger  *slog.Logger
	changes *broadcast.Broadcaster[[]*Habit]

	// publishMu keeps read-then-publish atomic so observers never see an
	// older row set after a newer one.
	publishMu sync.Mutex
}

// NewSQLiteStore creates a new SQLite store at the given path using the
// default pure-Go driver.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	return OpenSQLiteStore(path, DriverSQLite)
}

// OpenSQLiteStore opens a store with an explicit driver.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func OpenSQLiteStore(path, driver string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverSQLite3 {
		return nil, fmt.Errorf("unsupported sqlite driver %q", driver)
	}

	if path != ":memory:" {
		// Ensure parent directory exists
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One local writer. This also keeps ":memory:" on a single connection,
	// since every new connection would get its own empty database.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Another process (a second CLI invocation) may hold the write lock briefly
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		path:    path,
		logger:  logger,
		changes: broadcast.New[[]*Habit](logger),
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path, "driver", driver)
	return s, nil
}

// Path returns the database file path the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS habits (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			name         TEXT NOT NULL,
			description  TEXT,
			is_completed INTEGER NOT NULL DEFAULT 0
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// runMigrations applies schema migrations for existing databases.
// These are idempotent - safe to run multiple times.
func (s *SQLiteStore) runMigrations() error {
	// SQLite doesn't support ADD COLUMN IF NOT EXISTS, so we check first
	migrations := []struct {
		check  string // Query to check if migration is needed
		apply  string // Query to apply the migration
		column string // Column name for logging
	}{
		{
			check:  `SELECT 1 FROM pragma_table_info('habits') WHERE name = 'description'`,
			apply:  `ALTER TABLE habits ADD COLUMN description TEXT`,
			column: "description",
		},
		{
			check:  `SELECT 1 FROM pragma_table_info('habits') WHERE name = 'is_completed'`,
			apply:  `ALTER TABLE habits ADD COLUMN is_completed INTEGER NOT NULL DEFAULT 0`,
			column: "is_completed",
		},
	}

	for _, m := range migrations {
		var exists int
		err := s.db.QueryRow(m.check).Scan(&exists)
		if err == nil {
			// Column already exists, skip
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking %s column: %w", m.column, err)
		}
		if _, err := s.db.Exec(m.apply); err != nil {
			return fmt.Errorf("adding %s column to habits: %w", m.column, err)
		}
		s.logger.Info("applied migration", "column", m.column, "table", "habits")
	}

	return nil
}

// Close closes the live stream and the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	s.changes.Close()
	return s.db.Close()
}

// ListHabits returns all habits ordered by identity, newest first.
func (s *SQLiteStore) ListHabits(ctx context.Context) ([]*Habit, error) {
	query := `
		SELECT id, name, description, is_completed
		FROM habits
		ORDER BY id DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying habits: %w", err)
	}
	defer rows.Close()

	habits := make([]*Habit, 0)
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating habits: %w", err)
	}

	return habits, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (*Habit, error) {
	var h Habit
	var description sql.NullString
	var completed int

	if err := row.Scan(&h.ID, &h.Name, &description, &completed); err != nil {
		return nil, fmt.Errorf("scanning habit: %w", err)
	}
	if description.Valid {
		h.Description = &description.String
	}
	h.Completed = completed != 0
	return &h, nil
}

// GetHabit retrieves a habit by ID.
// Returns ErrNotFound if the habit doesn't exist.
func (s *SQLiteStore) GetHabit(ctx context.Context, id int64) (*Habit, error) {
	query := `
		SELECT id, name, description, is_completed
		FROM habits
		WHERE id = ?
	`

	h, err := scanHabit(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// WatchHabits returns the live stream of the habits table.
func (s *SQLiteStore) WatchHabits(ctx context.Context) (<-chan []*Habit, error) {
	if _, ok := s.changes.Latest(); !ok {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	ch, _ := s.changes.Subscribe(ctx)
	return ch, nil
}

// Refresh re-reads the table and publishes it to watchers.
func (s *SQLiteStore) Refresh(ctx context.Context) error {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	habits, err := s.ListHabits(ctx)
	if err != nil {
		return err
	}
	s.changes.Publish(habits)
	return nil
}

// notify republishes after a mutation. The mutation already succeeded, so
// the re-read ignores cancellation of ctx and a failure is logged rather
// than returned.
func (s *SQLiteStore) notify(ctx context.Context) {
	if err := s.Refresh(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("failed to publish habit changes", "error", err)
	}
}

func nullableDescription(h *Habit) sql.NullString {
	if h.Description == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *h.Description, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// InsertHabit stores a habit. With a zero ID a new identity is allocated and
// written back into habit; otherwise the row with that ID is replaced.
func (s *SQLiteStore) InsertHabit(ctx context.Context, habit *Habit) error {
	if habit.ID == 0 {
		query := `
			INSERT INTO habits (name, description, is_completed)
			VALUES (?, ?, ?)
		`
		res, err := s.db.ExecContext(ctx, query,
			habit.Name,
			nullableDescription(habit),
			boolToInt(habit.Completed),
		)
		if err != nil {
			return fmt.Errorf("inserting habit: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading habit id: %w", err)
		}
		habit.ID = id
	} else {
		query := `
			INSERT OR REPLACE INTO habits (id, name, description, is_completed)
			VALUES (?, ?, ?, ?)
		`
		if _, err := s.db.ExecContext(ctx, query,
			habit.ID,
			habit.Name,
			nullableDescription(habit),
			boolToInt(habit.Completed),
		); err != nil {
			return fmt.Errorf("replacing habit: %w", err)
		}
	}

	s.logger.Debug("inserted habit", "id", habit.ID, "name", habit.Name)
	s.notify(ctx)
	return nil
}

// UpdateHabit overwrites name, description and completion of an existing habit.
func (s *SQLiteStore) UpdateHabit(ctx context.Context, habit *Habit) error {
	query := `
		UPDATE habits
		SET name = ?, description = ?, is_completed = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		habit.Name,
		nullableDescription(habit),
		boolToInt(habit.Completed),
		habit.ID,
	)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}

	n, _ := res.RowsAffected()
	s.logger.Debug("updated habit", "id", habit.ID, "rows_affected", n)
	s.notify(ctx)
	return nil
}

// DeleteHabit removes a habit by identity.
func (s *SQLiteStore) DeleteHabit(ctx context.Context, habit *Habit) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, habit.ID)
	if err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}

	n, _ := res.RowsAffected()
	s.logger.Debug("deleted habit", "id", habit.ID, "rows_affected", n)
	s.notify(ctx)
	return nil
}

// DeleteAllHabits removes every habit.
func (s *SQLiteStore) DeleteAllHabits(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM habits`)
	if err != nil {
		return fmt.Errorf("deleting all habits: %w", err)
	}

	n, _ := res.RowsAffected()
	s.logger.Info("deleted all habits", "rows_affected", n)
	s.notify(ctx)
	return nil
}

// Ensure SQLiteStore implements HabitStore
var _ HabitStore = (*SQLiteStore)(nil)
