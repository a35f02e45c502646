// ABOUTME: Mock HabitStore implementation for testing
// ABOUTME: Allows tests to run without SQLite while keeping the same live-stream semantics

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/2389/healthy-habits/internal/broadcast"
)

// MockStore is an in-memory HabitStore implementation for testing.
type MockStore struct {
	mu      sync.Mutex
	habits  map[int64]*Habit // keyed by habit ID
	lastID  int64            // identity high-water mark, never reused
	err     error            // returned by every mutation while set
	changes *broadcast.Broadcaster[[]*Habit]
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		habits:  make(map[int64]*Habit),
		changes: broadcast.New[[]*Habit](nil),
	}
}

// SetError makes every subsequent mutation fail with err. Pass nil to reset.
func (m *MockStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// snapshotLocked returns copies of all habits, newest identity first.
// Caller must hold m.mu.
func (m *MockStore) snapshotLocked() []*Habit {
	out := make([]*Habit, 0, len(m.habits))
	for _, h := range m.habits {
		out = append(out, h.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// ListHabits returns copies of all habits, newest identity first.
func (m *MockStore) ListHabits(ctx context.Context) ([]*Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(), nil
}

// WatchHabits returns the live stream of the in-memory table.
func (m *MockStore) WatchHabits(ctx context.Context) (<-chan []*Habit, error) {
	m.mu.Lock()
	if _, ok := m.changes.Latest(); !ok {
		m.changes.Publish(m.snapshotLocked())
	}
	m.mu.Unlock()

	ch, _ := m.changes.Subscribe(ctx)
	return ch, nil
}

// GetHabit retrieves a habit by ID.
func (m *MockStore) GetHabit(ctx context.Context, id int64) (*Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.habits[id]
	if !ok {
		return nil, ErrNotFound
	}
	return h.Clone(), nil
}

// InsertHabit stores a copy of habit, allocating an ID when it has none.
func (m *MockStore) InsertHabit(ctx context.Context, habit *Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	if habit.ID == 0 {
		habit.ID = m.lastID + 1
	}
	if habit.ID > m.lastID {
		m.lastID = habit.ID
	}
	m.habits[habit.ID] = habit.Clone()

	m.changes.Publish(m.snapshotLocked())
	return nil
}

// UpdateHabit replaces an existing habit; unknown IDs are ignored.
func (m *MockStore) UpdateHabit(ctx context.Context, habit *Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	if _, ok := m.habits[habit.ID]; !ok {
		return nil
	}
	m.habits[habit.ID] = habit.Clone()

	m.changes.Publish(m.snapshotLocked())
	return nil
}

// DeleteHabit removes a habit by ID; unknown IDs are ignored.
func (m *MockStore) DeleteHabit(ctx context.Context, habit *Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	delete(m.habits, habit.ID)

	m.changes.Publish(m.snapshotLocked())
	return nil
}

// DeleteAllHabits clears the in-memory table.
func (m *MockStore) DeleteAllHabits(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.habits = make(map[int64]*Habit)

	m.changes.Publish(m.snapshotLocked())
	return nil
}

// Refresh republishes the current contents.
func (m *MockStore) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.changes.Publish(m.snapshotLocked())
	return nil
}

// Close shuts down the live stream.
func (m *MockStore) Close() error {
	m.changes.Close()
	return nil
}

// Ensure MockStore implements HabitStore
var _ HabitStore = (*MockStore)(nil)
