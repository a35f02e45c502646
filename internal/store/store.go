// ABOUTME: HabitStore interface and the Habit record for healthy-habits persistence
// ABOUTME: Defines the storage accessor contract shared by SQLiteStore and MockStore

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested habit does not exist
var ErrNotFound = errors.New("not found")

// Habit is a user-defined recurring task. The description is free text that
// may also carry the "date" and "day" lines written by the add/edit forms.
type Habit struct {
	ID          int64   // assigned by the store on first insert, immutable afterwards
	Name        string  // required
	Description *string // nil when the user gave none
	Completed   bool
}

// DescriptionText returns the description, or "" when there is none.
func (h *Habit) DescriptionText() string {
	if h.Description == nil {
		return ""
	}
	return *h.Description
}

// Clone returns a deep copy of the habit.
func (h *Habit) Clone() *Habit {
	c := *h
	if h.Description != nil {
		d := *h.Description
		c.Description = &d
	}
	return &c
}

// StringPtr is a helper for building optional descriptions.
func StringPtr(s string) *string {
	return &s
}

// HabitStore is the storage accessor for the habits table.
//
// Mutations are not acknowledged to observers directly: every successful
// mutation causes a fresh full row set to be published on the live stream
// returned by WatchHabits.
type HabitStore interface {
	// ListHabits returns every habit, newest identity first.
	ListHabits(ctx context.Context) ([]*Habit, error)

	// WatchHabits returns a live stream of the full row set. The current
	// rows are delivered immediately; the channel is closed when ctx is
	// cancelled or the store is closed. Values must be treated as read-only.
	WatchHabits(ctx context.Context) (<-chan []*Habit, error)

	// GetHabit returns the habit with the given ID or ErrNotFound.
	GetHabit(ctx context.Context, id int64) (*Habit, error)

	// InsertHabit stores a habit. A zero ID gets the next identity, which
	// is written back into habit; a non-zero ID replaces any existing row.
	InsertHabit(ctx context.Context, habit *Habit) error

	// UpdateHabit overwrites the row with habit.ID. Missing rows are ignored.
	UpdateHabit(ctx context.Context, habit *Habit) error

	// DeleteHabit removes the row with habit.ID. Missing rows are ignored.
	DeleteHabit(ctx context.Context, habit *Habit) error

	// DeleteAllHabits empties the table.
	DeleteAllHabits(ctx context.Context) error

	// Refresh re-reads the table and republishes it on the live stream.
	// Used when another process changed the database.
	Refresh(ctx context.Context) error

	// Close releases any resources held by the store
	Close() error
}
