// ABOUTME: Pass-through repository over a HabitStore
// ABOUTME: Adds debug logging and operation metrics, never validation or error translation

// Package repository exposes habit storage to the view-state holder through
// an interface that does not depend on the storage technology.
package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/2389/healthy-habits/internal/metrics"
	"github.com/2389/healthy-habits/internal/store"
)

// HabitRepository is what the view-state holder depends on.
type HabitRepository interface {
	// List returns a live stream of every habit, newest identity first.
	List(ctx context.Context) (<-chan []*store.Habit, error)
	Insert(ctx context.Context, h *store.Habit) error
	Update(ctx context.Context, h *store.Habit) error
	Delete(ctx context.Context, h *store.Habit) error
	DeleteAll(ctx context.Context) error
}

// Repository delegates every call to a HabitStore.
type Repository struct {
	store    store.HabitStore
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithRecorder sets the metrics recorder. A nil recorder disables metrics.
func WithRecorder(r metrics.Recorder) Option {
	return func(repo *Repository) {
		if r != nil {
			repo.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(repo *Repository) {
		if l != nil {
			repo.logger = l
		}
	}
}

// New creates a repository over s.
func New(s store.HabitStore, opts ...Option) *Repository {
	r := &Repository{
		store:    s,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "repository")
	return r
}

func (r *Repository) observe(op string, start time.Time, err error) {
	d := time.Since(start)
	r.recorder.ObserveOperation(op, d, metrics.ResultOf(err))
	r.logger.Debug("habit operation", "op", op, "duration", d, "error", err)
}

// List implements HabitRepository.
func (r *Repository) List(ctx context.Context) (ch <-chan []*store.Habit, err error) {
	start := time.Now()
	defer func() { r.observe("list", start, err) }()
	return r.store.WatchHabits(ctx)
}

// Insert implements HabitRepository.
func (r *Repository) Insert(ctx context.Context, h *store.Habit) (err error) {
	start := time.Now()
	defer func() { r.observe("insert", start, err) }()
	return r.store.InsertHabit(ctx, h)
}

// Update implements HabitRepository.
func (r *Repository) Update(ctx context.Context, h *store.Habit) (err error) {
	start := time.Now()
	defer func() { r.observe("update", start, err) }()
	return r.store.UpdateHabit(ctx, h)
}

// Delete implements HabitRepository.
func (r *Repository) Delete(ctx context.Context, h *store.Habit) (err error) {
	start := time.Now()
	defer func() { r.observe("delete", start, err) }()
	return r.store.DeleteHabit(ctx, h)
}

// DeleteAll implements HabitRepository.
func (r *Repository) DeleteAll(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { r.observe("delete_all", start, err) }()
	return r.store.DeleteAllHabits(ctx)
}

var _ HabitRepository = (*Repository)(nil)
