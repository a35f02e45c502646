// ABOUTME: View-state holder for the home screen: mirrors the repository stream and queues intents
// ABOUTME: All mutations run in FIFO order on one worker goroutine tied to the holder's lifetime

// Package viewmodel holds the state shown on the home screen.
//
// Home mirrors the repository's live stream into a snapshot that starts out
// empty and republishes it to any number of subscribers. Intent methods
// (add, toggle, edit, delete) never touch the snapshot: they queue a storage
// call and return, and the snapshot changes only when storage reports the
// new row set.
package viewmodel

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/2389/healthy-habits/internal/broadcast"
	"github.com/2389/healthy-habits/internal/metrics"
	"github.com/2389/healthy-habits/internal/repository"
	"github.com/2389/healthy-habits/internal/store"
)

// ErrClosed is returned by Drain once the holder has been closed.
var ErrClosed = errors.New("holder closed")

// ErrorHandler receives failures of queued mutations. op is one of
// "add", "toggle", "update", "delete" and "delete_all".
type ErrorHandler func(op string, err error)

// Option configures a Home.
type Option func(*Home)

// WithErrorHandler sets the hook called when a queued mutation fails.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(h *Home) { h.onError = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Home) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(h *Home) {
		if r != nil {
			h.recorder = r
		}
	}
}

type job struct {
	op  string
	run func(ctx context.Context) error
}

// Home is the home screen's view-state holder.
type Home struct {
	repo     repository.HabitRepository
	logger   *slog.Logger
	recorder metrics.Recorder
	onError  ErrorHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	habits []*store.Habit
	out    *broadcast.Broadcaster[[]*store.Habit]

	qmu    sync.Mutex
	queue  []job
	wake   chan struct{}
	closed bool

	ready     chan struct{} // closed once the first storage row set is mirrored
	readyOnce sync.Once
	closeOnce sync.Once
}

// New subscribes to repo and starts the holder's worker.
func New(repo repository.HabitRepository, opts ...Option) (*Home, error) {
	h := &Home{
		repo:     repo,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		habits:   []*store.Habit{},
		wake:     make(chan struct{}, 1),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "viewmodel")
	h.out = broadcast.New[[]*store.Habit](h.logger)
	h.out.Publish(h.habits)

	h.ctx, h.cancel = context.WithCancel(context.Background())

	rows, err := repo.List(h.ctx)
	if err != nil {
		h.cancel()
		h.out.Close()
		return nil, err
	}

	h.wg.Add(2)
	go h.mirror(rows)
	go h.work()

	return h, nil
}

// mirror copies every row set from storage into the snapshot.
func (h *Home) mirror(rows <-chan []*store.Habit) {
	defer h.wg.Done()
	for set := range rows {
		snapshot := make([]*store.Habit, len(set))
		completed := 0
		for i, hb := range set {
			snapshot[i] = hb.Clone()
			if hb.Completed {
				completed++
			}
		}

		h.mu.Lock()
		h.habits = snapshot
		h.out.Publish(snapshot)
		h.mu.Unlock()

		h.readyOnce.Do(func() { close(h.ready) })

		h.recorder.SetHabitCounts(len(snapshot), completed)
		h.logger.Debug("snapshot updated", "habits", len(snapshot))
	}
}

// work runs queued jobs one at a time until the holder is closed.
func (h *Home) work() {
	defer h.wg.Done()
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.wake:
		}

		for {
			j, ok := h.next()
			if !ok {
				break
			}
			if h.ctx.Err() != nil {
				return
			}
			h.exec(j)
		}
	}
}

func (h *Home) next() (job, bool) {
	h.qmu.Lock()
	defer h.qmu.Unlock()
	if len(h.queue) == 0 {
		return job{}, false
	}
	j := h.queue[0]
	h.queue[0] = job{}
	h.queue = h.queue[1:]
	return j, true
}

func (h *Home) exec(j job) {
	err := j.run(h.ctx)
	if err == nil {
		return
	}
	// Cancellation by Close is expected teardown, not a failure.
	if h.ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return
	}
	h.logger.Error("habit operation failed", "op", j.op, "error", err)
	h.recorder.IncHolderFailure(j.op)
	if h.onError != nil {
		h.onError(j.op, err)
	}
}

// enqueue appends a job and wakes the worker. Jobs queued after Close are dropped.
func (h *Home) enqueue(j job) bool {
	h.qmu.Lock()
	if h.closed {
		h.qmu.Unlock()
		h.logger.Debug("dropping operation on closed holder", "op", j.op)
		return false
	}
	h.queue = append(h.queue, j)
	h.qmu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
	return true
}

// Habits returns a copy of the current snapshot.
func (h *Home) Habits() []*store.Habit {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*store.Habit, len(h.habits))
	for i, hb := range h.habits {
		out[i] = hb.Clone()
	}
	return out
}

// Subscribe returns a stream of snapshots that starts with the current one.
// Slow readers only see the most recent snapshot. Values are shared between
// subscribers and must not be modified. The channel closes when ctx is
// cancelled or the holder is closed.
func (h *Home) Subscribe(ctx context.Context) <-chan []*store.Habit {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, _ := h.out.Subscribe(ctx)
	return ch
}

// AddHabit queues the insertion of a new, not yet completed habit.
func (h *Home) AddHabit(name, description string) {
	hb := &store.Habit{Name: name, Description: store.StringPtr(description)}
	h.enqueue(job{op: "add", run: func(ctx context.Context) error {
		return h.repo.Insert(ctx, hb)
	}})
}

// ToggleHabitCompleted queues an update of habit with its flag inverted.
func (h *Home) ToggleHabitCompleted(habit *store.Habit) {
	updated := habit.Clone()
	updated.Completed = !updated.Completed
	h.enqueue(job{op: "toggle", run: func(ctx context.Context) error {
		return h.repo.Update(ctx, updated)
	}})
}

// UpdateHabitDetails queues an update replacing name and description while
// keeping the completion flag.
func (h *Home) UpdateHabitDetails(habit *store.Habit, newName, newDescription string) {
	updated := habit.Clone()
	updated.Name = newName
	updated.Description = store.StringPtr(newDescription)
	h.enqueue(job{op: "update", run: func(ctx context.Context) error {
		return h.repo.Update(ctx, updated)
	}})
}

// DeleteHabit queues removal of the habit with habit's identity.
func (h *Home) DeleteHabit(habit *store.Habit) {
	target := habit.Clone()
	h.enqueue(job{op: "delete", run: func(ctx context.Context) error {
		return h.repo.Delete(ctx, target)
	}})
}

// DeleteAllHabits queues removal of every habit.
func (h *Home) DeleteAllHabits() {
	h.enqueue(job{op: "delete_all", run: func(ctx context.Context) error {
		return h.repo.DeleteAll(ctx)
	}})
}

// Ready blocks until the snapshot reflects storage at least once. Before
// that, Habits returns the initial empty list.
func (h *Home) Ready(ctx context.Context) error {
	select {
	case <-h.ready:
		return nil
	default:
	}

	select {
	case <-h.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.ctx.Done():
		return ErrClosed
	}
}

// Drain blocks until every operation queued before the call has run.
func (h *Home) Drain(ctx context.Context) error {
	done := make(chan struct{})
	if !h.enqueue(job{op: "drain", run: func(context.Context) error {
		close(done)
		return nil
	}}) {
		return ErrClosed
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.ctx.Done():
		return ErrClosed
	}
}

// Close ends the holder's lifetime. In-flight operations are cancelled,
// queued ones are discarded and every subscriber channel is closed.
func (h *Home) Close() {
	h.closeOnce.Do(func() {
		h.qmu.Lock()
		h.closed = true
		h.queue = nil
		h.qmu.Unlock()

		h.cancel()
		h.wg.Wait()
		h.out.Close()
		h.logger.Debug("holder closed")
	})
}
