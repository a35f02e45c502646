// ABOUTME: Watches the SQLite database file for writes made by other processes
// ABOUTME: Debounces file events and asks the store to re-read and republish its rows

// Package watch keeps an open store's live stream current when another
// process (for example a CLI command run while the TUI is open) writes to the
// same database file.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when no debounce is configured.
const DefaultDebounce = 250 * time.Millisecond

// Refresher re-reads storage and republishes it. store.HabitStore satisfies it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Watcher monitors a database file and refreshes a store after changes.
type Watcher struct {
	dbPath   string
	target   Refresher
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	reloadChan chan struct{}
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// New creates a watcher for dbPath. A non-positive debounce uses DefaultDebounce.
func New(dbPath string, target Refresher, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if dbPath == "" || dbPath == ":memory:" {
		return nil, fmt.Errorf("cannot watch database path %q", dbPath)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Resolve absolute path for consistent watching
	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("resolving database path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	return &Watcher{
		dbPath:     absPath,
		target:     target,
		watcher:    fw,
		debounce:   debounce,
		logger:     logger.With("component", "watch"),
		reloadChan: make(chan struct{}, 1),
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins monitoring. The watcher stops when ctx is cancelled or Stop
// is called.
func (w *Watcher) Start(ctx context.Context) error {
	// Watch the directory: SQLite replaces and truncates the WAL file, which
	// drops watches placed on the file itself.
	dir := filepath.Dir(w.dbPath)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching database directory %s: %w", dir, err)
	}

	w.logger.Info("watching database for external changes", "path", w.dbPath, "debounce", w.debounce)

	w.wg.Add(2)
	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)
	return nil
}

// Stop ends monitoring and waits for the watcher's goroutines to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

// relevant reports whether a file name belongs to the database. The shared
// memory file changes on every read, so it is ignored.
func (w *Watcher) relevant(name string) bool {
	base := filepath.Base(w.dbPath)
	switch filepath.Base(name) {
	case base, base + "-wal", base + "-journal":
		return true
	}
	return false
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.logger.Debug("database change detected", "file", event.Name, "op", event.Op.String())
				w.trigger()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("database watcher error", "error", err)
		}
	}
}

// trigger schedules a debounced refresh.
func (w *Watcher) trigger() {
	select {
	case w.reloadChan <- struct{}{}:
	default:
		// Refresh already pending
	}
}

// reloadLoop coalesces bursts of events into one refresh per quiet period.
func (w *Watcher) reloadLoop(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-w.reloadChan:
			timer.Reset(w.debounce)
		case <-timer.C:
			if err := w.target.Refresh(ctx); err != nil {
				w.logger.Error("failed to refresh habits", "error", err)
				continue
			}
			w.logger.Debug("habits refreshed after external change")
		}
	}
}
