// ABOUTME: Composition root: wires config, storage, repository, holder and metrics
// ABOUTME: Every command builds one app and closes it when done

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/2389/healthy-habits/internal/config"
	"github.com/2389/healthy-habits/internal/locale"
	"github.com/2389/healthy-habits/internal/metrics"
	"github.com/2389/healthy-habits/internal/repository"
	"github.com/2389/healthy-habits/internal/store"
	"github.com/2389/healthy-habits/internal/viewmodel"
)

type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	loc      locale.Locale
	store    *store.SQLiteStore
	registry *prom.Registry // nil unless metrics are enabled
	repo     *repository.Repository
	home     *viewmodel.Home

	mu       sync.Mutex
	failures []error
	onError  viewmodel.ErrorHandler
}

// loadConfig resolves and loads the configuration. A missing file yields
// the defaults.
func loadConfig(explicit string) (*config.Config, string, error) {
	path := config.ResolvePath(explicit)
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, path, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, path, nil
}

// openApp opens the database and starts a holder over it. onError, when set,
// also receives holder failures.
func openApp(cfg *config.Config, logOut io.Writer, onError viewmodel.ErrorHandler) (*app, error) {
	logger := setupLogger(cfg.Logging, logOut)
	slog.SetDefault(logger)

	a := &app{
		cfg:     cfg,
		logger:  logger,
		loc:     locale.Lookup(cfg.Locale),
		onError: onError,
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		a.registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(a.registry)
	}

	s, err := store.OpenSQLiteStore(cfg.Database.Path, cfg.Database.Driver)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.store = s

	a.repo = repository.New(s,
		repository.WithRecorder(recorder),
		repository.WithLogger(logger),
	)

	home, err := viewmodel.New(a.repo,
		viewmodel.WithLogger(logger),
		viewmodel.WithRecorder(recorder),
		viewmodel.WithErrorHandler(a.holderFailed),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("starting holder: %w", err)
	}
	a.home = home

	logger.Debug("app opened",
		"database", cfg.Database.Path,
		"driver", cfg.Database.Driver,
		"locale", a.loc.Tag.String(),
	)
	return a, nil
}

func (a *app) holderFailed(op string, err error) {
	a.mu.Lock()
	a.failures = append(a.failures, fmt.Errorf("%s: %w", op, err))
	a.mu.Unlock()
	if a.onError != nil {
		a.onError(op, err)
	}
}

// settle waits for queued intents and reports any that failed.
func (a *app) settle(ctx context.Context) error {
	if err := a.home.Drain(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	err := errors.Join(a.failures...)
	a.failures = nil
	return err
}

// habits returns the holder's snapshot once it reflects storage.
func (a *app) habits(ctx context.Context) ([]*store.Habit, error) {
	if err := a.home.Ready(ctx); err != nil {
		return nil, err
	}
	return a.home.Habits(), nil
}

// serveMetrics starts the metrics listener when enabled.
func (a *app) serveMetrics(ctx context.Context) error {
	if a.registry == nil {
		return nil
	}
	if err := metrics.Serve(ctx, a.cfg.Metrics.Addr, a.cfg.Metrics.Path, a.registry, a.logger); err != nil {
		return fmt.Errorf("starting metrics listener: %w", err)
	}
	return nil
}

// habit looks up a habit by the id given on the command line.
func (a *app) habit(ctx context.Context, arg string) (*store.Habit, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid habit id %q", arg)
	}
	h, err := a.store.GetHabit(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("habit %d not found", id)
	}
	return h, err
}

func (a *app) Close() error {
	a.home.Close()
	return a.store.Close()
}
