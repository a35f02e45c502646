// ABOUTME: Runs the interactive home screen on top of the holder
// ABOUTME: Starts the database watcher and metrics listener, and logs to a file beside the database

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389/healthy-habits/internal/share"
	"github.com/2389/healthy-habits/internal/tui"
	"github.com/2389/healthy-habits/internal/watch"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive home screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
}

// openLogFile opens habits.log next to the database. The screen owns the
// terminal, so logs cannot go to stderr.
func openLogFile(dbPath string) (*os.File, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, "habits.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()

	cfg, _, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if cfg.Database.Path != ":memory:" {
		f, err := openLogFile(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}

	// Holder failures are forwarded to the running program.
	var program atomic.Pointer[tea.Program]
	a, err := openApp(cfg, logOut, func(op string, err error) {
		if p := program.Load(); p != nil {
			p.Send(tui.HolderError(op, err))
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.serveMetrics(ctx); err != nil {
		return err
	}

	if cfg.Watch.Enabled && cfg.Database.Path != ":memory:" {
		w, err := watch.New(a.store.Path(), a.store, cfg.Watch.Debounce, a.logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	model := tui.New(ctx, a.home, share.NewClipboardSharer(), a.loc)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	program.Store(p)

	a.logger.Info("home screen started", "database", cfg.Database.Path)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running home screen: %w", err)
	}
	return nil
}
