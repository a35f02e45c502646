// ABOUTME: Watch command: reprints the habit list whenever the database changes
// ABOUTME: Uses the file watcher so writes from other processes are picked up

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389/healthy-habits/internal/watch"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the habit list every time it changes",
		Long: `Print the habit list, then print it again whenever the database is
changed, including by other habits processes. Stops on Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				ctx := cmd.Context()

				if err := a.serveMetrics(ctx); err != nil {
					return err
				}

				w, err := watch.New(a.store.Path(), a.store, a.cfg.Watch.Debounce, a.logger)
				if err != nil {
					return err
				}
				if err := w.Start(ctx); err != nil {
					return err
				}
				defer w.Stop()

				rows, err := a.repo.List(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for habits := range rows {
					fmt.Fprintf(out, "\n── %s ──\n", time.Now().Format("15:04:05"))
					renderAgenda(out, habits, time.Now(), a.loc)
				}
				return nil
			})
		},
	}
}
