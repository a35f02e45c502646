// ABOUTME: One-shot commands: list, stats, add, edit, toggle, delete, clear, share and init
// ABOUTME: Mutations go through the holder and wait for it to settle before returning

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/healthy-habits/internal/agenda"
	"github.com/2389/healthy-habits/internal/config"
	"github.com/2389/healthy-habits/internal/locale"
	"github.com/2389/healthy-habits/internal/share"
)

var errBlankName = errors.New("habit name must not be blank")

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print habits grouped by day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				habits, err := a.habits(cmd.Context())
				if err != nil {
					return err
				}
				renderAgenda(cmd.OutOrStdout(), habits, time.Now(), a.loc)
				return nil
			})
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print completion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				habits, err := a.habits(cmd.Context())
				if err != nil {
					return err
				}
				renderStats(cmd.OutOrStdout(), habits, a.loc)
				return nil
			})
		},
	}
}

// dateParts parses a dd.mm.yyyy flag value into the date and day lines.
func dateParts(value string, loc locale.Locale) (date, day *string, err error) {
	t, ok := agenda.ParseDate(&value)
	if !ok {
		return nil, nil, fmt.Errorf("invalid date %q, expected %s", value, loc.DateHint)
	}
	formatted := agenda.FormatDate(t)
	dayName := agenda.DayName(t, loc)
	return &formatted, &dayName, nil
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var date, description string

	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Add a habit",
		Example: `  habits add Morning run --date 05.01.2030
  habits add Read --description "20 pages"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return errBlankName
			}
			return withApp(cmd, opts, func(a *app) error {
				var d, day *string
				if date != "" {
					var err error
					if d, day, err = dateParts(date, a.loc); err != nil {
						return err
					}
				}
				a.home.AddHabit(name, agenda.ComposeDescription(d, day, description, a.loc))
				if err := a.settle(cmd.Context()); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Added %q\n", name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date in dd.mm.yyyy format")
	cmd.Flags().StringVarP(&description, "description", "d", "", "free-form description")
	return cmd
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var name, date, description string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a habit's name, description or date",
		Long: `Change a habit's name, description or date. Only the flags given are
changed. An empty --date removes the date and keeps the day.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("name") && strings.TrimSpace(name) == "" {
				return errBlankName
			}
			return withApp(cmd, opts, func(a *app) error {
				h, err := a.habit(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				cur := agenda.ParseDescription(h.Description, a.loc)

				newName := h.Name
				if flags.Changed("name") {
					newName = strings.TrimSpace(name)
				}
				body := cur.Body
				if flags.Changed("description") {
					body = description
				}
				d, day := cur.Date, cur.Day
				if flags.Changed("date") {
					if strings.TrimSpace(date) == "" {
						d = nil
					} else if d, day, err = dateParts(strings.TrimSpace(date), a.loc); err != nil {
						return err
					}
				}

				a.home.UpdateHabitDetails(h, newName, agenda.ComposeDescription(d, day, body, a.loc))
				if err := a.settle(cmd.Context()); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Updated #%d\n", h.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&date, "date", "", "new date in dd.mm.yyyy format, empty to remove")
	return cmd
}

func newToggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Mark a habit completed or not completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				h, err := a.habit(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				a.home.ToggleHabitCompleted(h)
				if err := a.settle(cmd.Context()); err != nil {
					return err
				}
				status := a.loc.StatusCompleted
				if h.Completed {
					status = a.loc.StatusInProgress
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", h.Name, status)
				return nil
			})
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a habit",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				h, err := a.habit(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !yes && !confirm(cmd, fmt.Sprintf(a.loc.DeleteConfirm, h.Name)) {
					return nil
				}
				a.home.DeleteHabit(h)
				if err := a.settle(cmd.Context()); err != nil {
					return err
				}
				color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "Deleted %q\n", h.Name)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every habit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app) error {
				if !yes && !confirm(cmd, "Delete all habits?") {
					return nil
				}
				a.home.DeleteAllHabits()
				if err := a.settle(cmd.Context()); err != nil {
					return err
				}
				color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "Deleted all habits")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newShareCmd(opts *rootOptions) *cobra.Command {
	var html, toClipboard bool

	cmd := &cobra.Command{
		Use:   "share ID",
		Short: "Print a habit as a shareable message or copy it to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if html && toClipboard {
				return errors.New("--html and --clipboard cannot be combined")
			}
			return withApp(cmd, opts, func(a *app) error {
				h, err := a.habit(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				var sharer share.Sharer = &share.WriterSharer{W: cmd.OutOrStdout(), HTML: html}
				if toClipboard {
					cs := share.NewClipboardSharer()
					if !cs.Available() {
						return errors.New("no clipboard utility found")
					}
					sharer = cs
				}
				if err := sharer.Share(cmd.Context(), share.Payload(h, a.loc)); err != nil {
					return err
				}
				if toClipboard {
					fmt.Fprintln(cmd.OutOrStdout(), a.loc.Shared)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "render the message as HTML")
	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "copy the message to the clipboard")
	return cmd
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	var lang, dbPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write a default config file to the --config path, $HABITS_CONFIG or
~/.config/habits/config.yaml. Paths ending in .toml are written as TOML.
An existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ResolvePath(opts.configPath)

			cfg := config.Default()
			if lang != "" {
				if !locale.Supported(lang) {
					return fmt.Errorf("unsupported locale %q", lang)
				}
				cfg.Locale = lang
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Write(cfg, path); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "locale", "", "interface language (en or bg)")
	cmd.Flags().StringVar(&dbPath, "db", "", "database path")
	return cmd
}
