// ABOUTME: Plain-text rendering of the grouped habit list and completion stats
// ABOUTME: Shared by the list, stats and watch commands

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/2389/healthy-habits/internal/agenda"
	"github.com/2389/healthy-habits/internal/locale"
	"github.com/2389/healthy-habits/internal/store"
)

// renderStats prints the completion percentage and totals lines.
func renderStats(w io.Writer, habits []*store.Habit, loc locale.Locale) {
	stats := agenda.ComputeStats(habits)
	fmt.Fprintf(w, loc.CompletionFormat+"\n", stats.Percent)
	fmt.Fprintf(w, loc.TotalsFormat+"\n", stats.Total, stats.Completed)
}

// renderAgenda prints habits grouped the same way as the home screen, with
// ids so they can be passed to other commands.
func renderAgenda(w io.Writer, habits []*store.Habit, now time.Time, loc locale.Locale) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)

	renderStats(w, habits, loc)

	view := agenda.Build(habits, now, loc)
	section := func(title string, groups []agenda.Group) {
		if len(groups) == 0 {
			return
		}
		fmt.Fprintln(w)
		bold.Fprintln(w, title)
		for _, g := range groups {
			cyan.Fprintf(w, "  %s\n", g.Label(loc))
			for _, h := range g.Habits {
				check := "[ ]"
				if h.Completed {
					check = "[x]"
				}
				fmt.Fprintf(w, "    %s %s %s\n", check, gray.Sprintf("#%d", h.ID), h.Name)
				if body := agenda.ParseDescription(h.Description, loc).Body; body != "" {
					for _, line := range strings.Split(body, "\n") {
						gray.Fprintf(w, "          %s\n", line)
					}
				}
			}
		}
	}
	section(loc.Upcoming, view.Upcoming)
	section(loc.Past, view.Past)
}
