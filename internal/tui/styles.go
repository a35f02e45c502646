// Package tui provides the interactive terminal home screen.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary     = lipgloss.Color("#8BC34A") // Lime Green
	Muted       = lipgloss.Color("#7d8590")
	Destructive = lipgloss.Color("#e53935")
	Info        = lipgloss.Color("#2196F3")

	// Day badge colors, Monday first
	WeekdayColors = [7]lipgloss.Color{
		lipgloss.Color("#8BC34A"),
		lipgloss.Color("#4db6ac"),
		lipgloss.Color("#2196F3"),
		lipgloss.Color("#e53935"),
		lipgloss.Color("#ff8a65"),
		lipgloss.Color("#ffd54f"),
		lipgloss.Color("#e57373"),
	}
	UnknownDayColor = lipgloss.Color("#7d8590")
)

// Styles holds every style used by the home screen.
type Styles struct {
	Title     lipgloss.Style
	Stats     lipgloss.Style
	Section   lipgloss.Style
	Header    lipgloss.Style
	Cursor    lipgloss.Style
	Name      lipgloss.Style
	Done      lipgloss.Style
	Body      lipgloss.Style
	Badge     lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Dialog    lipgloss.Style
	Label     lipgloss.Style
	Focused   lipgloss.Style
	Emphasize lipgloss.Style
}

// DefaultStyles returns the default home screen styles.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Stats:     lipgloss.NewStyle().Foreground(Info),
		Section:   lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1),
		Header:    lipgloss.NewStyle().Bold(true).BorderLeft(true).BorderStyle(lipgloss.ThickBorder()).BorderForeground(Primary).PaddingLeft(1),
		Cursor:    lipgloss.NewStyle().Foreground(Primary).Bold(true),
		Name:      lipgloss.NewStyle(),
		Done:      lipgloss.NewStyle().Strikethrough(true).Foreground(Muted),
		Body:      lipgloss.NewStyle().Foreground(Muted).PaddingLeft(6),
		Badge:     lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#101F38")),
		Status:    lipgloss.NewStyle().Foreground(Info),
		Error:     lipgloss.NewStyle().Foreground(Destructive),
		Help:      lipgloss.NewStyle().Foreground(Muted),
		Dialog:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Primary).Padding(1, 2),
		Label:     lipgloss.NewStyle().Foreground(Muted),
		Focused:   lipgloss.NewStyle().Foreground(Primary).Bold(true),
		Emphasize: lipgloss.NewStyle().Bold(true),
	}
}

// DayColor picks the badge color for a weekday index, or UnknownDayColor.
func DayColor(index int, known bool) lipgloss.Color {
	if !known || index < 0 || index >= len(WeekdayColors) {
		return UnknownDayColor
	}
	return WeekdayColors[index]
}
