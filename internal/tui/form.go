// ABOUTME: Add and edit dialog for a single habit
// ABOUTME: Name, description body and a dd.mm.yyyy date, encoded back into the description on save

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389/healthy-habits/internal/agenda"
	"github.com/2389/healthy-habits/internal/locale"
	"github.com/2389/healthy-habits/internal/store"
)

const (
	fieldName = iota
	fieldBody
	fieldDate
	fieldCount
)

// formResult is what a submitted form asks for.
type formResult struct {
	name        string
	description string
}

// formModel is the add/edit dialog. habit is nil when adding.
type formModel struct {
	habit *store.Habit
	orig  agenda.Details

	name  textinput.Model
	body  textarea.Model
	date  textinput.Model
	focus int

	invalid bool
	loc     locale.Locale
	keys    keyMap
	styles  Styles
}

func newForm(habit *store.Habit, loc locale.Locale, keys keyMap, styles Styles) formModel {
	name := textinput.New()
	name.Placeholder = loc.NameLabel
	name.CharLimit = 120

	body := textarea.New()
	body.Placeholder = loc.DescLabel
	body.ShowLineNumbers = false
	body.SetHeight(3)

	date := textinput.New()
	date.Placeholder = loc.DateHint
	date.CharLimit = len(agenda.DateLayout)

	f := formModel{
		habit:  habit,
		name:   name,
		body:   body,
		date:   date,
		loc:    loc,
		keys:   keys,
		styles: styles,
	}

	if habit != nil {
		f.orig = agenda.ParseDescription(habit.Description, loc)
		f.name.SetValue(habit.Name)
		f.body.SetValue(f.orig.Body)
		if f.orig.Date != nil {
			f.date.SetValue(*f.orig.Date)
		}
	}

	f.name.Focus()
	return f
}

func (f formModel) editing() bool {
	return f.habit != nil
}

// setFocus moves focus to field i.
func (f formModel) setFocus(i int) (formModel, tea.Cmd) {
	f.focus = (i + fieldCount) % fieldCount
	f.name.Blur()
	f.body.Blur()
	f.date.Blur()

	var cmd tea.Cmd
	switch f.focus {
	case fieldName:
		cmd = f.name.Focus()
	case fieldBody:
		cmd = f.body.Focus()
	case fieldDate:
		cmd = f.date.Focus()
	}
	return f, cmd
}

// Update handles input. submitted is true when the user asked to save; the
// caller then calls result.
func (f formModel) Update(msg tea.Msg) (formModel, tea.Cmd, bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.keys.next):
			f, cmd := f.setFocus(f.focus + 1)
			return f, cmd, false
		case key.Matches(msg, f.keys.prev):
			f, cmd := f.setFocus(f.focus - 1)
			return f, cmd, false
		case key.Matches(msg, f.keys.save):
			return f, nil, true
		case key.Matches(msg, f.keys.submit) && f.focus != fieldBody:
			return f, nil, true
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldName:
		f.name, cmd = f.name.Update(msg)
	case fieldBody:
		f.body, cmd = f.body.Update(msg)
	case fieldDate:
		f.date, cmd = f.date.Update(msg)
	}
	f.invalid = false
	return f, cmd, false
}

// result validates the form. Adding needs a name and a valid date; editing
// needs a name, and a changed date must be valid or blank.
func (f formModel) result() (formResult, bool) {
	name := strings.TrimSpace(f.name.Value())
	if name == "" {
		return formResult{}, false
	}

	dateText := strings.TrimSpace(f.date.Value())
	body := f.body.Value()

	var date, day *string
	switch {
	case f.editing() && f.orig.Date != nil && dateText == *f.orig.Date:
		date, day = f.orig.Date, f.orig.Day
	case f.editing() && dateText == "":
		day = f.orig.Day
	default:
		t, ok := agenda.ParseDate(&dateText)
		if !ok {
			return formResult{}, false
		}
		formatted := agenda.FormatDate(t)
		dayName := agenda.DayName(t, f.loc)
		date, day = &formatted, &dayName
	}

	return formResult{
		name:        name,
		description: agenda.ComposeDescription(date, day, body, f.loc),
	}, true
}

func (f formModel) View() string {
	title := f.loc.NewHabit
	if f.editing() {
		title = f.loc.EditHabit
	}

	label := func(i int, text string) string {
		if f.focus == i {
			return f.styles.Focused.Render(text)
		}
		return f.styles.Label.Render(text)
	}

	dateLine := f.date.View()
	if t, ok := agenda.ParseDate(store.StringPtr(strings.TrimSpace(f.date.Value()))); ok {
		dateLine += "  " + f.styles.Label.Render(agenda.DayName(t, f.loc))
	}

	parts := []string{
		f.styles.Title.Render(title),
		"",
		label(fieldName, f.loc.NameLabel),
		f.name.View(),
		"",
		label(fieldBody, f.loc.DescLabel),
		f.body.View(),
		"",
		label(fieldDate, f.loc.DateLabel+" ("+f.loc.DateHint+")"),
		dateLine,
	}
	if f.invalid {
		parts = append(parts, "", f.styles.Error.Render(f.loc.InvalidForm))
	}
	parts = append(parts, "", f.styles.Help.Render("tab • ctrl+s "+f.loc.Save+" • esc "+f.loc.Cancel))

	return f.styles.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
