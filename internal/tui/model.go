// ABOUTME: Bubbletea model for the home screen: grouped habit list, dialogs and sharing
// ABOUTME: Renders the holder's snapshot stream and forwards user intents to the holder

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389/healthy-habits/internal/agenda"
	"github.com/2389/healthy-habits/internal/locale"
	"github.com/2389/healthy-habits/internal/share"
	"github.com/2389/healthy-habits/internal/store"
)

// Holder is the part of the view-state holder the screen uses.
type Holder interface {
	Habits() []*store.Habit
	Subscribe(ctx context.Context) <-chan []*store.Habit
	AddHabit(name, description string)
	ToggleHabitCompleted(h *store.Habit)
	UpdateHabitDetails(h *store.Habit, newName, newDescription string)
	DeleteHabit(h *store.Habit)
}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

// Messages
type (
	habitsMsg       []*store.Habit
	streamClosedMsg struct{}
	sharedMsg       struct{ err error }
	holderErrMsg    struct {
		op  string
		err error
	}
)

// Model is the home screen.
type Model struct {
	ctx     context.Context
	holder  Holder
	updates <-chan []*store.Habit
	sharer  share.Sharer
	loc     locale.Locale
	now     func() time.Time

	habits []*store.Habit
	view   agenda.Agenda
	items  []*store.Habit // habits in display order, indexed by cursor
	cursor int

	mode    mode
	form    formModel
	pending *store.Habit // delete target

	status    string
	statusErr bool
	width     int

	keys   keyMap
	styles Styles
}

// Option configures a Model.
type Option func(*Model)

// WithClock overrides the clock used to split upcoming and past habits.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithStyles overrides the default styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// New creates the home screen. The snapshot subscription lives until ctx is
// cancelled.
func New(ctx context.Context, holder Holder, sharer share.Sharer, loc locale.Locale, opts ...Option) Model {
	m := Model{
		ctx:    ctx,
		holder: holder,
		sharer: sharer,
		loc:    loc,
		now:    time.Now,
		keys:   newKeyMap(),
		styles: DefaultStyles(),
		width:  80,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.updates = holder.Subscribe(ctx)
	m.setHabits(holder.Habits())
	return m
}

// HolderError wraps a failure reported by the holder's error hook so it can
// be sent to a running program with Program.Send.
func HolderError(op string, err error) tea.Msg {
	return holderErrMsg{op: op, err: err}
}

// waitForHabits reads the next snapshot.
func waitForHabits(ch <-chan []*store.Habit) tea.Cmd {
	return func() tea.Msg {
		habits, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return habitsMsg(habits)
	}
}

// Init starts listening for snapshots.
func (m Model) Init() tea.Cmd {
	return waitForHabits(m.updates)
}

// setHabits rebuilds the grouped view and keeps the cursor on the same habit
// when it still exists.
func (m *Model) setHabits(habits []*store.Habit) {
	var selected int64
	if m.cursor < len(m.items) {
		selected = m.items[m.cursor].ID
	}

	m.habits = habits
	m.view = agenda.Build(habits, m.now(), m.loc)
	m.items = m.items[:0:0]
	for _, g := range m.view.Upcoming {
		m.items = append(m.items, g.Habits...)
	}
	for _, g := range m.view.Past {
		m.items = append(m.items, g.Habits...)
	}

	for i, h := range m.items {
		if h.ID == selected {
			m.cursor = i
			return
		}
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

func (m Model) selected() *store.Habit {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return m.items[m.cursor]
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case habitsMsg:
		m.setHabits(msg)
		return m, waitForHabits(m.updates)

	case streamClosedMsg:
		return m, tea.Quit

	case sharedMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		} else {
			m.setStatus(m.loc.Shared, false)
		}
		return m, nil

	case holderErrMsg:
		m.setStatus(fmt.Sprintf("%s: %v", msg.op, msg.err), true)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.form, cmd, _ = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.toggle):
		if h := m.selected(); h != nil {
			m.holder.ToggleHabitCompleted(h)
		}

	case key.Matches(msg, m.keys.add):
		m.form = newForm(nil, m.loc, m.keys, m.styles)
		m.mode = modeForm

	case key.Matches(msg, m.keys.edit):
		if h := m.selected(); h != nil {
			m.form = newForm(h, m.loc, m.keys, m.styles)
			m.mode = modeForm
		}

	case key.Matches(msg, m.keys.delete):
		if h := m.selected(); h != nil {
			m.pending = h
			m.mode = modeConfirmDelete
		}

	case key.Matches(msg, m.keys.share):
		if h := m.selected(); h != nil && m.sharer != nil {
			return m, shareCmd(m.ctx, m.sharer, share.Payload(h, m.loc))
		}
	}

	return m, nil
}

func shareCmd(ctx context.Context, s share.Sharer, msg share.Message) tea.Cmd {
	return func() tea.Msg {
		return sharedMsg{err: s.Share(ctx, msg)}
	}
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	var submitted bool
	m.form, cmd, submitted = m.form.Update(msg)
	if !submitted {
		return m, cmd
	}

	res, ok := m.form.result()
	if !ok {
		// Invalid input is a no-op; the dialog stays open.
		m.form.invalid = true
		return m, nil
	}

	if m.form.editing() {
		m.holder.UpdateHabitDetails(m.form.habit, res.name, res.description)
	} else {
		m.holder.AddHabit(res.name, res.description)
	}
	m.mode = modeList
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.confirm):
		m.holder.DeleteHabit(m.pending)
		m.pending = nil
		m.mode = modeList
	case key.Matches(msg, m.keys.cancel):
		m.pending = nil
		m.mode = modeList
	}
	return m, nil
}

// View renders the screen.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.form.View()
	case modeConfirmDelete:
		return m.confirmView()
	}

	var sb strings.Builder

	stats := agenda.ComputeStats(m.habits)
	sb.WriteString(m.styles.Title.Render(m.loc.Title) + "\n")
	sb.WriteString(m.styles.Stats.Render(fmt.Sprintf(m.loc.CompletionFormat, stats.Percent)) + "\n")
	sb.WriteString(m.styles.Label.Render(fmt.Sprintf(m.loc.TotalsFormat, stats.Total, stats.Completed)) + "\n")

	if len(m.items) == 0 {
		sb.WriteString("\n" + m.styles.Help.Render(m.loc.Empty) + "\n")
	}

	index := 0
	section := func(title string, groups []agenda.Group) {
		if len(groups) == 0 {
			return
		}
		sb.WriteString(m.styles.Section.Render(title) + "\n")
		for _, g := range groups {
			sb.WriteString(m.styles.Header.Render(g.Label(m.loc)) + "\n")
			for _, h := range g.Habits {
				sb.WriteString(m.renderHabit(h, index == m.cursor))
				index++
			}
		}
	}
	section(m.loc.Upcoming, m.view.Upcoming)
	section(m.loc.Past, m.view.Past)

	sb.WriteString("\n")
	if m.status != "" {
		style := m.styles.Status
		if m.statusErr {
			style = m.styles.Error
		}
		sb.WriteString(style.Render(m.status) + "\n")
	}
	sb.WriteString(m.styles.Help.Render(m.loc.Help))

	return sb.String()
}

func (m Model) renderHabit(h *store.Habit, selected bool) string {
	d := agenda.ParseDescription(h.Description, m.loc)

	cursor := "  "
	if selected {
		cursor = m.styles.Cursor.Render("> ")
	}

	check := "[ ]"
	name := m.styles.Name.Render(h.Name)
	if h.Completed {
		check = "[x]"
		name = m.styles.Done.Render(h.Name)
	}

	line := cursor + check + " " + name
	if d.Day != nil {
		idx, known := agenda.WeekdayIndex(*d.Day, m.loc)
		line += " " + m.styles.Badge.Background(DayColor(idx, known)).Render(*d.Day)
	}
	if d.Date != nil {
		line += " " + m.styles.Badge.Background(Muted).Render(*d.Date)
	}

	out := line + "\n"
	if d.Body != "" {
		out += m.styles.Body.Width(max(m.width-2, 20)).Render(d.Body) + "\n"
	}
	return out
}

func (m Model) confirmView() string {
	name := ""
	if m.pending != nil {
		name = m.pending.Name
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(m.loc.DeleteTitle),
		"",
		fmt.Sprintf(m.loc.DeleteConfirm, name),
		"",
		m.styles.Help.Render("y "+m.loc.DeleteYes+" • esc "+m.loc.Cancel),
	)
	return m.styles.Dialog.Render(body)
}
