// ABOUTME: User-facing strings and description prefixes for each supported language
// ABOUTME: Presets are matched against BCP 47 tags with golang.org/x/text/language

// Package locale holds the strings shown to the user and the prefixes used
// to encode a habit's day and date into its description.
package locale

import (
	"time"

	"golang.org/x/text/language"
)

// Locale is a complete set of user-facing strings.
type Locale struct {
	Tag language.Tag

	// Description encoding
	DatePrefix string
	DayPrefix  string
	Weekdays   [7]string // Monday first

	// Home screen
	Title            string
	CompletionFormat string // takes the completion percentage
	TotalsFormat     string // takes total and completed counts
	Upcoming         string
	Past             string
	NoDay            string
	Empty            string

	// Add and edit forms
	NewHabit    string
	EditHabit   string
	NameLabel   string
	DescLabel   string
	DateLabel   string
	DateHint    string
	Save        string
	Cancel      string
	InvalidForm string

	// Delete confirmation
	DeleteTitle   string
	DeleteConfirm string // takes the habit name
	DeleteYes     string

	// Share payload
	ShareSubject     string
	ShareHabit       string
	ShareDescription string
	ShareStatus      string
	StatusCompleted  string
	StatusInProgress string
	Shared           string

	Help string
}

// English is the default locale.
var English = Locale{
	Tag:        language.English,
	DatePrefix: "Date:",
	DayPrefix:  "Day:",
	Weekdays:   [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},

	Title:            "Healthy Habits",
	CompletionFormat: "Habits completed: %d%%",
	TotalsFormat:     "Total: %d   Completed: %d",
	Upcoming:         "Upcoming habits",
	Past:             "Past habits",
	NoDay:            "No day set",
	Empty:            "No habits yet. Press a to add one.",

	NewHabit:    "New habit",
	EditHabit:   "Edit habit",
	NameLabel:   "Habit name",
	DescLabel:   "Description (optional)",
	DateLabel:   "Date",
	DateHint:    "dd.mm.yyyy",
	Save:        "Save",
	Cancel:      "Cancel",
	InvalidForm: "A name and a valid date are required",

	DeleteTitle:   "Delete habit",
	DeleteConfirm: "Are you sure you want to delete %q?",
	DeleteYes:     "Yes, delete",

	ShareSubject:     "My habit from HealthyHabits+",
	ShareHabit:       "Habit:",
	ShareDescription: "Description:",
	ShareStatus:      "Status:",
	StatusCompleted:  "completed ✅",
	StatusInProgress: "in progress ⏳",
	Shared:           "Copied to clipboard",

	Help: "↑/↓ move • space toggle • a add • e edit • d delete • s share • q quit",
}

// Bulgarian is the Bulgarian preset.
var Bulgarian = Locale{
	Tag:        language.Bulgarian,
	DatePrefix: "Дата:",
	DayPrefix:  "Ден:",
	Weekdays:   [7]string{"Понеделник", "Вторник", "Сряда", "Четвъртък", "Петък", "Събота", "Неделя"},

	Title:            "Healthy Habits+",
	CompletionFormat: "Изпълнени навици: %d%%",
	TotalsFormat:     "Общо: %d   Завършени: %d",
	Upcoming:         "Предстоящи навици",
	Past:             "Минали навици",
	NoDay:            "Без посочен ден",
	Empty:            "Няма навици. Натиснете a, за да добавите.",

	NewHabit:    "Нов навик",
	EditHabit:   "Редакция на навик",
	NameLabel:   "Име на навика",
	DescLabel:   "Описание (по желание)",
	DateLabel:   "Дата",
	DateHint:    "дд.мм.гггг",
	Save:        "Запази",
	Cancel:      "Отказ",
	InvalidForm: "Името и валидна дата са задължителни",

	DeleteTitle:   "Изтриване на навик",
	DeleteConfirm: "Сигурни ли сте, че искате да изтриете „%s“?",
	DeleteYes:     "Да, изтрий",

	ShareSubject:     "Моят навик от HealthyHabits+",
	ShareHabit:       "Навик:",
	ShareDescription: "Описание:",
	ShareStatus:      "Статус:",
	StatusCompleted:  "завършен ✅",
	StatusInProgress: "в процес ⏳",
	Shared:           "Копирано в клипборда",

	Help: "↑/↓ движение • интервал отметка • a добави • e редактирай • d изтрий • s сподели • q изход",
}

var (
	presets = []Locale{English, Bulgarian}
	matcher = language.NewMatcher([]language.Tag{English.Tag, Bulgarian.Tag})
)

// Lookup returns the preset that best matches a BCP 47 tag such as "bg",
// "bg-BG" or "en-US". Unparseable or unsupported tags fall back to English.
func Lookup(tag string) Locale {
	if tag == "" {
		return English
	}
	t, err := language.Parse(tag)
	if err != nil {
		return English
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return English
	}
	return presets[idx]
}

// Supported reports whether tag matches a preset at all.
func Supported(tag string) bool {
	t, err := language.Parse(tag)
	if err != nil {
		return false
	}
	_, _, conf := matcher.Match(t)
	return conf != language.No
}

// Weekday returns the localized name of d.
func (l Locale) Weekday(d time.Weekday) string {
	// time.Weekday starts at Sunday; Weekdays starts at Monday
	return l.Weekdays[(int(d)+6)%7]
}
