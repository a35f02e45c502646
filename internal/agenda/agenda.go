// ABOUTME: Grouping of habits by (day, date) and the upcoming/past split
// ABOUTME: Includes header labels and completion statistics for the home screen

package agenda

import (
	"sort"
	"time"

	"github.com/2389/healthy-habits/internal/locale"
	"github.com/2389/healthy-habits/internal/store"
)

// Group is a bucket of habits sharing the same extracted (day, date) pair.
type Group struct {
	Day    *string
	Date   *string
	Habits []*store.Habit // storage order
}

// Label returns the group's header text.
func (g Group) Label(loc locale.Locale) string {
	return HeaderLabel(g.Day, g.Date, loc)
}

// Agenda is the home screen's view of the habit list.
type Agenda struct {
	Upcoming []Group
	Past     []Group
}

// groupKey is the comparable form of a (day, date) pair. nil and "" differ.
type groupKey struct {
	day, date       string
	hasDay, hasDate bool
}

func keyOf(d Details) groupKey {
	var k groupKey
	if d.Day != nil {
		k.day, k.hasDay = *d.Day, true
	}
	if d.Date != nil {
		k.date, k.hasDate = *d.Date, true
	}
	return k
}

// GroupHabits buckets habits by their (day, date) pair. Groups appear in the
// order their first habit appears in habits.
func GroupHabits(habits []*store.Habit, loc locale.Locale) []Group {
	index := make(map[groupKey]int)
	var groups []Group

	for _, h := range habits {
		d := ParseDescription(h.Description, loc)
		k := keyOf(d)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Day: d.Day, Date: d.Date})
		}
		groups[i].Habits = append(groups[i].Habits, h)
	}
	return groups
}

// Build groups habits and splits the groups around the start of now's day.
// A group without a parseable date is always upcoming.
func Build(habits []*store.Habit, now time.Time, loc locale.Locale) Agenda {
	tz := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, tz)

	var a Agenda
	for _, g := range GroupHabits(habits, loc) {
		date, ok := parseDateIn(g.Date, tz)
		if !ok || !date.Before(today) {
			a.Upcoming = append(a.Upcoming, g)
		} else {
			a.Past = append(a.Past, g)
		}
	}

	sortGroups(a.Upcoming, tz)
	sortGroups(a.Past, tz)
	return a
}

// sortGroups orders by date ascending with undated groups last, then by day
// name (no day sorts as ""). Ties keep their first-appearance order.
func sortGroups(groups []Group, tz *time.Location) {
	type sortKey struct {
		date  time.Time
		dated bool
		day   string
	}
	keyed := make([]struct {
		key   sortKey
		group Group
	}, len(groups))
	for i, g := range groups {
		date, ok := parseDateIn(g.Date, tz)
		keyed[i].key = sortKey{date: date, dated: ok}
		if g.Day != nil {
			keyed[i].key.day = *g.Day
		}
		keyed[i].group = g
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i].key, keyed[j].key
		if a.dated != b.dated {
			return a.dated
		}
		if a.dated && !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		return a.day < b.day
	})

	for i := range keyed {
		groups[i] = keyed[i].group
	}
}

// HeaderLabel renders "day – date", just the day, just the date, or the
// locale's no-day label.
func HeaderLabel(day, date *string, loc locale.Locale) string {
	switch {
	case day != nil && date != nil:
		return *day + " – " + *date
	case day != nil:
		return *day
	case date != nil:
		return *date
	default:
		return loc.NoDay
	}
}

// Stats summarizes completion over a habit list.
type Stats struct {
	Total     int
	Completed int
	Percent   int // Completed*100/Total rounded down, 0 for an empty list
}

// ComputeStats counts habits and completed habits.
func ComputeStats(habits []*store.Habit) Stats {
	var s Stats
	s.Total = len(habits)
	for _, h := range habits {
		if h.Completed {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Percent = s.Completed * 100 / s.Total
	}
	return s
}
