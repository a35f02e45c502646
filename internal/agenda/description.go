// ABOUTME: Codec for the day and date lines embedded in a habit description
// ABOUTME: Also holds the strict dd.mm.yyyy date layout and weekday naming

package agenda

import (
	"strings"
	"time"

	"github.com/2389/healthy-habits/internal/locale"
)

// DateLayout is the only accepted date format (dd.mm.yyyy).
const DateLayout = "02.01.2006"

// Details is the structured view of a description.
type Details struct {
	Day  *string // nil when there is no day line
	Date *string // nil when there is no date line; may still be unparseable
	Body string  // remaining non-blank lines, trimmed, joined by "\n"
}

// ParseDescription extracts the first date line, the first day line and the
// free-text body from desc. A nil desc yields empty Details.
func ParseDescription(desc *string, loc locale.Locale) Details {
	var d Details
	if desc == nil {
		return d
	}

	var body []string
	for _, line := range strings.Split(*desc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, loc.DatePrefix):
			if d.Date == nil {
				v := strings.TrimSpace(strings.TrimPrefix(line, loc.DatePrefix))
				d.Date = &v
			}
		case strings.HasPrefix(line, loc.DayPrefix):
			if d.Day == nil {
				v := strings.TrimSpace(strings.TrimPrefix(line, loc.DayPrefix))
				d.Day = &v
			}
		default:
			body = append(body, line)
		}
	}
	d.Body = strings.Join(body, "\n")
	return d
}

// ComposeDescription writes the description stored for a habit. Missing
// date or day lines are skipped and a blank body is dropped.
func ComposeDescription(date, day *string, body string, loc locale.Locale) string {
	var sb strings.Builder
	if date != nil {
		sb.WriteString(loc.DatePrefix + " " + *date + "\n")
	}
	if day != nil {
		sb.WriteString(loc.DayPrefix + " " + *day + "\n")
	}
	if strings.TrimSpace(body) != "" {
		sb.WriteString(body)
	}
	return sb.String()
}

// ParseDate parses s as a dd.mm.yyyy date in the local time zone. Nil,
// blank, malformed or out-of-range input reports false. Parsing is strict:
// single-digit fields ("1.1.2030") and trailing text ("01.01.2030x") are
// rejected, since every date this package writes has two-digit fields and
// nothing after the year.
func ParseDate(s *string) (time.Time, bool) {
	return parseDateIn(s, time.Local)
}

func parseDateIn(s *string, tz *time.Location) (time.Time, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, *s, tz)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t in the dd.mm.yyyy layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayName returns the localized weekday of t.
func DayName(t time.Time, loc locale.Locale) string {
	return loc.Weekday(t.Weekday())
}

// WeekdayIndex maps a localized day name back to 0 (Monday) through 6
// (Sunday). Unknown names report false.
func WeekdayIndex(day string, loc locale.Locale) (int, bool) {
	for i, name := range loc.Weekdays {
		if name == day {
			return i, true
		}
	}
	return 0, false
}
