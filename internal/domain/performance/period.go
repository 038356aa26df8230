package performance

import (
	"strings"
	"time"
)

var periodLayouts = []string{"2006-01", "2006-01-02", time.RFC3339}

// ParsePeriod accepts YYYY-MM, YYYY-MM-DD or an RFC 3339 timestamp and
// returns the first day of that month in UTC.
func ParsePeriod(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range periodLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return MonthStart(parsed), true
		}
	}
	return time.Time{}, false
}

func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd is the last day of the month containing t.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

func PeriodKey(t time.Time) string {
	return t.UTC().Format(periodKeyLayout)
}

// Window is an inclusive date range on the period column. Zero bounds are open.
type Window struct {
	From time.Time
	To   time.Time
}

func MonthWindow(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Window{From: start, To: MonthEnd(start)}
}

func YearWindow(year int) Window {
	return Window{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (w Window) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}

// Label is a short human description used in notifications.
func (w Window) Label() string {
	switch {
	case w.IsZero():
		return "all periods"
	case MonthStart(w.From).Equal(w.From) && MonthEnd(w.From).Equal(w.To):
		return PeriodKey(w.From)
	case w.From.Month() == time.January && w.From.Day() == 1 && w.To.Equal(YearWindow(w.From.Year()).To):
		return w.From.Format("2006")
	default:
		return w.From.Format("2006-01-02") + " to " + w.To.Format("2006-01-02")
	}
}
