// Package period resolves named reporting periods to concrete date ranges.
package period

import (
	"time"

	"dompet/internal/logger"
)

// Period tokens accepted by Resolve.
const (
	Today     = "today"
	ThisWeek  = "this-week"
	ThisMonth = "this-month"
	ThisYear  = "this-year"
)

const dateKeyLayout = "2006-01-02"

// Range is an inclusive pair of calendar dates. Both bounds are midnight in
// the location of the time the range was resolved from.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Resolve maps a period token to a date range ending on now's calendar date.
// Unknown tokens resolve like ThisMonth.
func Resolve(token string, now time.Time) Range {
	today := midnight(now)

	switch token {
	case Today:
		return Range{Start: today, End: today}
	case ThisWeek:
		// Weeks start on Sunday.
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return Range{Start: start, End: today}
	case ThisMonth:
		return Range{Start: firstOfMonth(today), End: today}
	case ThisYear:
		return Range{Start: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location()), End: today}
	default:
		logger.Get().Debugw("unknown period token, using this-month", "token", token)
		return Range{Start: firstOfMonth(today), End: today}
	}
}

// Valid reports whether token is one of the recognized period tokens.
func Valid(token string) bool {
	switch token {
	case Today, ThisWeek, ThisMonth, ThisYear:
		return true
	}
	return false
}

// MonthRange returns the full calendar month offset months away from now's
// month. An offset of -1 is the previous month.
func MonthRange(now time.Time, offset int) Range {
	start := firstOfMonth(midnight(now)).AddDate(0, offset, 0)
	end := start.AddDate(0, 1, -1)
	return Range{Start: start, End: end}
}

// LastDays returns the n calendar days ending on now's date.
func LastDays(now time.Time, n int) Range {
	if n < 1 {
		n = 1
	}
	today := midnight(now)
	return Range{Start: today.AddDate(0, 0, -(n - 1)), End: today}
}

// Contains reports whether t falls on a calendar date within the range.
// t is compared by its own calendar date, so transaction dates stored at
// midnight UTC match regardless of the range's location.
func (r Range) Contains(t time.Time) bool {
	key := t.Format(dateKeyLayout)
	return key >= r.Start.Format(dateKeyLayout) && key <= r.End.Format(dateKeyLayout)
}

// Days returns every calendar date of the range in order.
func (r Range) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DateKey formats t as its ISO calendar date.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
