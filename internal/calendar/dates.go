// Package calendar builds month-shaped day grids and tracks day selection.
package calendar

import "time"

// StartOfDay returns local midnight of t in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfMonth returns midnight of the first day of t's month in loc
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// DaysInMonth counts the days of a month by asking for day 0 of the next one,
// which normalizes to the last day of the requested month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SameDate reports whether a and b fall on the same calendar date in loc
func SameDate(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WeekdayIndex returns 0 (Sunday) .. 6 (Saturday) for t in loc
func WeekdayIndex(t time.Time, loc *time.Location) int {
	return int(t.In(loc).Weekday())
}

// dateKey identifies a calendar date independent of clock time
type dateKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time, loc *time.Location) dateKey {
	y, m, d := t.In(loc).Date()
	return dateKey{y, m, d}
}

// ParseMonth parses a "YYYY-MM" query value into the first of that month in loc
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", s, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
