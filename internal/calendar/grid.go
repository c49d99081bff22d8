package calendar

import (
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/clock"
	"github.com/ArowuTest/church-calendar-backend/internal/models"
)

const daysPerWeek = 7

// GridBuilder produces Sunday-first month grids in a fixed location
type GridBuilder struct {
	clock clock.Clock
	loc   *time.Location
}

// NewGridBuilder creates a builder. A nil location means time.Local, a nil
// clock means the system clock.
func NewGridBuilder(c clock.Clock, loc *time.Location) *GridBuilder {
	if c == nil {
		c = clock.System{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &GridBuilder{clock: c, loc: loc}
}

// Location returns the zone in which days are computed
func (b *GridBuilder) Location() *time.Location {
	return b.loc
}

// Today returns local midnight of the current day
func (b *GridBuilder) Today() time.Time {
	return StartOfDay(b.clock.Now(), b.loc)
}

// Generate builds the grid for the month containing anchor. The grid starts on
// a Sunday, ends on a Saturday, and each day carries the events whose time
// falls on that exact local date. Today is resolved once, at build time.
func (b *GridBuilder) Generate(anchor time.Time, events []models.ChurchEvent) Grid {
	first := StartOfMonth(anchor, b.loc)
	count := DaysInMonth(first.Year(), first.Month())
	lead := int(first.Weekday())

	total := lead + count
	if rem := total % daysPerWeek; rem != 0 {
		total += daysPerWeek - rem
	}

	buckets := make(map[dateKey][]models.ChurchEvent)
	for _, e := range events {
		k := keyOf(e.Time, b.loc)
		buckets[k] = append(buckets[k], e)
	}

	today := keyOf(b.clock.Now(), b.loc)
	days := make([]models.CalendarDay, 0, total)
	for i := 0; i < total; i++ {
		// AddDate keeps midnight across DST changes, unlike adding 24h.
		date := first.AddDate(0, 0, i-lead)
		k := keyOf(date, b.loc)
		dayEvents := buckets[k]
		if dayEvents == nil {
			dayEvents = []models.ChurchEvent{}
		}
		days = append(days, models.CalendarDay{
			Date:           date,
			DayOfMonth:     date.Day(),
			DayOfWeek:      int(date.Weekday()),
			IsCurrentMonth: date.Month() == first.Month() && date.Year() == first.Year(),
			IsToday:        k == today,
			Events:         dayEvents,
		})
	}

	return Grid{Month: first, days: days, loc: b.loc}
}

// Grid is the indexed arena of day cells for one month. Cells are addressed by
// their position; a grid is rebuilt, never mutated, when inputs change.
type Grid struct {
	Month time.Time
	days  []models.CalendarDay
	loc   *time.Location
}

// Len returns the number of cells
func (g Grid) Len() int { return len(g.days) }

// At returns the cell at position i
func (g Grid) At(i int) models.CalendarDay { return g.days[i] }

// Days returns a copy of all cells in order
func (g Grid) Days() []models.CalendarDay {
	out := make([]models.CalendarDay, len(g.days))
	copy(out, g.days)
	return out
}

// IndexOf finds the position of the cell for date
func (g Grid) IndexOf(date time.Time) (int, bool) {
	k := keyOf(date, g.loc)
	for i := range g.days {
		if keyOf(g.days[i].Date, g.loc) == k {
			return i, true
		}
	}
	return 0, false
}

// Weeks splits a copy of the grid into rows of seven days
func (g Grid) Weeks() [][]models.CalendarDay {
	weeks := make([][]models.CalendarDay, 0, len(g.days)/daysPerWeek)
	for i := 0; i+daysPerWeek <= len(g.days); i += daysPerWeek {
		row := make([]models.CalendarDay, daysPerWeek)
		copy(row, g.days[i:i+daysPerWeek])
		weeks = append(weeks, row)
	}
	return weeks
}
