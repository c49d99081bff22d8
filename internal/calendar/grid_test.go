package calendar

import (
	"testing"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/clock"
	"github.com/ArowuTest/church-calendar-backend/internal/models"
)

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, c := range cases {
		if got := DaysInMonth(c.year, c.month); got != c.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, expected %d", c.year, c.month, got, c.want)
		}
	}
}

func TestGenerateLeapFebruary(t *testing.T) {
	b := NewGridBuilder(clock.Fixed(time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)), time.UTC)
	g := b.Generate(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), nil)

	first := g.At(0)
	if first.DayOfWeek != 0 || first.Date.Month() != time.January || first.DayOfMonth != 28 {
		t.Errorf("first cell = %v (dow %d), expected Sunday Jan 28", first.Date, first.DayOfWeek)
	}
	if first.IsCurrentMonth {
		t.Error("Jan 28 should not be flagged as current month")
	}

	i, ok := g.IndexOf(time.Date(2024, 2, 29, 18, 0, 0, 0, time.UTC))
	if !ok {
		t.Fatal("Feb 29 2024 missing from grid")
	}
	if !g.At(i).IsCurrentMonth {
		t.Error("Feb 29 should be current month")
	}
	if g.Len() != 35 {
		t.Errorf("grid length = %d, expected 35", g.Len())
	}

	todayCount := 0
	for _, d := range g.Days() {
		if d.IsToday {
			todayCount++
			if d.DayOfMonth != 14 {
				t.Errorf("today flagged on %v", d.Date)
			}
		}
	}
	if todayCount != 1 {
		t.Errorf("expected exactly one today cell, got %d", todayCount)
	}
}

func TestGenerateShapeForManyMonths(t *testing.T) {
	b := NewGridBuilder(clock.Fixed(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)), time.UTC)
	for year := 1999; year <= 2031; year++ {
		for m := time.January; m <= time.December; m++ {
			g := b.Generate(time.Date(year, m, 15, 12, 0, 0, 0, time.UTC), nil)
			if g.Len()%7 != 0 {
				t.Fatalf("%d-%02d: length %d not multiple of 7", year, m, g.Len())
			}
			if g.At(0).DayOfWeek != 0 {
				t.Fatalf("%d-%02d: grid does not start on Sunday", year, m)
			}
			seen := make(map[int]int)
			for _, d := range g.Days() {
				if d.IsCurrentMonth {
					if d.Date.Month() != m || d.Date.Year() != year {
						t.Fatalf("%d-%02d: %v flagged as current month", year, m, d.Date)
					}
					seen[d.DayOfMonth]++
				}
			}
			if len(seen) != DaysInMonth(year, m) {
				t.Fatalf("%d-%02d: %d current-month days, expected %d", year, m, len(seen), DaysInMonth(year, m))
			}
			for day, n := range seen {
				if n != 1 {
					t.Fatalf("%d-%02d: day %d appears %d times", year, m, day, n)
				}
			}
		}
	}
}

func TestGenerateYearRollover(t *testing.T) {
	b := NewGridBuilder(clock.Fixed(time.Time{}), time.UTC)

	// December 2024 ends on a Tuesday; padding runs into January 2025.
	dec := b.Generate(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), nil)
	last := dec.At(dec.Len() - 1)
	if last.Date.Year() != 2025 || last.Date.Month() != time.January || last.DayOfMonth != 4 {
		t.Errorf("last December cell = %v, expected Sat Jan 4 2025", last.Date)
	}

	// January 2025 starts on a Wednesday; padding reaches back into December 2024.
	jan := b.Generate(time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), nil)
	first := jan.At(0)
	if first.Date.Year() != 2024 || first.Date.Month() != time.December || first.DayOfMonth != 29 {
		t.Errorf("first January cell = %v, expected Sun Dec 29 2024", first.Date)
	}
}

func TestGenerateBucketsByLocalDate(t *testing.T) {
	loc := time.FixedZone("WAT", 1*60*60)
	b := NewGridBuilder(clock.Fixed(time.Time{}), loc)

	late := models.ChurchEvent{ID: "late", Time: time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)} // Mar 10 00:30 local
	early := models.ChurchEvent{ID: "early", Time: time.Date(2024, 3, 10, 8, 0, 0, 0, loc)}
	other := models.ChurchEvent{ID: "other", Time: time.Date(2024, 4, 10, 8, 0, 0, 0, loc)}

	g := b.Generate(time.Date(2024, 3, 1, 0, 0, 0, 0, loc), []models.ChurchEvent{late, early, other})

	i, ok := g.IndexOf(time.Date(2024, 3, 10, 0, 0, 0, 0, loc))
	if !ok {
		t.Fatal("Mar 10 missing")
	}
	got := g.At(i).Events
	if len(got) != 2 || got[0].ID != "late" || got[1].ID != "early" {
		t.Errorf("Mar 10 events = %+v, expected [late early]", got)
	}

	prev, _ := g.IndexOf(time.Date(2024, 3, 9, 0, 0, 0, 0, loc))
	if len(g.At(prev).Events) != 0 {
		t.Error("Mar 9 should be empty in local time")
	}

	total := 0
	for _, d := range g.Days() {
		total += len(d.Events)
	}
	if total != 2 {
		t.Errorf("expected April event to stay out of the March grid, %d events bucketed", total)
	}
}

func TestGenerateDoesNotExpandRecurrence(t *testing.T) {
	weekly := models.RecurrenceWeekly
	e := models.ChurchEvent{
		ID:                   "w",
		Time:                 time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC),
		IsRecurring:          true,
		RecurrenceType:       &weekly,
		RecurrenceDaysOfWeek: []int{0},
	}
	g := NewGridBuilder(clock.Fixed(time.Time{}), time.UTC).Generate(e.Time, []models.ChurchEvent{e})

	count := 0
	for _, d := range g.Days() {
		count += len(d.Events)
	}
	if count != 1 {
		t.Errorf("recurring event bucketed %d times, expected exactly once", count)
	}
}

func TestWeeks(t *testing.T) {
	g := NewGridBuilder(nil, time.UTC).Generate(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), nil)
	weeks := g.Weeks()
	if len(weeks)*7 != g.Len() {
		t.Fatalf("weeks cover %d cells, grid has %d", len(weeks)*7, g.Len())
	}
	for _, w := range weeks {
		if w[0].DayOfWeek != 0 || w[6].DayOfWeek != 6 {
			t.Errorf("week not Sunday..Saturday: %v..%v", w[0].Date, w[6].Date)
		}
	}
}

func TestWeeksReturnsCopies(t *testing.T) {
	g := NewGridBuilder(nil, time.UTC).Generate(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), nil)
	want := g.At(0).DayOfMonth

	weeks := g.Weeks()
	weeks[0][0].DayOfMonth = 99
	weeks[0] = append(weeks[0], models.CalendarDay{})

	if got := g.At(0).DayOfMonth; got != want {
		t.Errorf("grid cell changed through Weeks: got %d, expected %d", got, want)
	}
	if g.Len()%7 != 0 {
		t.Errorf("grid length changed to %d", g.Len())
	}
}
