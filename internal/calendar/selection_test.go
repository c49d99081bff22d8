package calendar

import (
	"testing"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/models"
)

type fakeAnimator struct {
	opens  int
	closes []func()
}

func (a *fakeAnimator) AnimateOpen() { a.opens++ }

func (a *fakeAnimator) AnimateClose(done func()) { a.closes = append(a.closes, done) }

func sampleDay(day int, ids ...string) models.CalendarDay {
	d := models.CalendarDay{Date: time.Date(2024, 2, day, 0, 0, 0, 0, time.UTC), DayOfMonth: day}
	for _, id := range ids {
		d.Events = append(d.Events, models.ChurchEvent{ID: id})
	}
	return d
}

func TestSelectDayOpens(t *testing.T) {
	a := &fakeAnimator{}
	c := NewDaySelectionController(a, nil)

	if c.State().Open {
		t.Fatal("controller should start closed")
	}
	c.SelectDay(sampleDay(3, "e1", "e2"))

	st := c.State()
	if !st.Open || st.SelectedDate.Day() != 3 || len(st.DayEvents) != 2 {
		t.Errorf("unexpected state after select: %+v", st)
	}
	if a.opens != 1 {
		t.Errorf("expected one open animation, got %d", a.opens)
	}

	c.SelectDay(sampleDay(4))
	if st := c.State(); !st.Open || st.SelectedDate.Day() != 4 || len(st.DayEvents) != 0 {
		t.Errorf("reselect should replace selection: %+v", st)
	}
}

func TestCloseTearsDownOnlyAfterAnimation(t *testing.T) {
	a := &fakeAnimator{}
	teardowns := 0
	c := NewDaySelectionController(a, func() { teardowns++ })

	c.SelectDay(sampleDay(5, "e1"))
	c.Close()
	c.Close()

	if len(a.closes) != 1 {
		t.Fatalf("expected a single close animation, got %d", len(a.closes))
	}
	st := c.State()
	if !st.Open || !st.Closing || len(st.DayEvents) != 1 {
		t.Errorf("selection should stay visible while closing: %+v", st)
	}
	if teardowns != 0 {
		t.Fatalf("teardown ran before animation completed")
	}

	a.closes[0]()
	a.closes[0]()

	if teardowns != 1 {
		t.Errorf("expected exactly one teardown, got %d", teardowns)
	}
	if st := c.State(); st.Open || st.Closing || !st.SelectedDate.IsZero() || st.DayEvents != nil {
		t.Errorf("state not cleared: %+v", st)
	}
}

func TestStaleCloseCompletionIgnored(t *testing.T) {
	a := &fakeAnimator{}
	teardowns := 0
	c := NewDaySelectionController(a, func() { teardowns++ })

	c.SelectDay(sampleDay(6))
	c.Close()
	c.SelectDay(sampleDay(7, "e9"))
	a.closes[0]()

	st := c.State()
	if !st.Open || st.SelectedDate.Day() != 7 {
		t.Errorf("late completion must not clear newer selection: %+v", st)
	}
	if teardowns != 0 {
		t.Errorf("unexpected teardown count %d", teardowns)
	}
}

func TestCloseWhenClosedIsNoop(t *testing.T) {
	a := &fakeAnimator{}
	c := NewDaySelectionController(a, nil)
	c.Close()
	if len(a.closes) != 0 {
		t.Error("closing a closed panel should not animate")
	}
}

func TestCloseWithoutAnimator(t *testing.T) {
	c := NewDaySelectionController(nil, nil)
	c.SelectDay(sampleDay(8))
	c.Close()
	if c.State().Open {
		t.Error("without an animator close should tear down immediately")
	}
}
