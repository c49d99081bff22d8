package calendar

import (
	"sync"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/models"
)

// Animator runs the detail panel transitions. AnimateClose must call done
// once the close transition has finished; the controller tears down its
// selection only then.
type Animator interface {
	AnimateOpen()
	AnimateClose(done func())
}

// SelectionState is a snapshot of the day selection
type SelectionState struct {
	Open         bool
	Closing      bool
	SelectedDate time.Time
	DayEvents    []models.ChurchEvent
}

// DaySelectionController tracks which grid day is selected and whether its
// detail panel is open.
type DaySelectionController struct {
	mu         sync.Mutex
	animator   Animator
	open       bool
	closing    bool
	generation uint64
	date       time.Time
	events     []models.ChurchEvent
	onTeardown func()
}

// NewDaySelectionController starts in the closed state. onTeardown, if set,
// runs each time the selection is actually cleared.
func NewDaySelectionController(animator Animator, onTeardown func()) *DaySelectionController {
	return &DaySelectionController{animator: animator, onTeardown: onTeardown}
}

// SelectDay opens the panel on day, replacing any previous selection.
// A close still animating is superseded.
func (c *DaySelectionController) SelectDay(day models.CalendarDay) {
	c.mu.Lock()
	c.generation++
	c.open = true
	c.closing = false
	c.date = day.Date
	c.events = append([]models.ChurchEvent(nil), day.Events...)
	c.mu.Unlock()

	if c.animator != nil {
		c.animator.AnimateOpen()
	}
}

// Close starts the close transition. The selection stays visible until the
// animator reports completion. Calls while closed or already closing are ignored.
func (c *DaySelectionController) Close() {
	c.mu.Lock()
	if !c.open || c.closing {
		c.mu.Unlock()
		return
	}
	c.closing = true
	gen := c.generation
	c.mu.Unlock()

	if c.animator == nil {
		c.teardown(gen)
		return
	}
	var once sync.Once
	c.animator.AnimateClose(func() {
		once.Do(func() { c.teardown(gen) })
	})
}

func (c *DaySelectionController) teardown(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || !c.closing {
		c.mu.Unlock()
		return
	}
	c.open = false
	c.closing = false
	c.date = time.Time{}
	c.events = nil
	hook := c.onTeardown
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// State returns the current selection
func (c *DaySelectionController) State() SelectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SelectionState{
		Open:         c.open,
		Closing:      c.closing,
		SelectedDate: c.date,
		DayEvents:    append([]models.ChurchEvent(nil), c.events...),
	}
}
