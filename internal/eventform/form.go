package eventform

import (
	"strings"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/calendar"
	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/recurrence"
)

// StagedEventForm is the draft of an event being created or edited.
// It is a value: every With* method returns an updated copy.
type StagedEventForm struct {
	Time                 time.Time
	Title                string
	Excerpt              string
	AuthorName           string
	EventLocation        string
	ImageURL             *string
	VideoLink            *string
	ChurchID             string
	IsRecurring          bool
	RecurrenceType       *models.RecurrenceType
	RecurrenceInterval   *int
	RecurrenceEndDate    *time.Time
	RecurrenceDaysOfWeek []int

	// loc is the calendar zone weekdays are taken in
	loc *time.Location
}

// NewForm returns the defaults for a new event in churchID. Weekdays seeded
// from the event time are evaluated in loc.
func NewForm(now time.Time, churchID string, loc *time.Location) StagedEventForm {
	return StagedEventForm{Time: now, ChurchID: churchID, loc: loc}
}

// FormFromEvent loads an existing event into a draft. A recurring event whose
// weekday set is missing gets the weekday of its own time, evaluated in loc.
func FormFromEvent(e *models.ChurchEvent, loc *time.Location) StagedEventForm {
	f := StagedEventForm{
		Time:                 e.Time,
		Title:                e.Title,
		Excerpt:              e.Excerpt,
		AuthorName:           e.AuthorName,
		EventLocation:        e.EventLocation,
		ImageURL:             copyString(e.ImageURL),
		VideoLink:            copyString(e.VideoLink),
		ChurchID:             e.ChurchID,
		IsRecurring:          e.IsRecurring,
		RecurrenceType:       copyType(e.RecurrenceType),
		RecurrenceInterval:   copyInt(e.RecurrenceInterval),
		RecurrenceEndDate:    copyTime(e.RecurrenceEndDate),
		RecurrenceDaysOfWeek: recurrence.Normalize(e.RecurrenceDaysOfWeek),
		loc:                  loc,
	}
	if f.loc == nil {
		f.loc = time.Local
	}
	if f.IsRecurring && len(f.RecurrenceDaysOfWeek) == 0 {
		f.RecurrenceDaysOfWeek = []int{f.weekday()}
	}
	return f
}

// weekday is the weekday of the event time in the form's calendar zone
func (f StagedEventForm) weekday() int {
	if f.loc == nil {
		return int(f.Time.Weekday())
	}
	return calendar.WeekdayIndex(f.Time, f.loc)
}

func (f StagedEventForm) WithTitle(s string) StagedEventForm {
	f.Title = s
	return f
}

func (f StagedEventForm) WithExcerpt(s string) StagedEventForm {
	f.Excerpt = s
	return f
}

func (f StagedEventForm) WithTime(t time.Time) StagedEventForm {
	f.Time = t
	return f
}

func (f StagedEventForm) WithAuthorName(s string) StagedEventForm {
	f.AuthorName = s
	return f
}

func (f StagedEventForm) WithLocation(s string) StagedEventForm {
	f.EventLocation = s
	return f
}

func (f StagedEventForm) WithImageURL(s *string) StagedEventForm {
	f.ImageURL = copyString(s)
	return f
}

func (f StagedEventForm) WithVideoLink(s *string) StagedEventForm {
	f.VideoLink = copyString(s)
	return f
}

func (f StagedEventForm) WithChurch(id string) StagedEventForm {
	f.ChurchID = id
	return f
}

// WithRecurring switches recurrence on or off. Turning it on starts a weekly
// rule every week on the weekday of the event time; turning it off clears
// all recurrence fields.
func (f StagedEventForm) WithRecurring(on bool) StagedEventForm {
	f.IsRecurring = on
	if !on {
		f.RecurrenceType = nil
		f.RecurrenceInterval = nil
		f.RecurrenceEndDate = nil
		f.RecurrenceDaysOfWeek = nil
		return f
	}
	if f.RecurrenceType == nil {
		t := models.RecurrenceWeekly
		f.RecurrenceType = &t
	}
	if f.RecurrenceInterval == nil {
		one := 1
		f.RecurrenceInterval = &one
	}
	if len(f.RecurrenceDaysOfWeek) == 0 {
		f.RecurrenceDaysOfWeek = []int{f.weekday()}
	}
	return f
}

// WithRecurrenceType sets the recurrence kind. Switching to weekly with no
// weekdays seeds the weekday of the event time.
func (f StagedEventForm) WithRecurrenceType(t models.RecurrenceType) StagedEventForm {
	f.RecurrenceType = &t
	if t == models.RecurrenceWeekly && len(f.RecurrenceDaysOfWeek) == 0 {
		f.RecurrenceDaysOfWeek = []int{f.weekday()}
	}
	return f
}

func (f StagedEventForm) WithRecurrenceInterval(n int) StagedEventForm {
	f.RecurrenceInterval = &n
	return f
}

func (f StagedEventForm) WithRecurrenceEndDate(t *time.Time) StagedEventForm {
	f.RecurrenceEndDate = copyTime(t)
	return f
}

// WithDaysOfWeek replaces the weekday set
func (f StagedEventForm) WithDaysOfWeek(days []int) StagedEventForm {
	f.RecurrenceDaysOfWeek = recurrence.Normalize(days)
	return f
}

// WithToggledDay adds day if absent and removes it if present. Removing the
// last remaining day is refused and reported with changed = false.
func (f StagedEventForm) WithToggledDay(day int) (out StagedEventForm, changed bool) {
	if day < recurrence.MinDay || day > recurrence.MaxDay {
		return f, false
	}
	days := make([]int, 0, len(f.RecurrenceDaysOfWeek)+1)
	found := false
	for _, d := range f.RecurrenceDaysOfWeek {
		if d == day {
			found = true
			continue
		}
		days = append(days, d)
	}
	if found {
		if len(days) == 0 {
			return f, false
		}
	} else {
		days = append(days, day)
	}
	f.RecurrenceDaysOfWeek = recurrence.Normalize(days)
	return f, true
}

// IsWeekly reports a weekly recurrence
func (f StagedEventForm) IsWeekly() bool {
	return f.IsRecurring && f.RecurrenceType != nil && *f.RecurrenceType == models.RecurrenceWeekly
}

// Validate returns the first violated constraint, or nil
func (f StagedEventForm) Validate() *ValidationError {
	switch {
	case strings.TrimSpace(f.Title) == "":
		return &ValidationError{Field: "title", Reason: "title is required"}
	case strings.TrimSpace(f.Excerpt) == "":
		return &ValidationError{Field: "excerpt", Reason: "description is required"}
	case f.Time.IsZero():
		return &ValidationError{Field: "time", Reason: "a valid date and time is required"}
	case f.ChurchID == "":
		return &ValidationError{Field: "churchId", Reason: "select a church"}
	case f.IsWeekly() && len(recurrence.Normalize(f.RecurrenceDaysOfWeek)) == 0:
		return &ValidationError{Field: "recurrenceDaysOfWeek", Reason: "select at least one weekday"}
	}
	if !f.IsRecurring {
		return nil
	}
	if f.RecurrenceType == nil || *f.RecurrenceType == models.RecurrenceNone || !f.RecurrenceType.IsValid() {
		return &ValidationError{Field: "recurrenceType", Reason: "choose how the event repeats"}
	}
	if f.RecurrenceInterval != nil && *f.RecurrenceInterval < 1 {
		return &ValidationError{Field: "recurrenceInterval", Reason: "interval must be at least 1"}
	}
	if f.RecurrenceEndDate != nil && f.RecurrenceEndDate.Before(f.Time) {
		return &ValidationError{Field: "recurrenceEndDate", Reason: "end date cannot be before the event"}
	}
	return nil
}

// Record converts the draft to the stored shape. Weekdays are encoded only for
// weekly recurrences; non-recurring drafts carry no recurrence fields.
func (f StagedEventForm) Record(createdBy string) models.EventRecord {
	rec := models.EventRecord{
		Time:          f.Time,
		Title:         strings.TrimSpace(f.Title),
		Excerpt:       strings.TrimSpace(f.Excerpt),
		AuthorName:    f.AuthorName,
		EventLocation: f.EventLocation,
		ImageURL:      copyString(f.ImageURL),
		VideoLink:     copyString(f.VideoLink),
		CreatedBy:     createdBy,
		ChurchID:      f.ChurchID,
		IsRecurring:   f.IsRecurring,
	}
	if !f.IsRecurring {
		return rec
	}
	rec.RecurrenceType = copyType(f.RecurrenceType)
	rec.RecurrenceInterval = copyInt(f.RecurrenceInterval)
	if rec.RecurrenceInterval == nil {
		one := 1
		rec.RecurrenceInterval = &one
	}
	rec.RecurrenceEndDate = copyTime(f.RecurrenceEndDate)
	if f.IsWeekly() {
		rec.RecurrenceDaysOfWeek = recurrence.EncodePtr(f.RecurrenceDaysOfWeek)
	}
	return rec
}

// FormFromInput stages a request body, starting from base
func FormFromInput(base StagedEventForm, in models.EventInput) StagedEventForm {
	f := base.
		WithTitle(in.Title).
		WithExcerpt(in.Excerpt).
		WithAuthorName(in.AuthorName).
		WithLocation(in.EventLocation).
		WithImageURL(in.ImageURL).
		WithVideoLink(in.VideoLink)
	if !in.Time.IsZero() {
		f = f.WithTime(in.Time)
	}
	if in.ChurchID != "" {
		f = f.WithChurch(in.ChurchID)
	}
	if !in.IsRecurring {
		return f.WithRecurring(false)
	}
	if len(in.RecurrenceDaysOfWeek) > 0 {
		f = f.WithDaysOfWeek(in.RecurrenceDaysOfWeek)
	}
	if in.RecurrenceType != "" {
		f = f.WithRecurrenceType(models.ParseRecurrenceType(in.RecurrenceType))
	}
	f = f.WithRecurring(true)
	if in.RecurrenceInterval != nil {
		f = f.WithRecurrenceInterval(*in.RecurrenceInterval)
	}
	return f.WithRecurrenceEndDate(in.RecurrenceEndDate)
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyType(t *models.RecurrenceType) *models.RecurrenceType {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
