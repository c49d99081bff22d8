package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/ArowuTest/church-calendar-backend/internal/models"
)

var errNotRecurring = errors.New("event is not recurring")

var rruleWeekdays = [MaxDay + 1]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// Rule is the recurrence metadata carried by a church event
type Rule struct {
	Type       models.RecurrenceType
	Interval   int
	EndDate    *time.Time
	DaysOfWeek []int
}

// RuleOf extracts the recurrence metadata of an event
func RuleOf(e *models.ChurchEvent) (Rule, error) {
	if !e.IsRecurring || e.RecurrenceType == nil || *e.RecurrenceType == models.RecurrenceNone {
		return Rule{}, errNotRecurring
	}
	r := Rule{Type: *e.RecurrenceType, Interval: 1, EndDate: e.RecurrenceEndDate, DaysOfWeek: e.RecurrenceDaysOfWeek}
	if e.RecurrenceInterval != nil {
		r.Interval = *e.RecurrenceInterval
	}
	return r, nil
}

// ToRRule renders the event's recurrence as an RRULE value (without the
// "RRULE:" prefix). Occurrences are never expanded here.
func ToRRule(e *models.ChurchEvent) (string, error) {
	r, err := RuleOf(e)
	if err != nil {
		return "", err
	}
	opt := rrule.ROption{Interval: r.Interval}
	switch r.Type {
	case models.RecurrenceDaily:
		opt.Freq = rrule.DAILY
	case models.RecurrenceWeekly:
		opt.Freq = rrule.WEEKLY
		for _, d := range Normalize(r.DaysOfWeek) {
			opt.Byweekday = append(opt.Byweekday, rruleWeekdays[d])
		}
	case models.RecurrenceMonthly:
		opt.Freq = rrule.MONTHLY
	case models.RecurrenceYearly:
		opt.Freq = rrule.YEARLY
	default:
		return "", fmt.Errorf("unsupported recurrence type %q", r.Type)
	}
	if r.EndDate != nil {
		opt.Until = r.EndDate.UTC()
	}
	if opt.Interval < 1 {
		opt.Interval = 1
	}
	return opt.RRuleString(), nil
}

// FromRRule parses an RRULE value into stored recurrence metadata.
// Frequencies finer than daily are rejected.
func FromRRule(s string) (Rule, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "RRULE:")
	opt, err := rrule.StrToROption(s)
	if err != nil {
		return Rule{}, fmt.Errorf("parse rrule: %w", err)
	}
	r := Rule{Interval: opt.Interval}
	if r.Interval < 1 {
		r.Interval = 1
	}
	switch opt.Freq {
	case rrule.DAILY:
		r.Type = models.RecurrenceDaily
	case rrule.WEEKLY:
		r.Type = models.RecurrenceWeekly
		for _, wd := range opt.Byweekday {
			for i, known := range rruleWeekdays {
				if wd.Day() == known.Day() {
					r.DaysOfWeek = append(r.DaysOfWeek, i)
				}
			}
		}
		r.DaysOfWeek = Normalize(r.DaysOfWeek)
	case rrule.MONTHLY:
		r.Type = models.RecurrenceMonthly
	case rrule.YEARLY:
		r.Type = models.RecurrenceYearly
	default:
		return Rule{}, fmt.Errorf("unsupported rrule frequency %v", opt.Freq)
	}
	if !opt.Until.IsZero() {
		until := opt.Until
		r.EndDate = &until
	}
	return r, nil
}

// Apply copies the rule onto an event, marking it recurring
func (r Rule) Apply(e *models.ChurchEvent) {
	t := r.Type
	interval := r.Interval
	e.IsRecurring = true
	e.RecurrenceType = &t
	e.RecurrenceInterval = &interval
	e.RecurrenceEndDate = r.EndDate
	e.RecurrenceDaysOfWeek = nil
	if t == models.RecurrenceWeekly {
		e.RecurrenceDaysOfWeek = Normalize(r.DaysOfWeek)
	}
}
