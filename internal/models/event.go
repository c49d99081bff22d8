package models

import (
	"strings"
	"time"
)

// RecurrenceType describes how a church event repeats
type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// ParseRecurrenceType normalizes a recurrence type string. Unknown values map to RecurrenceNone.
func ParseRecurrenceType(s string) RecurrenceType {
	switch RecurrenceType(strings.ToLower(strings.TrimSpace(s))) {
	case RecurrenceDaily:
		return RecurrenceDaily
	case RecurrenceWeekly:
		return RecurrenceWeekly
	case RecurrenceMonthly:
		return RecurrenceMonthly
	case RecurrenceYearly:
		return RecurrenceYearly
	default:
		return RecurrenceNone
	}
}

func (t RecurrenceType) IsValid() bool {
	switch t {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// ChurchRef is the denormalized church shown next to an event
type ChurchRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ChurchEvent is a single (possibly recurring) event owned by a church.
// RecurrenceDaysOfWeek holds the decoded weekday set, ascending, 0 = Sunday.
type ChurchEvent struct {
	ID                   string          `json:"id"`
	Time                 time.Time       `json:"time"`
	Title                string          `json:"title"`
	Excerpt              string          `json:"excerpt"`
	AuthorName           string          `json:"authorName"`
	EventLocation        string          `json:"eventLocation"`
	ImageURL             *string         `json:"imageUrl,omitempty"`
	VideoLink            *string         `json:"videoLink,omitempty"`
	CreatedBy            string          `json:"createdBy"`
	ChurchID             string          `json:"churchId"`
	IsRecurring          bool            `json:"isRecurring"`
	RecurrenceType       *RecurrenceType `json:"recurrenceType,omitempty"`
	RecurrenceInterval   *int            `json:"recurrenceInterval,omitempty"`
	RecurrenceEndDate    *time.Time      `json:"recurrenceEndDate,omitempty"`
	RecurrenceDaysOfWeek []int           `json:"recurrenceDaysOfWeek,omitempty"`
	Church               ChurchRef       `json:"church"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// IsWeekly reports whether the event repeats on a weekday set
func (e *ChurchEvent) IsWeekly() bool {
	return e.IsRecurring && e.RecurrenceType != nil && *e.RecurrenceType == RecurrenceWeekly
}

// Normalize clears recurrence fields on non-recurring events
func (e *ChurchEvent) Normalize() {
	if e.IsRecurring {
		return
	}
	e.RecurrenceType = nil
	e.RecurrenceInterval = nil
	e.RecurrenceEndDate = nil
	e.RecurrenceDaysOfWeek = nil
}

// EventRecord is the shape written to the event store.
// RecurrenceDaysOfWeek carries the compact weekday encoding and is nil unless
// the event is recurring weekly.
type EventRecord struct {
	Time                 time.Time       `json:"time"`
	Title                string          `json:"title"`
	Excerpt              string          `json:"excerpt"`
	AuthorName           string          `json:"authorName"`
	EventLocation        string          `json:"eventLocation"`
	ImageURL             *string         `json:"imageUrl,omitempty"`
	VideoLink            *string         `json:"videoLink,omitempty"`
	CreatedBy            string          `json:"createdBy"`
	ChurchID             string          `json:"churchId"`
	IsRecurring          bool            `json:"isRecurring"`
	RecurrenceType       *RecurrenceType `json:"recurrenceType,omitempty"`
	RecurrenceInterval   *int            `json:"recurrenceInterval,omitempty"`
	RecurrenceEndDate    *time.Time      `json:"recurrenceEndDate,omitempty"`
	RecurrenceDaysOfWeek *int            `json:"recurrenceDaysOfWeek,omitempty"`
}

// EventInput is the request body for creating or updating an event
type EventInput struct {
	ChurchID             string     `json:"churchId"`
	Title                string     `json:"title"`
	Excerpt              string     `json:"excerpt"`
	Time                 time.Time  `json:"time"`
	AuthorName           string     `json:"authorName"`
	EventLocation        string     `json:"eventLocation"`
	ImageURL             *string    `json:"imageUrl"`
	VideoLink            *string    `json:"videoLink"`
	IsRecurring          bool       `json:"isRecurring"`
	RecurrenceType       string     `json:"recurrenceType"`
	RecurrenceInterval   *int       `json:"recurrenceInterval"`
	RecurrenceEndDate    *time.Time `json:"recurrenceEndDate"`
	RecurrenceDaysOfWeek []int      `json:"recurrenceDaysOfWeek"`
}
