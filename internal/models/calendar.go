package models

import "time"

// CalendarDay is one cell of a month grid. It is recomputed on every build.
type CalendarDay struct {
	Date           time.Time     `json:"date"`
	DayOfMonth     int           `json:"dayOfMonth"`
	DayOfWeek      int           `json:"dayOfWeek"`
	IsCurrentMonth bool          `json:"isCurrentMonth"`
	IsToday        bool          `json:"isToday"`
	Events         []ChurchEvent `json:"events"`
}

// CalendarMonth is the month grid returned by the calendar endpoint
type CalendarMonth struct {
	ChurchID string          `json:"churchId"`
	Month    string          `json:"month"`
	Timezone string          `json:"timezone"`
	Weeks    [][]CalendarDay `json:"weeks"`
}
