package clock

import "time"

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// System reads the wall clock
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant. Used by tests and scripts that need a stable "now".
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }
