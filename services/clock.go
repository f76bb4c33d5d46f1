package services

import (
	"fmt"
	"time"
)

// Clock resolves calendar days in a single fixed reference timezone. Every
// "has this happened today" decision in the reward core goes through this
// window, never through the storage timezone, so a memo written at 23:59 KST
// and a check at 00:01 KST land on different days regardless of how the
// database stores instants.
type Clock struct {
	loc *time.Location
}

// NewClock builds a Clock for an IANA timezone name such as "Asia/Seoul".
func NewClock(name string) (*Clock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading reference timezone %q: %w", name, err)
	}
	return &Clock{loc: loc}, nil
}

// NewClockIn builds a Clock around an already resolved location. Tests use
// this with fixed zones to stay independent of the host tz database.
func NewClockIn(loc *time.Location) *Clock {
	return &Clock{loc: loc}
}

// Today returns midnight of the reference-zone day containing now.
func (c *Clock) Today(now time.Time) time.Time {
	local := now.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
}

// DayBounds returns the half-open instant window [start, end) covering the
// calendar day that contains the given reference-zone day.
func (c *Clock) DayBounds(day time.Time) (time.Time, time.Time) {
	start := c.Today(day)
	return start, start.Add(24 * time.Hour)
}

// SameDay reports whether two instants fall on the same reference-zone day.
func (c *Clock) SameDay(a, b time.Time) bool {
	return c.Today(a).Equal(c.Today(b))
}

// Location returns the reference timezone location.
func (c *Clock) Location() *time.Location {
	return c.loc
}
