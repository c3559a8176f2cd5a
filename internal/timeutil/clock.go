package timeutil

import (
	"fmt"
	"time"
)

// DefaultTimezone is the reference timezone all timestamps are normalized to.
const DefaultTimezone = "Europe/Zurich"

// Clock provides the current instant in one fixed reference timezone and
// day-delta arithmetic against it. Every timestamp in the system, freshly
// created or reloaded from storage, goes through Normalize before any
// subtraction.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock builds a clock for the named timezone.
func NewClock(timezone string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewFixedClock builds a clock frozen at t, for tests.
func NewFixedClock(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

// Now returns the current instant in the reference timezone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Location returns the reference timezone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Normalize converts t into the reference timezone.
func (c *Clock) Normalize(t time.Time) time.Time {
	return t.In(c.loc)
}

// ParseLocal parses an RFC 3339 timestamp. A value without an explicit
// offset is interpreted as already being in the reference timezone.
func (c *Clock) ParseLocal(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t.In(c.loc), nil
	}
	t, err = time.ParseInLocation("2006-01-02T15:04:05", value, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return t, nil
}

// DaysSince returns the whole-day difference between Now and t. The result
// is negative when t lies in the future.
func (c *Clock) DaysSince(t time.Time) int {
	d := c.Now().Sub(c.Normalize(t))
	return int(d.Hours() / 24)
}

// CalendarWeek returns the current ISO week number, capped to 52 so it can
// index a 52-slot weekly series.
func (c *Clock) CalendarWeek() int {
	_, week := c.Now().ISOWeek()
	if week > 52 {
		week = 52
	}
	return week
}
