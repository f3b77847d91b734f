package calendar

import (
	"fmt"
	"time"
)

// DateFormat is the persisted form of a calendar day.
const DateFormat = "2006-01-02"

// Clock abstracts time retrieval so "today" is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// LoadLocation loads an IANA timezone. Empty or "Local" means the system zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// Day returns the calendar day t falls on in loc, represented as midnight UTC.
// Two instants map to the same Day iff they share a calendar date in loc, so
// days compare with == and step with AddDate without DST surprises.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return Day(a, loc).Equal(Day(b, loc))
}

// NextDay returns the day after day. The argument must already be a Day.
func NextDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1)
}

// Today returns the current calendar day in loc.
func Today(clock Clock, loc *time.Location) time.Time {
	if clock == nil {
		clock = RealClock{}
	}
	return Day(clock.Now(), loc)
}

// FormatDay renders a day as YYYY-MM-DD.
func FormatDay(day time.Time) string {
	return day.UTC().Format(DateFormat)
}

// ParseDay parses YYYY-MM-DD into a Day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseDate accepts either YYYY-MM-DD or an RFC3339 timestamp and returns an
// instant that falls on the named calendar day in loc. Bare dates resolve to
// noon so that DST transitions at midnight never move them to another day.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if d, err := time.Parse(DateFormat, s); err == nil {
		y, m, dd := d.Date()
		return time.Date(y, m, dd, 12, 0, 0, 0, loc), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
	}
	return t, nil
}
