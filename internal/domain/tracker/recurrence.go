package tracker

import (
	"time"

	"github.com/rpggio/streaks/internal/calendar"
)

// WeekdayOf returns the ISO weekday of the calendar day date falls on in loc.
func WeekdayOf(date time.Time, loc *time.Location) Weekday {
	return WeekdayFromTime(calendar.Day(date, loc).Weekday())
}

// IsDue reports whether t should be shown and actionable on date.
// Irregular trackers are due every day.
func IsDue(t Tracker, date time.Time, loc *time.Location) bool {
	if t.IsIrregular() {
		return true
	}
	return t.Schedule.Contains(WeekdayOf(date, loc))
}
