package tracker

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Weekday is an ISO-8601 day of week, Monday=1 through Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays lists the days in display order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = map[Weekday]string{
	Monday:    "mon",
	Tuesday:   "tue",
	Wednesday: "wed",
	Thursday:  "thu",
	Friday:    "fri",
	Saturday:  "sat",
	Sunday:    "sun",
}

// WeekdayFromTime maps the standard library weekday onto the ISO enumeration.
func WeekdayFromTime(wd time.Weekday) Weekday {
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// Valid reports whether w is one of the seven days.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if name, ok := weekdayNames[w]; ok {
		return name
	}
	return fmt.Sprintf("Weekday(%d)", int(w))
}

// ParseWeekday accepts short ("mon") or long ("monday") names, any case.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for wd, name := range weekdayNames {
		if s == name || strings.ToLower(time.Weekday(int(wd)%7).String()) == s {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func (w Weekday) MarshalJSON() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(w))
	}
	return json.Marshal(w.String())
}

// UnmarshalJSON accepts either a weekday name or its ISO number.
func (w *Weekday) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseWeekday(name)
		if err != nil {
			return err
		}
		*w = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("weekday must be a name or number: %w", err)
	}
	*w = Weekday(n)
	return nil
}

// Schedule is the set of weekdays a tracker recurs on. Empty means irregular.
type Schedule []Weekday

// Contains reports set membership; order is irrelevant.
func (s Schedule) Contains(wd Weekday) bool {
	for _, d := range s {
		if d == wd {
			return true
		}
	}
	return false
}

// Normalized returns the schedule deduplicated and sorted Monday first.
func (s Schedule) Normalized() Schedule {
	if len(s) == 0 {
		return nil
	}
	seen := make(map[Weekday]bool, len(s))
	out := make(Schedule, 0, len(s))
	for _, d := range s {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Tracker is a habit (weekly schedule) or an irregular event (no schedule).
type Tracker struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Title      string    `json:"title"`
	Color      string    `json:"color"`
	Emoji      string    `json:"emoji"`
	Schedule   Schedule  `json:"schedule,omitempty"`
	Pinned     bool      `json:"pinned"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsIrregular reports whether the tracker has no weekly schedule.
func (t Tracker) IsIrregular() bool {
	return len(t.Schedule) == 0
}
