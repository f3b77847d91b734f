package activity

import "time"

// EventType identifies an analytics event.
type EventType string

const (
	TypeTrackerCreated     EventType = "tracker_created"
	TypeTrackerInteraction EventType = "tracker_interaction"
	TypeTrackerSearch      EventType = "tracker_search"
	TypeDateChanged        EventType = "date_changed"
	TypeScreenEvent        EventType = "screen_event"
)

// ScreenAction is the kind of screen event.
type ScreenAction string

const (
	ActionOpen  ScreenAction = "open"
	ActionClose ScreenAction = "close"
	ActionClick ScreenAction = "click"
)

// Valid reports whether a is a known action.
func (a ScreenAction) Valid() bool {
	switch a {
	case ActionOpen, ActionClose, ActionClick:
		return true
	}
	return false
}

// Entry is one analytics event. Details holds primitive fields as a JSON object.
type Entry struct {
	ID        int64     `json:"id" db:"id"`
	SessionID *string   `json:"session_id,omitempty" db:"session_id"`
	TrackerID *string   `json:"tracker_id,omitempty" db:"tracker_id"`
	Type      EventType `json:"type" db:"event_type"`
	Summary   string    `json:"summary" db:"summary"`
	Details   string    `json:"details,omitempty" db:"details"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ListOptions filters activity listings.
type ListOptions struct {
	TrackerID *string
	SessionID *string
	Type      *EventType
	Since     *time.Time
	Limit     int
	Offset    int
}
