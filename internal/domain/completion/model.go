package completion

import "time"

// Record marks a tracker as done on one calendar day. Date is always a
// calendar.Day (midnight UTC of the civil date).
type Record struct {
	ID        string    `json:"id"`
	TrackerID string    `json:"tracker_id"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleResult is the state after a toggle.
type ToggleResult struct {
	TrackerID     string    `json:"tracker_id"`
	Date          time.Time `json:"date"`
	Completed     bool      `json:"completed"`
	DaysCompleted int       `json:"days_completed"`
}
