package category

import (
	"time"

	"github.com/rpggio/streaks/internal/domain/tracker"
)

// Category is a named grouping of trackers.
type Category struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	IsSelected bool      `json:"is_selected"`
	CreatedAt  time.Time `json:"created_at"`
}

// WithTrackers pairs a category with the trackers it owns.
type WithTrackers struct {
	Category
	Trackers []tracker.Tracker `json:"trackers"`
}
