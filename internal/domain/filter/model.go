package filter

import (
	"fmt"
	"strings"
	"time"
)

// Type selects which trackers survive the type-filter step.
type Type string

const (
	All          Type = "all"
	Today        Type = "today"
	Completed    Type = "completed"
	NotCompleted Type = "not_completed"
)

// PinnedCategoryID identifies the synthetic leading group of pinned trackers.
const PinnedCategoryID = "pinned"

// PinnedCategoryTitle is the title of the pinned group.
const PinnedCategoryTitle = "Pinned"

// ParseType parses a filter name. Empty selects All.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return All, nil
	case All, Today, Completed, NotCompleted:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown filter %q", ErrInvalidFilter, s)
	}
}

// Query describes one projection request.
type Query struct {
	// Date is the user-selected date. Zero means today.
	Date        time.Time
	Filter      Type
	Search      string
	GroupPinned bool
}
