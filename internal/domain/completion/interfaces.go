package completion

import (
	"context"
	"time"

	"github.com/rpggio/streaks/internal/domain/tracker"
)

// Repository provides persistence for completion records. Add must be
// idempotent per (tracker, day) and report whether a row was written; Delete
// reports whether one was removed.
type Repository interface {
	Add(ctx context.Context, rec *Record) (bool, error)
	Delete(ctx context.Context, trackerID string, day time.Time) (bool, error)
	DeleteAllForTracker(ctx context.Context, trackerID string) error
	Exists(ctx context.Context, trackerID string, day time.Time) (bool, error)
	CountForTracker(ctx context.Context, trackerID string) (int, error)
	List(ctx context.Context) ([]Record, error)
}

// TrackerLookup resolves tracker ids.
type TrackerLookup interface {
	Get(ctx context.Context, id string) (*tracker.Tracker, error)
}

// EventRecorder receives completion analytics. It must not block.
type EventRecorder interface {
	TrackerInteraction(ctx context.Context, trackerID, title string, completed bool, day time.Time, completedDays int)
}
