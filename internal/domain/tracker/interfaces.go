package tracker

import "context"

// Repository provides persistence for trackers.
type Repository interface {
	Create(ctx context.Context, t *Tracker) error
	Get(ctx context.Context, id string) (*Tracker, error)
	List(ctx context.Context) ([]Tracker, error)
	Update(ctx context.Context, t *Tracker) error
	Delete(ctx context.Context, id string) error
	SetPinned(ctx context.Context, id string, pinned bool) error
}

// CategoryChecker confirms a category exists before trackers are attached to it.
type CategoryChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// RecordCleaner removes completion history left behind by a deleted tracker.
type RecordCleaner interface {
	DeleteAllForTracker(ctx context.Context, trackerID string) error
}

// EventRecorder receives analytics notifications. Failures are its own concern.
type EventRecorder interface {
	TrackerCreated(ctx context.Context, trackerID, title, categoryID string, hasSchedule bool)
}
