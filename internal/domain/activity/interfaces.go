package activity

import "context"

// Repository provides persistence operations for activity entries.
type Repository interface {
	Log(ctx context.Context, entry *Entry) error
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}

// Publisher forwards entries to an external analytics sink.
type Publisher interface {
	Publish(ctx context.Context, entry Entry) error
}
