package category

import (
	"context"

	"github.com/rpggio/streaks/internal/domain/tracker"
)

// Repository provides persistence for categories.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	Get(ctx context.Context, id string) (*Category, error)
	GetByTitle(ctx context.Context, title string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Delete(ctx context.Context, id string) error
	CountTrackers(ctx context.Context, id string) (int, error)
	SetSelected(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// TrackerLister supplies the trackers grouped under categories.
type TrackerLister interface {
	List(ctx context.Context) ([]tracker.Tracker, error)
}
