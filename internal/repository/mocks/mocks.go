package mocks

import (
	"context"
	"time"

	"github.com/rpggio/streaks/internal/domain/activity"
	"github.com/rpggio/streaks/internal/domain/category"
	"github.com/rpggio/streaks/internal/domain/completion"
	"github.com/rpggio/streaks/internal/domain/tracker"
	"github.com/stretchr/testify/mock"
)

// TrackerRepository is a mock for tracker.Repository.
type TrackerRepository struct {
	mock.Mock
}

func (m *TrackerRepository) Create(ctx context.Context, t *tracker.Tracker) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TrackerRepository) Get(ctx context.Context, id string) (*tracker.Tracker, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*tracker.Tracker); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackerRepository) List(ctx context.Context) ([]tracker.Tracker, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]tracker.Tracker); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackerRepository) Update(ctx context.Context, t *tracker.Tracker) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TrackerRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TrackerRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	args := m.Called(ctx, id, pinned)
	return args.Error(0)
}

// CategoryRepository is a mock for category.Repository.
type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CategoryRepository) Get(ctx context.Context, id string) (*category.Category, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*category.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) GetByTitle(ctx context.Context, title string) (*category.Category, error) {
	args := m.Called(ctx, title)
	if c, ok := args.Get(0).(*category.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]category.Category); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CategoryRepository) CountTrackers(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *CategoryRepository) SetSelected(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CategoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// CompletionRepository is a mock for completion.Repository.
type CompletionRepository struct {
	mock.Mock
}

func (m *CompletionRepository) Add(ctx context.Context, rec *completion.Record) (bool, error) {
	args := m.Called(ctx, rec)
	return args.Bool(0), args.Error(1)
}

func (m *CompletionRepository) Delete(ctx context.Context, trackerID string, day time.Time) (bool, error) {
	args := m.Called(ctx, trackerID, day)
	return args.Bool(0), args.Error(1)
}

func (m *CompletionRepository) DeleteAllForTracker(ctx context.Context, trackerID string) error {
	args := m.Called(ctx, trackerID)
	return args.Error(0)
}

func (m *CompletionRepository) Exists(ctx context.Context, trackerID string, day time.Time) (bool, error) {
	args := m.Called(ctx, trackerID, day)
	return args.Bool(0), args.Error(1)
}

func (m *CompletionRepository) CountForTracker(ctx context.Context, trackerID string) (int, error) {
	args := m.Called(ctx, trackerID)
	return args.Int(0), args.Error(1)
}

func (m *CompletionRepository) List(ctx context.Context) ([]completion.Record, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]completion.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityPublisher is a mock for activity.Publisher.
type ActivityPublisher struct {
	mock.Mock
}

func (m *ActivityPublisher) Publish(ctx context.Context, entry activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
