package tracker_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/streaks/internal/calendar"
	"github.com/rpggio/streaks/internal/domain/tracker"
	"github.com/rpggio/streaks/internal/repository"
	"github.com/rpggio/streaks/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type categoryStub map[string]bool

func (c categoryStub) Exists(_ context.Context, id string) (bool, error) {
	return c[id], nil
}

type cleanerStub struct {
	deleted []string
	err     error
}

func (c *cleanerStub) DeleteAllForTracker(_ context.Context, trackerID string) error {
	c.deleted = append(c.deleted, trackerID)
	return c.err
}

type eventStub struct {
	created []string
	ids     []string
}

func (e *eventStub) TrackerCreated(_ context.Context, trackerID, title, _ string, _ bool) {
	e.created = append(e.created, title)
	e.ids = append(e.ids, trackerID)
}

var now = time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

func validRequest() tracker.CreateRequest {
	return tracker.CreateRequest{
		CategoryID: "cat1",
		Title:      "Water",
		Color:      "green",
		Emoji:      "💧",
		Schedule:   tracker.Schedule{tracker.Friday, tracker.Monday, tracker.Wednesday},
	}
}

func TestTrackerService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackerRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)
	events := &eventStub{}

	svc := tracker.NewService(repo, categoryStub{"cat1": true}, nil, events, calendar.FixedClock(now), nil)
	tr, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	require.NotEmpty(t, tr.ID)
	require.Equal(t, now, tr.CreatedAt)
	require.Equal(t, tracker.Schedule{tracker.Monday, tracker.Wednesday, tracker.Friday}, tr.Schedule)
	require.Equal(t, []string{"Water"}, events.created)
	require.Equal(t, []string{tr.ID}, events.ids)
	repo.AssertExpectations(t)
}

func TestTrackerService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := tracker.NewService(&mocks.TrackerRepository{}, categoryStub{"cat1": true}, nil, nil, nil, nil)

	cases := map[string]func(*tracker.CreateRequest){
		"empty title":   func(r *tracker.CreateRequest) { r.Title = "   " },
		"long title":    func(r *tracker.CreateRequest) { r.Title = strings.Repeat("я", tracker.MaxTitleLength+1) },
		"no emoji":      func(r *tracker.CreateRequest) { r.Emoji = "" },
		"no color":      func(r *tracker.CreateRequest) { r.Color = "" },
		"no category":   func(r *tracker.CreateRequest) { r.CategoryID = "" },
		"bad weekday":   func(r *tracker.CreateRequest) { r.Schedule = tracker.Schedule{8} },
		"duplicate day": func(r *tracker.CreateRequest) { r.Schedule = tracker.Schedule{tracker.Monday, tracker.Monday} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			_, err := svc.Create(ctx, req)
			require.ErrorIs(t, err, tracker.ErrInvalidInput)
		})
	}
}

func TestTrackerService_CreateAcceptsMaxLengthTitle(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackerRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := tracker.NewService(repo, categoryStub{"cat1": true}, nil, nil, nil, nil)
	req := validRequest()
	req.Title = strings.Repeat("я", tracker.MaxTitleLength)
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)
}

func TestTrackerService_CreateUnknownCategory(t *testing.T) {
	ctx := context.Background()
	svc := tracker.NewService(&mocks.TrackerRepository{}, categoryStub{}, nil, nil, nil, nil)
	_, err := svc.Create(ctx, validRequest())
	require.ErrorIs(t, err, tracker.ErrCategoryNotFound)
}

func TestTrackerService_CreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackerRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)

	svc := tracker.NewService(repo, categoryStub{"cat1": true}, nil, nil, nil, nil)
	req := validRequest()
	req.ID = "t1"
	_, err := svc.Create(ctx, req)
	require.ErrorIs(t, err, tracker.ErrAlreadyExists)
}

func TestTrackerService_UpdateKeepsID(t *testing.T) {
	ctx := context.Background()
	existing := &tracker.Tracker{ID: "t1", CategoryID: "cat1", Title: "Water", Color: "green", Emoji: "💧"}

	repo := &mocks.TrackerRepository{}
	repo.On("Get", ctx, "t1").Return(existing, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(tr *tracker.Tracker) bool {
		return tr.ID == "t1" && tr.Title == "Drink water" && tr.CategoryID == "cat2"
	})).Return(nil)

	svc := tracker.NewService(repo, categoryStub{"cat1": true, "cat2": true}, nil, nil, nil, nil)
	title, cat := " Drink water ", "cat2"
	sched := tracker.Schedule{tracker.Sunday}
	updated, err := svc.Update(ctx, tracker.UpdateRequest{ID: "t1", Title: &title, CategoryID: &cat, Schedule: &sched})
	require.NoError(t, err)
	require.Equal(t, "t1", updated.ID)
	require.Equal(t, tracker.Schedule{tracker.Sunday}, updated.Schedule)
	require.Equal(t, "Water", existing.Title)
	repo.AssertExpectations(t)
}

func TestTrackerService_UpdateNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackerRepository{}
	repo.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)

	svc := tracker.NewService(repo, categoryStub{}, nil, nil, nil, nil)
	_, err := svc.Update(ctx, tracker.UpdateRequest{ID: "missing"})
	require.ErrorIs(t, err, tracker.ErrTrackerNotFound)
}

func TestTrackerService_DeleteCascadesRecords(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackerRepository{}
	repo.On("Delete", ctx, "t1").Return(nil)
	cleaner := &cleanerStub{}

	svc := tracker.NewService(repo, categoryStub{}, cleaner, nil, nil, nil)
	require.NoError(t, svc.Delete(ctx, "t1"))
	require.Equal(t, []string{"t1"}, cleaner.deleted)
	repo.AssertExpectations(t)
}

func TestTrackerService_DeleteFailureKeepsRecords(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackerRepository{}
	repo.On("Delete", ctx, "missing").Return(repository.ErrNotFound)
	repo.On("Delete", ctx, "t1").Return(&repository.PersistenceError{Op: "delete tracker", Err: errors.New("disk I/O error")})
	cleaner := &cleanerStub{}

	svc := tracker.NewService(repo, categoryStub{}, cleaner, nil, nil, nil)
	require.ErrorIs(t, svc.Delete(ctx, "missing"), tracker.ErrTrackerNotFound)

	var perr *repository.PersistenceError
	require.ErrorAs(t, svc.Delete(ctx, "t1"), &perr)
	require.Empty(t, cleaner.deleted)
}

func TestTrackerService_DeleteCleanupFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackerRepository{}
	repo.On("Delete", ctx, "t1").Return(nil)
	cleaner := &cleanerStub{err: errors.New("locked")}

	svc := tracker.NewService(repo, categoryStub{}, cleaner, nil, nil, nil)
	require.NoError(t, svc.Delete(ctx, "t1"))
	require.Equal(t, []string{"t1"}, cleaner.deleted)
}

func TestTrackerService_SetPinned(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.TrackerRepository{}
	repo.On("SetPinned", ctx, "t1", true).Return(nil)
	repo.On("Get", ctx, "t1").Return(&tracker.Tracker{ID: "t1", Pinned: true}, nil)
	repo.On("SetPinned", ctx, "nope", true).Return(repository.ErrNotFound)

	svc := tracker.NewService(repo, categoryStub{}, nil, nil, nil, nil)
	tr, err := svc.SetPinned(ctx, "t1", true)
	require.NoError(t, err)
	require.True(t, tr.Pinned)

	_, err = svc.SetPinned(ctx, "nope", true)
	require.ErrorIs(t, err, tracker.ErrTrackerNotFound)
}
