package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/streaks/internal/domain/category"
	"github.com/rpggio/streaks/internal/domain/tracker"
	"github.com/rpggio/streaks/internal/repository"
	"github.com/rpggio/streaks/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := category.NewService(&mocks.CategoryRepository{}, nil, nil)

	_, err := svc.Create(ctx, category.CreateRequest{Title: "  "})
	require.ErrorIs(t, err, category.ErrInvalidInput)
}

func TestCategoryService_CreateDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CategoryRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)
	repo.On("GetByTitle", ctx, "Health").Return(&category.Category{ID: "c1", Title: "Health"}, nil)

	svc := category.NewService(repo, nil, nil)
	_, err := svc.Create(ctx, category.CreateRequest{Title: " Health "})
	require.ErrorIs(t, err, category.ErrDuplicateTitle)
}

func TestCategoryService_CreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CategoryRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)
	repo.On("GetByTitle", ctx, "Work").Return(nil, repository.ErrNotFound)
	repo.On("GetByTitle", ctx, "Chores").Return(nil, &repository.PersistenceError{Op: "get category", Err: errors.New("disk I/O error")})

	svc := category.NewService(repo, nil, nil)
	_, err := svc.Create(ctx, category.CreateRequest{ID: "c1", Title: "Work"})
	require.ErrorIs(t, err, category.ErrAlreadyExists)
	require.NotErrorIs(t, err, category.ErrDuplicateTitle)

	_, err = svc.Create(ctx, category.CreateRequest{ID: "c1", Title: "Chores"})
	require.True(t, repository.IsPersistence(err))
}

func TestCategoryService_DeleteForbidsNonEmpty(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CategoryRepository{}
	repo.On("Get", ctx, "cat1").Return(&category.Category{ID: "cat1"}, nil)
	repo.On("CountTrackers", ctx, "cat1").Return(2, nil)

	svc := category.NewService(repo, nil, nil)
	require.ErrorIs(t, svc.Delete(ctx, "cat1"), category.ErrCategoryNotEmpty)
	repo.AssertNotCalled(t, "Delete", ctx, "cat1")
}

func TestCategoryService_DeleteEmpty(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CategoryRepository{}
	repo.On("Get", ctx, "cat1").Return(&category.Category{ID: "cat1"}, nil)
	repo.On("CountTrackers", ctx, "cat1").Return(0, nil)
	repo.On("Delete", ctx, "cat1").Return(nil)

	svc := category.NewService(repo, nil, nil)
	require.NoError(t, svc.Delete(ctx, "cat1"))
	repo.AssertExpectations(t)
}

func TestCategoryService_DeleteNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CategoryRepository{}
	repo.On("Get", ctx, "nope").Return(nil, repository.ErrNotFound)

	svc := category.NewService(repo, nil, nil)
	require.ErrorIs(t, svc.Delete(ctx, "nope"), category.ErrCategoryNotFound)
}

func TestCategoryService_EnsureDefault(t *testing.T) {
	ctx := context.Background()

	existing := &category.Category{ID: "cat1", Title: "My trackers"}
	repo := &mocks.CategoryRepository{}
	repo.On("GetByTitle", ctx, "My trackers").Return(existing, nil).Once()
	svc := category.NewService(repo, nil, nil)

	got, err := svc.EnsureDefault(ctx, "My trackers")
	require.NoError(t, err)
	require.Equal(t, existing, got)

	repo.On("GetByTitle", ctx, "Inbox").Return(nil, repository.ErrNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(c *category.Category) bool { return c.Title == "Inbox" })).Return(nil)
	got, err = svc.EnsureDefault(ctx, "Inbox")
	require.NoError(t, err)
	require.NotEmpty(t, got.ID)
	require.Equal(t, "Inbox", got.Title)
}

func TestCategoryService_SelectAndSelected(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CategoryRepository{}
	repo.On("SetSelected", ctx, "cat2").Return(nil)
	repo.On("Get", ctx, "cat2").Return(&category.Category{ID: "cat2", IsSelected: true}, nil)
	repo.On("List", ctx).Return([]category.Category{
		{ID: "cat1", Title: "A"},
		{ID: "cat2", Title: "B", IsSelected: true},
	}, nil)
	repo.On("SetSelected", ctx, "nope").Return(repository.ErrNotFound)

	svc := category.NewService(repo, nil, nil)
	c, err := svc.Select(ctx, "cat2")
	require.NoError(t, err)
	require.True(t, c.IsSelected)

	sel, err := svc.Selected(ctx)
	require.NoError(t, err)
	require.Equal(t, "cat2", sel.ID)

	_, err = svc.Select(ctx, "nope")
	require.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestCategoryService_ListWithTrackersSorted(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CategoryRepository{}
	repo.On("List", ctx).Return([]category.Category{
		{ID: "c2", Title: "Work"},
		{ID: "c1", Title: "Health"},
		{ID: "c3", Title: "Empty"},
	}, nil)
	trackers := &mocks.TrackerRepository{}
	trackers.On("List", ctx).Return([]tracker.Tracker{
		{ID: "t1", CategoryID: "c1", Title: "Walk"},
		{ID: "t2", CategoryID: "c1", Title: "Read"},
		{ID: "t3", CategoryID: "c2", Title: "Email"},
		{ID: "t4", CategoryID: "gone", Title: "Orphan"},
	}, nil)

	svc := category.NewService(repo, trackers, nil)
	list, err := svc.ListWithTrackers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	require.Equal(t, "Empty", list[0].Title)
	require.Empty(t, list[0].Trackers)
	require.Equal(t, "Health", list[1].Title)
	require.Equal(t, "Read", list[1].Trackers[0].Title)
	require.Equal(t, "Walk", list[1].Trackers[1].Title)
	require.Equal(t, "Work", list[2].Title)
	require.Len(t, list[2].Trackers, 1)
}
