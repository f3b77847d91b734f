package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/streaks/internal/domain/completion"
	"github.com/rpggio/streaks/internal/domain/tracker"
	"github.com/rpggio/streaks/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestTrackerRepository_CreateGetList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertCategory(t, db, "c1", "Health")

	repo := NewTrackerRepository(db)
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	water := &tracker.Tracker{
		ID: "t1", CategoryID: "c1", Title: "Water", Color: "blue", Emoji: "💧",
		Schedule:  tracker.Schedule{tracker.Friday, tracker.Monday},
		CreatedAt: created,
	}
	dentist := &tracker.Tracker{ID: "t2", CategoryID: "c1", Title: "Dentist", Color: "red", Emoji: "🦷"}

	require.NoError(t, repo.Create(ctx, water))
	require.NoError(t, repo.Create(ctx, dentist))
	require.ErrorIs(t, repo.Create(ctx, water), repository.ErrConflict)

	got, err := repo.Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, tracker.Schedule{tracker.Monday, tracker.Friday}, got.Schedule)
	require.True(t, got.CreatedAt.Equal(created))

	got, err = repo.Get(ctx, "t2")
	require.NoError(t, err)
	require.True(t, got.IsIrregular())

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Dentist", list[0].Title)
	require.Equal(t, "Water", list[1].Title)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTrackerRepository_ForeignKey(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTrackerRepository(db)

	err := repo.Create(context.Background(), &tracker.Tracker{ID: "t1", CategoryID: "nope", Title: "X", Color: "c", Emoji: "e"})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestTrackerRepository_UpdatePinDelete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertCategory(t, db, "c1", "Health")
	insertCategory(t, db, "c2", "Work")
	insertTracker(t, db, "t1", "c1", "Water")

	repo := NewTrackerRepository(db)
	tr, err := repo.Get(ctx, "t1")
	require.NoError(t, err)

	tr.Title = "Drink water"
	tr.CategoryID = "c2"
	tr.Schedule = tracker.Schedule{tracker.Sunday}
	require.NoError(t, repo.Update(ctx, tr))

	require.NoError(t, repo.SetPinned(ctx, "t1", true))
	got, err := repo.Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "Drink water", got.Title)
	require.Equal(t, "c2", got.CategoryID)
	require.Equal(t, tracker.Schedule{tracker.Sunday}, got.Schedule)
	require.True(t, got.Pinned)

	require.ErrorIs(t, repo.SetPinned(ctx, "missing", true), repository.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, &tracker.Tracker{ID: "missing"}), repository.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "t1"))
	require.ErrorIs(t, repo.Delete(ctx, "t1"), repository.ErrNotFound)
}

func TestTrackerRepository_DeleteRemovesRecords(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertCategory(t, db, "c1", "Health")
	insertTracker(t, db, "t1", "c1", "Water")
	insertTracker(t, db, "t2", "c1", "Stretch")

	// Without the cascade the repository must clear records itself.
	_, err := db.ExecContext(ctx, `PRAGMA foreign_keys = OFF`)
	require.NoError(t, err)
	records := NewCompletionRepository(db)
	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"t1", "t2"} {
		_, err := records.Add(ctx, &completion.Record{ID: id + "-r", TrackerID: id, Date: day})
		require.NoError(t, err)
	}

	require.NoError(t, NewTrackerRepository(db).Delete(ctx, "t1"))

	var remaining []string
	require.NoError(t, db.SelectContext(ctx, &remaining, `SELECT tracker_id FROM completion_records`))
	require.Equal(t, []string{"t2"}, remaining)
}

func TestTrackerRepository_DeleteRollsBack(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertCategory(t, db, "c1", "Health")
	insertTracker(t, db, "t1", "c1", "Water")
	records := NewCompletionRepository(db)
	_, err := records.Add(ctx, &completion.Record{ID: "r1", TrackerID: "t1", Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `CREATE TRIGGER block_delete BEFORE DELETE ON trackers BEGIN SELECT RAISE(ABORT, 'blocked'); END`)
	require.NoError(t, err)

	var perr *repository.PersistenceError
	require.ErrorAs(t, NewTrackerRepository(db).Delete(ctx, "t1"), &perr)

	n, err := records.CountForTracker(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestScheduleEncoding(t *testing.T) {
	require.Equal(t, "", encodeSchedule(nil))
	require.Equal(t, "1,3,7", encodeSchedule(tracker.Schedule{tracker.Sunday, tracker.Monday, tracker.Wednesday}))

	sched, err := decodeSchedule("1,3,7")
	require.NoError(t, err)
	require.Equal(t, tracker.Schedule{tracker.Monday, tracker.Wednesday, tracker.Sunday}, sched)

	_, err = decodeSchedule("1,9")
	require.Error(t, err)
}
