package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/streaks/internal/calendar"
	"github.com/rpggio/streaks/internal/domain/completion"
)

// CompletionRepository implements completion.Repository for SQLite. Days are
// stored as YYYY-MM-DD keys under a (tracker_id, day) unique constraint.
type CompletionRepository struct {
	db *DB
}

// NewCompletionRepository creates a new CompletionRepository
func NewCompletionRepository(db *DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

type completionRow struct {
	ID        string    `db:"id"`
	TrackerID string    `db:"tracker_id"`
	Day       string    `db:"day"`
	CreatedAt time.Time `db:"created_at"`
}

// Add inserts a record unless one already exists for the tracker and day.
func (r *CompletionRepository) Add(ctx context.Context, rec *completion.Record) (bool, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO completion_records (id, tracker_id, day, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (tracker_id, day) DO NOTHING
	`, rec.ID, rec.TrackerID, calendar.FormatDay(rec.Date), createdAt)
	if err != nil {
		return false, mapError("insert completion", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, mapError("insert completion", err)
	}
	rec.CreatedAt = createdAt
	return n > 0, nil
}

// Delete removes the record for the tracker and day, if any
func (r *CompletionRepository) Delete(ctx context.Context, trackerID string, day time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM completion_records WHERE tracker_id = ? AND day = ?`,
		trackerID, calendar.FormatDay(day))
	if err != nil {
		return false, mapError("delete completion", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, mapError("delete completion", err)
	}
	return n > 0, nil
}

// DeleteAllForTracker removes every record of a tracker
func (r *CompletionRepository) DeleteAllForTracker(ctx context.Context, trackerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM completion_records WHERE tracker_id = ?`, trackerID)
	if err != nil {
		return mapError("delete tracker completions", err)
	}
	return nil
}

// Exists reports whether the tracker has a record on day
func (r *CompletionRepository) Exists(ctx context.Context, trackerID string, day time.Time) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM completion_records WHERE tracker_id = ? AND day = ?`,
		trackerID, calendar.FormatDay(day))
	if err != nil {
		return false, mapError("check completion", err)
	}
	return n > 0, nil
}

// CountForTracker returns the number of days the tracker was completed
func (r *CompletionRepository) CountForTracker(ctx context.Context, trackerID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM completion_records WHERE tracker_id = ?`, trackerID)
	if err != nil {
		return 0, mapError("count completions", err)
	}
	return n, nil
}

// List returns every record ordered by day
func (r *CompletionRepository) List(ctx context.Context) ([]completion.Record, error) {
	var rows []completionRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, tracker_id, day, created_at FROM completion_records ORDER BY day, tracker_id`)
	if err != nil {
		return nil, mapError("list completions", err)
	}

	out := make([]completion.Record, 0, len(rows))
	for _, row := range rows {
		day, err := calendar.ParseDay(row.Day)
		if err != nil {
			return nil, fmt.Errorf("completion %s: %w", row.ID, err)
		}
		out = append(out, completion.Record{
			ID:        row.ID,
			TrackerID: row.TrackerID,
			Date:      day,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
