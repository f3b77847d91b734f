package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rpggio/streaks/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	details := entry.Details
	if details == "" {
		details = "{}"
	}

	query, args, err := psql.Insert("activity_log").
		Columns("session_id", "tracker_id", "event_type", "summary", "details", "created_at").
		Values(entry.SessionID, entry.TrackerID, entry.Type, entry.Summary, details, createdAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError("log activity", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt
	entry.Details = details

	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	builder := psql.
		Select("id", "session_id", "tracker_id", "event_type", "summary", "details", "created_at").
		From("activity_log").
		OrderBy("created_at DESC", "id DESC")

	if opts.TrackerID != nil {
		builder = builder.Where(sq.Eq{"tracker_id": *opts.TrackerID})
	}
	if opts.SessionID != nil {
		builder = builder.Where(sq.Eq{"session_id": *opts.SessionID})
	}
	if opts.Type != nil {
		builder = builder.Where(sq.Eq{"event_type": string(*opts.Type)})
	}
	if opts.Since != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *opts.Since})
	}
	if opts.Limit > 0 {
		builder = builder.Limit(uint64(opts.Limit))
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			// SQLite only accepts OFFSET after LIMIT.
			builder = builder.Limit(1<<63 - 1)
		}
		builder = builder.Offset(uint64(opts.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var entries []activity.Entry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, mapError("list activity", err)
	}
	return entries, nil
}
