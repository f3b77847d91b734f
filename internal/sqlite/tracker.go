package sqlite

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rpggio/streaks/internal/domain/tracker"
	"github.com/rpggio/streaks/internal/repository"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var trackerColumns = []string{"id", "category_id", "title", "color", "emoji", "schedule", "pinned", "created_at"}

type trackerRow struct {
	ID         string    `db:"id"`
	CategoryID string    `db:"category_id"`
	Title      string    `db:"title"`
	Color      string    `db:"color"`
	Emoji      string    `db:"emoji"`
	Schedule   string    `db:"schedule"`
	Pinned     bool      `db:"pinned"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r trackerRow) toDomain() (tracker.Tracker, error) {
	sched, err := decodeSchedule(r.Schedule)
	if err != nil {
		return tracker.Tracker{}, fmt.Errorf("tracker %s: %w", r.ID, err)
	}
	return tracker.Tracker{
		ID:         r.ID,
		CategoryID: r.CategoryID,
		Title:      r.Title,
		Color:      r.Color,
		Emoji:      r.Emoji,
		Schedule:   sched,
		Pinned:     r.Pinned,
		CreatedAt:  r.CreatedAt,
	}, nil
}

// encodeSchedule stores a schedule as comma separated ISO weekday numbers.
func encodeSchedule(s tracker.Schedule) string {
	parts := make([]string, 0, len(s))
	for _, d := range s.Normalized() {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

func decodeSchedule(v string) (tracker.Schedule, error) {
	if v == "" {
		return nil, nil
	}
	var out tracker.Schedule
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || !tracker.Weekday(n).Valid() {
			return nil, fmt.Errorf("invalid schedule %q", v)
		}
		out = append(out, tracker.Weekday(n))
	}
	return out, nil
}

// TrackerRepository implements tracker.Repository for SQLite
type TrackerRepository struct {
	db *DB
}

// NewTrackerRepository creates a new TrackerRepository
func NewTrackerRepository(db *DB) *TrackerRepository {
	return &TrackerRepository{db: db}
}

// Create inserts a new tracker
func (r *TrackerRepository) Create(ctx context.Context, t *tracker.Tracker) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query, args, err := psql.Insert("trackers").
		Columns(trackerColumns...).
		Values(t.ID, t.CategoryID, t.Title, t.Color, t.Emoji, encodeSchedule(t.Schedule), t.Pinned, createdAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return mapError("insert tracker", err)
	}
	t.CreatedAt = createdAt
	return nil
}

// Get retrieves a tracker by ID
func (r *TrackerRepository) Get(ctx context.Context, id string) (*tracker.Tracker, error) {
	query, args, err := psql.Select(trackerColumns...).From("trackers").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var row trackerRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, mapError("get tracker", err)
	}
	t, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all trackers ordered by title
func (r *TrackerRepository) List(ctx context.Context) ([]tracker.Tracker, error) {
	return r.list(ctx, nil)
}

func (r *TrackerRepository) list(ctx context.Context, where sq.Sqlizer) ([]tracker.Tracker, error) {
	builder := psql.Select(trackerColumns...).From("trackers").OrderBy("title", "id")
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var rows []trackerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapError("list trackers", err)
	}

	out := make([]tracker.Tracker, 0, len(rows))
	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Update rewrites a tracker's mutable fields
func (r *TrackerRepository) Update(ctx context.Context, t *tracker.Tracker) error {
	query, args, err := psql.Update("trackers").
		Set("category_id", t.CategoryID).
		Set("title", t.Title).
		Set("color", t.Color).
		Set("emoji", t.Emoji).
		Set("schedule", encodeSchedule(t.Schedule)).
		Set("pinned", t.Pinned).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}
	return r.execOne(ctx, "update tracker", query, args...)
}

// Delete removes a tracker and its completion records in one transaction
func (r *TrackerRepository) Delete(ctx context.Context, id string) error {
	records, recordArgs, err := psql.Delete("completion_records").Where(sq.Eq{"tracker_id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}
	query, args, err := psql.Delete("trackers").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return mapError("delete tracker", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, records, recordArgs...); err != nil {
		return mapError("delete tracker records", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError("delete tracker", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return mapError("delete tracker", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return mapError("delete tracker", tx.Commit())
}

// SetPinned sets the pinned flag
func (r *TrackerRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	query, args, err := psql.Update("trackers").Set("pinned", pinned).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}
	return r.execOne(ctx, "pin tracker", query, args...)
}

func (r *TrackerRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
