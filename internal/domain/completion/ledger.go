package completion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/streaks/internal/calendar"
	"github.com/rpggio/streaks/internal/domain/tracker"
	"github.com/rpggio/streaks/internal/repository"
)

// Ledger is the authoritative owner of completion records.
//
// Writes propagate persistence failures. Reads degrade to an empty result on
// failure; each degraded read is logged at WARN with degraded=true and
// counted, so callers can tell it apart from a genuinely empty ledger.
type Ledger struct {
	repo     Repository
	trackers TrackerLookup
	events   EventRecorder
	loc      *time.Location
	clock    calendar.Clock
	logger   *slog.Logger

	degraded atomic.Int64
}

// NewLedger creates a ledger normalizing dates to days in loc. events may be nil.
func NewLedger(repo Repository, trackers TrackerLookup, events EventRecorder, loc *time.Location, clock calendar.Clock, logger *slog.Logger) *Ledger {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = calendar.RealClock{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Ledger{
		repo:     repo,
		trackers: trackers,
		events:   events,
		loc:      loc,
		clock:    clock,
		logger:   logger,
	}
}

// Location returns the timezone days are normalized in.
func (l *Ledger) Location() *time.Location {
	return l.loc
}

// Add records a completion for the day date falls on. Adding an existing
// completion is a successful no-op.
func (l *Ledger) Add(ctx context.Context, trackerID string, date time.Time) error {
	t, err := l.lookup(ctx, trackerID, date)
	if err != nil {
		return err
	}
	day := calendar.Day(date, l.loc)
	created, err := l.add(ctx, trackerID, day)
	if err != nil {
		return err
	}
	if created {
		l.interaction(ctx, t.ID, t.Title, true, day, l.Count(ctx, trackerID))
	}
	return nil
}

func (l *Ledger) add(ctx context.Context, trackerID string, day time.Time) (bool, error) {
	rec := &Record{
		ID:        uuid.NewString(),
		TrackerID: trackerID,
		Date:      day,
		CreatedAt: l.clock.Now(),
	}
	created, err := l.repo.Add(ctx, rec)
	if err != nil {
		return false, persistence("add completion", err)
	}
	if created {
		l.logger.Debug("completion added", "tracker_id", trackerID, "day", calendar.FormatDay(day))
	}
	return created, nil
}

// Remove deletes the completion on the day date falls on, if any.
func (l *Ledger) Remove(ctx context.Context, trackerID string, date time.Time) error {
	if strings.TrimSpace(trackerID) == "" || date.IsZero() {
		return ErrInvalidInput
	}
	day := calendar.Day(date, l.loc)
	removed, err := l.repo.Delete(ctx, trackerID, day)
	if err != nil {
		return persistence("remove completion", err)
	}
	if !removed {
		return nil
	}
	l.logger.Debug("completion removed", "tracker_id", trackerID, "day", calendar.FormatDay(day))

	var title string
	if t, err := l.trackers.Get(ctx, trackerID); err == nil {
		title = t.Title
	}
	l.interaction(ctx, trackerID, title, false, day, l.Count(ctx, trackerID))
	return nil
}

// Toggle flips the completion state for the day date falls on.
func (l *Ledger) Toggle(ctx context.Context, trackerID string, date time.Time) (*ToggleResult, error) {
	t, err := l.lookup(ctx, trackerID, date)
	if err != nil {
		return nil, err
	}
	day := calendar.Day(date, l.loc)

	done, err := l.repo.Exists(ctx, trackerID, day)
	if err != nil {
		return nil, persistence("check completion", err)
	}
	if done {
		if _, err := l.repo.Delete(ctx, trackerID, day); err != nil {
			return nil, persistence("remove completion", err)
		}
	} else if _, err := l.add(ctx, trackerID, day); err != nil {
		return nil, err
	}

	count, err := l.repo.CountForTracker(ctx, trackerID)
	if err != nil {
		return nil, persistence("count completions", err)
	}

	l.interaction(ctx, t.ID, t.Title, !done, day, count)

	return &ToggleResult{
		TrackerID:     trackerID,
		Date:          day,
		Completed:     !done,
		DaysCompleted: count,
	}, nil
}

// IsCompleted reports whether a completion exists on the day date falls on.
func (l *Ledger) IsCompleted(ctx context.Context, trackerID string, date time.Time) bool {
	ok, err := l.repo.Exists(ctx, trackerID, calendar.Day(date, l.loc))
	if err != nil {
		l.degradedRead("is_completed", err, "tracker_id", trackerID)
		return false
	}
	return ok
}

// Count returns how many days the tracker has been completed.
func (l *Ledger) Count(ctx context.Context, trackerID string) int {
	n, err := l.repo.CountForTracker(ctx, trackerID)
	if err != nil {
		l.degradedRead("count", err, "tracker_id", trackerID)
		return 0
	}
	return n
}

// All returns the full ledger.
func (l *Ledger) All(ctx context.Context) []Record {
	records, err := l.repo.List(ctx)
	if err != nil {
		l.degradedRead("all", err)
		return nil
	}
	return records
}

// DeleteAllForTracker removes every completion of a tracker.
func (l *Ledger) DeleteAllForTracker(ctx context.Context, trackerID string) error {
	if err := l.repo.DeleteAllForTracker(ctx, trackerID); err != nil {
		return persistence("delete tracker completions", err)
	}
	return nil
}

// DegradedReads returns how many reads fell back to an empty result.
func (l *Ledger) DegradedReads() int64 {
	return l.degraded.Load()
}

func (l *Ledger) lookup(ctx context.Context, trackerID string, date time.Time) (*tracker.Tracker, error) {
	if strings.TrimSpace(trackerID) == "" || date.IsZero() {
		return nil, ErrInvalidInput
	}
	t, err := l.trackers.Get(ctx, trackerID)
	if err != nil {
		if errors.Is(err, tracker.ErrTrackerNotFound) || errors.Is(err, repository.ErrNotFound) {
			return nil, tracker.ErrTrackerNotFound
		}
		return nil, fmt.Errorf("looking up tracker: %w", err)
	}
	return t, nil
}

func (l *Ledger) interaction(ctx context.Context, trackerID, title string, completed bool, day time.Time, count int) {
	if l.events != nil {
		l.events.TrackerInteraction(ctx, trackerID, title, completed, day, count)
	}
}

func (l *Ledger) degradedRead(op string, err error, attrs ...any) {
	l.degraded.Add(1)
	args := append([]any{"op", op, "degraded", true, "error", err}, attrs...)
	l.logger.Warn("completion read failed, returning empty result", args...)
}

func persistence(op string, err error) error {
	var pe *repository.PersistenceError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &repository.PersistenceError{Op: op, Err: err}
}
