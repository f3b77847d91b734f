package filter

import (
	"context"
	"strings"
	"time"

	"github.com/rpggio/streaks/internal/calendar"
	"github.com/rpggio/streaks/internal/domain/category"
	"github.com/rpggio/streaks/internal/domain/tracker"
)

// CompletionChecker answers per-day completion lookups.
type CompletionChecker interface {
	IsCompleted(ctx context.Context, trackerID string, date time.Time) bool
}

// Engine projects categories to the visible set for a date, filter and search.
// It never mutates its input.
type Engine struct {
	completions CompletionChecker
	clock       calendar.Clock
	loc         *time.Location
}

// NewEngine creates a filter engine evaluating days in loc.
func NewEngine(completions CompletionChecker, clock calendar.Clock, loc *time.Location) *Engine {
	if clock == nil {
		clock = calendar.RealClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Engine{completions: completions, clock: clock, loc: loc}
}

// ReferenceDate returns the date the pipeline evaluates q against.
func (e *Engine) ReferenceDate(q Query) time.Time {
	if q.Filter == Today || q.Date.IsZero() {
		return e.clock.Now()
	}
	return q.Date
}

// VisibleCategories runs the recurrence, type and search steps in that order,
// dropping categories left empty after each one. Input order is preserved.
func (e *Engine) VisibleCategories(ctx context.Context, all []category.WithTrackers, q Query) []category.WithTrackers {
	date := e.ReferenceDate(q)

	out := keep(all, func(t tracker.Tracker) bool {
		return tracker.IsDue(t, date, e.loc)
	})

	switch q.Filter {
	case Today:
		now := e.clock.Now()
		out = keep(out, func(t tracker.Tracker) bool {
			return tracker.IsDue(t, now, e.loc)
		})
	case Completed:
		out = keep(out, func(t tracker.Tracker) bool {
			return e.completions.IsCompleted(ctx, t.ID, date)
		})
	case NotCompleted:
		out = keep(out, func(t tracker.Tracker) bool {
			return !e.completions.IsCompleted(ctx, t.ID, date)
		})
	}

	if needle := strings.ToLower(strings.TrimSpace(q.Search)); needle != "" {
		out = keep(out, func(t tracker.Tracker) bool {
			return strings.Contains(strings.ToLower(t.Title), needle)
		})
	}

	if q.GroupPinned {
		out = groupPinned(out)
	}
	return out
}

func keep(in []category.WithTrackers, pred func(tracker.Tracker) bool) []category.WithTrackers {
	out := make([]category.WithTrackers, 0, len(in))
	for _, c := range in {
		var trackers []tracker.Tracker
		for _, t := range c.Trackers {
			if pred(t) {
				trackers = append(trackers, t)
			}
		}
		if len(trackers) == 0 {
			continue
		}
		out = append(out, category.WithTrackers{Category: c.Category, Trackers: trackers})
	}
	return out
}

// groupPinned moves pinned trackers into a leading group.
func groupPinned(in []category.WithTrackers) []category.WithTrackers {
	var pinned []tracker.Tracker
	for _, c := range in {
		for _, t := range c.Trackers {
			if t.Pinned {
				pinned = append(pinned, t)
			}
		}
	}
	if len(pinned) == 0 {
		return in
	}

	rest := keep(in, func(t tracker.Tracker) bool { return !t.Pinned })
	head := category.WithTrackers{
		Category: category.Category{ID: PinnedCategoryID, Title: PinnedCategoryTitle},
		Trackers: pinned,
	}
	return append([]category.WithTrackers{head}, rest...)
}
