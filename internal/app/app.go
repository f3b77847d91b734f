// Package app wires repositories and domain services around one database.
package app

import (
	"io"
	"log/slog"
	"time"

	"github.com/rpggio/streaks/internal/calendar"
	"github.com/rpggio/streaks/internal/domain/activity"
	"github.com/rpggio/streaks/internal/domain/category"
	"github.com/rpggio/streaks/internal/domain/completion"
	"github.com/rpggio/streaks/internal/domain/filter"
	"github.com/rpggio/streaks/internal/domain/stats"
	"github.com/rpggio/streaks/internal/domain/tracker"
	"github.com/rpggio/streaks/internal/mcp"
	"github.com/rpggio/streaks/internal/sqlite"
)

// Options configures New.
type Options struct {
	Location        *time.Location
	Clock           calendar.Clock
	DefaultCategory string
	// Publisher receives every activity entry after it is stored. Optional.
	Publisher activity.Publisher
	Logger    *slog.Logger
}

// App holds the wired services.
type App struct {
	DB         *sqlite.DB
	APIKeys    *sqlite.APIKeyRepository
	Trackers   *tracker.Service
	Categories *category.Service
	Ledger     *completion.Ledger
	Board      *filter.Engine
	Stats      *stats.Service
	Activity   *activity.Service
	Handler    *mcp.Handler
}

// New builds every service on top of db.
func New(db *sqlite.DB, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	clock := opts.Clock
	if clock == nil {
		clock = calendar.RealClock{}
	}

	trackerRepo := sqlite.NewTrackerRepository(db)
	categoryRepo := sqlite.NewCategoryRepository(db)
	completionRepo := sqlite.NewCompletionRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	activitySvc := activity.NewService(activityRepo, opts.Publisher, clock, logger)
	ledger := completion.NewLedger(completionRepo, trackerRepo, activitySvc, loc, clock, logger)
	categorySvc := category.NewService(categoryRepo, trackerRepo, logger)
	trackerSvc := tracker.NewService(trackerRepo, categoryRepo, ledger, activitySvc, clock, logger)
	board := filter.NewEngine(ledger, clock, loc)
	statsSvc := stats.NewService(ledger, trackerRepo, logger)

	handler := mcp.NewHandler(mcp.Services{
		Trackers:   trackerSvc,
		Categories: categorySvc,
		Ledger:     ledger,
		Board:      board,
		Stats:      statsSvc,
		Activity:   activitySvc,
	}, mcp.HandlerOptions{
		Location:        loc,
		Clock:           clock,
		DefaultCategory: opts.DefaultCategory,
	})

	return &App{
		DB:         db,
		APIKeys:    sqlite.NewAPIKeyRepository(db),
		Trackers:   trackerSvc,
		Categories: categorySvc,
		Ledger:     ledger,
		Board:      board,
		Stats:      statsSvc,
		Activity:   activitySvc,
		Handler:    handler,
	}
}
