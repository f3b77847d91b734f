package stats

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rpggio/streaks/internal/domain/completion"
	"github.com/rpggio/streaks/internal/domain/tracker"
)

// RecordSource supplies the full completion history.
type RecordSource interface {
	All(ctx context.Context) []completion.Record
}

// TrackerLister supplies every tracker.
type TrackerLister interface {
	List(ctx context.Context) ([]tracker.Tracker, error)
}

// Service loads history and runs the calculator.
type Service struct {
	records  RecordSource
	trackers TrackerLister
	logger   *slog.Logger
}

// NewService creates a statistics service.
func NewService(records RecordSource, trackers TrackerLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{records: records, trackers: trackers, logger: logger}
}

// Summary computes statistics over the whole ledger.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	trackers, err := s.trackers.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("listing trackers: %w", err)
	}
	records := s.records.All(ctx)

	summary := Calculate(GroupByDay(records), trackers)
	s.logger.Debug("statistics calculated",
		"records", len(records),
		"trackers", len(trackers),
		"best_streak", summary.BestStreak,
	)
	return summary, nil
}
