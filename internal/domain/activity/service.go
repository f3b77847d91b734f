package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rpggio/streaks/internal/calendar"
)

const (
	// DefaultTimeout bounds how long an event may spend in each sink.
	DefaultTimeout = 2 * time.Second
	// DefaultQueueSize is how many entries may wait for the publisher.
	DefaultQueueSize = 256
)

// Service records analytics events. The event methods are fire-and-forget:
// sink failures are logged and never returned to the caller. Entries are
// stored inline, then queued for the publisher and drained by one worker.
type Service struct {
	repo      Repository
	publisher Publisher
	clock     calendar.Clock
	timeout   time.Duration
	logger    *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Entry
	done   chan struct{}
}

// NewService creates a new activity service. publisher may be nil; when set,
// Close must be called to flush pending entries.
func NewService(repo Repository, publisher Publisher, clock calendar.Clock, logger *slog.Logger) *Service {
	return NewServiceWithQueue(repo, publisher, clock, logger, DefaultQueueSize)
}

// NewServiceWithQueue is NewService with an explicit publish queue size.
func NewServiceWithQueue(repo Repository, publisher Publisher, clock calendar.Clock, logger *slog.Logger, queueSize int) *Service {
	if clock == nil {
		clock = calendar.RealClock{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if queueSize < 1 {
		queueSize = 1
	}
	s := &Service{
		repo:      repo,
		publisher: publisher,
		clock:     clock,
		timeout:   DefaultTimeout,
		logger:    logger,
	}
	if publisher != nil {
		s.queue = make(chan Entry, queueSize)
		s.done = make(chan struct{})
		go s.publishLoop()
	}
	return s
}

// Close stops accepting entries for the publisher and waits until the queue
// is drained or ctx is done.
func (s *Service) Close(ctx context.Context) error {
	if s.queue == nil {
		return nil
	}
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining activity queue: %w", ctx.Err())
	}
}

func (s *Service) publishLoop() {
	defer close(s.done)
	for entry := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		if err := s.publisher.Publish(ctx, entry); err != nil {
			s.logger.Warn("activity publish failed", "type", entry.Type, "error", err)
		}
		cancel()
	}
}

// enqueue never blocks; entries are dropped when the queue is full or closed.
func (s *Service) enqueue(entry Entry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.logger.Warn("activity publish dropped", "type", entry.Type, "reason", "closed")
		return
	}
	select {
	case s.queue <- entry:
	default:
		s.logger.Warn("activity publish dropped", "type", entry.Type, "reason", "queue full")
	}
}

// LogActivity stores an entry with the current timestamp if missing and
// queues it for the publisher.
func (s *Service) LogActivity(ctx context.Context, entry *Entry) error {
	if entry == nil || entry.Type == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.clock.Now()
	}
	if entry.SessionID == nil {
		if sid := SessionID(ctx); sid != "" {
			entry.SessionID = &sid
		}
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	if s.queue != nil {
		s.enqueue(*entry)
	}
	return nil
}

// GetRecentActivity lists activity entries with filtering.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListOptions) ([]Entry, error) {
	return s.repo.List(ctx, opts)
}

// TrackerCreated records a tracker creation.
func (s *Service) TrackerCreated(ctx context.Context, trackerID, title, categoryID string, hasSchedule bool) {
	s.emit(ctx, TypeTrackerCreated, &trackerID, "tracker created: "+title, map[string]any{
		"tracker_id":   trackerID,
		"title":        title,
		"category_id":  categoryID,
		"has_schedule": hasSchedule,
	})
}

// TrackerInteraction records a completion being added or removed.
// completedDays is the tracker's completion count afterwards.
func (s *Service) TrackerInteraction(ctx context.Context, trackerID, title string, completed bool, day time.Time, completedDays int) {
	summary := "tracker uncompleted: " + title
	if completed {
		summary = "tracker completed: " + title
	}
	s.emit(ctx, TypeTrackerInteraction, &trackerID, summary, map[string]any{
		"tracker_title":        title,
		"completed":            completed,
		"date":                 calendar.FormatDay(day),
		"completed_days_count": completedDays,
	})
}

// Search records a search query.
func (s *Service) Search(ctx context.Context, query string, results int) {
	s.emit(ctx, TypeTrackerSearch, nil, "search: "+query, map[string]any{
		"query":        query,
		"query_length": utf8.RuneCountInString(query),
		"results":      results,
	})
}

// DateChanged records the user picking another date. Both arguments are
// calendar days.
func (s *Service) DateChanged(ctx context.Context, day, today time.Time) {
	wd := day.Weekday()
	s.emit(ctx, TypeDateChanged, nil, "date changed: "+calendar.FormatDay(day), map[string]any{
		"date":       calendar.FormatDay(day),
		"weekday":    strings.ToLower(wd.String()[:3]),
		"is_today":   day.Equal(today),
		"is_weekend": wd == time.Saturday || wd == time.Sunday,
	})
}

// ScreenEvent records a screen open, close, or button click.
func (s *Service) ScreenEvent(ctx context.Context, action ScreenAction, screen, item string) {
	details := map[string]any{
		"action": string(action),
		"screen": screen,
	}
	if item != "" {
		details["item"] = item
	}
	s.emit(ctx, TypeScreenEvent, nil, fmt.Sprintf("%s %s", action, screen), details)
}

func (s *Service) emit(ctx context.Context, typ EventType, trackerID *string, summary string, details map[string]any) {
	raw, err := json.Marshal(details)
	if err != nil {
		s.logger.Warn("encoding activity details", "type", typ, "error", err)
		raw = []byte("{}")
	}

	// Events outlive the request that triggered them.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	entry := &Entry{
		Type:      typ,
		TrackerID: trackerID,
		Summary:   summary,
		Details:   string(raw),
	}
	if err := s.LogActivity(ctx, entry); err != nil {
		s.logger.Warn("activity event dropped", "type", typ, "error", err)
	}
}
