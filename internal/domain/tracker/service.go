package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/streaks/internal/calendar"
	"github.com/rpggio/streaks/internal/repository"
)

// Service handles tracker operations.
type Service struct {
	repo       Repository
	categories CategoryChecker
	records    RecordCleaner
	events     EventRecorder
	clock      calendar.Clock
	logger     *slog.Logger
}

// NewService creates a new tracker service. events may be nil.
func NewService(repo Repository, categories CategoryChecker, records RecordCleaner, events EventRecorder, clock calendar.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = calendar.RealClock{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		repo:       repo,
		categories: categories,
		records:    records,
		events:     events,
		clock:      clock,
		logger:     logger,
	}
}

// CreateRequest defines tracker creation inputs.
type CreateRequest struct {
	ID         string
	CategoryID string
	Title      string
	Color      string
	Emoji      string
	Schedule   Schedule
}

// UpdateRequest describes an in-place edit. Nil fields are left unchanged;
// a non-nil empty Schedule turns the tracker into an irregular event.
type UpdateRequest struct {
	ID         string
	CategoryID *string
	Title      *string
	Color      *string
	Emoji      *string
	Schedule   *Schedule
}

// Create validates and stores a new tracker in an existing category.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Tracker, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	t := &Tracker{
		ID:         id,
		CategoryID: req.CategoryID,
		Title:      strings.TrimSpace(req.Title),
		Color:      strings.TrimSpace(req.Color),
		Emoji:      strings.TrimSpace(req.Emoji),
		Schedule:   req.Schedule.Normalized(),
		CreatedAt:  s.clock.Now(),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("creating tracker: %w", err)
	}

	s.logger.Info("tracker created", "tracker_id", t.ID, "category_id", t.CategoryID, "irregular", t.IsIrregular())
	if s.events != nil {
		s.events.TrackerCreated(ctx, t.ID, t.Title, t.CategoryID, !t.IsIrregular())
	}

	return t, nil
}

// Get fetches a tracker by ID.
func (s *Service) Get(ctx context.Context, id string) (*Tracker, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrackerNotFound
		}
		return nil, fmt.Errorf("getting tracker: %w", err)
	}
	return t, nil
}

// List returns all trackers ordered by title.
func (s *Service) List(ctx context.Context) ([]Tracker, error) {
	trackers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing trackers: %w", err)
	}
	return trackers, nil
}

// Update edits a tracker in place. The ID never changes.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Tracker, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.CategoryID != nil {
		updated.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.Color != nil {
		updated.Color = strings.TrimSpace(*req.Color)
	}
	if req.Emoji != nil {
		updated.Emoji = strings.TrimSpace(*req.Emoji)
	}
	if req.Schedule != nil {
		updated.Schedule = *req.Schedule
	}

	if err := ValidateTracker(updated); err != nil {
		return nil, err
	}
	updated.Schedule = updated.Schedule.Normalized()

	if updated.CategoryID != current.CategoryID {
		if err := s.ensureCategory(ctx, updated.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrackerNotFound
		}
		return nil, fmt.Errorf("updating tracker: %w", err)
	}

	return &updated, nil
}

// Delete removes a tracker and its completion history. The repository drops
// records with the tracker; the cleaner sweeps any it left behind.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrackerNotFound
		}
		return fmt.Errorf("deleting tracker: %w", err)
	}
	s.logger.Info("tracker deleted", "tracker_id", id)

	if s.records != nil {
		if err := s.records.DeleteAllForTracker(ctx, id); err != nil {
			s.logger.Warn("completion cleanup failed", "tracker_id", id, "error", err)
		}
	}
	return nil
}

// SetPinned pins or unpins a tracker.
func (s *Service) SetPinned(ctx context.Context, id string, pinned bool) (*Tracker, error) {
	if err := s.repo.SetPinned(ctx, id, pinned); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrackerNotFound
		}
		return nil, fmt.Errorf("pinning tracker: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) ensureCategory(ctx context.Context, categoryID string) error {
	ok, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("checking category: %w", err)
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}
