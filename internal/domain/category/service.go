package category

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/streaks/internal/repository"
)

// MaxTitleLength bounds category titles.
const MaxTitleLength = 64

// Service handles category operations.
type Service struct {
	repo     Repository
	trackers TrackerLister
	logger   *slog.Logger
}

// NewService creates a new category service.
func NewService(repo Repository, trackers TrackerLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, trackers: trackers, logger: logger}
}

// CreateRequest defines category creation inputs.
type CreateRequest struct {
	ID    string
	Title string
}

// Create stores a new category. Titles are unique.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Category, error) {
	if err := Validate.Struct(createInput{Title: strings.TrimSpace(req.Title)}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	c := &Category{
		ID:        id,
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, s.conflict(ctx, c.Title)
		}
		return nil, fmt.Errorf("creating category: %w", err)
	}

	s.logger.Info("category created", "category_id", c.ID)
	return c, nil
}

// conflict tells a taken title apart from a taken ID.
func (s *Service) conflict(ctx context.Context, title string) error {
	if _, err := s.repo.GetByTitle(ctx, title); err == nil {
		return ErrDuplicateTitle
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("creating category: %w", err)
	}
	return ErrAlreadyExists
}

// Get fetches a category by ID.
func (s *Service) Get(ctx context.Context, id string) (*Category, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// List returns all categories ordered by title.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return list, nil
}

// Exists reports whether a category is stored.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Delete removes an empty category. Categories that still own trackers
// are rejected with ErrCategoryNotEmpty.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	n, err := s.repo.CountTrackers(ctx, id)
	if err != nil {
		return fmt.Errorf("counting category trackers: %w", err)
	}
	if n > 0 {
		return ErrCategoryNotEmpty
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return ErrCategoryNotEmpty
		}
		return fmt.Errorf("deleting category: %w", err)
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}

// Select marks id as the only selected category.
func (s *Service) Select(ctx context.Context, id string) (*Category, error) {
	if err := s.repo.SetSelected(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("selecting category: %w", err)
	}
	return s.Get(ctx, id)
}

// Selected returns the selected category, or nil when none is selected.
func (s *Service) Selected(ctx context.Context) (*Category, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].IsSelected {
			return &list[i], nil
		}
	}
	return nil, nil
}

// EnsureDefault returns the category titled title, creating it if needed.
func (s *Service) EnsureDefault(ctx context.Context, title string) (*Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	c, err := s.repo.GetByTitle(ctx, title)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("getting default category: %w", err)
	}

	c, err = s.Create(ctx, CreateRequest{Title: title})
	if errors.Is(err, ErrDuplicateTitle) {
		// Lost a race with a concurrent creator.
		return s.repo.GetByTitle(ctx, title)
	}
	return c, err
}

// ListWithTrackers returns every category with its trackers, both sorted by
// title. Empty categories are included.
func (s *Service) ListWithTrackers(ctx context.Context) ([]WithTrackers, error) {
	cats, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	trackers, err := s.trackers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing trackers: %w", err)
	}

	out := make([]WithTrackers, len(cats))
	index := make(map[string]int, len(cats))
	for i, c := range cats {
		out[i] = WithTrackers{Category: c}
		index[c.ID] = i
	}
	for _, t := range trackers {
		i, ok := index[t.CategoryID]
		if !ok {
			s.logger.Warn("tracker references unknown category", "tracker_id", t.ID, "category_id", t.CategoryID)
			continue
		}
		out[i].Trackers = append(out[i].Trackers, t)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	for i := range out {
		sort.SliceStable(out[i].Trackers, func(a, b int) bool {
			return out[i].Trackers[a].Title < out[i].Trackers[b].Title
		})
	}
	return out, nil
}
