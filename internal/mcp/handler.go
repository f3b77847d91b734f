package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/streaks/internal/calendar"
	"github.com/rpggio/streaks/internal/domain/activity"
	"github.com/rpggio/streaks/internal/domain/category"
	"github.com/rpggio/streaks/internal/domain/completion"
	"github.com/rpggio/streaks/internal/domain/filter"
	"github.com/rpggio/streaks/internal/domain/stats"
	"github.com/rpggio/streaks/internal/domain/tracker"
)

// TrackerService defines tracker operations needed by MCP.
type TrackerService interface {
	Create(ctx context.Context, req tracker.CreateRequest) (*tracker.Tracker, error)
	Get(ctx context.Context, id string) (*tracker.Tracker, error)
	List(ctx context.Context) ([]tracker.Tracker, error)
	Update(ctx context.Context, req tracker.UpdateRequest) (*tracker.Tracker, error)
	Delete(ctx context.Context, id string) error
	SetPinned(ctx context.Context, id string, pinned bool) (*tracker.Tracker, error)
}

// CategoryService defines category operations needed by MCP.
type CategoryService interface {
	Create(ctx context.Context, req category.CreateRequest) (*category.Category, error)
	List(ctx context.Context) ([]category.Category, error)
	Delete(ctx context.Context, id string) error
	Select(ctx context.Context, id string) (*category.Category, error)
	Selected(ctx context.Context) (*category.Category, error)
	EnsureDefault(ctx context.Context, title string) (*category.Category, error)
	ListWithTrackers(ctx context.Context) ([]category.WithTrackers, error)
}

// CompletionLedger defines completion operations needed by MCP.
type CompletionLedger interface {
	Add(ctx context.Context, trackerID string, date time.Time) error
	Remove(ctx context.Context, trackerID string, date time.Time) error
	Toggle(ctx context.Context, trackerID string, date time.Time) (*completion.ToggleResult, error)
	IsCompleted(ctx context.Context, trackerID string, date time.Time) bool
	Count(ctx context.Context, trackerID string) int
	DegradedReads() int64
}

// BoardEngine projects categories for the main screen.
type BoardEngine interface {
	ReferenceDate(q filter.Query) time.Time
	VisibleCategories(ctx context.Context, all []category.WithTrackers, q filter.Query) []category.WithTrackers
}

// StatsService defines statistics operations needed by MCP.
type StatsService interface {
	Summary(ctx context.Context) (stats.Summary, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
	Search(ctx context.Context, query string, results int)
	DateChanged(ctx context.Context, day, today time.Time)
	ScreenEvent(ctx context.Context, action activity.ScreenAction, screen, item string)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Trackers   TrackerService
	Categories CategoryService
	Ledger     CompletionLedger
	Board      BoardEngine
	Stats      StatsService
	Activity   ActivityService
}

// HandlerOptions configures date handling and defaults.
type HandlerOptions struct {
	Location *time.Location
	Clock    calendar.Clock
	// DefaultCategory is created on demand when a tracker names no category
	// and none is selected.
	DefaultCategory string
}

// Handler dispatches MCP commands.
type Handler struct {
	svc             Services
	loc             *time.Location
	clock           calendar.Clock
	defaultCategory string
}

// NewHandler creates a new MCP handler.
func NewHandler(svc Services, opts HandlerOptions) *Handler {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	clock := opts.Clock
	if clock == nil {
		clock = calendar.RealClock{}
	}
	def := strings.TrimSpace(opts.DefaultCategory)
	if def == "" {
		def = "My trackers"
	}
	return &Handler{svc: svc, loc: loc, clock: clock, defaultCategory: def}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error) {
	if sessionID != "" {
		ctx = activity.WithSessionID(ctx, sessionID)
	}
	result, err := h.dispatch(ctx, method, params)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (h *Handler) dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_category":
		var req CreateCategoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Categories.Create(ctx, category.CreateRequest{ID: req.ID, Title: req.Title})
	case "list_categories":
		var req ListCategoriesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.listCategories(ctx, req.IncludeTrackers)
	case "delete_category":
		var req CategoryIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Categories.Delete(ctx, req.ID); err != nil {
			return nil, err
		}
		return DeleteResponse{ID: req.ID, Deleted: true}, nil
	case "select_category":
		var req CategoryIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Categories.Select(ctx, req.ID)
	case "get_selected_category":
		return h.svc.Categories.Selected(ctx)
	case "create_tracker":
		var req CreateTrackerParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.createTracker(ctx, req)
	case "update_tracker":
		var req UpdateTrackerParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Trackers.Update(ctx, tracker.UpdateRequest{
			ID:         req.ID,
			CategoryID: req.CategoryID,
			Title:      req.Title,
			Color:      req.Color,
			Emoji:      req.Emoji,
			Schedule:   req.Schedule,
		})
	case "delete_tracker":
		var req TrackerIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Trackers.Delete(ctx, req.ID); err != nil {
			return nil, err
		}
		return DeleteResponse{ID: req.ID, Deleted: true}, nil
	case "pin_tracker":
		var req PinTrackerParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		pinned := true
		if req.Pinned != nil {
			pinned = *req.Pinned
		}
		return h.svc.Trackers.SetPinned(ctx, req.ID, pinned)
	case "get_tracker":
		var req GetTrackerParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		date, err := h.parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		t, err := h.svc.Trackers.Get(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		resp := h.trackerResponse(ctx, *t)
		completed := h.svc.Ledger.IsCompleted(ctx, t.ID, date)
		resp.Completed = &completed
		return resp, nil
	case "list_trackers":
		trackers, err := h.svc.Trackers.List(ctx)
		if err != nil {
			return nil, err
		}
		resp := make([]TrackerResponse, 0, len(trackers))
		for _, t := range trackers {
			resp = append(resp, h.trackerResponse(ctx, t))
		}
		return resp, nil
	case "complete_tracker", "uncomplete_tracker", "get_completion":
		var req CompletionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		date, err := h.parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		switch method {
		case "complete_tracker":
			err = h.svc.Ledger.Add(ctx, req.TrackerID, date)
		case "uncomplete_tracker":
			err = h.svc.Ledger.Remove(ctx, req.TrackerID, date)
		}
		if err != nil {
			return nil, err
		}
		return h.completionResponse(ctx, req.TrackerID, date), nil
	case "toggle_completion":
		var req CompletionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		date, err := h.parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		res, err := h.svc.Ledger.Toggle(ctx, req.TrackerID, date)
		if err != nil {
			return nil, err
		}
		return CompletionResponse{
			TrackerID:     res.TrackerID,
			Date:          calendar.FormatDay(res.Date),
			Completed:     res.Completed,
			DaysCompleted: res.DaysCompleted,
		}, nil
	case "get_board":
		var req GetBoardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.board(ctx, req)
	case "get_statistics":
		summary, err := h.svc.Stats.Summary(ctx)
		if err != nil {
			return nil, err
		}
		return StatisticsResponse{
			Summary:       summary,
			Empty:         summary.IsEmpty(),
			DegradedReads: h.svc.Ledger.DegradedReads(),
		}, nil
	case "track_screen_event":
		var req TrackScreenEventParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		action := activity.ScreenAction(strings.ToLower(strings.TrimSpace(req.Action)))
		if !action.Valid() {
			return nil, fmt.Errorf("%w: unknown screen action %q", ErrInvalidParams, req.Action)
		}
		if strings.TrimSpace(req.Screen) == "" {
			return nil, fmt.Errorf("%w: screen is required", ErrInvalidParams)
		}
		h.svc.Activity.ScreenEvent(ctx, action, req.Screen, req.Item)
		return ScreenEventResponse{Recorded: true}, nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entries, err := h.svc.Activity.GetRecentActivity(ctx, activity.ListOptions{
			TrackerID: req.TrackerID,
			SessionID: req.SessionID,
			Type:      req.Type,
			Since:     req.Since,
			Limit:     req.Limit,
			Offset:    req.Offset,
		})
		if err != nil {
			return nil, err
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.Type,
				SessionID: stringValue(entry.SessionID),
				TrackerID: stringValue(entry.TrackerID),
				Summary:   entry.Summary,
				Details:   entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func (h *Handler) listCategories(ctx context.Context, includeTrackers bool) ([]CategoryResponse, error) {
	if !includeTrackers {
		cats, err := h.svc.Categories.List(ctx)
		if err != nil {
			return nil, err
		}
		resp := make([]CategoryResponse, 0, len(cats))
		for _, c := range cats {
			resp = append(resp, CategoryResponse{Category: c})
		}
		return resp, nil
	}
	groups, err := h.svc.Categories.ListWithTrackers(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]CategoryResponse, 0, len(groups))
	for _, g := range groups {
		item := CategoryResponse{Category: g.Category, Trackers: make([]TrackerResponse, 0, len(g.Trackers))}
		for _, t := range g.Trackers {
			item.Trackers = append(item.Trackers, h.trackerResponse(ctx, t))
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (h *Handler) createTracker(ctx context.Context, req CreateTrackerParams) (*tracker.Tracker, error) {
	categoryID := strings.TrimSpace(req.CategoryID)
	if categoryID == "" {
		cat, err := h.targetCategory(ctx)
		if err != nil {
			return nil, err
		}
		categoryID = cat.ID
	}
	return h.svc.Trackers.Create(ctx, tracker.CreateRequest{
		ID:         req.ID,
		CategoryID: categoryID,
		Title:      req.Title,
		Color:      req.Color,
		Emoji:      req.Emoji,
		Schedule:   req.Schedule,
	})
}

// targetCategory is the selected category, else the default one.
func (h *Handler) targetCategory(ctx context.Context) (*category.Category, error) {
	selected, err := h.svc.Categories.Selected(ctx)
	if err != nil {
		return nil, err
	}
	if selected != nil {
		return selected, nil
	}
	return h.svc.Categories.EnsureDefault(ctx, h.defaultCategory)
}

func (h *Handler) board(ctx context.Context, req GetBoardParams) (BoardResponse, error) {
	typ, err := filter.ParseType(req.Filter)
	if err != nil {
		return BoardResponse{}, err
	}
	var date time.Time
	if strings.TrimSpace(req.Date) != "" {
		if date, err = h.parseDate(req.Date); err != nil {
			return BoardResponse{}, err
		}
	}
	q := filter.Query{Date: date, Filter: typ, Search: req.Search, GroupPinned: req.GroupPinned}

	all, err := h.svc.Categories.ListWithTrackers(ctx)
	if err != nil {
		return BoardResponse{}, err
	}
	visible := h.svc.Board.VisibleCategories(ctx, all, q)
	ref := h.svc.Board.ReferenceDate(q)

	resp := BoardResponse{
		Date:       calendar.FormatDay(calendar.Day(ref, h.loc)),
		Filter:     string(typ),
		Search:     req.Search,
		Categories: make([]BoardCategoryResponse, 0, len(visible)),
	}
	shown := 0
	for _, group := range visible {
		item := BoardCategoryResponse{
			ID:       group.ID,
			Title:    group.Title,
			Trackers: make([]BoardTrackerResponse, 0, len(group.Trackers)),
		}
		for _, t := range group.Trackers {
			item.Trackers = append(item.Trackers, BoardTrackerResponse{
				Tracker:       t,
				Completed:     h.svc.Ledger.IsCompleted(ctx, t.ID, ref),
				DaysCompleted: h.svc.Ledger.Count(ctx, t.ID),
			})
		}
		shown += len(group.Trackers)
		resp.Categories = append(resp.Categories, item)
	}
	resp.Empty = shown == 0

	if strings.TrimSpace(req.Search) != "" {
		h.svc.Activity.Search(ctx, req.Search, shown)
	}
	if !date.IsZero() && !calendar.SameDay(date, h.clock.Now(), h.loc) {
		h.svc.Activity.DateChanged(ctx, calendar.Day(date, h.loc), calendar.Today(h.clock, h.loc))
	}
	return resp, nil
}

func (h *Handler) trackerResponse(ctx context.Context, t tracker.Tracker) TrackerResponse {
	return TrackerResponse{
		Tracker:       t,
		Irregular:     t.IsIrregular(),
		DaysCompleted: h.svc.Ledger.Count(ctx, t.ID),
	}
}

func (h *Handler) completionResponse(ctx context.Context, trackerID string, date time.Time) CompletionResponse {
	return CompletionResponse{
		TrackerID:     trackerID,
		Date:          calendar.FormatDay(calendar.Day(date, h.loc)),
		Completed:     h.svc.Ledger.IsCompleted(ctx, trackerID, date),
		DaysCompleted: h.svc.Ledger.Count(ctx, trackerID),
	}
}

// parseDate resolves an optional date argument. Empty means now.
func (h *Handler) parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return h.clock.Now(), nil
	}
	t, err := calendar.ParseDate(s, h.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return t, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

func stringValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
