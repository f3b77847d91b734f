package mcp

import (
	"time"

	"github.com/rpggio/streaks/internal/domain/activity"
	"github.com/rpggio/streaks/internal/domain/category"
	"github.com/rpggio/streaks/internal/domain/stats"
	"github.com/rpggio/streaks/internal/domain/tracker"
)

type CreateCategoryParams struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
}

type ListCategoriesParams struct {
	IncludeTrackers bool `json:"include_trackers,omitempty"`
}

type CategoryIDParams struct {
	ID string `json:"id"`
}

type CreateTrackerParams struct {
	ID         string           `json:"id,omitempty"`
	CategoryID string           `json:"category_id,omitempty"`
	Title      string           `json:"title"`
	Color      string           `json:"color"`
	Emoji      string           `json:"emoji"`
	Schedule   tracker.Schedule `json:"schedule,omitempty"`
}

type UpdateTrackerParams struct {
	ID         string            `json:"id"`
	CategoryID *string           `json:"category_id,omitempty"`
	Title      *string           `json:"title,omitempty"`
	Color      *string           `json:"color,omitempty"`
	Emoji      *string           `json:"emoji,omitempty"`
	Schedule   *tracker.Schedule `json:"schedule,omitempty"`
}

type TrackerIDParams struct {
	ID string `json:"id"`
}

type GetTrackerParams struct {
	ID   string `json:"id"`
	Date string `json:"date,omitempty"`
}

type PinTrackerParams struct {
	ID     string `json:"id"`
	Pinned *bool  `json:"pinned,omitempty"`
}

type CompletionParams struct {
	TrackerID string `json:"tracker_id"`
	Date      string `json:"date,omitempty"`
}

type GetBoardParams struct {
	Date        string `json:"date,omitempty"`
	Filter      string `json:"filter,omitempty"`
	Search      string `json:"search,omitempty"`
	GroupPinned bool   `json:"group_pinned,omitempty"`
}

type TrackScreenEventParams struct {
	Action string `json:"action"`
	Screen string `json:"screen"`
	Item   string `json:"item,omitempty"`
}

type GetRecentActivityParams struct {
	TrackerID *string             `json:"tracker_id,omitempty"`
	SessionID *string             `json:"session_id,omitempty"`
	Type      *activity.EventType `json:"type,omitempty"`
	Since     *time.Time          `json:"since,omitempty"`
	Limit     int                 `json:"limit,omitempty"`
	Offset    int                 `json:"offset,omitempty"`
}

type CategoryResponse struct {
	category.Category
	Trackers []TrackerResponse `json:"trackers,omitempty"`
}

type TrackerResponse struct {
	tracker.Tracker
	Irregular     bool  `json:"irregular"`
	DaysCompleted int   `json:"days_completed"`
	Completed     *bool `json:"completed,omitempty"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type CompletionResponse struct {
	TrackerID     string `json:"tracker_id"`
	Date          string `json:"date"`
	Completed     bool   `json:"completed"`
	DaysCompleted int    `json:"days_completed"`
}

type BoardResponse struct {
	Date       string                  `json:"date"`
	Filter     string                  `json:"filter"`
	Search     string                  `json:"search,omitempty"`
	Categories []BoardCategoryResponse `json:"categories"`
	Empty      bool                    `json:"empty"`
}

type BoardCategoryResponse struct {
	ID       string                 `json:"id"`
	Title    string                 `json:"title"`
	Trackers []BoardTrackerResponse `json:"trackers"`
}

type BoardTrackerResponse struct {
	tracker.Tracker
	Completed     bool `json:"completed"`
	DaysCompleted int  `json:"days_completed"`
}

type StatisticsResponse struct {
	stats.Summary
	Empty         bool  `json:"empty"`
	DegradedReads int64 `json:"degraded_reads,omitempty"`
}

type ScreenEventResponse struct {
	Recorded bool `json:"recorded"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time          `json:"timestamp"`
	Type      activity.EventType `json:"type"`
	SessionID string             `json:"session_id,omitempty"`
	TrackerID string             `json:"tracker_id,omitempty"`
	Summary   string             `json:"summary"`
	Details   string             `json:"details,omitempty"`
}
