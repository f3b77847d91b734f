package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/streaks/internal/domain/activity"
	"github.com/rpggio/streaks/internal/domain/category"
	"github.com/rpggio/streaks/internal/domain/completion"
	"github.com/rpggio/streaks/internal/domain/filter"
	"github.com/rpggio/streaks/internal/domain/tracker"
	"github.com/rpggio/streaks/internal/repository"
)

var (
	// ErrUnknownMethod indicates the method name is not registered.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrInvalidParams indicates the params could not be decoded.
	ErrInvalidParams = errors.New("invalid params")
	// ErrInvalidDate indicates a date that is neither YYYY-MM-DD nor RFC3339.
	ErrInvalidDate = errors.New("invalid date")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var verr *tracker.ValidationError
	if errors.As(err, &verr) {
		return &APIError{Code: "VALIDATION_ERROR", Message: "invalid tracker input", Details: verr.Fields, RecoveryHint: "Fix the listed fields"}
	}
	switch {
	case errors.Is(err, ErrUnknownMethod):
		return &APIError{Code: "UNKNOWN_METHOD", Message: err.Error(), RecoveryHint: "Call tools/list for available tools"}
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check the tool input schema"}
	case errors.Is(err, ErrInvalidDate):
		return &APIError{Code: "INVALID_DATE", Message: err.Error(), RecoveryHint: "Use YYYY-MM-DD"}
	case errors.Is(err, tracker.ErrTrackerNotFound):
		return &APIError{Code: "TRACKER_NOT_FOUND", Message: "tracker not found", RecoveryHint: "Call list_trackers for valid IDs"}
	case errors.Is(err, category.ErrCategoryNotFound), errors.Is(err, tracker.ErrCategoryNotFound):
		return &APIError{Code: "CATEGORY_NOT_FOUND", Message: "category not found", RecoveryHint: "Call list_categories for valid IDs"}
	case errors.Is(err, category.ErrCategoryNotEmpty):
		return &APIError{Code: "CATEGORY_NOT_EMPTY", Message: "category still has trackers", RecoveryHint: "Move or delete its trackers first"}
	case errors.Is(err, category.ErrDuplicateTitle):
		return &APIError{Code: "DUPLICATE_TITLE", Message: "category title already exists", RecoveryHint: "Pick another title"}
	case errors.Is(err, tracker.ErrAlreadyExists):
		return &APIError{Code: "ALREADY_EXISTS", Message: "tracker already exists", RecoveryHint: "Omit id to generate one"}
	case errors.Is(err, category.ErrAlreadyExists):
		return &APIError{Code: "ALREADY_EXISTS", Message: "category already exists", RecoveryHint: "Omit id to generate one"}
	case errors.Is(err, filter.ErrInvalidFilter):
		return &APIError{Code: "INVALID_FILTER", Message: err.Error(), RecoveryHint: "Use all, today, completed or not_completed"}
	case errors.Is(err, tracker.ErrInvalidInput),
		errors.Is(err, category.ErrInvalidInput),
		errors.Is(err, completion.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "VALIDATION_ERROR", Message: err.Error()}
	case repository.IsPersistence(err):
		return &APIError{Code: "PERSISTENCE_ERROR", Message: "storage failure", RecoveryHint: "Retry later"}
	default:
		return nil
	}
}
