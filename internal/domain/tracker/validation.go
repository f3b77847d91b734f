package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxTitleLength is the longest title accepted, in runes.
const MaxTitleLength = 38

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError describes one rejected field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s failed %s", f.Field, f.Rule))
	}
	return "invalid tracker input: " + strings.Join(parts, ", ")
}

// Unwrap lets callers match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

type trackerFields struct {
	CategoryID string    `validate:"required"`
	Title      string    `validate:"required,max=38"`
	Color      string    `validate:"required"`
	Emoji      string    `validate:"required"`
	Schedule   []Weekday `validate:"omitempty,unique,dive,min=1,max=7"`
}

// ValidateCreateInput validates fields required to create a tracker.
func ValidateCreateInput(req CreateRequest) error {
	return validateFields(trackerFields{
		CategoryID: strings.TrimSpace(req.CategoryID),
		Title:      strings.TrimSpace(req.Title),
		Color:      strings.TrimSpace(req.Color),
		Emoji:      strings.TrimSpace(req.Emoji),
		Schedule:   req.Schedule,
	})
}

// ValidateTracker validates a fully merged tracker before it is written.
func ValidateTracker(t Tracker) error {
	return validateFields(trackerFields{
		CategoryID: strings.TrimSpace(t.CategoryID),
		Title:      strings.TrimSpace(t.Title),
		Color:      strings.TrimSpace(t.Color),
		Emoji:      strings.TrimSpace(t.Emoji),
		Schedule:   t.Schedule,
	})
}

func validateFields(fields trackerFields) error {
	err := validate.Struct(fields)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}
