package tracker

import "errors"

var (
	// ErrTrackerNotFound indicates the tracker doesn't exist.
	ErrTrackerNotFound = errors.New("tracker not found")
	// ErrInvalidInput indicates invalid tracker input.
	ErrInvalidInput = errors.New("invalid tracker input")
	// ErrCategoryNotFound indicates the referenced category doesn't exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrAlreadyExists indicates a tracker with the same ID is already stored.
	ErrAlreadyExists = errors.New("tracker already exists")
)
