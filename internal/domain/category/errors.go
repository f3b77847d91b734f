package category

import "errors"

var (
	// ErrCategoryNotFound indicates the category doesn't exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryNotEmpty indicates the category still owns trackers.
	ErrCategoryNotEmpty = errors.New("category still has trackers")
	// ErrDuplicateTitle indicates another category already uses the title.
	ErrDuplicateTitle = errors.New("category title already exists")
	// ErrAlreadyExists indicates a category with the requested ID exists.
	ErrAlreadyExists = errors.New("category already exists")
	// ErrInvalidInput indicates invalid category input.
	ErrInvalidInput = errors.New("invalid category input")
)
