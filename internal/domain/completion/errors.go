package completion

import "errors"

var (
	// ErrInvalidInput indicates an empty tracker id or zero date.
	ErrInvalidInput = errors.New("invalid completion input")
)
