package filter

import "errors"

// ErrInvalidFilter indicates an unknown filter type.
var ErrInvalidFilter = errors.New("invalid filter")
