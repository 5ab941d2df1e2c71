package tool

import "errors"

// Domain errors for the tool cache.
var (
	// ErrMissingName indicates a raw tool record without a name field.
	// Loading such a record is a caller contract violation and rejects
	// the whole load.
	ErrMissingName = errors.New("tool record missing name")

	// ErrNoSource indicates a manager was constructed without a tool source.
	ErrNoSource = errors.New("tool source is required")
)
