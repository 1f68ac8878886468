package patterns

import "errors"

var (
	// ErrInvalidPattern indicates an expression failed to compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrUnknownKey indicates a registry lookup for an unregistered entity.
	ErrUnknownKey = errors.New("unknown pattern key")
)
