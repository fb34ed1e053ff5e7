package shared

import "errors"

var (
	// ErrNotFound covers both a missing entity and an entity owned by
	// someone else; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks rejected input. Nothing is persisted when it
	// is returned.
	ErrValidation = errors.New("validation error")
)
