package bubble

import "errors"

var (
	// ErrNotFound is returned when popping a bubble that is not alive,
	// e.g. it drifted off the field or was already popped. Callers treat it
	// as a no-op.
	ErrNotFound = errors.New("bubble: not found")

	// ErrInvalidState is returned when an operation does not apply to the
	// session's current status, such as popping after the session ended.
	ErrInvalidState = errors.New("bubble: invalid session state")

	// ErrEmptyPlayer is returned when a session is created without a name.
	ErrEmptyPlayer = errors.New("bubble: player name is required")
)
