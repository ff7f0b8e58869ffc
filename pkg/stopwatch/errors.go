package stopwatch

import (
	"errors"
	"fmt"
)

// Sentinel errors for stopwatch registration.
var (
	// ErrInvalidArgument indicates Create was called with an unusable id.
	// Every error returned by Create matches it with errors.Is.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateID indicates the id is already registered.
	ErrDuplicateID = errors.New("id already taken")

	// ErrEmptyID indicates the id was empty.
	ErrEmptyID = errors.New("id cannot be empty")
)

// Sentinel errors for handle state transitions.
var (
	// ErrAlreadyRunning indicates Start was called on a running stopwatch.
	ErrAlreadyRunning = errors.New("stopwatch already running")

	// ErrNotRunning indicates Lap or Stop was called on a stopped stopwatch.
	ErrNotRunning = errors.New("stopwatch not running")
)

// ArgumentError describes a rejected Create call.
type ArgumentError struct {
	// ID is the identifier that was rejected.
	ID string
	// Reason is ErrEmptyID or ErrDuplicateID.
	Reason error
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %v", ErrInvalidArgument, e.Reason)
	}
	return fmt.Sprintf("%s: %q: %v", ErrInvalidArgument, e.ID, e.Reason)
}

// Unwrap returns ErrInvalidArgument and the specific reason for errors.Is/As support.
func (e *ArgumentError) Unwrap() []error {
	return []error{ErrInvalidArgument, e.Reason}
}

// reasonLabel is the low-cardinality metric label for a rejection.
func reasonLabel(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateID):
		return "duplicate"
	case errors.Is(err, ErrEmptyID):
		return "empty"
	default:
		return "unknown"
	}
}
