package session

import (
	"errors"
	"fmt"
)

// Kind classifies a processing failure so the API and UI can react
// appropriately without inspecting causes.
type Kind int

const (
	// KindValidation: malformed edit options after clamping. Recovered
	// locally; prior valid state is kept.
	KindValidation Kind = iota + 1
	// KindTransport: remote download/upload/delete failed. The operation is
	// aborted with no partial local state.
	KindTransport
	// KindEngine: the transcoding engine failed mid-run. Artifacts from the
	// run are not reused.
	KindEngine
	// KindResource: the engine is unavailable or not yet initialized.
	// Processing stays disabled rather than silently queued.
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindEngine:
		return "engine"
	case KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Error pairs a failure with its taxonomy kind. Every error crossing an
// asynchronous step boundary is wrapped into one of the kinds before it
// reaches a caller.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf wraps a formatted error with the given kind.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the taxonomy kind of err, or 0 when unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
