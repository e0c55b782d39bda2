// Package dterr defines the error kinds used across the device-tracking
// core (spec §7). Kinds are a classification, not a type hierarchy: callers
// distinguish them with errors.Is against Sentinel(kind).
package dterr

import "fmt"

// Kind classifies an error so callers can decide how to propagate it
// without string-matching messages.
type Kind int

const (
	// SchemaConflict: a field was re-registered under an existing name with
	// a different type. Hard failure; startup should abort.
	SchemaConflict Kind = iota
	// NotFound: a lookup, binary resolution, or named-config lookup missed.
	NotFound
	// IoError: pipe read/write, stat, fork, or exec failure.
	IoError
	// ProtocolError: a helper's framing could not be parsed.
	ProtocolError
	// CapacityExceeded: the device cap was hit; swallowed by the caller,
	// who should trigger eviction and a refresh bump.
	CapacityExceeded
	// TimeoutExceeded: an IPC shutdown deadline elapsed with children left.
	TimeoutExceeded
)

func (k Kind) String() string {
	switch k {
	case SchemaConflict:
		return "schema_conflict"
	case NotFound:
		return "not_found"
	case IoError:
		return "io_error"
	case ProtocolError:
		return "protocol_error"
	case CapacityExceeded:
		return "capacity_exceeded"
	case TimeoutExceeded:
		return "timeout_exceeded"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind classification.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, dterr.Sentinel(dterr.SchemaConflict)) work by
// comparing Kind, not identity — a bare Kind is not an error value, so the
// target is always an *Error such as the one Sentinel returns.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// New constructs an *Error of the given kind, wrapping err (may be nil).
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Sentinel returns an unwrapped sentinel value for a Kind, suitable as the
// target of errors.Is.
func Sentinel(kind Kind) error {
	return &Error{Kind: kind}
}
