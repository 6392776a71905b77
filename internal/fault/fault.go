// Package fault defines the error kinds surfaced to MCP callers.
//
// Every validation or lookup failure in the mutation and session layers
// carries one of these kinds so tool handlers can report a precise,
// retryable message instead of a generic failure.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a caller-visible failure.
type Kind int

const (
	// NotFound: file, session, specification locator, or facet absent.
	NotFound Kind = iota
	// ParseError: source document is malformed or fails schema checks.
	ParseError
	// InvalidArgument: bad enum value (location, report kind, parameter).
	InvalidArgument
	// InvalidVersion: unrecognized IFC version token.
	InvalidVersion
	// MissingRequiredField: a mandatory field (property_set) is blank.
	MissingRequiredField
	// ConstraintViolation: an IDS 1.0 cardinality rule would be breached.
	ConstraintViolation
	// IndexOutOfRange: facet index outside the addressed section.
	IndexOutOfRange
	// ExternalToolFailure: audit or model engine invocation failed.
	ExternalToolFailure
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case ParseError:
		return "parse_error"
	case InvalidArgument:
		return "invalid_argument"
	case InvalidVersion:
		return "invalid_version"
	case MissingRequiredField:
		return "missing_required_field"
	case ConstraintViolation:
		return "constraint_violation"
	case IndexOutOfRange:
		return "index_out_of_range"
	case ExternalToolFailure:
		return "external_tool_failure"
	default:
		return "unknown"
	}
}

// Error is a classified failure with a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	wrapped error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// New creates a classified error.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error around an underlying cause. The cause
// is preserved for logging; Message is what callers see.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), wrapped: cause}
}

// Is reports whether err is a fault of the given kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or ok=false if err is not a fault.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
