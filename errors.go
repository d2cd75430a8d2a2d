package teth

import (
	"errors"
	"fmt"
)

// Sentinel errors for common engine error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrToolNotFound indicates a chain or event referenced a tool
	// identifier the registry does not hold.
	ErrToolNotFound = errors.New("tool not found")

	// ErrActorNotFound indicates the requested actor profile was not
	// found in the registry.
	ErrActorNotFound = errors.New("actor not found")

	// ErrNoRegistry indicates the engine was constructed without tool or
	// actor definitions.
	ErrNoRegistry = errors.New("no registry configured")

	// ErrInvalidConfig indicates the provided configuration is invalid
	// or incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error kinds categorize errors by their type.
const (
	// KindNotFound represents errors where a resource was not found.
	KindNotFound = "not_found"

	// KindValidation represents errors related to input validation,
	// including registry range and integrity failures.
	KindValidation = "validation"

	// KindUnsatisfiable represents optimization requests whose
	// constraints cannot be met.
	KindUnsatisfiable = "unsatisfiable"

	// KindCanceled represents operations aborted by the caller's
	// context or a constraint time limit.
	KindCanceled = "canceled"

	// KindConfiguration represents errors related to engine setup.
	KindConfiguration = "configuration"

	// KindInternal represents internal engine errors.
	KindInternal = "internal"
)

// Error is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category
// of error.
//
// Error implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
type Error struct {
	// Op is the operation that failed (e.g., "Engine.Attribute").
	Op string

	// Kind categorizes the error (e.g., KindNotFound, KindValidation).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	// This can include identifiers, constraint names, or other
	// debugging information.
	Context map[string]any
}

// Error implements the error interface, returning a formatted message
// that includes the operation, kind, and underlying error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("teth: %s: %s", e.Op, e.Kind)
	}
	if len(e.Context) > 0 {
		return fmt.Sprintf("teth: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}
	return fmt.Sprintf("teth: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and
// errors.As() to work correctly with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching for Error, allowing comparison based on
// the underlying error or another Error's Op and Kind.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a copy of the error with the provided context
// merged in.
func (e *Error) WithContext(ctx map[string]any) *Error {
	clone := *e
	if clone.Context == nil {
		clone.Context = make(map[string]any, len(ctx))
	}
	for k, v := range ctx {
		clone.Context[k] = v
	}
	return &clone
}

// NewNotFoundError creates a new Error with KindNotFound.
func NewNotFoundError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindNotFound, Err: err}
}

// NewValidationError creates a new Error with KindValidation.
func NewValidationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindValidation, Err: err}
}

// NewUnsatisfiableError creates a new Error with KindUnsatisfiable.
func NewUnsatisfiableError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindUnsatisfiable, Err: err}
}

// NewCanceledError creates a new Error with KindCanceled.
func NewCanceledError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindCanceled, Err: err}
}

// NewConfigurationError creates a new Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfiguration, Err: err}
}

// NewInternalError creates a new Error with KindInternal.
func NewInternalError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindInternal, Err: err}
}
