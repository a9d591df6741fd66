package errs

import (
	"errors"
	"fmt"
)

// Common sentinel errors for cross-layer signaling.
var (
	// ErrNotAuthenticated means no actor could be resolved for the call.
	ErrNotAuthenticated = errors.New("not_authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not_found")
	// ErrValidation covers malformed input: bad filter conditions, negative amounts, empty titles.
	ErrValidation = errors.New("validation_failed")
	// ErrBackend wraps any failure reported by the underlying store.
	ErrBackend  = errors.New("backend_failure")
	ErrConflict = errors.New("conflict")
)

// Kind is the coarse classification used when errors leave the action layer.
type Kind string

const (
	KindNone             Kind = ""
	KindNotAuthenticated Kind = "not_authenticated"
	KindForbidden        Kind = "forbidden"
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation_failed"
	KindConflict         Kind = "conflict"
	KindBackend          Kind = "backend_failure"
)

// KindOf classifies err. Anything unrecognised is a backend failure.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotAuthenticated):
		return KindNotAuthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindBackend
	}
}

// Validation builds an ErrValidation with a caller-safe message.
func Validation(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

type validationError struct{ msg string }

func (e *validationError) Error() string         { return e.msg }
func (e *validationError) PublicMessage() string { return e.msg }
func (e *validationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError names the kind of record that was missing.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string         { return e.What + " not found" }
func (e *NotFoundError) PublicMessage() string { return e.Error() }
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound reports a missing record of the named kind, e.g. NotFound("post").
func NotFound(what string) error {
	return &NotFoundError{What: what}
}

// Backend wraps a store error so callers can match ErrBackend while the raw
// cause stays available for logging.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
}

// PublicError is implemented by errors whose message may be shown to callers
// as is.
type PublicError interface {
	error
	PublicMessage() string
}

// PublicMessage finds the first caller-safe message in err's chain.
func PublicMessage(err error) (string, bool) {
	var pe PublicError
	if errors.As(err, &pe) {
		return pe.PublicMessage(), true
	}
	return "", false
}
