package core

import "github.com/pkg/errors"

// Store fault categories. The storage layer maps driver errors onto these
// sentinels so callers can react to each kind differently.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrReferenceMissing = errors.New("referenced record does not exist")
	ErrSchemaMissing    = errors.New("expected relation is missing")
	ErrStoreUnavailable = errors.New("datastore unavailable")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func IsValidationError(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
