// Package apperr holds the error taxonomy shared by the services and the HTTP layer.
package apperr

import "errors"

var (
	// ErrUnauthorized means the acting role may not perform the operation.
	ErrUnauthorized = errors.New("permission denied")
	// ErrUnauthenticated means no valid session accompanies the request.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrNotFound means the identifier does not name an existing record.
	ErrNotFound = errors.New("not found")
	// ErrPrecondition means the record is not in a state that allows the transition.
	ErrPrecondition = errors.New("precondition failed")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports rejected input, optionally per field.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return "validation failed"
	}
	return err.Err.Error()
}

func (err *ValidationError) Unwrap() error {
	return err.Err
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
