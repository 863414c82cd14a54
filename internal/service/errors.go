package service

import "errors"

var (
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid password")
	// ErrUnauthenticated is returned when a mutating action is attempted
	// without a verified session. No side effect happens after it.
	ErrUnauthenticated = errors.New("not authenticated")
)

// ValidationError carries field-level input errors the client can fix.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
