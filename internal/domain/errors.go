package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput signals a request rejected by validation before any store access.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized signals a missing or unverifiable credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals a verified caller lacking the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrNotImplemented signals an unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
)

// InvalidInputError carries the offending field alongside ErrInvalidInput.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.Field + ": " + e.Reason
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// Invalid creates an invalid input error for a field.
func Invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}
