package cpo

import "errors"

var (
	// ErrNoImplementation is returned when no implementation accepts the
	// arguments. The concrete error is a *Diagnostic explaining why.
	ErrNoImplementation = errors.New("no implementation")
	// ErrAmbiguous is returned when several implementations match equally
	// well.
	ErrAmbiguous = errors.New("ambiguous implementation")
	// ErrNotOperation is returned for types that are not valid operations.
	ErrNotOperation = errors.New("not an operation")
	// ErrInvalidImplementation is returned for functions that cannot serve
	// as implementations.
	ErrInvalidImplementation = errors.New("invalid implementation")
	// ErrDuplicateEntry is returned when a registry key is already taken.
	ErrDuplicateEntry = errors.New("duplicate registry entry")
	// ErrResultType is returned by Call when the result does not have the
	// requested type.
	ErrResultType = errors.New("unexpected result type")
	// ErrInvalidName is returned for empty names and names containing NUL.
	ErrInvalidName = errors.New("invalid operation name")
)
