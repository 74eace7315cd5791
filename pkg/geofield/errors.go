package geofield

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometryInput is matched by every *InvalidGeometryInputError.
	ErrInvalidGeometryInput = errors.New("invalid geometry input")
	// ErrNoAdapter is returned when a field needs an adapter and has neither
	// a bound adapter nor a resolver.
	ErrNoAdapter = errors.New("no gis adapter bound")
	// ErrWrongKind is returned by accessors that need a specific geometry kind.
	ErrWrongKind = errors.New("wrong geometry kind")
)

// InvalidGeometryInputError names the value a field refused.
type InvalidGeometryInputError struct {
	Value  any
	Reason string
}

func (e *InvalidGeometryInputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid geometry input %#v", e.Value)
	}
	return fmt.Sprintf("invalid geometry input %#v: %s", e.Value, e.Reason)
}

func (e *InvalidGeometryInputError) Unwrap() error { return ErrInvalidGeometryInput }
