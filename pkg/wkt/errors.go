package wkt

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned for unknown tags, unbalanced structure or wrong arity.
	ErrMalformed = errors.New("malformed wkt")
	// ErrBadNumber is returned when a coordinate token is not a finite real number.
	ErrBadNumber = errors.New("bad number in wkt")
)

// ErrorKind classifies a DecodeError.
type ErrorKind int

const (
	Malformed ErrorKind = iota
	BadNumber
)

func (k ErrorKind) String() string {
	switch k {
	case BadNumber:
		return "bad number"
	default:
		return "malformed"
	}
}

// DecodeError reports where and why decoding failed.
type DecodeError struct {
	Kind  ErrorKind
	Input string
	Pos   int
	Msg   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wkt: %s at offset %d: %s", e.Kind, e.Pos, e.Msg)
}

// Unwrap returns ErrMalformed or ErrBadNumber.
func (e *DecodeError) Unwrap() error {
	if e.Kind == BadNumber {
		return ErrBadNumber
	}
	return ErrMalformed
}
