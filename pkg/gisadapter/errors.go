package gisadapter

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAdapterForBackend is matched by every *NoAdapterError.
	ErrNoAdapterForBackend = errors.New("no gis adapter for backend")
	// ErrUnsupportedIndex is returned for index types a backend cannot build.
	ErrUnsupportedIndex = errors.New("unsupported index type")
)

// NoAdapterError names the server type that has no adapter.
type NoAdapterError struct {
	Server string
}

func (e *NoAdapterError) Error() string {
	return fmt.Sprintf("no gis adapter for backend %q", e.Server)
}

func (e *NoAdapterError) Unwrap() error { return ErrNoAdapterForBackend }
