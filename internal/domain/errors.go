package domain

import (
	"errors"
	"fmt"
)

// ProbeErrorKind is the closed set of filesystem failures
type ProbeErrorKind int

const (
	ProbeNone ProbeErrorKind = iota
	ProbeNotFound
	ProbePermissionDenied
	ProbeIO
	ProbeNotADirectory
	ProbeExists
)

func (k ProbeErrorKind) String() string {
	switch k {
	case ProbeNotFound:
		return "not found"
	case ProbePermissionDenied:
		return "permission denied"
	case ProbeIO:
		return "read error"
	case ProbeNotADirectory:
		return "not a directory"
	case ProbeExists:
		return "already exists"
	default:
		return "no error"
	}
}

// ProbeError describes a failed filesystem probe
type ProbeError struct {
	Kind ProbeErrorKind
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Kind)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// NewProbeError builds a ProbeError of the given kind
func NewProbeError(kind ProbeErrorKind, path string, err error) *ProbeError {
	return &ProbeError{Kind: kind, Path: path, Err: err}
}

// AsProbeError extracts a ProbeError from an error chain
func AsProbeError(err error) (*ProbeError, bool) {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// OpenError is returned when an external open of a file fails
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
