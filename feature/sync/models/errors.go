package models

import (
	"errors"
	"fmt"
)

// ErrReferenceNotFound is returned when no remote record matches a reference label.
// Callers leave the field unset.
var ErrReferenceNotFound = errors.New("reference value not found")

// SchemaError means the remote fields of a kind could not be discovered.
type SchemaError struct {
	Kind Kind
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("failed to discover %s fields: %v", e.Kind, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// RemoteQueryError means a remote search or read failed.
type RemoteQueryError struct {
	Op  string
	Err error
}

func (e *RemoteQueryError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *RemoteQueryError) Unwrap() error { return e.Err }

// RemoteWriteError means a bulk write batch was rejected.
type RemoteWriteError struct {
	Op    string
	Batch int
	Err   error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("remote %s batch %d failed: %v", e.Op, e.Batch, e.Err)
}

func (e *RemoteWriteError) Unwrap() error { return e.Err }

// UnsupportedKindError is returned for object kinds outside contact and company.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported object kind %q", e.Kind)
}
