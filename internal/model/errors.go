package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInactiveEmployee is returned when an operation requires an active
// employee and the cedula resolves to an inactive one (or none at all).
var ErrInactiveEmployee = errors.New("no active employee for cedula")

// CommitError wraps the cause of a failed roster commit. The transaction
// has been rolled back and no row from the batch was persisted.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("roster commit failed: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
