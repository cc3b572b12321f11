package repository

import (
	"errors"
	"fmt"
)

var ErrUnknownOwner = errors.New("entity has no owner")

// WriteError is returned by every failed write so callers can tell it apart from read failures.
type WriteError struct {
	Op     string
	Entity string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func writeErr(op, entity string, err error) error {
	return &WriteError{Op: op, Entity: entity, Err: err}
}

// IsWriteError reports whether err came from a failed write.
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}
