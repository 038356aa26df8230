package core

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate value")
	ErrHasDependents = errors.New("record has dependent rows")
	ErrInvalidRef    = errors.New("referenced record does not exist")
	ErrAlreadyLinked = errors.New("already linked")
)

// ConstraintError carries the database constraint behind a store failure so
// callers can name the offending field.
type ConstraintError struct {
	Err        error
	Constraint string
}

func (e *ConstraintError) Error() string {
	return e.Err.Error() + " (" + e.Constraint + ")"
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}
