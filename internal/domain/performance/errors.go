package performance

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("duplicate value")
	ErrHasDependents   = errors.New("record has dependent rows")
	ErrUnknownEmployee = errors.New("employee does not exist")
	ErrUnknownKPI      = errors.New("kpi does not exist")
	ErrInvalidFilter   = errors.New("invalid assessment filter")
)
