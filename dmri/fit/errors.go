package fit

import "errors"

var (
	// ErrNoFreeParams is returned when the model has nothing to fit.
	ErrNoFreeParams = errors.New("fit: model has no free parameters")

	// ErrLengthMismatch is returned when the signal vector does not
	// match the sample count, or a start vector does not match the
	// model's free parameter count.
	ErrLengthMismatch = errors.New("fit: length mismatch")

	// ErrMinimize is returned when the underlying optimizer fails.
	ErrMinimize = errors.New("fit: minimization failed")
)
