package dti

import "errors"

var (
	// ErrTooFewSamples is returned when fewer than seven measurements
	// are available for the seven tensor unknowns.
	ErrTooFewSamples = errors.New("dti: too few samples for tensor fit")

	// ErrLengthMismatch is returned when the signal vector does not
	// match the sample count.
	ErrLengthMismatch = errors.New("dti: signal length does not match samples")

	// ErrNonPositiveSignal is returned when a signal value cannot be
	// log-transformed.
	ErrNonPositiveSignal = errors.New("dti: non-positive signal value")

	// ErrSingularFit is returned when the design matrix is rank
	// deficient, typically because the directions do not span enough of
	// the sphere.
	ErrSingularFit = errors.New("dti: singular design matrix")
)
