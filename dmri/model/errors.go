package model

import "errors"

var (
	// ErrDuplicateInstance is returned when a compartment instance name
	// is already taken within the model.
	ErrDuplicateInstance = errors.New("model: duplicate compartment instance")

	// ErrUnknownParam is returned when fixing a parameter no compartment
	// of the model declares.
	ErrUnknownParam = errors.New("model: unknown parameter")

	// ErrUnknownModel is returned when building a model name the
	// registry does not know.
	ErrUnknownModel = errors.New("model: unknown model name")

	// ErrMissingColumn is returned when a protocol table lacks a column
	// the sample conversion requires.
	ErrMissingColumn = errors.New("model: protocol table misses required column")
)
