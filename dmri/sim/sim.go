// Package sim generates synthetic diffusion-MRI data: clean forward
// signals of a model, Rician noise as produced by magnitude
// reconstruction, and smooth phantom parameter maps for testing
// fitting pipelines against a known ground truth.
package sim

import (
	"errors"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
	"github.com/cwbudde/algo-dmri/dmri/model"
)

var (
	// ErrParamsMismatch is returned when a phantom does not provide the
	// parameters a model needs.
	ErrParamsMismatch = errors.New("sim: phantom parameters do not match model")

	// ErrEmptyVolume is returned for phantom dimensions without voxels.
	ErrEmptyVolume = errors.New("sim: empty phantom volume")
)

// Signals evaluates the model forward for every sample and returns the
// clean signal vector.
func Signals(m *model.Model, samples []compartment.Sample, x []float64) []float64 {
	return m.EvalAll(samples, x, nil)
}
