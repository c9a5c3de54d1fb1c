// Package qspace reconstructs the one-dimensional diffusion
// propagator from q-space attenuation samples. The signal E(q) and
// the displacement profile P(r) form a Fourier pair, so an evenly
// sampled attenuation curve turns into the displacement probability
// profile by symmetric extension and an FFT. The return-to-origin
// probability follows directly as the area under E.
package qspace

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrEmptySignal is returned when fewer than two attenuation
	// samples are given.
	ErrEmptySignal = errors.New("qspace: need at least two attenuation samples")

	// ErrInvalidStep is returned for a non-positive q step.
	ErrInvalidStep = errors.New("qspace: q step must be positive")
)

// Propagator is a reconstructed displacement profile on a uniform
// grid: P[i] is the probability density magnitude at displacement
// i*Step.
type Propagator struct {
	P    []float64
	Step float64
}

// config collects reconstruction options.
type config struct {
	pad   int
	taper bool
}

// Option mutates the reconstruction configuration.
type Option func(*config)

func defaultConfig() config {
	return config{pad: 4}
}

// WithPad sets the zero-padding factor of the FFT grid. Higher values
// interpolate the profile more densely.
func WithPad(factor int) Option {
	return func(cfg *config) {
		if factor >= 1 {
			cfg.pad = factor
		}
	}
}

// WithTaper applies a half-Hann taper to the attenuation samples
// before transforming, suppressing truncation ripple when E has not
// fully decayed at the last sample.
func WithTaper() Option {
	return func(cfg *config) {
		cfg.taper = true
	}
}

// Reconstruct transforms attenuation samples E(0), E(dq), ... into the
// displacement profile. The attenuation is extended symmetrically to
// negative q, zero padded and transformed; the returned profile covers
// non-negative displacements.
func Reconstruct(e []float64, dq float64, opts ...Option) (Propagator, error) {
	if len(e) < 2 {
		return Propagator{}, fmt.Errorf("%w: got %d", ErrEmptySignal, len(e))
	}
	if dq <= 0 || math.IsNaN(dq) {
		return Propagator{}, fmt.Errorf("%w: %g", ErrInvalidStep, dq)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := len(e)
	fftSize := nextPowerOf2(2 * n * cfg.pad)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Propagator{}, fmt.Errorf("qspace: failed to create FFT plan: %w", err)
	}

	src := make([]complex128, fftSize)
	for i, v := range e {
		if cfg.taper && n > 1 {
			v *= 0.5 * (1 + math.Cos(math.Pi*float64(i)/float64(n-1)))
		}
		src[i] = complex(v, 0)
		if i > 0 {
			src[fftSize-i] = complex(v, 0)
		}
	}

	dst := make([]complex128, fftSize)
	if err := plan.Forward(dst, src); err != nil {
		return Propagator{}, fmt.Errorf("qspace: forward FFT failed: %w", err)
	}

	half := fftSize / 2
	re := make([]float64, half)
	im := make([]float64, half)
	for i := range half {
		re[i] = real(dst[i]) * dq
		im[i] = imag(dst[i]) * dq
	}

	p := make([]float64, half)
	vecmath.Magnitude(p, re, im)

	return Propagator{P: p, Step: 1 / (float64(fftSize) * dq)}, nil
}

// RTOP returns the return-to-origin probability, the trapezoidal
// integral 2*integral(E(q) dq) over the sampled range.
func RTOP(e []float64, dq float64) (float64, error) {
	if len(e) < 2 {
		return 0, fmt.Errorf("%w: got %d", ErrEmptySignal, len(e))
	}
	if dq <= 0 || math.IsNaN(dq) {
		return 0, fmt.Errorf("%w: %g", ErrInvalidStep, dq)
	}
	sum := vecmath.Sum(e) - (e[0]+e[len(e)-1])/2
	return 2 * dq * sum, nil
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
