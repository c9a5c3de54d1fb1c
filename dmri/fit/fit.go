// Package fit estimates model parameters from measured diffusion
// signals. Box constraints declared by the compartments are enforced
// through a smooth cosine-square reparameterisation, and the
// unconstrained problem is minimized with Nelder-Mead. Per-voxel fits
// are independent, so FitVolume distributes them over a worker pool.
package fit

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
	"github.com/cwbudde/algo-dmri/dmri/model"
)

// Result holds one finished model fit.
type Result struct {
	// Names are the free parameter names in X order.
	Names []string
	// X are the fitted parameter values in model space.
	X []float64
	// Cost is the final sum of squared residuals.
	Cost float64
	// Evals is the number of objective evaluations spent.
	Evals int
}

// Fit estimates the free parameters of m from the signals measured at
// the given samples by least squares.
func Fit(m *model.Model, samples []compartment.Sample, signal []float64, opts ...Option) (Result, error) {
	cfg := applyOptions(opts)
	return fitOne(m, samples, signal, cfg)
}

func fitOne(m *model.Model, samples []compartment.Sample, signal []float64, cfg config) (Result, error) {
	params := m.Params()
	if len(params) == 0 {
		return Result{}, ErrNoFreeParams
	}
	if len(signal) != len(samples) {
		return Result{}, fmt.Errorf("%w: %d signals for %d samples", ErrLengthMismatch, len(signal), len(samples))
	}

	start := cfg.start
	if start == nil {
		start = m.Defaults()
	}
	if len(start) != len(params) {
		return Result{}, fmt.Errorf("%w: start vector has %d values for %d parameters", ErrLengthMismatch, len(start), len(params))
	}

	b := newBounds(params)

	x := make([]float64, len(params))
	predicted := make([]float64, len(samples))

	problem := optimize.Problem{
		Func: func(u []float64) float64 {
			b.decode(u, x)
			predicted = m.EvalAll(samples, x, predicted)

			cost := 0.0
			for i, p := range predicted {
				r := p - signal[i]
				cost += r * r
			}
			return cost
		},
	}

	u0 := make([]float64, len(params))
	b.encode(start, u0)

	settings := &optimize.Settings{FuncEvaluations: cfg.maxEvals}

	res, err := optimize.Minimize(problem, u0, settings, &optimize.NelderMead{})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMinimize, err)
	}

	out := Result{
		Names: make([]string, len(params)),
		X:     make([]float64, len(params)),
		Cost:  res.F,
		Evals: res.Stats.FuncEvaluations,
	}
	for i, p := range params {
		out.Names[i] = p.Name
	}
	b.decode(res.X, out.X)
	return out, nil
}
