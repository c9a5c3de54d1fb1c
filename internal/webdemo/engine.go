// Package webdemo backs the browser signal explorer: an interactive
// view of the dispersed extra-cellular compartment, evaluating signal
// curves against diffusion weighting, fibre angle and orientation
// dispersion for the current parameter set.
package webdemo

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
	"github.com/cwbudde/algo-dmri/dmri/core"
)

// Engine holds the explorer state: one parameter set of the dispersed
// extra-cellular model and the fibre orientation.
type Engine struct {
	d     float64
	dperp float64
	kappa float64
	theta float64
	phi   float64

	comp compartment.NoddiEC
}

// NewEngine returns an engine with typical in-vivo white matter
// parameters and the fibre along x.
func NewEngine() *Engine {
	return &Engine{
		d:     1.7e-9,
		dperp: 0.5e-9,
		kappa: 1,
		theta: math.Pi / 2,
		phi:   0,
	}
}

// SetParams updates the diffusivities and the dispersion
// concentration.
func (e *Engine) SetParams(d, dperp, kappa float64) error {
	if d <= 0 || dperp <= 0 {
		return fmt.Errorf("webdemo: diffusivities must be > 0: d = %g, dperp = %g", d, dperp)
	}
	if dperp > d {
		return fmt.Errorf("webdemo: perpendicular diffusivity %g exceeds parallel %g", dperp, d)
	}
	if kappa < 0 {
		return fmt.Errorf("webdemo: concentration must be >= 0: %g", kappa)
	}
	e.d, e.dperp, e.kappa = d, dperp, kappa
	return nil
}

// SetOrientation updates the fibre orientation angles in radians.
func (e *Engine) SetOrientation(theta, phi float64) {
	e.theta, e.phi = theta, phi
}

// eval returns the compartment signal for one direction and weighting.
func (e *Engine) eval(dir core.Vec3, b float64) float64 {
	s := compartment.Sample{Dir: dir, B: b}
	x := []float64{e.d, e.dperp, e.theta, e.phi, e.kappa}
	return e.comp.Eval(s, x)
}

// SignalCurve evaluates the signal along the fibre direction for each
// b-value, the classic attenuation-versus-weighting curve.
func (e *Engine) SignalCurve(bvals []float64) []float64 {
	dir := core.Sphere(e.theta, e.phi)
	out := make([]float64, len(bvals))
	for i, b := range bvals {
		out[i] = e.eval(dir, b)
	}
	return out
}

// AngleCurve evaluates the signal at a fixed weighting while the
// gradient rotates away from the fibre by the given angles, in the
// plane spanned by the fibre and its polar tangent.
func (e *Engine) AngleCurve(angles []float64, b float64) []float64 {
	out := make([]float64, len(angles))
	for i, a := range angles {
		out[i] = e.eval(core.Sphere(e.theta+a, e.phi), b)
	}
	return out
}

// DispersionCurve evaluates the signal along the fibre at a fixed
// weighting for each concentration value, showing how dispersion
// shifts the apparent diffusivities.
func (e *Engine) DispersionCurve(kappas []float64, b float64) []float64 {
	dir := core.Sphere(e.theta, e.phi)
	s := compartment.Sample{Dir: dir, B: b}

	out := make([]float64, len(kappas))
	for i, k := range kappas {
		out[i] = e.comp.Eval(s, []float64{e.d, e.dperp, e.theta, e.phi, k})
	}
	return out
}

// Diffusivities returns the current apparent eigenvalue pair.
func (e *Engine) Diffusivities() (par, perp float64) {
	return compartment.WatsonDiffusivities(e.d, e.dperp, e.kappa)
}
