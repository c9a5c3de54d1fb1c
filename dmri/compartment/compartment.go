// Package compartment implements single tissue compartment signal
// models for diffusion-weighted MRI. Each compartment maps one
// acquisition sample and a set of free parameter values to a signal
// attenuation factor; dmri/model combines weighted compartments into
// full multi-compartment models.
package compartment

import (
	"math"

	"github.com/cwbudde/algo-dmri/dmri/core"
)

// Sample carries the per-volume acquisition values a compartment can
// depend on. All quantities are in SI units: b in s/m^2, times in
// seconds, angles in radians.
type Sample struct {
	// Dir is the normalised gradient direction.
	Dir core.Vec3
	// B is the diffusion weighting.
	B float64
	// G is the gradient amplitude.
	G float64
	// Delta is the pulse separation.
	Delta float64
	// SmallDelta is the pulse duration.
	SmallDelta float64
	// TE is the echo time.
	TE float64
	// TM is the mixing time of a stimulated echo sequence.
	TM float64
	// FlipAngle is the excitation flip angle.
	FlipAngle float64
	// RefocFA1 and RefocFA2 are the refocusing flip angles.
	RefocFA1 float64
	RefocFA2 float64
	// SEf is the stimulated echo fraction exponent.
	SEf float64
}

// Param describes one free parameter of a compartment: its name, the
// initial value used when fitting starts, and the box constraints the
// fit transforms enforce.
type Param struct {
	Name string
	Init float64
	Lo   float64
	Hi   float64
}

// Compartment is a single tissue signal model. Eval returns the signal
// factor for one acquisition sample given the free parameter values x,
// ordered as returned by Params.
type Compartment interface {
	Name() string
	Params() []Param
	Eval(s Sample, x []float64) float64
}

// Defaults returns the initial values of c's parameters in order.
func Defaults(c Compartment) []float64 {
	ps := c.Params()
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Init
	}
	return out
}

func paramTheta() Param { return Param{Name: "theta", Init: math.Pi / 2, Lo: 0, Hi: math.Pi} }
func paramPhi() Param   { return Param{Name: "phi", Init: math.Pi / 2, Lo: 0, Hi: math.Pi} }
func paramPsi() Param   { return Param{Name: "psi", Init: math.Pi / 2, Lo: 0, Hi: math.Pi} }

func paramD() Param      { return Param{Name: "d", Init: 1.7e-9, Lo: 1e-11, Hi: 1e-8} }
func paramDPerp0() Param { return Param{Name: "dperp0", Init: 1.7e-10, Lo: 1e-11, Hi: 1e-8} }
func paramDPerp1() Param { return Param{Name: "dperp1", Init: 1.7e-11, Lo: 1e-11, Hi: 1e-8} }

func paramKappa() Param { return Param{Name: "kappa", Init: 1, Lo: 0, Hi: 64} }

func paramT1() Param { return Param{Name: "T1", Init: 0.15, Lo: 1e-5, Hi: 4} }
func paramT2() Param { return Param{Name: "T2", Init: 0.05, Lo: 1e-5, Hi: 2} }
func paramR2() Param { return Param{Name: "R2", Init: 20, Lo: 0.5, Hi: 500} }
func paramDt() Param { return Param{Name: "Dt", Init: 1.7e-9, Lo: 1e-11, Hi: 1e-8} }
