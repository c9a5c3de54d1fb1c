// Package dti provides diffusion tensor representation, rotation
// invariant tensor measures and a log-linear least squares tensor fit.
// The tensor orientation conventions match dmri/core.Frame, so angle
// parameterised models and fitted tensors share one frame definition.
package dti

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-dmri/dmri/core"
)

// Tensor is a diffusion tensor in its eigen decomposition. Eigenvalues
// are sorted descending, so Evals[0] belongs to the principal
// direction Evecs[0]. LogS0 is the fitted log non-weighted signal and
// only meaningful for fitted tensors.
type Tensor struct {
	Evals [3]float64
	Evecs [3]core.Vec3
	LogS0 float64
}

// FromAngles returns a tensor with the given eigenvalues oriented by
// the polar angles theta, phi and the secondary rotation psi.
func FromAngles(evals [3]float64, theta, phi, psi float64) Tensor {
	return Tensor{Evals: evals, Evecs: core.Frame(theta, phi, psi)}
}

// Matrix composes the symmetric 3x3 tensor matrix sum(l_i e_i e_i^T).
func (t Tensor) Matrix() *mat.SymDense {
	d := mat.NewSymDense(3, nil)
	for i := range 3 {
		e := t.Evecs[i]
		l := t.Evals[i]
		d.SetSym(0, 0, d.At(0, 0)+l*e.X*e.X)
		d.SetSym(1, 1, d.At(1, 1)+l*e.Y*e.Y)
		d.SetSym(2, 2, d.At(2, 2)+l*e.Z*e.Z)
		d.SetSym(0, 1, d.At(0, 1)+l*e.X*e.Y)
		d.SetSym(0, 2, d.At(0, 2)+l*e.X*e.Z)
		d.SetSym(1, 2, d.At(1, 2)+l*e.Y*e.Z)
	}
	return d
}

// ADC returns the apparent diffusion coefficient g^T D g along the
// normalised direction g.
func (t Tensor) ADC(g core.Vec3) float64 {
	adc := 0.0
	for i := range 3 {
		c := g.Dot(t.Evecs[i])
		adc += t.Evals[i] * c * c
	}
	return adc
}

// FA returns the fractional anisotropy of the tensor, in [0, 1] for
// non-negative eigenvalues. A zero tensor has FA 0.
func (t Tensor) FA() float64 {
	return FA(t.Evals)
}

// MD returns the mean diffusivity (l1 + l2 + l3) / 3.
func (t Tensor) MD() float64 {
	return (t.Evals[0] + t.Evals[1] + t.Evals[2]) / 3
}

// AD returns the axial diffusivity, the largest eigenvalue.
func (t Tensor) AD() float64 {
	return t.Evals[0]
}

// RD returns the radial diffusivity, the mean of the two smaller
// eigenvalues.
func (t Tensor) RD() float64 {
	return (t.Evals[1] + t.Evals[2]) / 2
}

// FA returns the fractional anisotropy of an eigenvalue triple:
//
//	FA = sqrt(3/2 * sum((l_i - mean)^2) / sum(l_i^2))
func FA(evals [3]float64) float64 {
	mean := (evals[0] + evals[1] + evals[2]) / 3

	var num, den float64
	for _, l := range evals {
		num += (l - mean) * (l - mean)
		den += l * l
	}
	if den == 0 {
		return 0
	}
	return math.Sqrt(1.5 * num / den)
}
