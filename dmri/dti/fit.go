package dti

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
	"github.com/cwbudde/algo-dmri/dmri/core"
)

// FitLLS fits a diffusion tensor to the measured signals with
// log-linear least squares. Each sample contributes one equation
//
//	ln S = ln S0 - b * g^T D g
//
// linear in the six tensor components and ln S0, solved by QR
// factorisation. Signals must be strictly positive; at least seven
// samples with sufficiently diverse directions are required.
func FitLLS(samples []compartment.Sample, signal []float64) (Tensor, error) {
	n := len(samples)
	if n < 7 {
		return Tensor{}, fmt.Errorf("%w: got %d, need 7", ErrTooFewSamples, n)
	}
	if len(signal) != n {
		return Tensor{}, fmt.Errorf("%w: %d signals for %d samples", ErrLengthMismatch, len(signal), n)
	}

	a := mat.NewDense(n, 7, nil)
	y := mat.NewVecDense(n, nil)
	for i, s := range samples {
		if signal[i] <= 0 || math.IsNaN(signal[i]) {
			return Tensor{}, fmt.Errorf("%w: %g at row %d", ErrNonPositiveSignal, signal[i], i)
		}
		g := s.Dir
		a.Set(i, 0, -s.B*g.X*g.X)
		a.Set(i, 1, -s.B*g.Y*g.Y)
		a.Set(i, 2, -s.B*g.Z*g.Z)
		a.Set(i, 3, -2*s.B*g.X*g.Y)
		a.Set(i, 4, -2*s.B*g.X*g.Z)
		a.Set(i, 5, -2*s.B*g.Y*g.Z)
		a.Set(i, 6, 1)
		y.SetVec(i, math.Log(signal[i]))
	}

	var qr mat.QR
	qr.Factorize(a)

	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, y); err != nil {
		return Tensor{}, fmt.Errorf("%w: %v", ErrSingularFit, err)
	}

	d := mat.NewSymDense(3, nil)
	d.SetSym(0, 0, x.AtVec(0))
	d.SetSym(1, 1, x.AtVec(1))
	d.SetSym(2, 2, x.AtVec(2))
	d.SetSym(0, 1, x.AtVec(3))
	d.SetSym(0, 2, x.AtVec(4))
	d.SetSym(1, 2, x.AtVec(5))

	t, err := decompose(d)
	if err != nil {
		return Tensor{}, err
	}
	t.LogS0 = x.AtVec(6)
	return t, nil
}

// Decompose returns the eigen decomposition of a symmetric tensor
// matrix with eigenvalues sorted descending.
func Decompose(d *mat.SymDense) (Tensor, error) {
	return decompose(d)
}

func decompose(d *mat.SymDense) (Tensor, error) {
	var eig mat.EigenSym
	if !eig.Factorize(d, true) {
		return Tensor{}, fmt.Errorf("%w: eigen decomposition failed", ErrSingularFit)
	}

	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// EigenSym sorts ascending; the tensor convention is descending.
	var t Tensor
	for i := range 3 {
		j := 2 - i
		t.Evals[i] = vals[j]
		t.Evecs[i] = core.Vec3{X: vecs.At(0, j), Y: vecs.At(1, j), Z: vecs.At(2, j)}
	}
	return t, nil
}
