package fit

import (
	"math"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
)

// bounds maps between the constrained model space and the unconstrained
// optimizer space with the cosine-square transform
//
//	x = lo + (hi - lo) * cos^2(u)
//
// which keeps every decoded value inside [lo, hi] for any real u.
// Parameters with an infinite bound pass through unchanged.
type bounds struct {
	lo []float64
	hi []float64
}

func newBounds(params []compartment.Param) bounds {
	b := bounds{
		lo: make([]float64, len(params)),
		hi: make([]float64, len(params)),
	}
	for i, p := range params {
		b.lo[i] = p.Lo
		b.hi[i] = p.Hi
	}
	return b
}

func (b bounds) bounded(i int) bool {
	return !math.IsInf(b.lo[i], 0) && !math.IsInf(b.hi[i], 0) && b.hi[i] > b.lo[i]
}

// encode maps model values into optimizer space, clamping values onto
// the boundary first so out-of-range starts stay representable.
func (b bounds) encode(x, u []float64) {
	for i := range x {
		if !b.bounded(i) {
			u[i] = x[i]
			continue
		}
		f := (x[i] - b.lo[i]) / (b.hi[i] - b.lo[i])
		if f < 0 {
			f = 0
		} else if f > 1 {
			f = 1
		}
		u[i] = math.Acos(math.Sqrt(f))
	}
}

// decode maps optimizer values back into model space.
func (b bounds) decode(u, x []float64) {
	for i := range u {
		if !b.bounded(i) {
			x[i] = u[i]
			continue
		}
		c := math.Cos(u[i])
		x[i] = b.lo[i] + (b.hi[i]-b.lo[i])*c*c
	}
}
