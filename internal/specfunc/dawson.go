// Package specfunc provides special functions shared by the diffusion
// signal model packages.
package specfunc

import "math"

const (
	dawsonCutoff = 0.2
	dawsonH      = 0.25
	dawsonTerms  = 13

	invSqrtPi = 0.5641895835477563
)

// dawsonTable holds exp(-((2i+1)h)^2) for Rybicki's sampling expansion.
var dawsonTable = buildDawsonTable()

func buildDawsonTable() [dawsonTerms]float64 {
	var t [dawsonTerms]float64
	for i := range t {
		v := float64(2*i+1) * dawsonH
		t[i] = math.Exp(-v * v)
	}
	return t
}

// Dawson evaluates Dawson's integral
//
//	D(x) = exp(-x^2) * integral(exp(t^2), t=0..x)
//
// for any real x. Below the cutoff a nested Maclaurin series is used;
// elsewhere Rybicki's exponentially convergent sampling method gives
// close to full double precision. The function is odd with D(0) = 0 and
// decays as 1/(2x) for large |x|.
func Dawson(x float64) float64 {
	if math.Abs(x) < dawsonCutoff {
		// Coefficients follow 2/(2j+1); eight terms keep the
		// truncation error below the cutoff's rounding noise.
		x2 := x * x
		return x * (1 - 2.0/3.0*x2*(1-2.0/5.0*x2*(1-2.0/7.0*x2*
			(1-2.0/9.0*x2*(1-2.0/11.0*x2*(1-2.0/13.0*x2*
				(1-2.0/15.0*x2*(1-2.0/17.0*x2))))))))
	}

	xx := math.Abs(x)
	n0 := 2 * int(0.5*xx/dawsonH+0.5)
	xp := xx - float64(n0)*dawsonH
	e1 := math.Exp(2 * xp * dawsonH)
	e2 := e1 * e1
	d1 := float64(n0 + 1)
	d2 := d1 - 2

	sum := 0.0
	for i := range dawsonTerms {
		sum += dawsonTable[i] * (e1/d1 + 1/(d2*e1))
		d1 += 2
		d2 -= 2
		e1 *= e2
	}

	return invSqrtPi * math.Copysign(math.Exp(-xp*xp), x) * sum
}
