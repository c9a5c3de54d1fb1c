package specfunc

import (
	"math"
	"testing"
)

func TestDawsonReferenceValues(t *testing.T) {
	// Reference values from Abramowitz & Stegun, table 7.5, extended to
	// double precision.
	cases := []struct {
		x    float64
		want float64
		tol  float64
	}{
		{0.0, 0.0, 0},
		{0.1, 0.09933599239785286, 1e-15},
		{0.5, 0.4244363835020223, 1e-15},
		{1.0, 0.5380795069127684, 1e-15},
		{2.0, 0.3013403889237920, 1e-15},
	}

	for _, tc := range cases {
		got := Dawson(tc.x)
		if math.Abs(got-tc.want) > tc.tol {
			t.Errorf("Dawson(%v) = %.17g, want %.17g", tc.x, got, tc.want)
		}
	}
}

func TestDawsonOdd(t *testing.T) {
	for _, x := range []float64{0.01, 0.1, 0.19, 0.2, 0.5, 1, 2, 5, 10, 50} {
		pos := Dawson(x)
		neg := Dawson(-x)
		if neg != -pos {
			t.Errorf("Dawson(-%v) = %v, want %v", x, neg, -pos)
		}
	}

	if got := Dawson(0); got != 0 {
		t.Errorf("Dawson(0) = %v, want 0", got)
	}
}

func TestDawsonBranchContinuity(t *testing.T) {
	// The series/sampling switch sits at 0.2; both sides must agree to
	// within the local slope times the step.
	const eps = 1e-12

	lo := Dawson(0.2 - eps)
	hi := Dawson(0.2 + eps)

	if diff := math.Abs(hi - lo); diff > 1e-10 {
		t.Errorf("branch mismatch at cutoff: |%v - %v| = %v", hi, lo, diff)
	}
}

func TestDawsonDerivativeIdentity(t *testing.T) {
	// D'(x) = 1 - 2*x*D(x) pins the function against its defining ODE
	// on both branches.
	const h = 1e-6

	for _, x := range []float64{0.05, 0.15, 0.3, 0.7, 1.0, 2.5, 4.0, 8.0} {
		numeric := (Dawson(x+h) - Dawson(x-h)) / (2 * h)
		analytic := 1 - 2*x*Dawson(x)
		if diff := math.Abs(numeric - analytic); diff > 1e-8 {
			t.Errorf("ODE identity violated at x=%v: numeric %v, analytic %v", x, numeric, analytic)
		}
	}
}

func TestDawsonAsymptoticTail(t *testing.T) {
	// For large x, 2*x*D(x) approaches 1 from above.
	for _, x := range []float64{10, 20, 50, 100} {
		scaled := 2 * x * Dawson(x)
		if scaled <= 1 || scaled > 1.01 {
			t.Errorf("2*x*Dawson(x) = %v at x=%v, want just above 1", scaled, x)
		}
	}
}

func TestDawsonMonotoneBeforePeak(t *testing.T) {
	// D rises monotonically up to its maximum near x = 0.924.
	prev := Dawson(0.0)
	for x := 0.02; x <= 0.9; x += 0.02 {
		cur := Dawson(x)
		if cur <= prev {
			t.Fatalf("Dawson not increasing at x=%v: %v <= %v", x, cur, prev)
		}
		prev = cur
	}
}
