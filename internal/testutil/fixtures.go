package testutil

import (
	"math"
	"math/rand"
)

// GoldenDirections returns n quasi-uniform gradient directions on the
// unit sphere as polar/azimuthal angle pairs, generated with the
// golden-angle spiral so test schemes are reproducible without a
// direction file.
func GoldenDirections(n int) (theta, phi []float64) {
	theta = make([]float64, n)
	phi = make([]float64, n)
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := range n {
		z := 1 - 2*(float64(i)+0.5)/float64(n)
		theta[i] = math.Acos(z)
		phi[i] = math.Mod(float64(i)*golden, 2*math.Pi)
	}
	return theta, phi
}

// ShellBVals builds a b-value list with the given number of unweighted
// rows followed by perShell rows for each shell, in shell order.
func ShellBVals(shells []float64, perShell, unweighted int) []float64 {
	out := make([]float64, 0, unweighted+len(shells)*perShell)
	for range unweighted {
		out = append(out, 0)
	}
	for _, b := range shells {
		for range perShell {
			out = append(out, b)
		}
	}
	return out
}

// DeterministicNoise generates uniform noise in [-amplitude, amplitude]
// with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}
