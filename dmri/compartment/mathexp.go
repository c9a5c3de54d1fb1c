//go:build !fastmath

package compartment

import "math"

// signalExp computes exp(x) using standard library math.
func signalExp(x float64) float64 {
	return math.Exp(x)
}
