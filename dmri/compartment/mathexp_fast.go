//go:build fastmath

package compartment

import "github.com/meko-christian/algo-approx"

// signalExp computes exp(x) using fast approximation. Signal factors
// live in [0, 1], well inside FastExp's accurate range.
func signalExp(x float64) float64 {
	return approx.FastExp(x)
}
