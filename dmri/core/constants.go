package core

import "math"

// Gyromagnetic ratio of the hydrogen nucleus and derived constants.
//
// All protocol and signal computations in this module use SI units:
// gradient strength in T/m, timings in s, b-values in s/m^2 and
// diffusivities in m^2/s.
//
// The derived constants are typed so each derivation step rounds to
// float64, keeping them bit-identical to the equivalent runtime
// expressions.
const (
	// GammaH is the gyromagnetic ratio of the 1H proton in rad s^-1 T^-1.
	GammaH float64 = 267.5987e6

	// GammaHHz is GammaH expressed in Hz/T (divided by 2 pi).
	GammaHHz float64 = GammaH / (2 * math.Pi)

	// GammaHSq is GammaH squared.
	GammaHSq float64 = GammaH * GammaH

	// GammaHHzSq is GammaHHz squared.
	GammaHHzSq float64 = GammaHHz * GammaHHz
)
