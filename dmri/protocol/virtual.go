package protocol

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dmri/dmri/core"
	"github.com/cwbudde/algo-dmri/internal/polyroot"
)

// defaultMaxG is the assumed scanner gradient limit in T/m when a
// protocol carries only b-values.
const defaultMaxG = 0.04

// deltaFitTol is the relative slack allowed when checking a solved
// pulse duration against the pulse separation.
const deltaFitTol = 1e-9

// Timings holds the pulse sequence timing columns: gradient amplitude
// G in T/m, pulse separation Delta and pulse duration SmallDelta (the
// file column "delta") in seconds.
type Timings struct {
	G          []float64
	Delta      []float64
	SmallDelta []float64
}

// Timings derives the pulse sequence timings from the stored columns.
// It tries, in order: all three timing columns stored; G from
// (b, Delta, delta); delta from (b, Delta, G); Delta from
// (b, G, delta); and finally a uniform guess from b alone using maxG
// (stored or the scanner default). Without a real b column none of the
// fallbacks apply and ErrTimingUnderdetermined is returned.
func (t *Table) Timings() (Timings, error) {
	n := t.Len()

	if t.IsColumnReal("G") && t.IsColumnReal("delta") && t.IsColumnReal("Delta") {
		return Timings{
			G:          copySlice(t.cols["G"]),
			Delta:      copySlice(t.cols["Delta"]),
			SmallDelta: copySlice(t.cols["delta"]),
		}, nil
	}

	if t.IsColumnReal("b") && t.IsColumnReal("Delta") && t.IsColumnReal("delta") {
		b := t.cols["b"]
		bigD := t.cols["Delta"]
		smallD := t.cols["delta"]

		g := make([]float64, n)
		for i := range g {
			g[i] = math.Sqrt(b[i] / (core.GammaHSq * smallD[i] * smallD[i] * (bigD[i] - smallD[i]/3)))
		}
		for _, i := range t.UnweightedIndices() {
			g[i] = 0
		}

		return Timings{G: g, Delta: copySlice(bigD), SmallDelta: copySlice(smallD)}, nil
	}

	if t.IsColumnReal("b") && t.IsColumnReal("Delta") && t.IsColumnReal("G") {
		b := t.cols["b"]
		bigD := t.cols["Delta"]
		g := t.cols["G"]

		smallD := make([]float64, n)
		for i := range smallD {
			if b[i] == 0 {
				continue
			}
			d, err := pulseDuration(b[i], bigD[i], g[i])
			if err != nil {
				return Timings{}, fmt.Errorf("row %d: %w", i, err)
			}
			smallD[i] = d
		}

		return Timings{G: copySlice(g), Delta: copySlice(bigD), SmallDelta: smallD}, nil
	}

	if t.IsColumnReal("b") && t.IsColumnReal("G") && t.IsColumnReal("delta") {
		b := t.cols["b"]
		g := t.cols["G"]
		smallD := t.cols["delta"]

		bigD := make([]float64, n)
		for i := range bigD {
			gg := core.GammaHSq * g[i] * g[i]
			v := (b[i] + gg*smallD[i]*smallD[i]*smallD[i]/3) / (gg * smallD[i] * smallD[i])
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			bigD[i] = v
		}

		return Timings{G: copySlice(g), Delta: bigD, SmallDelta: copySlice(smallD)}, nil
	}

	if !t.IsColumnReal("b") {
		return Timings{}, ErrTimingUnderdetermined
	}

	// Only b is known. Assume each shell runs the gradients at maxG
	// with Delta == delta, scaled from the strongest shell.
	b := t.cols["b"]
	maxG := t.cols["maxG"]
	if maxG == nil {
		maxG = make([]float64, n)
		for i := range maxG {
			maxG[i] = defaultMaxG
		}
	}

	shells, err := t.Shells()
	if err != nil {
		return Timings{}, err
	}
	bmax := 1.0
	if len(shells) > 0 {
		bmax = shells[len(shells)-1]
	}

	g := make([]float64, n)
	bigD := make([]float64, n)
	smallD := make([]float64, n)
	for i := range g {
		d := math.Cbrt(3 * bmax / (2 * core.GammaHSq * maxG[i] * maxG[i]))
		bigD[i] = d
		smallD[i] = d
		g[i] = math.Sqrt(b[i]/bmax) * maxG[i]
	}

	return Timings{G: g, Delta: bigD, SmallDelta: smallD}, nil
}

// QValues returns the q-space radius gamma*G*delta/(2*pi) per row, in
// 1/m.
func (t *Table) QValues() ([]float64, error) {
	tm, err := t.Timings()
	if err != nil {
		return nil, err
	}

	q := make([]float64, t.Len())
	for i := range q {
		q[i] = core.GammaH * tm.G[i] * tm.SmallDelta[i] / (2 * math.Pi)
	}
	return q, nil
}

func (t *Table) virtualB() ([]float64, error) {
	tm, err := t.Timings()
	if err != nil {
		return nil, err
	}

	b := make([]float64, t.Len())
	for i := range b {
		b[i] = core.GammaHSq * tm.G[i] * tm.G[i] *
			tm.SmallDelta[i] * tm.SmallDelta[i] * (tm.Delta[i] - tm.SmallDelta[i]/3)
	}
	return b, nil
}

// pulseDuration solves gamma^2 G^2 delta^2 (Delta - delta/3) = b for
// the pulse duration delta. The cubic has up to three real roots; the
// physical one is the smallest positive root that still fits inside
// the pulse separation. When no root fits, the smallest positive root
// is returned anyway so slightly inconsistent protocols stay loadable.
func pulseDuration(b, bigDelta, g float64) (float64, error) {
	roots, err := polyroot.RealRoots([]float64{
		-1.0 / 3.0,
		bigDelta,
		0,
		-b / (core.GammaHSq * g * g),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoTimingSolution, err)
	}

	smallest := math.NaN()
	for _, r := range roots {
		if r <= 0 {
			continue
		}
		if r <= bigDelta*(1+deltaFitTol) {
			return r, nil
		}
		smallest = r
		break
	}
	if math.IsNaN(smallest) {
		return 0, ErrNoTimingSolution
	}
	return smallest, nil
}
