// Package shell summarizes measured signals per diffusion shell. Rows
// of an acquisition are grouped by their b-value and each group is
// reduced to flat statistics, with a signal-to-noise estimate that
// references the spread of the unweighted measurements.
package shell

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-dmri/dmri/protocol"
	"github.com/cwbudde/algo-dmri/stats/roi"
)

// ErrLengthMismatch is returned when the signal vector does not match
// the protocol row count.
var ErrLengthMismatch = errors.New("shell: signal length does not match protocol")

// Stats summarizes the signals of one shell. SNR is the shell mean
// over the standard deviation of the unweighted signals, +Inf when
// that spread is zero and NaN without unweighted measurements.
type Stats struct {
	B      float64
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	SNR    float64
}

// Result holds the per-shell breakdown of one signal vector.
type Result struct {
	// Shells in ascending b order.
	Shells []Stats
	// Unweighted summarizes the b=0 class; its SNR is mean/stddev of
	// the class itself.
	Unweighted Stats
}

// Calculate groups the signals by shell and summarizes each group.
func Calculate(t *protocol.Table, signals []float64) (Result, error) {
	if len(signals) != t.Len() {
		return Result{}, fmt.Errorf("%w: %d signals for %d rows", ErrLengthMismatch, len(signals), t.Len())
	}

	bvals, err := t.Column("b")
	if err != nil {
		return Result{}, err
	}
	shells, err := t.Shells()
	if err != nil {
		return Result{}, err
	}

	unweighted := summarizeRows(t.UnweightedIndices(), signals)
	unweighted.SNR = snr(unweighted.Mean, unweighted.StdDev)

	noiseStd := unweighted.StdDev

	weighted := make(map[int]bool, len(signals))
	for _, i := range t.WeightedIndices() {
		weighted[i] = true
	}

	out := Result{
		Shells:     make([]Stats, 0, len(shells)),
		Unweighted: unweighted,
	}
	for _, b := range shells {
		var rows []int
		for i := range signals {
			if weighted[i] && bvals[i] == b {
				rows = append(rows, i)
			}
		}
		s := summarizeRows(rows, signals)
		s.B = b
		if unweighted.N == 0 {
			s.SNR = math.NaN()
		} else {
			s.SNR = snr(s.Mean, noiseStd)
		}
		out.Shells = append(out.Shells, s)
	}
	return out, nil
}

func summarizeRows(rows []int, signals []float64) Stats {
	var run roi.Running
	for _, i := range rows {
		run.Add(signals[i])
	}

	s := Stats{
		N:      run.Count(),
		Mean:   run.Mean(),
		StdDev: run.StdDev(),
		Min:    run.Min(),
		Max:    run.Max(),
	}
	if run.Count() == 1 {
		s.StdDev = 0
	}
	return s
}

func snr(mean, std float64) float64 {
	if std == 0 {
		return math.Inf(1)
	}
	return mean / std
}
