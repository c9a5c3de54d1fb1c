// Package roi summarizes parameter maps over regions of interest:
// single-pass running statistics, quantile summaries and mask-based
// extraction between full volumes and packed ROI vectors.
package roi

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrMaskLength is returned when a mask does not match the data it is
// applied to.
var ErrMaskLength = errors.New("roi: mask length mismatch")

// Running accumulates mean and variance in one pass with Welford's
// algorithm, plus extrema. The zero value is ready to use.
type Running struct {
	n    int
	mean float64
	m2   float64
	min  float64
	max  float64
}

// Add folds one value into the accumulator.
func (r *Running) Add(x float64) {
	if r.n == 0 {
		r.min = x
		r.max = x
	} else {
		if x < r.min {
			r.min = x
		}
		if x > r.max {
			r.max = x
		}
	}

	r.n++
	delta := x - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (x - r.mean)
}

// Count returns the number of accumulated values.
func (r *Running) Count() int { return r.n }

// Mean returns the running mean, NaN when empty.
func (r *Running) Mean() float64 {
	if r.n == 0 {
		return math.NaN()
	}
	return r.mean
}

// Variance returns the unbiased sample variance, NaN for fewer than
// two values.
func (r *Running) Variance() float64 {
	if r.n < 2 {
		return math.NaN()
	}
	return r.m2 / float64(r.n-1)
}

// StdDev returns the sample standard deviation.
func (r *Running) StdDev() float64 {
	return math.Sqrt(r.Variance())
}

// Min returns the smallest accumulated value, NaN when empty.
func (r *Running) Min() float64 {
	if r.n == 0 {
		return math.NaN()
	}
	return r.min
}

// Max returns the largest accumulated value, NaN when empty.
func (r *Running) Max() float64 {
	if r.n == 0 {
		return math.NaN()
	}
	return r.max
}

// Summary holds the flat statistics of one map.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
	P5     float64
	P95    float64
}

// Summarize computes the summary of a value vector. Empty input gives
// an all-NaN summary with N 0.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, StdDev: nan, Min: nan, Max: nan, Median: nan, P5: nan, P95: nan}
	}

	var run Running
	for _, v := range values {
		run.Add(v)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s := Summary{
		N:      run.Count(),
		Mean:   run.Mean(),
		StdDev: run.StdDev(),
		Min:    run.Min(),
		Max:    run.Max(),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P5:     stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	if run.Count() == 1 {
		s.StdDev = 0
	}
	return s
}

// Extract packs the values of data where mask is set into a dense
// vector, in index order.
func Extract(data []float64, mask []bool) ([]float64, error) {
	if len(data) != len(mask) {
		return nil, fmt.Errorf("%w: %d values, %d mask entries", ErrMaskLength, len(data), len(mask))
	}

	out := make([]float64, 0, len(data))
	for i, m := range mask {
		if m {
			out = append(out, data[i])
		}
	}
	return out, nil
}

// Restore scatters a packed ROI vector back into a full volume,
// filling unmasked positions with fill. The number of set mask entries
// must match len(values).
func Restore(values []float64, mask []bool, fill float64) ([]float64, error) {
	out := make([]float64, len(mask))
	vi := 0
	for i, m := range mask {
		if !m {
			out[i] = fill
			continue
		}
		if vi >= len(values) {
			return nil, fmt.Errorf("%w: %d values for more masked voxels", ErrMaskLength, len(values))
		}
		out[i] = values[vi]
		vi++
	}
	if vi != len(values) {
		return nil, fmt.Errorf("%w: %d values for %d masked voxels", ErrMaskLength, len(values), vi)
	}
	return out, nil
}
