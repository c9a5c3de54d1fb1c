package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-dmri/dmri/core"
)

// Rician adds the noise of magnitude-reconstructed MRI to clean
// signals: independent Gaussian noise on both quadrature channels
// followed by the magnitude operation,
//
//	noisy = sqrt((s + n1*sigma)^2 + (n2*sigma)^2)
//
// which biases low signals upwards, as real scanners do.
type Rician struct {
	sigma  float64
	normal distuv.Normal
}

// NewRician returns a noise generator with the given standard
// deviation per channel. The draw sequence is reproducible for a fixed
// seed.
func NewRician(sigma float64, opts ...Option) *Rician {
	cfg := applyOptions(opts)
	return &Rician{
		sigma: sigma,
		normal: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rand.NewPCG(uint64(cfg.seed), uint64(cfg.seed)+1),
		},
	}
}

// Sigma returns the per-channel noise standard deviation.
func (r *Rician) Sigma() float64 { return r.sigma }

// Apply writes noisy versions of the signals into dst and returns it.
// dst is grown as needed; signal is left untouched.
func (r *Rician) Apply(dst, signal []float64) []float64 {
	dst = core.EnsureLen(dst, len(signal))
	for i, s := range signal {
		re := s + r.normal.Rand()*r.sigma
		im := r.normal.Rand() * r.sigma
		dst[i] = math.Sqrt(re*re + im*im)
	}
	return dst
}

// SigmaFromSNR converts a signal-to-noise ratio into the per-channel
// sigma for a reference signal height, conventionally the unweighted
// signal level.
func SigmaFromSNR(reference, snr float64) float64 {
	if snr <= 0 {
		return 0
	}
	return reference / snr
}
