package sim

import (
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
)

// Phantom holds smoothly varying ground-truth parameter maps over a
// 3-D grid, one map per model parameter. Maps are stored flat in
// i + nx*(j + ny*k) voxel order.
type Phantom struct {
	Nx, Ny, Nz int
	Names      []string
	Maps       [][]float64
}

// NewPhantom generates a phantom for the given free parameters. Each
// parameter gets an independent simplex-noise field scaled into its
// value range: the fit bounds by default, or a WithRange override.
// Parameters with an unbounded range hold their initial value
// everywhere.
func NewPhantom(nx, ny, nz int, params []compartment.Param, opts ...Option) (*Phantom, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrEmptyVolume, nx, ny, nz)
	}
	cfg := applyOptions(opts)

	p := &Phantom{
		Nx:    nx,
		Ny:    ny,
		Nz:    nz,
		Names: make([]string, len(params)),
		Maps:  make([][]float64, len(params)),
	}

	for pi, param := range params {
		p.Names[pi] = param.Name

		lo, hi := param.Lo, param.Hi
		if r, ok := cfg.ranges[param.Name]; ok {
			lo, hi = r[0], r[1]
		}

		data := make([]float64, nx*ny*nz)
		if math.IsInf(lo, 0) || math.IsInf(hi, 0) || hi <= lo {
			for i := range data {
				data[i] = param.Init
			}
			p.Maps[pi] = data
			continue
		}

		noise := opensimplex.NewNormalized(cfg.seed + int64(pi))
		idx := 0
		for k := range nz {
			for j := range ny {
				for i := range nx {
					v := noise.Eval3(float64(i)*cfg.freq, float64(j)*cfg.freq, float64(k)*cfg.freq)
					data[idx] = lo + (hi-lo)*v
					idx++
				}
			}
		}
		p.Maps[pi] = data
	}

	return p, nil
}

// NumVoxels returns the grid size.
func (p *Phantom) NumVoxels() int { return p.Nx * p.Ny * p.Nz }

// AtIndex gathers the parameter vector of the flat voxel index into
// dst, growing it as needed.
func (p *Phantom) AtIndex(idx int, dst []float64) []float64 {
	if cap(dst) < len(p.Maps) {
		dst = make([]float64, len(p.Maps))
	}
	dst = dst[:len(p.Maps)]
	for pi := range p.Maps {
		dst[pi] = p.Maps[pi][idx]
	}
	return dst
}

// At gathers the parameter vector at grid position (i, j, k).
func (p *Phantom) At(i, j, k int, dst []float64) []float64 {
	return p.AtIndex(i+p.Nx*(j+p.Ny*k), dst)
}
