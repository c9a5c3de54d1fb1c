package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
	"github.com/cwbudde/algo-dmri/dmri/model"
)

// Dataset evaluates the model at every phantom voxel and returns the
// simulated 4-D data, laid out voxel-fastest: value (vox, t) lives at
// data[t*numVoxels + vox], matching the volume order of dmri/nifti.
// With a non-zero WithSigma the signals carry Rician noise; draws are
// seeded per voxel, so the result is reproducible regardless of how
// the work is scheduled.
func Dataset(ctx context.Context, m *model.Model, samples []compartment.Sample, p *Phantom, opts ...Option) ([]float64, error) {
	cfg := applyOptions(opts)

	params := m.Params()
	if len(params) != len(p.Names) {
		return nil, fmt.Errorf("%w: phantom has %d maps, model %q has %d free parameters",
			ErrParamsMismatch, len(p.Names), m.Name(), len(params))
	}
	for i, param := range params {
		if p.Names[i] != param.Name {
			return nil, fmt.Errorf("%w: map %d is %q, model expects %q",
				ErrParamsMismatch, i, p.Names[i], param.Name)
		}
	}

	nvox := p.NumVoxels()
	nt := len(samples)
	data := make([]float64, nvox*nt)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	// Chunk by z-slice to keep goroutine count independent of volume
	// size.
	sliceVox := p.Nx * p.Ny
	for k := range p.Nz {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var x, signal, noisy []float64
			for vi := k * sliceVox; vi < (k+1)*sliceVox; vi++ {
				x = p.AtIndex(vi, x)
				signal = m.EvalAll(samples, x, signal)

				out := signal
				if cfg.sigma > 0 {
					r := NewRician(cfg.sigma, WithSeed(cfg.seed+int64(vi)))
					noisy = r.Apply(noisy, signal)
					out = noisy
				}
				for t, v := range out {
					data[t*nvox+vi] = v
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}
