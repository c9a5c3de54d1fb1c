package fit

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
	"github.com/cwbudde/algo-dmri/dmri/model"
	"github.com/cwbudde/algo-dmri/internal/xlog"
)

// FitVolume fits m independently to every voxel signal vector. Voxels
// are distributed over WithWorkers concurrent fits; results keep the
// voxel order of the input. The first failing voxel aborts the whole
// run and its error is returned.
func FitVolume(ctx context.Context, m *model.Model, samples []compartment.Sample, voxels [][]float64, opts ...Option) ([]Result, error) {
	cfg := applyOptions(opts)
	logger := xlog.OrDiscard(cfg.logger)

	results := make([]Result, len(voxels))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	var done atomic.Int64
	for i, signal := range voxels {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := fitOne(m, samples, signal, cfg)
			if err != nil {
				return err
			}
			results[i] = res

			if n := done.Add(1); n%int64(cfg.logEvery) == 0 {
				logger.Info("volume fit progress", "model", m.Name(), "fitted", n, "total", len(voxels))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
