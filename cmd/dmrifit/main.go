// Command dmrifit fits a compartment model to every voxel of a
// diffusion-weighted volume and writes one parameter map per free
// parameter.
//
// Usage:
//
//	dmrifit -data data.nii.gz -protocol scheme.prtcl -model BallStick -out maps/
//
// Examples:
//
//	dmrifit -data data.nii.gz -protocol scheme.prtcl -mask brain.nii.gz -model NoddiEC -out maps/
//	dmrifit -data data.nii.gz -protocol scheme.prtcl -model BallStick -workers 4 -v -out maps/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-dmri/dmri/fit"
	"github.com/cwbudde/algo-dmri/dmri/model"
	"github.com/cwbudde/algo-dmri/dmri/nifti"
	"github.com/cwbudde/algo-dmri/dmri/protocol"
	"github.com/cwbudde/algo-dmri/stats/roi"
	"github.com/cwbudde/algo-dmri/stats/shell"
)

func main() {
	dataPath := flag.String("data", "", "diffusion-weighted 4-D volume (.nii/.nii.gz)")
	protoPath := flag.String("protocol", "", "acquisition protocol file (.prtcl)")
	maskPath := flag.String("mask", "", "binary mask volume, fits only voxels with non-zero mask")
	modelName := flag.String("model", "BallStick", "model name")
	out := flag.String("out", "", "output directory for parameter maps")
	workers := flag.Int("workers", 0, "concurrent voxel fits (0 = all CPUs)")
	maxEvals := flag.Int("maxevals", 0, "objective evaluation limit per voxel (0 = default)")
	verbose := flag.Bool("v", false, "log fit progress to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dmrifit [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Fits a compartment model voxel-wise and writes parameter maps.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *dataPath == "" || *protoPath == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*dataPath, *protoPath, *maskPath, *modelName, *out, *workers, *maxEvals, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(dataPath, protoPath, maskPath, modelName, out string, workers, maxEvals int, verbose bool) error {
	img, err := nifti.Load(dataPath)
	if err != nil {
		return err
	}
	tbl, err := protocol.Load(protoPath)
	if err != nil {
		return err
	}
	if tbl.Len() != img.Nt {
		return fmt.Errorf("protocol has %d rows but data has %d volumes", tbl.Len(), img.Nt)
	}

	m, err := model.DefaultRegistry().Build(modelName)
	if err != nil {
		return err
	}
	samples, err := model.SamplesFromTable(tbl)
	if err != nil {
		return err
	}

	mask, err := loadMask(maskPath, img)
	if err != nil {
		return err
	}

	nvox := img.NumVoxels()
	var voxels [][]float64
	for vi := range nvox {
		if !mask[vi] {
			continue
		}
		series := make([]float64, img.Nt)
		for t := range img.Nt {
			series[t] = img.Data[t*nvox+vi]
		}
		voxels = append(voxels, series)
	}
	if len(voxels) == 0 {
		return fmt.Errorf("mask selects no voxels")
	}

	opts := []fit.Option{}
	if workers > 0 {
		opts = append(opts, fit.WithWorkers(workers))
	}
	if maxEvals > 0 {
		opts = append(opts, fit.WithMaxEvals(maxEvals))
	}
	if verbose {
		opts = append(opts, fit.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}

	results, err := fit.FitVolume(context.Background(), m, samples, voxels, opts...)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	if err := writeMaps(out, img, mask, m, results); err != nil {
		return err
	}

	printSummaries(m, results)
	return printShellStats(tbl, img, mask)
}

// loadMask returns the per-voxel inclusion mask, everything when no
// mask file is given.
func loadMask(path string, img *nifti.Image) ([]bool, error) {
	mask := make([]bool, img.NumVoxels())
	if path == "" {
		for i := range mask {
			mask[i] = true
		}
		return mask, nil
	}

	mimg, err := nifti.Load(path)
	if err != nil {
		return nil, err
	}
	if mimg.NumVoxels() != img.NumVoxels() {
		return nil, fmt.Errorf("mask has %d voxels, data has %d", mimg.NumVoxels(), img.NumVoxels())
	}
	for i, v := range mimg.Volume(0) {
		mask[i] = v != 0
	}
	return mask, nil
}

func writeMaps(out string, img *nifti.Image, mask []bool, m *model.Model, results []fit.Result) error {
	params := m.Params()
	values := make([]float64, len(results))

	for pi, p := range params {
		for ri, res := range results {
			values[ri] = res.X[pi]
		}
		full, err := roi.Restore(values, mask, 0)
		if err != nil {
			return err
		}

		pmap := nifti.NewImage(img.Nx, img.Ny, img.Nz, 1)
		pmap.Dx, pmap.Dy, pmap.Dz = img.Dx, img.Dy, img.Dz
		copy(pmap.Data, full)
		path := filepath.Join(out, strings.ReplaceAll(p.Name, ".", "_")+".nii.gz")
		if err := nifti.Save(path, pmap); err != nil {
			return err
		}
	}

	for ri, res := range results {
		values[ri] = res.Cost
	}
	full, err := roi.Restore(values, mask, 0)
	if err != nil {
		return err
	}
	cmap := nifti.NewImage(img.Nx, img.Ny, img.Nz, 1)
	copy(cmap.Data, full)
	return nifti.Save(filepath.Join(out, "cost.nii.gz"), cmap)
}

func printSummaries(m *model.Model, results []fit.Result) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Parameter\tMean\tStdDev\tMedian\tP5\tP95")
	fmt.Fprintln(tw, "---------\t----\t------\t------\t--\t---")

	values := make([]float64, len(results))
	for pi, p := range m.Params() {
		for ri, res := range results {
			values[ri] = res.X[pi]
		}
		s := roi.Summarize(values)
		fmt.Fprintf(tw, "%s\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\n", p.Name, s.Mean, s.StdDev, s.Median, s.P5, s.P95)
	}
	tw.Flush()
}

// printShellStats reports per-shell statistics of the mean masked
// signal.
func printShellStats(tbl *protocol.Table, img *nifti.Image, mask []bool) error {
	mean := make([]float64, img.Nt)
	for t := range img.Nt {
		var run roi.Running
		for vi, v := range img.Volume(t) {
			if mask[vi] {
				run.Add(v)
			}
		}
		mean[t] = run.Mean()
	}

	res, err := shell.Calculate(tbl, mean)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nShell [s/m^2]\tN\tMean\tSNR")
	fmt.Fprintf(tw, "b=0\t%d\t%.6g\t%.4g\n", res.Unweighted.N, res.Unweighted.Mean, res.Unweighted.SNR)
	for _, s := range res.Shells {
		fmt.Fprintf(tw, "%.6g\t%d\t%.6g\t%.4g\n", s.B, s.N, s.Mean, s.SNR)
	}
	return tw.Flush()
}
