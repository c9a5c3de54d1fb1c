package fit

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
	"github.com/cwbudde/algo-dmri/dmri/core"
	"github.com/cwbudde/algo-dmri/dmri/model"
	"github.com/cwbudde/algo-dmri/internal/testutil"
)

func TestBoundsRoundTrip(t *testing.T) {
	params := []compartment.Param{
		{Name: "d", Lo: 1e-11, Hi: 1e-8},
		{Name: "theta", Lo: 0, Hi: math.Pi},
		{Name: "free", Lo: math.Inf(-1), Hi: math.Inf(1)},
	}
	b := newBounds(params)

	x := []float64{1.7e-9, 0.5, -42}
	u := make([]float64, len(x))
	back := make([]float64, len(x))

	b.encode(x, u)
	b.decode(u, back)

	testutil.RequireSliceNearlyEqual(t, back, x, 1e-12)
}

func TestBoundsClampOutOfRange(t *testing.T) {
	b := newBounds([]compartment.Param{{Name: "w", Lo: 0, Hi: 1}})

	u := make([]float64, 1)
	x := make([]float64, 1)

	b.encode([]float64{1.5}, u)
	b.decode(u, x)
	testutil.RequireNearlyEqual(t, x[0], 1, 1e-12)

	b.encode([]float64{-0.5}, u)
	b.decode(u, x)
	testutil.RequireNearlyEqual(t, x[0], 0, 1e-12)
}

func TestBoundsDecodeStaysInside(t *testing.T) {
	b := newBounds([]compartment.Param{{Name: "w", Lo: 0, Hi: 1}})

	x := make([]float64, 1)
	for _, u := range []float64{-10, -1, 0, 0.5, 3, 100} {
		b.decode([]float64{u}, x)
		if x[0] < 0 || x[0] > 1 {
			t.Fatalf("decode(%g) = %g escapes [0, 1]", u, x[0])
		}
	}
}

// ballModel builds a one-compartment model with free s0 and d.
func ballModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("Ball")
	if err := m.Add("Ball0", compartment.Ball{}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := m.Fix("Ball0.w", 1); err != nil {
		t.Fatalf("Fix failed: %v", err)
	}
	return m
}

func ballSamples() []compartment.Sample {
	bvals := testutil.ShellBVals([]float64{1e9, 2e9, 3e9}, 6, 3)
	samples := make([]compartment.Sample, len(bvals))
	for i, b := range bvals {
		samples[i] = compartment.Sample{Dir: core.Vec3{Z: 1}, B: b}
	}
	return samples
}

func TestFitRecoversBall(t *testing.T) {
	const (
		s0 = 5.0
		d  = 2e-9
	)

	m := ballModel(t)
	samples := ballSamples()
	signal := make([]float64, len(samples))
	for i, s := range samples {
		signal[i] = s0 * math.Exp(-s.B*d)
	}

	res, err := Fit(m, samples, signal)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if res.Cost > 1e-8 {
		t.Fatalf("residual cost too high: %g", res.Cost)
	}
	if res.Evals <= 0 {
		t.Fatalf("expected positive evaluation count, got %d", res.Evals)
	}

	got := map[string]float64{}
	for i, name := range res.Names {
		got[name] = res.X[i]
	}
	testutil.RequireNearlyEqual(t, got["S0.s0"], s0, s0*0.01)
	testutil.RequireNearlyEqual(t, got["Ball0.d"], d, d*0.01)
}

func TestFitWithStart(t *testing.T) {
	const (
		s0 = 5.0
		d  = 2e-9
	)

	m := ballModel(t)
	samples := ballSamples()
	signal := make([]float64, len(samples))
	for i, s := range samples {
		signal[i] = s0 * math.Exp(-s.B*d)
	}

	start := make([]float64, m.NumFree())
	for i, p := range m.Params() {
		switch p.Name {
		case "S0.s0":
			start[i] = s0
		case "Ball0.d":
			start[i] = d
		default:
			start[i] = p.Init
		}
	}

	res, err := Fit(m, samples, signal, WithStart(start))
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if res.Cost > 1e-12 {
		t.Fatalf("fit starting at the optimum should stay there, cost = %g", res.Cost)
	}
}

func TestFitBallStickKeepsTruthSignals(t *testing.T) {
	reg := model.DefaultRegistry()
	m, err := reg.Build("BallStick")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	theta, phi := testutil.GoldenDirections(12)
	samples := make([]compartment.Sample, 0, 15)
	for range 3 {
		samples = append(samples, compartment.Sample{Dir: core.Vec3{Z: 1}})
	}
	for i := range theta {
		samples = append(samples, compartment.Sample{Dir: core.Sphere(theta[i], phi[i]), B: 1e9})
	}

	truth := make([]float64, m.NumFree())
	for i, p := range m.Params() {
		switch p.Name {
		case "S0.s0":
			truth[i] = 1
		case "Ball0.w":
			truth[i] = 0.4
		case "Stick0.w":
			truth[i] = 0.6
		case "Stick0.theta":
			truth[i] = math.Pi / 3
		case "Stick0.phi":
			truth[i] = 0.5
		default:
			truth[i] = p.Init
		}
	}
	signal := m.EvalAll(samples, truth, nil)

	res, err := Fit(m, samples, signal, WithStart(truth))
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// Weights and scale trade off against each other, so compare the
	// predicted signals rather than the raw parameters.
	predicted := m.EvalAll(samples, res.X, nil)
	testutil.RequireSliceNearlyEqual(t, predicted, signal, 1e-6)
}

func TestFitErrors(t *testing.T) {
	samples := ballSamples()
	signal := testutil.Ones(len(samples))

	t.Run("no free params", func(t *testing.T) {
		m := ballModel(t)
		for _, p := range m.Params() {
			if err := m.Fix(p.Name, p.Init); err != nil {
				t.Fatalf("Fix failed: %v", err)
			}
		}
		_, err := Fit(m, samples, signal)
		if !errors.Is(err, ErrNoFreeParams) {
			t.Fatalf("got %v, want ErrNoFreeParams", err)
		}
	})

	t.Run("signal length mismatch", func(t *testing.T) {
		_, err := Fit(ballModel(t), samples, signal[:3])
		if !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("got %v, want ErrLengthMismatch", err)
		}
	})

	t.Run("start length mismatch", func(t *testing.T) {
		_, err := Fit(ballModel(t), samples, signal, WithStart([]float64{1}))
		if !errors.Is(err, ErrLengthMismatch) {
			t.Fatalf("got %v, want ErrLengthMismatch", err)
		}
	})
}

func TestFitVolume(t *testing.T) {
	m := ballModel(t)
	samples := ballSamples()

	truths := []struct{ s0, d float64 }{
		{1, 1e-9},
		{2, 2e-9},
		{5, 0.5e-9},
		{0.5, 3e-9},
	}
	voxels := make([][]float64, len(truths))
	for v, tr := range truths {
		signal := make([]float64, len(samples))
		for i, s := range samples {
			signal[i] = tr.s0 * math.Exp(-s.B*tr.d)
		}
		voxels[v] = signal
	}

	results, err := FitVolume(context.Background(), m, samples, voxels, WithWorkers(2))
	if err != nil {
		t.Fatalf("FitVolume failed: %v", err)
	}
	if len(results) != len(voxels) {
		t.Fatalf("got %d results for %d voxels", len(results), len(voxels))
	}

	for v, res := range results {
		got := map[string]float64{}
		for i, name := range res.Names {
			got[name] = res.X[i]
		}
		testutil.RequireNearlyEqual(t, got["S0.s0"], truths[v].s0, truths[v].s0*0.01)
		testutil.RequireNearlyEqual(t, got["Ball0.d"], truths[v].d, truths[v].d*0.01)
	}
}

func TestFitVolumeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := ballModel(t)
	samples := ballSamples()
	voxels := [][]float64{testutil.Ones(len(samples))}

	_, err := FitVolume(ctx, m, samples, voxels)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
