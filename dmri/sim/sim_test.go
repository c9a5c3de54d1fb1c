package sim

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
	bvals := testutil.ShellBVals([]float64{1e9, 2e9}, 4, 2)
	samples := make([]compartment.Sample, len(bvals))
	for i, b := range bvals {
		samples[i] = compartment.Sample{Dir: core.Vec3{Z: 1}, B: b}
	}
	return samples
}

func TestSignalsMatchesEvalAll(t *testing.T) {
	m := ballModel(t)
	samples := ballSamples()
	x := m.Defaults()

	got := Signals(m, samples, x)
	want := m.EvalAll(samples, x, nil)

	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestRicianDeterministic(t *testing.T) {
	signal := testutil.DC(0.5, 64)

	a := NewRician(0.1, WithSeed(7)).Apply(nil, signal)
	b := NewRician(0.1, WithSeed(7)).Apply(nil, signal)
	c := NewRician(0.1, WithSeed(8)).Apply(nil, signal)

	testutil.RequireSliceNearlyEqual(t, a, b, 0)

	diff, err := testutil.MaxAbsDiff(a, c)
	if err != nil {
		t.Fatalf("MaxAbsDiff failed: %v", err)
	}
	if diff == 0 {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestRicianBiasOnZeroSignal(t *testing.T) {
	// With zero underlying signal the magnitude follows a Rayleigh
	// distribution with mean sigma*sqrt(pi/2).
	const sigma = 1.0
	signal := make([]float64, 20000)

	noisy := NewRician(sigma, WithSeed(42)).Apply(nil, signal)

	sum := 0.0
	for _, v := range noisy {
		if v < 0 {
			t.Fatalf("negative magnitude %g", v)
		}
		sum += v
	}
	mean := sum / float64(len(noisy))
	testutil.RequireNearlyEqual(t, mean, sigma*math.Sqrt(math.Pi/2), 0.05)
}

func TestRicianZeroSigmaIsIdentity(t *testing.T) {
	signal := testutil.DeterministicNoise(3, 1, 32)
	for i := range signal {
		signal[i] = math.Abs(signal[i])
	}

	noisy := NewRician(0).Apply(nil, signal)
	testutil.RequireSliceNearlyEqual(t, noisy, signal, 0)
}

func TestSigmaFromSNR(t *testing.T) {
	testutil.RequireNearlyEqual(t, SigmaFromSNR(100, 20), 5, 1e-12)
	testutil.RequireNearlyEqual(t, SigmaFromSNR(100, 0), 0, 0)
}

func TestPhantomRespectsBounds(t *testing.T) {
	params := []compartment.Param{
		{Name: "d", Init: 1.7e-9, Lo: 1e-10, Hi: 3e-9},
		{Name: "w", Init: 0.5, Lo: 0, Hi: 1},
	}

	p, err := NewPhantom(8, 8, 4, params, WithSeed(11))
	if err != nil {
		t.Fatalf("NewPhantom failed: %v", err)
	}

	for pi, m := range p.Maps {
		lo, hi := params[pi].Lo, params[pi].Hi
		for _, v := range m {
			if v < lo || v > hi {
				t.Fatalf("map %q value %g escapes [%g, %g]", p.Names[pi], v, lo, hi)
			}
		}
	}
}

func TestPhantomUnboundedHoldsInit(t *testing.T) {
	params := []compartment.Param{
		{Name: "offset", Init: 3, Lo: math.Inf(-1), Hi: math.Inf(1)},
	}

	p, err := NewPhantom(4, 4, 2, params)
	if err != nil {
		t.Fatalf("NewPhantom failed: %v", err)
	}
	for _, v := range p.Maps[0] {
		if v != 3 {
			t.Fatalf("unbounded parameter varies: got %g", v)
		}
	}
}

func TestPhantomRangeOverride(t *testing.T) {
	params := []compartment.Param{
		{Name: "S0.s0", Init: 1, Lo: 0, Hi: 1e10},
	}

	p, err := NewPhantom(6, 6, 3, params, WithRange("S0.s0", 800, 1200))
	if err != nil {
		t.Fatalf("NewPhantom failed: %v", err)
	}
	for _, v := range p.Maps[0] {
		if v < 800 || v > 1200 {
			t.Fatalf("override ignored: got %g", v)
		}
	}
}

func TestPhantomEmptyVolume(t *testing.T) {
	_, err := NewPhantom(0, 4, 4, nil)
	if !errors.Is(err, ErrEmptyVolume) {
		t.Fatalf("got %v, want ErrEmptyVolume", err)
	}
}

func TestPhantomAtIndexMatchesAt(t *testing.T) {
	params := []compartment.Param{
		{Name: "d", Init: 1.7e-9, Lo: 1e-10, Hi: 3e-9},
	}
	p, err := NewPhantom(5, 4, 3, params)
	if err != nil {
		t.Fatalf("NewPhantom failed: %v", err)
	}

	got := p.At(2, 1, 2, nil)
	want := p.AtIndex(2+5*(1+4*2), nil)
	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestDatasetCleanMatchesForward(t *testing.T) {
	m := ballModel(t)
	samples := ballSamples()

	p, err := NewPhantom(4, 3, 2, m.Params(), WithRange("S0.s0", 0.8, 1.2))
	if err != nil {
		t.Fatalf("NewPhantom failed: %v", err)
	}

	data, err := Dataset(context.Background(), m, samples, p)
	if err != nil {
		t.Fatalf("Dataset failed: %v", err)
	}
	if len(data) != p.NumVoxels()*len(samples) {
		t.Fatalf("got %d values, want %d", len(data), p.NumVoxels()*len(samples))
	}

	nvox := p.NumVoxels()
	for _, vi := range []int{0, 7, nvox - 1} {
		x := p.AtIndex(vi, nil)
		want := m.EvalAll(samples, x, nil)
		for t2, w := range want {
			testutil.RequireNearlyEqual(t, data[t2*nvox+vi], w, 1e-15)
		}
	}
}

func TestDatasetNoiseDeterministic(t *testing.T) {
	m := ballModel(t)
	samples := ballSamples()

	p, err := NewPhantom(4, 3, 2, m.Params(), WithRange("S0.s0", 0.8, 1.2))
	if err != nil {
		t.Fatalf("NewPhantom failed: %v", err)
	}

	a, err := Dataset(context.Background(), m, samples, p, WithSigma(0.05), WithSeed(5))
	if err != nil {
		t.Fatalf("Dataset failed: %v", err)
	}
	b, err := Dataset(context.Background(), m, samples, p, WithSigma(0.05), WithSeed(5))
	if err != nil {
		t.Fatalf("Dataset failed: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, a, b, 0)
}

func TestDatasetParamsMismatch(t *testing.T) {
	m := ballModel(t)
	samples := ballSamples()

	p, err := NewPhantom(2, 2, 1, []compartment.Param{{Name: "other", Init: 1, Lo: 0, Hi: 2}})
	if err != nil {
		t.Fatalf("NewPhantom failed: %v", err)
	}

	_, err = Dataset(context.Background(), m, samples, p)
	if !errors.Is(err, ErrParamsMismatch) {
		t.Fatalf("got %v, want ErrParamsMismatch", err)
	}
}
