package model

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
	"github.com/cwbudde/algo-dmri/dmri/core"
)

func benchSamples(n int) []compartment.Sample {
	samples := make([]compartment.Sample, n)
	for i := range samples {
		theta := math.Acos(1 - 2*(float64(i)+0.5)/float64(n))
		phi := float64(i) * 2.399963229728653
		samples[i] = compartment.Sample{Dir: core.Sphere(theta, phi), B: 1e9}
	}
	return samples
}

func BenchmarkEvalAllBallStick(b *testing.B) {
	m, err := DefaultRegistry().Build("BallStick")
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}

	samples := benchSamples(64)
	x := m.Defaults()
	dst := make([]float64, len(samples))

	b.ResetTimer()
	for b.Loop() {
		dst = m.EvalAll(samples, x, dst)
	}
}

func BenchmarkEvalAllNoddiEC(b *testing.B) {
	m, err := DefaultRegistry().Build("NoddiEC")
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}

	samples := benchSamples(64)
	x := m.Defaults()
	dst := make([]float64, len(samples))

	b.ResetTimer()
	for b.Loop() {
		dst = m.EvalAll(samples, x, dst)
	}
}
