package qspace

import "testing"

func BenchmarkReconstruct(b *testing.B) {
	e := gaussianAttenuation(2e-9, 1e3, 128)

	b.ResetTimer()
	for b.Loop() {
		if _, err := Reconstruct(e, 1e3); err != nil {
			b.Fatalf("Reconstruct failed: %v", err)
		}
	}
}

func BenchmarkReconstructTapered(b *testing.B) {
	e := gaussianAttenuation(2e-9, 1e3, 128)

	b.ResetTimer()
	for b.Loop() {
		if _, err := Reconstruct(e, 1e3, WithTaper()); err != nil {
			b.Fatalf("Reconstruct failed: %v", err)
		}
	}
}
