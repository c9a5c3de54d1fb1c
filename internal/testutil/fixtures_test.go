package testutil

import (
	"math"
	"testing"
)

func TestGoldenDirectionsRange(t *testing.T) {
	theta, phi := GoldenDirections(32)
	if len(theta) != 32 || len(phi) != 32 {
		t.Fatalf("len = %d/%d, want 32/32", len(theta), len(phi))
	}
	for i := range theta {
		if theta[i] < 0 || theta[i] > math.Pi {
			t.Fatalf("theta[%d] = %v out of [0, pi]", i, theta[i])
		}
		if phi[i] < 0 || phi[i] >= 2*math.Pi {
			t.Fatalf("phi[%d] = %v out of [0, 2pi)", i, phi[i])
		}
	}
}

func TestGoldenDirectionsSpread(t *testing.T) {
	// The spiral should cover both hemispheres.
	theta, _ := GoldenDirections(16)
	upper, lower := 0, 0
	for _, th := range theta {
		if math.Cos(th) > 0 {
			upper++
		} else {
			lower++
		}
	}
	if upper == 0 || lower == 0 {
		t.Fatalf("directions cover one hemisphere only: %d upper, %d lower", upper, lower)
	}
}

func TestGoldenDirectionsReproducible(t *testing.T) {
	t1, p1 := GoldenDirections(8)
	t2, p2 := GoldenDirections(8)
	for i := range t1 {
		if t1[i] != t2[i] || p1[i] != p2[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
	}
}

func TestShellBVals(t *testing.T) {
	b := ShellBVals([]float64{1000e6, 2000e6}, 3, 2)
	want := []float64{0, 0, 1000e6, 1000e6, 1000e6, 2000e6, 2000e6, 2000e6}
	if len(b) != len(want) {
		t.Fatalf("len = %d, want %d", len(b), len(want))
	}
	for i := range b {
		if b[i] != want[i] {
			t.Fatalf("b[%d] = %v, want %v", i, b[i], want[i])
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}
}

func TestDeterministicNoiseDifferentSeeds(t *testing.T) {
	a := DeterministicNoise(1, 1.0, 16)
	b := DeterministicNoise(2, 1.0, 16)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestDC(t *testing.T) {
	d := DC(0.5, 4)
	for i, v := range d {
		if v != 0.5 {
			t.Fatalf("DC[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestOnes(t *testing.T) {
	o := Ones(3)
	if len(o) != 3 {
		t.Fatalf("len = %d, want 3", len(o))
	}
	for i, v := range o {
		if v != 1 {
			t.Fatalf("Ones[%d] = %v, want 1", i, v)
		}
	}
}
