package compartment_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
	"github.com/cwbudde/algo-dmri/dmri/core"
)

func ExampleBall() {
	s := compartment.Sample{B: 1000e6}
	sig := compartment.Ball{}.Eval(s, []float64{1.7e-9})

	fmt.Printf("%.4f\n", sig)

	// Output:
	// 0.1827
}

func ExampleWatsonDiffusivities() {
	par, perp := compartment.WatsonDiffusivities(1.7e-9, 0.5e-9, 1)

	trace := par + 2*perp
	fmt.Println(par > perp)
	fmt.Printf("trace preserved: %t\n", math.Abs(trace-2.7e-9) < 1e-21)

	// Output:
	// true
	// trace preserved: true
}

func ExampleNoddiEC() {
	s := compartment.Sample{Dir: core.Vec3{X: 1}, B: 2000e6}

	// d, dperp0, theta, phi, kappa
	x := []float64{1.7e-9, 0.5e-9, math.Pi / 2, 0, 1}
	sig := compartment.NoddiEC{}.Eval(s, x)

	fmt.Println(sig > 0 && sig < 1)

	// Output:
	// true
}
