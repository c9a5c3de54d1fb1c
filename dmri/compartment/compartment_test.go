package compartment

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-dmri/dmri/core"
)

func TestParamTables(t *testing.T) {
	cases := []struct {
		comp Compartment
		want []string
	}{
		{Ball{}, []string{"d"}},
		{Stick{}, []string{"d", "theta", "phi"}},
		{Zeppelin{}, []string{"d", "dperp0", "theta", "phi"}},
		{Tensor{}, []string{"d", "dperp0", "dperp1", "theta", "phi", "psi"}},
		{NoddiEC{}, []string{"d", "dperp0", "theta", "phi", "kappa"}},
		{LinT2Dec{}, []string{"R2"}},
		{ExpT2Dec{}, []string{"T2"}},
		{ExpT1DecTM{}, []string{"T1", "Dt"}},
	}

	for _, tc := range cases {
		t.Run(tc.comp.Name(), func(t *testing.T) {
			ps := tc.comp.Params()
			if len(ps) != len(tc.want) {
				t.Fatalf("got %d params, want %d", len(ps), len(tc.want))
			}
			for i, p := range ps {
				if p.Name != tc.want[i] {
					t.Errorf("param %d: name %q, want %q", i, p.Name, tc.want[i])
				}
				if p.Lo >= p.Hi {
					t.Errorf("param %q: bounds [%v, %v] empty", p.Name, p.Lo, p.Hi)
				}
				if p.Init < p.Lo || p.Init > p.Hi {
					t.Errorf("param %q: init %v outside [%v, %v]", p.Name, p.Init, p.Lo, p.Hi)
				}
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	x := Defaults(Zeppelin{})
	want := []float64{1.7e-9, 1.7e-10, math.Pi / 2, math.Pi / 2}
	if len(x) != len(want) {
		t.Fatalf("len = %d, want %d", len(x), len(want))
	}
	for i := range x {
		if x[i] != want[i] {
			t.Errorf("x[%d] = %v, want %v", i, x[i], want[i])
		}
	}
}

func TestBallClosedForm(t *testing.T) {
	for _, b := range []float64{0, 500e6, 1000e6, 3000e6} {
		for _, d := range []float64{1e-10, 1.7e-9, 3e-9} {
			got := Ball{}.Eval(Sample{B: b}, []float64{d})
			want := math.Exp(-b * d)
			if got != want {
				t.Errorf("b=%v d=%v: %v, want %v", b, d, got, want)
			}
		}
	}
}

func TestStickPerpendicularUnattenuated(t *testing.T) {
	// Gradient orthogonal to the stick sees no decay.
	s := Sample{Dir: core.Vec3{Y: 1}, B: 3000e6}
	got := Stick{}.Eval(s, []float64{1.7e-9, math.Pi / 2, 0})
	if got != 1 {
		t.Errorf("perpendicular stick signal = %v, want 1", got)
	}
}

func TestStickParallelMatchesBall(t *testing.T) {
	const d = 1.7e-9

	s := Sample{Dir: core.Vec3{X: 1}, B: 2000e6}
	got := Stick{}.Eval(s, []float64{d, math.Pi / 2, 0})
	want := Ball{}.Eval(s, []float64{d})
	if math.Abs(got-want) > 1e-15 {
		t.Errorf("parallel stick %v, want ball %v", got, want)
	}
}

func TestZeppelinLimits(t *testing.T) {
	const (
		d     = 1.7e-9
		dperp = 0.4e-9
		b     = 2500e6
	)

	g := core.Vec3{X: 1}

	// Parallel gradient: axial decay only.
	par := Zeppelin{}.Eval(Sample{Dir: g, B: b}, []float64{d, dperp, math.Pi / 2, 0})
	if diff := math.Abs(par - math.Exp(-b*d)); diff > 1e-15 {
		t.Errorf("parallel zeppelin %v, want %v", par, math.Exp(-b*d))
	}

	// Perpendicular gradient: radial decay only.
	perp := Zeppelin{}.Eval(Sample{Dir: core.Vec3{Y: 1}, B: b}, []float64{d, dperp, math.Pi / 2, 0})
	if diff := math.Abs(perp - math.Exp(-b*dperp)); diff > 1e-15 {
		t.Errorf("perpendicular zeppelin %v, want %v", perp, math.Exp(-b*dperp))
	}

	// Zero radial diffusivity reduces to a stick.
	zep := Zeppelin{}.Eval(Sample{Dir: g, B: b}, []float64{d, 0, 1.1, 0.7})
	stick := Stick{}.Eval(Sample{Dir: g, B: b}, []float64{d, 1.1, 0.7})
	if math.Abs(zep-stick) > 1e-15 {
		t.Errorf("zeppelin with dperp=0 gives %v, stick gives %v", zep, stick)
	}
}

func TestZeppelinBetweenExtremes(t *testing.T) {
	const (
		d     = 1.7e-9
		dperp = 0.4e-9
		b     = 2500e6
	)

	s := Sample{Dir: core.Sphere(0.9, 2.1), B: b}
	sig := Zeppelin{}.Eval(s, []float64{d, dperp, 0.3, 1.4})

	if sig < math.Exp(-b*d) || sig > math.Exp(-b*dperp) {
		t.Errorf("signal %v outside [%v, %v]", sig, math.Exp(-b*d), math.Exp(-b*dperp))
	}
}

func TestTensorPrincipalAxes(t *testing.T) {
	const (
		d      = 1.7e-9
		dperp0 = 0.5e-9
		dperp1 = 0.2e-9
		b      = 2000e6
	)

	x := []float64{d, dperp0, dperp1, math.Pi / 2, 0, 0}

	cases := []struct {
		dir  core.Vec3
		want float64
	}{
		{core.Vec3{X: 1}, math.Exp(-b * d)},
		{core.Vec3{Z: 1}, math.Exp(-b * dperp0)},
		{core.Vec3{Y: 1}, math.Exp(-b * dperp1)},
	}

	for _, tc := range cases {
		got := Tensor{}.Eval(Sample{Dir: tc.dir, B: b}, x)
		if rel := math.Abs(got-tc.want) / tc.want; rel > 1e-12 {
			t.Errorf("dir %+v: %v, want %v", tc.dir, got, tc.want)
		}
	}
}

func TestTensorReducesToZeppelin(t *testing.T) {
	const (
		d     = 1.7e-9
		dperp = 0.4e-9
		b     = 2500e6
	)

	// Equal radial eigenvalues make the tensor axially symmetric for
	// any psi.
	for _, psi := range []float64{0, 0.8, 2.3} {
		for _, dir := range []core.Vec3{{X: 1}, core.Sphere(0.7, 1.2), core.Sphere(2.4, 4.8)} {
			s := Sample{Dir: dir, B: b}

			ten := Tensor{}.Eval(s, []float64{d, dperp, dperp, 1.05, 0.35, psi})
			zep := Zeppelin{}.Eval(s, []float64{d, dperp, 1.05, 0.35})

			if rel := math.Abs(ten-zep) / zep; rel > 1e-12 {
				t.Errorf("psi=%v dir=%+v: tensor %v, zeppelin %v", psi, dir, ten, zep)
			}
		}
	}
}
