package compartment

import "github.com/cwbudde/algo-dmri/dmri/core"

// Zeppelin models axially symmetric anisotropic diffusion: one axial
// and one radial diffusivity. Free parameters: d, dperp0, theta, phi.
type Zeppelin struct{}

func (Zeppelin) Name() string { return "Zeppelin" }

func (Zeppelin) Params() []Param {
	return []Param{paramD(), paramDPerp0(), paramTheta(), paramPhi()}
}

func (Zeppelin) Eval(s Sample, x []float64) float64 {
	d, dperp := x[0], x[1]
	c := s.Dir.Dot(core.Sphere(x[2], x[3]))
	return signalExp(-s.B * ((d-dperp)*c*c + dperp))
}
