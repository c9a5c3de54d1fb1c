package compartment

import "github.com/cwbudde/algo-dmri/dmri/core"

// Stick models diffusion restricted to a single orientation, with no
// signal decay perpendicular to it. Free parameters: d, theta, phi.
type Stick struct{}

func (Stick) Name() string { return "Stick" }

func (Stick) Params() []Param { return []Param{paramD(), paramTheta(), paramPhi()} }

func (Stick) Eval(s Sample, x []float64) float64 {
	c := s.Dir.Dot(core.Sphere(x[1], x[2]))
	return signalExp(-s.B * x[0] * c * c)
}
