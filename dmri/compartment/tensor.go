package compartment

import "github.com/cwbudde/algo-dmri/dmri/core"

// Tensor models full anisotropic Gaussian diffusion with three
// eigenvalues along an orthonormal frame. Free parameters: d, dperp0,
// dperp1, theta, phi, psi.
type Tensor struct{}

func (Tensor) Name() string { return "Tensor" }

func (Tensor) Params() []Param {
	return []Param{paramD(), paramDPerp0(), paramDPerp1(), paramTheta(), paramPhi(), paramPsi()}
}

func (Tensor) Eval(s Sample, x []float64) float64 {
	f := core.Frame(x[3], x[4], x[5])

	c1 := s.Dir.Dot(f[0])
	c2 := s.Dir.Dot(f[1])
	c3 := s.Dir.Dot(f[2])

	return signalExp(-s.B * (x[0]*c1*c1 + x[1]*c2*c2 + x[2]*c3*c3))
}
