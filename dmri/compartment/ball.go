package compartment

// Ball models isotropic diffusion with a single diffusivity. Free
// parameters: d.
type Ball struct{}

func (Ball) Name() string { return "Ball" }

func (Ball) Params() []Param { return []Param{paramD()} }

func (Ball) Eval(s Sample, x []float64) float64 {
	return signalExp(-s.B * x[0])
}
