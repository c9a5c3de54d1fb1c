package compartment

import "math"

// LinT2Dec is transverse relaxation in the log domain: it returns
// -TE*R2 rather than a multiplicative factor, for pipelines that fit
// the logarithm of the signal. Free parameters: R2.
type LinT2Dec struct{}

func (LinT2Dec) Name() string { return "LinT2Dec" }

func (LinT2Dec) Params() []Param { return []Param{paramR2()} }

func (LinT2Dec) Eval(s Sample, x []float64) float64 {
	return -s.TE * x[0]
}

// ExpT2Dec is exponential transverse relaxation over the echo time.
// Free parameters: T2.
type ExpT2Dec struct{}

func (ExpT2Dec) Name() string { return "ExpT2Dec" }

func (ExpT2Dec) Params() []Param { return []Param{paramT2()} }

func (ExpT2Dec) Eval(s Sample, x []float64) float64 {
	return signalExp(-s.TE / x[0])
}

// ExpT1DecTM is longitudinal relaxation over the mixing time of a
// stimulated echo sequence, including the flip angle losses and the
// diffusion weighting during mixing. Free parameters: T1, Dt.
type ExpT1DecTM struct{}

func (ExpT1DecTM) Name() string { return "ExpT1DecTM" }

func (ExpT1DecTM) Params() []Param { return []Param{paramT1(), paramDt()} }

func (ExpT1DecTM) Eval(s Sample, x []float64) float64 {
	return math.Pow(0.5, s.SEf) *
		math.Sin(s.FlipAngle) * math.Sin(s.RefocFA1) * math.Sin(s.RefocFA2) *
		signalExp(-s.TM/x[0]) * signalExp(-s.B*x[1])
}
