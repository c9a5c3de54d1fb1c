package model

import (
	"fmt"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
	"github.com/cwbudde/algo-dmri/dmri/protocol"
)

// SamplesFromTable converts a protocol table into the per-volume
// samples the compartments consume. Gradient directions and a
// resolvable diffusion weighting are required; the sequence timings are
// filled in when derivable and the remaining fields are taken from
// optional columns of the same name, defaulting to zero.
func SamplesFromTable(t *protocol.Table) ([]compartment.Sample, error) {
	dirs, err := t.Directions()
	if err != nil {
		return nil, fmt.Errorf("%w: gradient directions", ErrMissingColumn)
	}

	b, err := t.Column("b")
	if err != nil {
		return nil, fmt.Errorf("%w: diffusion weighting", ErrMissingColumn)
	}

	samples := make([]compartment.Sample, t.Len())
	for i := range samples {
		samples[i].Dir = dirs[i]
		samples[i].B = b[i]
	}

	if tm, err := t.Timings(); err == nil {
		for i := range samples {
			samples[i].G = tm.G[i]
			samples[i].Delta = tm.Delta[i]
			samples[i].SmallDelta = tm.SmallDelta[i]
		}
	}

	for _, oc := range []struct {
		name string
		set  func(s *compartment.Sample, v float64)
	}{
		{"TE", func(s *compartment.Sample, v float64) { s.TE = v }},
		{"TM", func(s *compartment.Sample, v float64) { s.TM = v }},
		{"flip_angle", func(s *compartment.Sample, v float64) { s.FlipAngle = v }},
		{"refoc_fa1", func(s *compartment.Sample, v float64) { s.RefocFA1 = v }},
		{"refoc_fa2", func(s *compartment.Sample, v float64) { s.RefocFA2 = v }},
		{"sef", func(s *compartment.Sample, v float64) { s.SEf = v }},
	} {
		if !t.IsColumnReal(oc.name) {
			continue
		}
		col, err := t.Column(oc.name)
		if err != nil {
			return nil, err
		}
		for i := range samples {
			oc.set(&samples[i], col[i])
		}
	}

	return samples, nil
}
