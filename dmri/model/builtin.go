package model

import (
	"fmt"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
)

// Literature diffusivity defaults for the ball-and-sticks family, in
// m^2/s. The anisotropic value fixes the stick compartments, the
// isotropic one the ball.
const (
	DAnisotropicInVivo = 1.7e-9
	DIsotropicInVivo   = 3.0e-9
	DAnisotropicExVivo = 0.6e-9
	DIsotropicExVivo   = 2.0e-9
)

// NewBallSticks builds a ball-and-sticks model with the given number of
// stick compartments and the diffusivities fixed to the given values.
func NewBallSticks(name string, sticks int, dIso, dAni float64) (*Model, error) {
	if sticks < 1 {
		return nil, fmt.Errorf("model: ball-and-sticks needs at least one stick, got %d", sticks)
	}

	m := New(name)
	if err := m.Add("Ball0", compartment.Ball{}); err != nil {
		return nil, err
	}
	if err := m.Fix("Ball0.d", dIso); err != nil {
		return nil, err
	}

	for i := range sticks {
		inst := fmt.Sprintf("Stick%d", i)
		if err := m.Add(inst, compartment.Stick{}); err != nil {
			return nil, err
		}
		if err := m.Fix(inst+".d", dAni); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// NewTensor builds a single-compartment tensor model.
func NewTensor() (*Model, error) {
	m := New("Tensor")
	if err := m.Add("Tensor0", compartment.Tensor{}); err != nil {
		return nil, err
	}
	if err := m.Fix("Tensor0.w", 1); err != nil {
		return nil, err
	}
	return m, nil
}

// NewNoddiEC builds a single-compartment model of the dispersed
// extra-cellular signal.
func NewNoddiEC() (*Model, error) {
	m := New("NoddiEC")
	if err := m.Add("NoddiEC0", compartment.NoddiEC{}); err != nil {
		return nil, err
	}
	if err := m.Fix("NoddiEC0.w", 1); err != nil {
		return nil, err
	}
	return m, nil
}

// DefaultRegistry returns a Registry pre-populated with the built-in
// models: the ball-and-sticks family with one to three sticks, in-vivo
// and ex-vivo diffusivity defaults, the tensor model and the dispersed
// extra-cellular model.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	sticksName := func(sticks int) string {
		name := "Ball"
		for range sticks {
			name += "Stick"
		}
		return name
	}

	for sticks := 1; sticks <= 3; sticks++ {
		name := sticksName(sticks)
		r.MustRegister(name, func() (*Model, error) {
			return NewBallSticks(name, sticks, DIsotropicInVivo, DAnisotropicInVivo)
		})

		exVivo := name + "ExVivo"
		r.MustRegister(exVivo, func() (*Model, error) {
			return NewBallSticks(exVivo, sticks, DIsotropicExVivo, DAnisotropicExVivo)
		})
	}

	r.MustRegister("Tensor", func() (*Model, error) { return NewTensor() })
	r.MustRegister("NoddiEC", func() (*Model, error) { return NewNoddiEC() })

	return r
}
