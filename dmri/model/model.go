// Package model composes weighted tissue compartments into full
// multi-compartment diffusion signal models. A model evaluates
//
//	S0 * (w0*C0 + w1*C1 + ...) * D0 * D1 * ...
//
// where the Ci are weighted diffusion compartments and the Dj optional
// multiplicative decay factors. Free parameters of all compartments are
// flattened into a single vector; any parameter can be pinned to a
// constant with Fix, which removes it from the vector.
package model

import (
	"fmt"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
)

// s0Param is the scale factor every model starts with.
func s0Param() compartment.Param {
	return compartment.Param{Name: "s0", Init: 1, Lo: 0, Hi: 1e10}
}

// instance is one named compartment inside a model.
type instance struct {
	name string
	comp compartment.Compartment
}

// slot is one position in the model's full parameter vector, either
// bound to an index of the free vector or pinned to a fixed value.
type slot struct {
	param compartment.Param // qualified name
	fixed bool
	value float64
	free  int
}

// block locates one compartment's parameters inside the slot vector.
// Weighted compartments carry the slot index of their weight; decay
// factors have weight -1.
type block struct {
	comp   compartment.Compartment
	weight int
	start  int
	end    int
}

// Model is a named composite signal model. The zero value is not
// usable; construct with New. Composition (Add, AddDecay, Fix) is not
// safe for concurrent use, evaluation of a finished model is.
type Model struct {
	name     string
	weighted []instance
	decays   []instance
	fixed    map[string]float64

	slots    []slot
	wBlocks  []block
	dBlocks  []block
	numFree  int
}

// New returns an empty model with only the S0 scale parameter.
func New(name string) *Model {
	m := &Model{name: name, fixed: make(map[string]float64)}
	m.rebuild()
	return m
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Add appends a weighted compartment under the given instance name.
// Instance names qualify parameter names ("Stick0.theta") and must be
// unique within the model.
func (m *Model) Add(name string, c compartment.Compartment) error {
	if err := m.checkInstance(name, c); err != nil {
		return err
	}
	m.weighted = append(m.weighted, instance{name: name, comp: c})
	m.rebuild()
	return nil
}

// AddDecay appends a multiplicative factor, such as a relaxation
// weighting, applied after the weighted compartment sum.
func (m *Model) AddDecay(name string, c compartment.Compartment) error {
	if err := m.checkInstance(name, c); err != nil {
		return err
	}
	m.decays = append(m.decays, instance{name: name, comp: c})
	m.rebuild()
	return nil
}

// Fix pins the named parameter ("Stick0.d", "Ball0.w", "S0.s0") to a
// constant, removing it from the free vector.
func (m *Model) Fix(name string, value float64) error {
	if !m.hasParam(name) {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	m.fixed[name] = value
	m.rebuild()
	return nil
}

// Params returns the free parameters in vector order, with qualified
// names.
func (m *Model) Params() []compartment.Param {
	out := make([]compartment.Param, 0, m.numFree)
	for _, sl := range m.slots {
		if !sl.fixed {
			out = append(out, sl.param)
		}
	}
	return out
}

// NumFree returns the length of the free parameter vector.
func (m *Model) NumFree() int { return m.numFree }

// Defaults returns the initial values of the free parameters in order.
func (m *Model) Defaults() []float64 {
	out := make([]float64, 0, m.numFree)
	for _, sl := range m.slots {
		if !sl.fixed {
			out = append(out, sl.param.Init)
		}
	}
	return out
}

// Eval returns the model signal for one acquisition sample. The free
// parameter vector x must hold NumFree values in Params order.
func (m *Model) Eval(s compartment.Sample, x []float64) float64 {
	buf, vals := getScratch(len(m.slots))
	m.fillValues(vals, x)

	sig := 0.0
	for _, b := range m.wBlocks {
		sig += vals[b.weight] * b.comp.Eval(s, vals[b.start:b.end])
	}
	sig *= vals[0]
	for _, b := range m.dBlocks {
		sig *= b.comp.Eval(s, vals[b.start:b.end])
	}

	putScratch(buf)
	return sig
}

// fillValues expands the free vector into the full slot vector.
func (m *Model) fillValues(vals, x []float64) {
	for i, sl := range m.slots {
		if sl.fixed {
			vals[i] = sl.value
		} else {
			vals[i] = x[sl.free]
		}
	}
}

func (m *Model) checkInstance(name string, c compartment.Compartment) error {
	if name == "" || name == "S0" {
		return fmt.Errorf("model: invalid instance name %q", name)
	}
	if c == nil {
		return fmt.Errorf("model: nil compartment for instance %q", name)
	}
	for _, in := range m.weighted {
		if in.name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateInstance, name)
		}
	}
	for _, in := range m.decays {
		if in.name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateInstance, name)
		}
	}
	return nil
}

func (m *Model) hasParam(name string) bool {
	for _, sl := range m.slots {
		if sl.param.Name == name {
			return true
		}
	}
	return false
}

// rebuild lays out the slot vector: S0 first, then per weighted
// instance its weight followed by the compartment parameters, then the
// decay parameters. Runs after every mutation so evaluation stays
// read-only.
func (m *Model) rebuild() {
	m.slots = m.slots[:0]
	m.wBlocks = m.wBlocks[:0]
	m.dBlocks = m.dBlocks[:0]

	m.addSlot("S0", s0Param())

	wInit := 1.0
	if len(m.weighted) > 0 {
		wInit = 1 / float64(len(m.weighted))
	}

	for _, in := range m.weighted {
		w := len(m.slots)
		m.addSlot(in.name, compartment.Param{Name: "w", Init: wInit, Lo: 0, Hi: 1})

		start := len(m.slots)
		for _, p := range in.comp.Params() {
			m.addSlot(in.name, p)
		}
		m.wBlocks = append(m.wBlocks, block{comp: in.comp, weight: w, start: start, end: len(m.slots)})
	}

	for _, in := range m.decays {
		start := len(m.slots)
		for _, p := range in.comp.Params() {
			m.addSlot(in.name, p)
		}
		m.dBlocks = append(m.dBlocks, block{comp: in.comp, weight: -1, start: start, end: len(m.slots)})
	}

	m.numFree = 0
	for i := range m.slots {
		if !m.slots[i].fixed {
			m.slots[i].free = m.numFree
			m.numFree++
		}
	}
}

func (m *Model) addSlot(inst string, p compartment.Param) {
	p.Name = inst + "." + p.Name
	sl := slot{param: p, free: -1}
	if v, ok := m.fixed[p.Name]; ok {
		sl.fixed = true
		sl.value = v
	}
	m.slots = append(m.slots, sl)
}
