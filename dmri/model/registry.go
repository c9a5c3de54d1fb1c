package model

import (
	"errors"
	"fmt"
	"sort"
)

// Factory builds one fresh Model instance.
type Factory func() (*Model, error)

// Registry maps model names to their factories.
type Registry struct {
	factories map[string]Factory
}

var errDuplicateModel = errors.New("duplicate model name")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given model name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("empty model name")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateModel, name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	err := r.Register(name, factory)
	if err != nil {
		panic("model registry: " + err.Error())
	}
}

// Lookup returns the factory for the given model name, or nil.
func (r *Registry) Lookup(name string) Factory {
	return r.factories[name]
}

// Build constructs a fresh instance of the named model.
func (r *Registry) Build(name string) (*Model, error) {
	factory := r.Lookup(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return factory()
}

// Names returns the registered model names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
