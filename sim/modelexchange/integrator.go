package modelexchange

import (
	"fmt"
	"sort"
)

// Integrator advances continuous states by one explicit step.
type Integrator interface {
	Name() string
	// Step returns the states at t+h starting from x at t. x is not modified.
	Step(m Model, t, h float64, x []float64) []float64
}

// DefaultIntegrator is used when no integrator is named.
const DefaultIntegrator = "rk4"

var integrators = map[string]func() Integrator{
	"euler": func() Integrator { return &Euler{} },
	"rk4":   func() Integrator { return &RungeKutta4{} },
}

// NewIntegrator returns the named integrator.
func NewIntegrator(name string) (Integrator, error) {
	if name == "" {
		name = DefaultIntegrator
	}
	factory, ok := integrators[name]
	if !ok {
		names := make([]string, 0, len(integrators))
		for n := range integrators {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown integrator %q (available: %v)", name, names)
	}
	return factory(), nil
}

// Euler is the explicit first-order method.
type Euler struct {
	dx []float64
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(m Model, t, h float64, x []float64) []float64 {
	if len(e.dx) != len(x) {
		e.dx = make([]float64, len(x))
	}
	m.Derivatives(t, x, e.dx)
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] + h*e.dx[i]
	}
	return out
}

// RungeKutta4 is the classic fourth-order Runge-Kutta method.
type RungeKutta4 struct {
	k1, k2, k3, k4, tmp []float64
}

func (r *RungeKutta4) Name() string { return "rk4" }

func (r *RungeKutta4) Step(m Model, t, h float64, x []float64) []float64 {
	n := len(x)
	if len(r.k1) != n {
		r.k1 = make([]float64, n)
		r.k2 = make([]float64, n)
		r.k3 = make([]float64, n)
		r.k4 = make([]float64, n)
		r.tmp = make([]float64, n)
	}
	m.Derivatives(t, x, r.k1)
	for i := range x {
		r.tmp[i] = x[i] + h/2*r.k1[i]
	}
	m.Derivatives(t+h/2, r.tmp, r.k2)
	for i := range x {
		r.tmp[i] = x[i] + h/2*r.k2[i]
	}
	m.Derivatives(t+h/2, r.tmp, r.k3)
	for i := range x {
		r.tmp[i] = x[i] + h*r.k3[i]
	}
	m.Derivatives(t+h, r.tmp, r.k4)

	out := make([]float64, n)
	for i := range x {
		out[i] = x[i] + h/6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return out
}
