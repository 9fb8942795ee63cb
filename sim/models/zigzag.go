// Package models holds reference continuous-time models for the
// model-exchange unit: a zigzag oscillator with state events and a radiator
// heated by an external controller.
package models

import (
	"fmt"

	"github.com/lookahead-sim/lookahead-sim/sim"
	"github.com/lookahead-sim/lookahead-sim/sim/modelexchange"
)

// Zigzag moves x with slope ±k and reverses direction whenever x reaches ±1.
//
// Variables: x, derx (outputs), k (input, default 1).
type Zigzag struct {
	k   float64
	x   float64
	dir float64
}

var _ modelexchange.Model = (*Zigzag)(nil)

// NewZigzag returns a zigzag with k = 1 starting upwards from x = 0.
func NewZigzag() *Zigzag {
	return &Zigzag{k: 1, dir: 1}
}

func (z *Zigzag) Variables() []sim.Variable {
	return []sim.Variable{
		{Name: "x", Kind: sim.KindReal, Causality: sim.CausalityOutput},
		{Name: "derx", Kind: sim.KindReal, Causality: sim.CausalityOutput},
		{Name: "k", Kind: sim.KindReal, Causality: sim.CausalityInput},
	}
}

func (z *Zigzag) NumStates() int          { return 1 }
func (z *Zigzag) NumEventIndicators() int { return 1 }

func (z *Zigzag) Reset(float64) {
	z.x = 0
	z.dir = 1
}

func (z *Zigzag) States(x []float64)    { x[0] = z.x }
func (z *Zigzag) SetStates(x []float64) { z.x = x[0] }

func (z *Zigzag) Derivatives(_ float64, _, dx []float64) {
	dx[0] = z.dir * z.k
}

func (z *Zigzag) EventIndicators(_ float64, x, ind []float64) {
	if z.dir > 0 {
		ind[0] = 1 - x[0]
	} else {
		ind[0] = x[0] + 1
	}
}

func (z *Zigzag) HandleEvent(float64, []float64) {
	z.dir = -z.dir
}

func (z *Zigzag) Get(name string) (any, bool) {
	switch name {
	case "x":
		return z.x, true
	case "derx":
		return z.dir * z.k, true
	case "k":
		return z.k, true
	}
	return nil, false
}

func (z *Zigzag) Set(name string, v any) error {
	if name != "k" {
		return fmt.Errorf("zigzag: %q is not settable", name)
	}
	k, ok := v.(float64)
	if !ok {
		return fmt.Errorf("zigzag: k must be real, got %T", v)
	}
	z.k = k
	return nil
}

func (z *Zigzag) Clone() modelexchange.Model {
	c := *z
	return &c
}
