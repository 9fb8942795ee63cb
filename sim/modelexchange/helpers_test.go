package modelexchange

import (
	"fmt"
	"testing"

	"github.com/lookahead-sim/lookahead-sim/sim"
)

// rampModel rises at a constant rate and drops back to zero at a threshold.
type rampModel struct {
	rate, level float64
	x           float64
	count       int64
}

func newRamp(rate, level float64) *rampModel {
	return &rampModel{rate: rate, level: level}
}

func (r *rampModel) Variables() []sim.Variable {
	return []sim.Variable{
		{Name: "x", Kind: sim.KindReal, Causality: sim.CausalityOutput},
		{Name: "count", Kind: sim.KindInteger, Causality: sim.CausalityOutput},
		{Name: "rate", Kind: sim.KindReal, Causality: sim.CausalityInput},
		{Name: "level", Kind: sim.KindReal, Causality: sim.CausalityParameter},
	}
}

func (r *rampModel) NumStates() int          { return 1 }
func (r *rampModel) NumEventIndicators() int { return 1 }
func (r *rampModel) Reset(float64)           { r.x, r.count = 0, 0 }
func (r *rampModel) States(x []float64)      { x[0] = r.x }
func (r *rampModel) SetStates(x []float64)   { r.x = x[0] }

func (r *rampModel) Derivatives(_ float64, _, dx []float64) { dx[0] = r.rate }

func (r *rampModel) EventIndicators(_ float64, x, z []float64) { z[0] = r.level - x[0] }

func (r *rampModel) HandleEvent(_ float64, x []float64) {
	x[0] = 0
	r.count++
}

func (r *rampModel) Get(name string) (any, bool) {
	switch name {
	case "x":
		return r.x, true
	case "count":
		return r.count, true
	case "rate":
		return r.rate, true
	case "level":
		return r.level, true
	}
	return nil, false
}

func (r *rampModel) Set(name string, v any) error {
	f, ok := v.(float64)
	if !ok {
		return fmt.Errorf("%s: want float64, got %T", name, v)
	}
	switch name {
	case "rate":
		r.rate = f
	case "level":
		r.level = f
	default:
		return fmt.Errorf("%s is not settable", name)
	}
	return nil
}

func (r *rampModel) Clone() Model {
	c := *r
	return &c
}

// decayModel is x' = -x with x(0) = 1 and no events.
type decayModel struct{ x float64 }

func (d *decayModel) Variables() []sim.Variable {
	return []sim.Variable{{Name: "x", Kind: sim.KindReal, Causality: sim.CausalityOutput}}
}
func (d *decayModel) NumStates() int                                { return 1 }
func (d *decayModel) NumEventIndicators() int                       { return 0 }
func (d *decayModel) Reset(float64)                                 { d.x = 1 }
func (d *decayModel) States(x []float64)                            { x[0] = d.x }
func (d *decayModel) SetStates(x []float64)                         { d.x = x[0] }
func (d *decayModel) Derivatives(_ float64, x, dx []float64)        { dx[0] = -x[0] }
func (d *decayModel) EventIndicators(float64, []float64, []float64) {}
func (d *decayModel) HandleEvent(float64, []float64)                {}
func (d *decayModel) Get(name string) (any, bool)                   { return d.x, name == "x" }
func (d *decayModel) Set(name string, _ any) error                  { return fmt.Errorf("%s is not settable", name) }
func (d *decayModel) Clone() Model                                  { c := *d; return &c }

func newRampUnit(t testing.TB, opts sim.UnitOptions, rate, level float64) *Unit {
	t.Helper()
	u, err := New(newRamp(rate, level), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := u.Instantiate("ramp", 0); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	return u
}
