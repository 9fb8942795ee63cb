package models

import (
	"fmt"

	"github.com/lookahead-sim/lookahead-sim/sim"
	"github.com/lookahead-sim/lookahead-sim/sim/modelexchange"
)

// Radiator is a lumped thermal mass heated with power Pheat and losing heat
// to the ambient: C·dT/dt = Pheat − UA·(T − Tamb). It has no state events.
type Radiator struct {
	params map[string]float64 // C, UA, Tamb, T0
	pheat  float64
	temp   float64
}

var _ modelexchange.Model = (*Radiator)(nil)

// NewRadiator returns a radiator starting at 80 °C in a 20 °C room.
func NewRadiator() *Radiator {
	r := &Radiator{params: map[string]float64{
		"C":    2e5, // J/K
		"UA":   10,  // W/K
		"Tamb": 20,
		"T0":   80,
	}}
	r.temp = r.params["T0"]
	return r
}

func (r *Radiator) Variables() []sim.Variable {
	vars := []sim.Variable{
		{Name: "T", Kind: sim.KindReal, Causality: sim.CausalityOutput},
		{Name: "Pheat", Kind: sim.KindReal, Causality: sim.CausalityInput},
	}
	for _, p := range []string{"C", "UA", "Tamb", "T0"} {
		vars = append(vars, sim.Variable{Name: p, Kind: sim.KindReal, Causality: sim.CausalityParameter})
	}
	return vars
}

func (r *Radiator) NumStates() int          { return 1 }
func (r *Radiator) NumEventIndicators() int { return 0 }

func (r *Radiator) Reset(float64) { r.temp = r.params["T0"] }

func (r *Radiator) States(x []float64)    { x[0] = r.temp }
func (r *Radiator) SetStates(x []float64) { r.temp = x[0] }

func (r *Radiator) Derivatives(_ float64, x, dx []float64) {
	dx[0] = (r.pheat - r.params["UA"]*(x[0]-r.params["Tamb"])) / r.params["C"]
}

func (r *Radiator) EventIndicators(float64, []float64, []float64) {}
func (r *Radiator) HandleEvent(float64, []float64)                {}

func (r *Radiator) Get(name string) (any, bool) {
	switch name {
	case "T":
		return r.temp, true
	case "Pheat":
		return r.pheat, true
	}
	v, ok := r.params[name]
	return v, ok
}

func (r *Radiator) Set(name string, v any) error {
	f, ok := v.(float64)
	if !ok {
		return fmt.Errorf("radiator: %q must be real, got %T", name, v)
	}
	switch name {
	case "Pheat":
		r.pheat = f
		return nil
	case "C":
		if f <= 0 {
			return fmt.Errorf("radiator: C must be positive, got %g", f)
		}
	}
	if _, ok := r.params[name]; !ok {
		return fmt.Errorf("radiator: %q is not settable", name)
	}
	r.params[name] = f
	return nil
}

func (r *Radiator) Clone() modelexchange.Model {
	c := *r
	c.params = make(map[string]float64, len(r.params))
	for k, v := range r.params {
		c.params[k] = v
	}
	return &c
}
