// Package modelexchange turns a continuous-time model (state equations plus
// event indicators) into a sim.SimulatableUnit by supplying the integrator
// and the state-event locator the model itself lacks.
//
// Models register by name with RegisterModel; importing this package sets
// sim.NewUnitFunc so that callers can build units with sim.NewUnit.
package modelexchange

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lookahead-sim/lookahead-sim/sim"
)

// Model is a continuous-time model with state events.
//
// Continuous states live in the slices handed to the methods; the model keeps
// parameters, inputs and discrete state. Get must reflect the states last
// passed to SetStates.
type Model interface {
	Variables() []sim.Variable
	NumStates() int
	NumEventIndicators() int
	// Reset restores initial states and discrete state; parameters are kept.
	Reset(t float64)
	States(x []float64)
	SetStates(x []float64)
	Derivatives(t float64, x, dx []float64)
	// EventIndicators fills z; a sign change of any entry is a state event.
	EventIndicators(t float64, x, z []float64)
	// HandleEvent updates the discrete state after a crossing at t. It may
	// reset continuous states by writing to x.
	HandleEvent(t float64, x []float64)
	Get(name string) (any, bool)
	Set(name string, v any) error
	Clone() Model
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Model{}
)

// RegisterModel makes a model available to NewModel and sim.NewUnit.
func RegisterModel(name string, factory func() Model) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// NewModel creates a registered model.
func NewModel(name string) (Model, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown model %q (available: %v)", name, ModelNames())
	}
	return factory(), nil
}

// ModelNames lists registered models, sorted.
func ModelNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
