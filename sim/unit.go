package sim

import "fmt"

// Unit is the capability set the lookahead core drives.
// Advance must never step over a state event: when one occurs before target
// the unit stops there and returns the time it actually reached.
type Unit interface {
	SetInputs(inputs InputSet, t SimTime) error
	Advance(target SimTime) (SimTime, error)
	Outputs(names VariableSet) (OutputSnapshot, error)
	Time() SimTime
}

// VariableStore is the simple-value exchange of a unit. The controller only
// delegates to it; no caching applies.
type VariableStore interface {
	Lookup(name string) (Variable, bool)
	GetReal(name string) (float64, error)
	SetReal(name string, v float64) error
	GetInteger(name string) (int64, error)
	SetInteger(name string, v int64) error
	GetBoolean(name string) (bool, error)
	SetBoolean(name string, v bool) error
	GetString(name string) (string, error)
	SetString(name string, v string) error
}

// UnitState is an opaque checkpoint produced by a Checkpointer.
type UnitState any

// Checkpointer saves and restores the full internal state of a unit.
type Checkpointer interface {
	SaveState() (UnitState, error)
	RestoreState(state UnitState) error
}

// SimulatableUnit is everything the Controller needs from a unit.
type SimulatableUnit interface {
	Unit
	VariableStore
	Checkpointer
	Instantiate(instanceID string, startTime SimTime) error
}

// UnitOptions selects and tunes a unit implementation at construction.
type UnitOptions struct {
	Model                string
	Integrator           string
	StepSize             float64
	EventSearchPrecision float64
	StopBeforeEvent      bool
	LoggingOn            bool
}

// NewUnitFunc creates a SimulatableUnit by model name. Set by sim/modelexchange's
// init(); nil until that package is imported.
var NewUnitFunc func(opts UnitOptions) (SimulatableUnit, error)

// NewUnit creates a unit through the registered factory.
func NewUnit(opts UnitOptions) (SimulatableUnit, error) {
	if NewUnitFunc == nil {
		return nil, fmt.Errorf("no unit implementation registered (import sim/modelexchange)")
	}
	return NewUnitFunc(opts)
}

// applyInputs writes every value of in through the unit's typed setters.
func applyInputs(store VariableStore, in InputSet) error {
	for name, v := range in.Real {
		if err := store.SetReal(name, v); err != nil {
			return err
		}
	}
	for name, v := range in.Integer {
		if err := store.SetInteger(name, v); err != nil {
			return err
		}
	}
	for name, v := range in.Boolean {
		if err := store.SetBoolean(name, v); err != nil {
			return err
		}
	}
	for name, v := range in.String {
		if err := store.SetString(name, v); err != nil {
			return err
		}
	}
	return nil
}

// readInputs reads the current values of the declared inputs from the unit.
func readInputs(store VariableStore, names VariableSet) (InputSet, error) {
	var in InputSet
	for _, n := range names.Real {
		v, err := store.GetReal(n)
		if err != nil {
			return InputSet{}, err
		}
		in.Real = mergeInto(in.Real, map[string]float64{n: v})
	}
	for _, n := range names.Integer {
		v, err := store.GetInteger(n)
		if err != nil {
			return InputSet{}, err
		}
		in.Integer = mergeInto(in.Integer, map[string]int64{n: v})
	}
	for _, n := range names.Boolean {
		v, err := store.GetBoolean(n)
		if err != nil {
			return InputSet{}, err
		}
		in.Boolean = mergeInto(in.Boolean, map[string]bool{n: v})
	}
	for _, n := range names.String {
		v, err := store.GetString(n)
		if err != nil {
			return InputSet{}, err
		}
		in.String = mergeInto(in.String, map[string]string{n: v})
	}
	return in, nil
}
