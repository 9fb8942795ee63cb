package sim

import (
	"errors"
	"fmt"
	"testing"
)

// zigzagUnit is an analytic zigzag oscillator: x moves with slope ±k and
// reverses at ±1. The reversal is a state event; Advance stops exactly there.
//
// Variables: x (real output), k (real input), corners (integer output),
// label (string input).
type zigzagUnit struct {
	t, x, dir, k float64
	corners      int64
	label        string
	instantiated bool

	// instrumentation
	advances []SimTime
	restores int
	saves    int

	// failAdvance is returned by Advance for targets beyond failAfter.
	failAdvance error
	failAfter   SimTime
}

type zigzagState struct {
	t, x, dir, k float64
	corners      int64
	label        string
}

var _ SimulatableUnit = (*zigzagUnit)(nil)

func newZigzagUnit() *zigzagUnit {
	return &zigzagUnit{k: 1, dir: 1}
}

func (u *zigzagUnit) Instantiate(_ string, startTime SimTime) error {
	u.t, u.x, u.dir, u.corners = startTime, 0, 1, 0
	u.instantiated = true
	return nil
}

func (u *zigzagUnit) SetInputs(in InputSet, t SimTime) error {
	if !timeEqual(t, u.t) {
		return NewUnitError(StatusError, "inputs at t=%g, unit at t=%g", t, u.t)
	}
	return applyInputs(u, in)
}

func (u *zigzagUnit) Advance(target SimTime) (SimTime, error) {
	u.advances = append(u.advances, target)
	if u.failAdvance != nil && target > u.failAfter {
		return u.t, u.failAdvance
	}
	if target < u.t {
		return u.t, NewUnitError(StatusError, "backwards advance to %g from %g", target, u.t)
	}
	if u.k > 0 {
		corner := u.t + (u.dir-u.x)/(u.dir*u.k)
		if corner <= target {
			u.t, u.x = corner, u.dir
			u.dir = -u.dir
			u.corners++
			return u.t, nil
		}
	}
	u.x += u.dir * u.k * (target - u.t)
	u.t = target
	return u.t, nil
}

func (u *zigzagUnit) Outputs(names VariableSet) (OutputSnapshot, error) {
	snap := OutputSnapshot{Time: u.t}
	for _, n := range names.Real {
		v, err := u.GetReal(n)
		if err != nil {
			return OutputSnapshot{}, err
		}
		snap.Real = append(snap.Real, v)
	}
	for _, n := range names.Integer {
		v, err := u.GetInteger(n)
		if err != nil {
			return OutputSnapshot{}, err
		}
		snap.Integer = append(snap.Integer, v)
	}
	for _, n := range names.Boolean {
		v, err := u.GetBoolean(n)
		if err != nil {
			return OutputSnapshot{}, err
		}
		snap.Boolean = append(snap.Boolean, v)
	}
	for _, n := range names.String {
		v, err := u.GetString(n)
		if err != nil {
			return OutputSnapshot{}, err
		}
		snap.String = append(snap.String, v)
	}
	return snap, nil
}

func (u *zigzagUnit) Time() SimTime { return u.t }

func (u *zigzagUnit) Lookup(name string) (Variable, bool) {
	switch name {
	case "x":
		return Variable{Name: name, Kind: KindReal, Causality: CausalityOutput}, true
	case "k":
		return Variable{Name: name, Kind: KindReal, Causality: CausalityInput}, true
	case "corners":
		return Variable{Name: name, Kind: KindInteger, Causality: CausalityOutput}, true
	case "label":
		return Variable{Name: name, Kind: KindString, Causality: CausalityInput}, true
	}
	return Variable{}, false
}

var errNoSuchVariable = errors.New("no such variable")

func (u *zigzagUnit) GetReal(name string) (float64, error) {
	switch name {
	case "x":
		return u.x, nil
	case "k":
		return u.k, nil
	}
	return 0, fmt.Errorf("real %q: %w", name, errNoSuchVariable)
}

func (u *zigzagUnit) SetReal(name string, v float64) error {
	if name != "k" {
		return fmt.Errorf("real %q: %w", name, errNoSuchVariable)
	}
	u.k = v
	return nil
}

func (u *zigzagUnit) GetInteger(name string) (int64, error) {
	if name != "corners" {
		return 0, fmt.Errorf("integer %q: %w", name, errNoSuchVariable)
	}
	return u.corners, nil
}

func (u *zigzagUnit) SetInteger(name string, _ int64) error {
	return fmt.Errorf("integer %q: %w", name, errNoSuchVariable)
}

func (u *zigzagUnit) GetBoolean(name string) (bool, error) {
	return false, fmt.Errorf("boolean %q: %w", name, errNoSuchVariable)
}

func (u *zigzagUnit) SetBoolean(name string, _ bool) error {
	return fmt.Errorf("boolean %q: %w", name, errNoSuchVariable)
}

func (u *zigzagUnit) GetString(name string) (string, error) {
	if name != "label" {
		return "", fmt.Errorf("string %q: %w", name, errNoSuchVariable)
	}
	return u.label, nil
}

func (u *zigzagUnit) SetString(name string, v string) error {
	if name != "label" {
		return fmt.Errorf("string %q: %w", name, errNoSuchVariable)
	}
	u.label = v
	return nil
}

func (u *zigzagUnit) SaveState() (UnitState, error) {
	u.saves++
	return zigzagState{t: u.t, x: u.x, dir: u.dir, k: u.k, corners: u.corners, label: u.label}, nil
}

func (u *zigzagUnit) RestoreState(state UnitState) error {
	s, ok := state.(zigzagState)
	if !ok {
		return NewUnitError(StatusError, "bad state %T", state)
	}
	u.restores++
	u.t, u.x, u.dir, u.k, u.corners, u.label = s.t, s.x, s.dir, s.k, s.corners, s.label
	return nil
}

// advancesSince returns the Advance targets recorded after the first n calls.
func (u *zigzagUnit) advancesSince(n int) []SimTime {
	return append([]SimTime(nil), u.advances[n:]...)
}

// demoLookahead is the horizon used throughout the zigzag demo: 0.3 with
// five samples and ten sub-steps per sample.
func demoLookahead() LookaheadConfig {
	return NewLookaheadConfig(0.3, 0.06, 0.006)
}

// newZigzagController returns an initialized controller over a fresh
// zigzagUnit with k = 1, x declared as output and k as input.
func newZigzagController(t testing.TB) (*Controller, *zigzagUnit) {
	t.Helper()
	unit := newZigzagUnit()
	cfg := DefaultConfig()
	cfg.Trace = true
	c := NewController(unit, cfg)
	if err := c.DefineOutputs(VariableSet{Real: []string{"x"}, Integer: []string{"corners"}}); err != nil {
		t.Fatalf("DefineOutputs: %v", err)
	}
	if err := c.DefineInputs(VariableSet{Real: []string{"k"}}); err != nil {
		t.Fatalf("DefineInputs: %v", err)
	}
	if err := c.Init("zz", RealInputs(map[string]float64{"k": 1}), 0, demoLookahead()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return c, unit
}

func kInput(k float64) *InputSet {
	in := RealInputs(map[string]float64{"k": k})
	return &in
}
