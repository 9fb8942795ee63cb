package modelexchange

import (
	"github.com/lookahead-sim/lookahead-sim/sim"
)

// Lookup describes a model variable.
func (u *Unit) Lookup(name string) (sim.Variable, bool) {
	v, ok := u.vars[name]
	return v, ok
}

func (u *Unit) GetReal(name string) (float64, error) {
	v, err := u.get(name, sim.KindReal)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func (u *Unit) GetInteger(name string) (int64, error) {
	v, err := u.get(name, sim.KindInteger)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (u *Unit) GetBoolean(name string) (bool, error) {
	v, err := u.get(name, sim.KindBoolean)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (u *Unit) GetString(name string) (string, error) {
	v, err := u.get(name, sim.KindString)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (u *Unit) SetReal(name string, v float64) error  { return u.set(name, sim.KindReal, v) }
func (u *Unit) SetInteger(name string, v int64) error { return u.set(name, sim.KindInteger, v) }
func (u *Unit) SetBoolean(name string, v bool) error  { return u.set(name, sim.KindBoolean, v) }
func (u *Unit) SetString(name string, v string) error { return u.set(name, sim.KindString, v) }

func (u *Unit) get(name string, kind sim.VariableKind) (any, error) {
	if err := u.checkKind(name, kind); err != nil {
		return nil, err
	}
	if u.instantiated {
		u.model.SetStates(u.x)
	}
	v, ok := u.model.Get(name)
	if !ok {
		return nil, sim.NewUnitError(sim.StatusError, "model has no value for %q", name)
	}
	if !valueOfKind(v, kind) {
		return nil, sim.NewUnitError(sim.StatusError, "model returned %T for %s variable %q", v, kind, name)
	}
	return v, nil
}

func (u *Unit) set(name string, kind sim.VariableKind, v any) error {
	if err := u.checkKind(name, kind); err != nil {
		return err
	}
	if c := u.vars[name].Causality; c != sim.CausalityInput && c != sim.CausalityParameter {
		return sim.NewUnitError(sim.StatusError, "variable %q cannot be set", name)
	}
	if err := u.model.Set(name, v); err != nil {
		return sim.NewUnitError(sim.StatusError, "set %q: %v", name, err)
	}
	if u.instantiated {
		u.z = u.indicators(u.t, u.x)
	}
	return nil
}

func (u *Unit) checkKind(name string, kind sim.VariableKind) error {
	v, ok := u.vars[name]
	if !ok {
		return sim.NewUnitError(sim.StatusError, "unknown variable %q", name)
	}
	if v.Kind != kind {
		return sim.NewUnitError(sim.StatusError, "variable %q is %s, not %s", name, v.Kind, kind)
	}
	return nil
}

func valueOfKind(v any, kind sim.VariableKind) bool {
	switch kind {
	case sim.KindReal:
		_, ok := v.(float64)
		return ok
	case sim.KindInteger:
		_, ok := v.(int64)
		return ok
	case sim.KindBoolean:
		_, ok := v.(bool)
		return ok
	case sim.KindString:
		_, ok := v.(string)
		return ok
	}
	return false
}
