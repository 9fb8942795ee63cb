package modelexchange

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/lookahead-sim/lookahead-sim/sim"
)

// DefaultEventSearchPrecision bounds the event location error when the
// options leave it at zero.
const DefaultEventSearchPrecision = 1e-6

// bisectionFraction caps the bisection tolerance relative to the step, so an
// event is located strictly inside the step even with a coarse precision.
const bisectionFraction = 1.0 / 64

const timeTolerance = 1e-9

// Unit integrates a Model and locates its state events.
type Unit struct {
	model Model
	integ Integrator
	opts  sim.UnitOptions
	log   logrus.FieldLogger
	vars  map[string]sim.Variable

	instanceID   string
	instantiated bool
	t            float64
	x            []float64
	z            []float64
	// pending is set when the unit stopped just before an event it has not
	// handled yet (StopBeforeEvent).
	pending bool
}

var _ sim.SimulatableUnit = (*Unit)(nil)

// New wraps model into a unit. The integrator is chosen by opts.Integrator.
func New(model Model, opts sim.UnitOptions) (*Unit, error) {
	integ, err := NewIntegrator(opts.Integrator)
	if err != nil {
		return nil, err
	}
	if opts.StepSize < 0 {
		return nil, fmt.Errorf("step size must be non-negative, got %g", opts.StepSize)
	}
	if opts.EventSearchPrecision <= 0 {
		opts.EventSearchPrecision = DefaultEventSearchPrecision
	}
	vars := make(map[string]sim.Variable)
	for _, v := range model.Variables() {
		vars[v.Name] = v
	}
	return &Unit{
		model: model,
		integ: integ,
		opts:  opts,
		log:   discardLogger(),
		vars:  vars,
	}, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// Instantiate resets the model's states to their initial values at startTime.
// Parameter values set earlier are kept.
func (u *Unit) Instantiate(instanceID string, startTime float64) error {
	u.instanceID = instanceID
	if u.opts.LoggingOn {
		u.log = logrus.WithFields(logrus.Fields{"unit": instanceID, "model": u.opts.Model})
	}
	u.model.Reset(startTime)
	u.t = startTime
	u.x = make([]float64, u.model.NumStates())
	u.model.States(u.x)
	u.z = u.indicators(startTime, u.x)
	u.pending = false
	u.instantiated = true
	u.log.Debugf("instantiated at t=%g with %s integrator", startTime, u.integ.Name())
	return nil
}

// Time returns the unit's current time.
func (u *Unit) Time() float64 { return u.t }

// Model exposes the wrapped model.
func (u *Unit) Model() Model { return u.model }

// SetInputs applies inputs at the unit's current time.
func (u *Unit) SetInputs(inputs sim.InputSet, t float64) error {
	if err := u.checkInstantiated(); err != nil {
		return err
	}
	if math.Abs(t-u.t) > timeTolerance*math.Max(1, math.Abs(t)) {
		return sim.NewUnitError(sim.StatusError, "inputs for t=%g but unit is at t=%g", t, u.t)
	}
	for name, v := range inputs.Real {
		if err := u.set(name, sim.KindReal, v); err != nil {
			return err
		}
	}
	for name, v := range inputs.Integer {
		if err := u.set(name, sim.KindInteger, v); err != nil {
			return err
		}
	}
	for name, v := range inputs.Boolean {
		if err := u.set(name, sim.KindBoolean, v); err != nil {
			return err
		}
	}
	for name, v := range inputs.String {
		if err := u.set(name, sim.KindString, v); err != nil {
			return err
		}
	}
	u.z = u.indicators(u.t, u.x)
	return nil
}

// Advance integrates towards target and stops at the first state event.
// It returns the time reached, which is earlier than target only when an
// event was located.
func (u *Unit) Advance(target float64) (float64, error) {
	if err := u.checkInstantiated(); err != nil {
		return u.t, err
	}
	if target < u.t-timeTolerance*math.Max(1, math.Abs(u.t)) {
		return u.t, sim.NewUnitError(sim.StatusError, "cannot advance backwards from t=%g to t=%g", u.t, target)
	}
	if u.pending {
		u.handleEvent()
	}

	for u.t < target && !sameTime(u.t, target) {
		h := target - u.t
		if u.opts.StepSize > 0 && u.opts.StepSize < h && !sameTime(u.t+u.opts.StepSize, target) {
			h = u.opts.StepSize
		}
		xNext := u.integ.Step(u.model, u.t, h, u.x)
		if hasNaN(xNext) {
			return u.t, sim.NewUnitError(sim.StatusDiscard, "integration diverged at t=%g (h=%g)", u.t, h)
		}
		zNext := u.indicators(u.t+h, xNext)
		if crossed(u.z, zNext) {
			return u.locateEvent(h, xNext), nil
		}
		if h == target-u.t {
			u.t = target
		} else {
			u.t += h
		}
		u.x, u.z = xNext, zNext
	}
	u.model.SetStates(u.x)
	return u.t, nil
}

// Integrate advances to target, passing through any number of events.
func (u *Unit) Integrate(target float64) (float64, error) {
	for {
		reached, err := u.Advance(target)
		if err != nil || sameTime(reached, target) {
			return reached, err
		}
	}
}

// locateEvent bisects the step [t, t+h] for the first crossing and stops the
// unit there. The located time is never before the true crossing by more
// than the search precision.
func (u *Unit) locateEvent(h float64, xHi []float64) float64 {
	tol := math.Min(u.opts.EventSearchPrecision, h*bisectionFraction)
	lo, hi := 0.0, h
	xLo := u.x
	for hi-lo > tol {
		mid := (lo + hi) / 2
		xm := u.integ.Step(u.model, u.t, mid, u.x)
		if crossed(u.z, u.indicators(u.t+mid, xm)) {
			hi, xHi = mid, xm
		} else {
			lo, xLo = mid, xm
		}
	}

	if u.opts.StopBeforeEvent {
		u.t += lo
		u.x = xLo
		u.z = u.indicators(u.t, u.x)
		u.pending = true
		u.model.SetStates(u.x)
		u.log.Debugf("stopped before state event at t=%g", u.t)
		return u.t
	}
	u.t += hi
	u.x = xHi
	u.handleEvent()
	return u.t
}

func (u *Unit) handleEvent() {
	u.model.SetStates(u.x)
	u.model.HandleEvent(u.t, u.x)
	u.model.SetStates(u.x)
	u.z = u.indicators(u.t, u.x)
	u.pending = false
	u.log.Debugf("handled state event at t=%g", u.t)
}

func (u *Unit) indicators(t float64, x []float64) []float64 {
	z := make([]float64, u.model.NumEventIndicators())
	if len(z) > 0 {
		u.model.EventIndicators(t, x, z)
	}
	return z
}

// crossed reports whether any indicator changed sign between z0 and z1.
func crossed(z0, z1 []float64) bool {
	for i := range z0 {
		if (z0[i] > 0 && z1[i] <= 0) || (z0[i] < 0 && z1[i] >= 0) {
			return true
		}
	}
	return false
}

func hasNaN(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

func sameTime(a, b float64) bool {
	return math.Abs(a-b) <= timeTolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// Outputs reads the named variables at the current time.
func (u *Unit) Outputs(names sim.VariableSet) (sim.OutputSnapshot, error) {
	if err := u.checkInstantiated(); err != nil {
		return sim.OutputSnapshot{}, err
	}
	u.model.SetStates(u.x)
	snap := sim.OutputSnapshot{
		Time:    u.t,
		Real:    make([]float64, 0, len(names.Real)),
		Integer: make([]int64, 0, len(names.Integer)),
		Boolean: make([]bool, 0, len(names.Boolean)),
		String:  make([]string, 0, len(names.String)),
	}
	for _, n := range names.Real {
		v, err := u.GetReal(n)
		if err != nil {
			return sim.OutputSnapshot{}, err
		}
		snap.Real = append(snap.Real, v)
	}
	for _, n := range names.Integer {
		v, err := u.GetInteger(n)
		if err != nil {
			return sim.OutputSnapshot{}, err
		}
		snap.Integer = append(snap.Integer, v)
	}
	for _, n := range names.Boolean {
		v, err := u.GetBoolean(n)
		if err != nil {
			return sim.OutputSnapshot{}, err
		}
		snap.Boolean = append(snap.Boolean, v)
	}
	for _, n := range names.String {
		v, err := u.GetString(n)
		if err != nil {
			return sim.OutputSnapshot{}, err
		}
		snap.String = append(snap.String, v)
	}
	return snap, nil
}

func (u *Unit) checkInstantiated() error {
	if !u.instantiated {
		return sim.NewUnitError(sim.StatusError, "unit not instantiated")
	}
	return nil
}

type checkpoint struct {
	t       float64
	x       []float64
	model   Model
	pending bool
}

// SaveState captures time, continuous states, discrete state and parameters.
func (u *Unit) SaveState() (sim.UnitState, error) {
	if err := u.checkInstantiated(); err != nil {
		return nil, err
	}
	u.model.SetStates(u.x)
	return &checkpoint{
		t:       u.t,
		x:       append([]float64(nil), u.x...),
		model:   u.model.Clone(),
		pending: u.pending,
	}, nil
}

// RestoreState rewinds the unit to a checkpoint taken by SaveState. The
// checkpoint stays valid for further restores.
func (u *Unit) RestoreState(state sim.UnitState) error {
	cp, ok := state.(*checkpoint)
	if !ok || cp == nil {
		return sim.NewUnitError(sim.StatusError, "invalid checkpoint %T", state)
	}
	u.model = cp.model.Clone()
	u.t = cp.t
	u.x = append([]float64(nil), cp.x...)
	u.pending = cp.pending
	u.z = u.indicators(u.t, u.x)
	u.instantiated = true
	return nil
}
