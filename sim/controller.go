package sim

import (
	"fmt"
	"io"
	"math"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/lookahead-sim/lookahead-sim/sim/trace"
)

// ControllerState is the lifecycle state of a Controller.
type ControllerState int

const (
	StateUninitialized ControllerState = iota
	StateInitialized
	StateRunning
	// StateUnusable is entered after a FATAL unit failure or Close.
	StateUnusable
)

func (s ControllerState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateUnusable:
		return "unusable"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SyncResult is the outcome of one Sync call.
type SyncResult struct {
	// Time is the new authoritative time. It is earlier than the requested
	// target when the unit stopped at a state event.
	Time SimTime
	// NextSyncTime is how far the caller may jump next without missing a
	// predicted event.
	NextSyncTime SimTime
	Outputs      OutputSnapshot
	Status       Status
	CacheHit     bool
}

// Stats counts what the controller did; useful to verify cache behaviour.
type Stats struct {
	Syncs         int
	CacheHits     int
	RealAdvances  int
	Predictions   int
	Invalidations int
}

// Controller is the synchronization surface between an event-driven master
// and one simulatable unit. It owns the unit, the lookahead cache and the
// authoritative state; it is not safe for concurrent use.
type Controller struct {
	unit      SimulatableUnit
	cfg       Config
	lookahead LookaheadConfig
	log       logrus.FieldLogger
	trace     *trace.SyncTrace

	state      ControllerState
	instanceID string
	inputs     VariableSet
	outputs    VariableSet
	predictor  *Predictor
	cache      *LookaheadCache

	time       SimTime  // authoritative current time
	active     InputSet // inputs in effect since the last real advance
	authState  UnitState
	authTime   SimTime
	onTrack    bool // unit position lies on the authoritative trajectory
	lastOutput OutputSnapshot
	stats      Stats
}

// NewController creates an uninitialized controller owning unit.
func NewController(unit SimulatableUnit, cfg Config) *Controller {
	c := &Controller{
		unit:  unit,
		cfg:   cfg,
		cache: NewLookaheadCache(),
		log:   newLogger(cfg.LoggingOn, ""),
	}
	if cfg.Trace {
		c.trace = trace.NewSyncTrace(trace.TraceConfig{Level: trace.TraceLevelSyncs})
	}
	return c
}

func newLogger(on bool, instanceID string) logrus.FieldLogger {
	if !on {
		l := logrus.New()
		l.SetOutput(io.Discard)
		l.SetLevel(logrus.PanicLevel)
		return l.WithField("instance", instanceID)
	}
	return logrus.WithField("instance", instanceID)
}

// DefineOutputs declares the predicted outputs. Only allowed before Init.
func (c *Controller) DefineOutputs(outputs VariableSet) error {
	if c.state != StateUninitialized {
		return ErrAlreadyInitialized
	}
	c.outputs = outputs.Clone()
	return nil
}

// DefineInputs declares the inputs that Sync may change. Only allowed before Init.
func (c *Controller) DefineInputs(inputs VariableSet) error {
	if c.state != StateUninitialized {
		return ErrAlreadyInitialized
	}
	c.inputs = inputs.Clone()
	return nil
}

// Init instantiates the unit at startTime, applies the initial values
// (parameters or declared inputs), validates every declared name and builds
// the first prediction. An empty instanceID is replaced by a generated one.
func (c *Controller) Init(instanceID string, initial InputSet, startTime SimTime, lookahead LookaheadConfig) error {
	if c.state != StateUninitialized {
		return ErrAlreadyInitialized
	}
	if err := lookahead.Validate(); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	if math.IsNaN(startTime) || math.IsInf(startTime, 0) {
		return &ConfigurationError{Field: "start_time", Reason: fmt.Sprintf("must be finite, got %g", startTime)}
	}
	if instanceID == "" {
		instanceID = xid.New().String()
	}
	c.instanceID = instanceID
	c.lookahead = lookahead
	c.log = newLogger(c.cfg.LoggingOn, instanceID)

	if err := c.unit.Instantiate(instanceID, startTime); err != nil {
		return &UnitAdvanceFailure{Op: "instantiate", Time: startTime, Err: err}
	}
	if err := c.validateDeclarations(initial); err != nil {
		return err
	}
	if err := applyInputs(c.unit, initial); err != nil {
		return &UnitAdvanceFailure{Op: "set initial values", Time: startTime, Err: err}
	}
	active, err := readInputs(c.unit, c.inputs)
	if err != nil {
		return &UnitAdvanceFailure{Op: "read inputs", Time: startTime, Err: err}
	}

	c.active = active
	c.time = startTime
	c.predictor = NewPredictor(c.unit, c.outputs, lookahead, c.log)
	c.state = StateInitialized
	c.log.Infof("initialized at t=%g: horizon=%g prediction step=%g integrator step=%g",
		startTime, lookahead.Horizon, lookahead.PredictionStepSize, lookahead.IntegratorStepSize)

	if err := c.rebuild(startTime, active); err != nil {
		if c.state != StateUnusable {
			c.state = StateUninitialized
		}
		return err
	}
	c.lastOutput = c.cache.Current().Snapshots[0].Clone()
	return nil
}

func (c *Controller) validateDeclarations(initial InputSet) error {
	seen := make(map[string]bool)
	var err error
	check := func(field, name string, kind VariableKind, inputsOnly bool) {
		if err != nil {
			return
		}
		if seen[field+"/"+name] {
			err = &ConfigurationError{Field: field, Reason: fmt.Sprintf("variable %q declared twice", name)}
			return
		}
		seen[field+"/"+name] = true
		v, ok := c.unit.Lookup(name)
		if !ok {
			err = &ConfigurationError{Field: field, Reason: fmt.Sprintf("unknown variable %q", name)}
			return
		}
		if v.Kind != kind {
			err = &ConfigurationError{Field: field, Reason: fmt.Sprintf("variable %q is %s, declared as %s", name, v.Kind, kind)}
			return
		}
		if inputsOnly && v.Causality != CausalityInput && v.Causality != CausalityParameter {
			err = &ConfigurationError{Field: field, Reason: fmt.Sprintf("variable %q cannot be set", name)}
		}
	}
	c.outputs.Each(func(name string, kind VariableKind) { check("outputs", name, kind, false) })
	c.inputs.Each(func(name string, kind VariableKind) { check("inputs", name, kind, true) })
	for n := range initial.Real {
		check("initial", n, KindReal, true)
	}
	for n := range initial.Integer {
		check("initial", n, KindInteger, true)
	}
	for n := range initial.Boolean {
		check("initial", n, KindBoolean, true)
	}
	for n := range initial.String {
		check("initial", n, KindString, true)
	}
	return err
}

// Sync advances the authoritative time from currentTime to targetTime.
//
// currentTime must equal the time of the previous synchronization point and
// targetTime must lie in [currentTime, currentTime+horizon]. Inputs, when
// given, take effect at the reached time; if they differ from the active
// inputs the cache is invalidated and rebuilt from a real advance.
//
// A hit at the end of the cached prediction (horizon exhausted or a predicted
// state event) returns NextSyncTime equal to the reached time. The next call
// must then step past it, e.g. to Time()+horizon; repeating the target only
// re-reads the same sample.
//
// On error, SyncResult.Time is the authoritative time the next call must
// start from. It stays at currentTime unless the unit was checkpointed at the
// reached time before the failure.
func (c *Controller) Sync(currentTime, targetTime SimTime, inputs *InputSet) (SyncResult, error) {
	rec := trace.SyncRecord{
		InstanceID:  c.instanceID,
		CurrentTime: currentTime,
		TargetTime:  targetTime,
		ReachedTime: c.time,
	}
	res, err := c.sync(currentTime, targetTime, inputs, &rec)
	rec.NextSyncTime = res.NextSyncTime
	rec.Status = StatusOf(err).String()
	if err == nil {
		rec.Status = res.Status.String()
	}
	c.trace.RecordSync(rec)
	return res, err
}

func (c *Controller) sync(currentTime, targetTime SimTime, inputs *InputSet, rec *trace.SyncRecord) (SyncResult, error) {
	rec.Path = trace.PathRejected
	if err := c.checkUsable(); err != nil {
		return SyncResult{Time: c.time, Status: StatusOf(err)}, err
	}
	if err := c.checkWindow(currentTime, targetTime); err != nil {
		rec.Reason = err.Error()
		return SyncResult{Time: c.time, Status: StatusError}, err
	}

	next := c.active
	changed := false
	if inputs != nil {
		if err := c.checkInputNames(currentTime, targetTime, *inputs); err != nil {
			rec.Reason = err.Error()
			return SyncResult{Time: c.time, Status: StatusError}, err
		}
		next = c.active.Merge(*inputs)
		changed = !next.Equal(c.active)
	}

	c.stats.Syncs++
	// A prediction that ended at a state event left the unit past the event.
	pastEvent := c.cache.Valid() && c.cache.Current().HasEvent
	status := StatusOK
	reason := trace.ReasonNotCovered
	switch {
	case changed && c.cache.Invalidate():
		c.stats.Invalidations++
		reason = trace.ReasonInputsChanged
	case changed:
		// Nothing cached to drop; the previous failure already invalidated it.
		status = StatusWarning
		reason = trace.ReasonInputsChanged
	case !c.cache.Valid():
		reason = trace.ReasonNoPrediction
	}

	if !changed && c.cache.Covers(targetTime) {
		out, err := c.cache.Query(targetTime)
		if err != nil {
			return SyncResult{Time: c.time, Status: StatusError}, err
		}
		c.time = targetTime
		c.lastOutput = out
		c.state = StateRunning
		c.stats.CacheHits++
		rec.Path = trace.PathCacheHit
		rec.ReachedTime = targetTime
		c.log.Debugf("[t=%.6f] cache hit at t=%.6f", currentTime, targetTime)
		return SyncResult{
			Time:         targetTime,
			NextSyncTime: c.cache.Current().NextSyncTime(),
			Outputs:      out.Clone(),
			Status:       status,
			CacheHit:     true,
		}, nil
	}

	if c.cache.Valid() {
		c.cache.Invalidate()
		c.stats.Invalidations++
	}
	if pastEvent {
		c.onTrack = false
	}
	rec.Path = trace.PathRealAdvance
	rec.Reason = reason
	reached, advStatus, err := c.realAdvance(targetTime)
	if err != nil {
		return SyncResult{Time: c.time, Status: StatusOf(err)}, err
	}
	status = worse(status, advStatus)
	if timeBefore(reached, targetTime) {
		c.log.Infof("[t=%.6f] state event: clamped target %.6f to %.6f", currentTime, targetTime, reached)
	}

	c.state = StateRunning
	if err := c.rebuild(reached, next); err != nil {
		rec.ReachedTime = c.time
		return SyncResult{Time: c.time, Status: StatusOf(err)}, err
	}
	rec.ReachedTime = reached
	pred := c.cache.Current()
	c.lastOutput = pred.Snapshots[0].Clone()
	return SyncResult{
		Time:         reached,
		NextSyncTime: pred.NextSyncTime(),
		Outputs:      c.lastOutput.Clone(),
		Status:       status,
	}, nil
}

func (c *Controller) checkUsable() error {
	switch c.state {
	case StateUninitialized:
		return ErrNotInitialized
	case StateUnusable:
		return ErrAdapterUnusable
	}
	return nil
}

func (c *Controller) checkWindow(currentTime, targetTime SimTime) error {
	violation := func(reason string) error {
		return &SyncContractViolation{
			CurrentTime:  currentTime,
			ExpectedTime: c.time,
			TargetTime:   targetTime,
			Reason:       reason,
		}
	}
	switch {
	case math.IsNaN(targetTime) || math.IsInf(targetTime, 0):
		return violation("target time must be finite")
	case !timeEqual(currentTime, c.time):
		return violation("current time does not match the last synchronization point")
	case timeBefore(targetTime, currentTime):
		return violation("target time lies before current time")
	case timeBefore(currentTime+c.lookahead.Horizon, targetTime):
		return violation(fmt.Sprintf("target time lies beyond one horizon (%g)", c.lookahead.Horizon))
	}
	return nil
}

func (c *Controller) checkInputNames(currentTime, targetTime SimTime, in InputSet) error {
	declared := make(map[string]VariableKind, c.inputs.Len())
	c.inputs.Each(func(name string, kind VariableKind) { declared[name] = kind })
	var err error
	check := func(name string, kind VariableKind) {
		if k, ok := declared[name]; err == nil && (!ok || k != kind) {
			err = &SyncContractViolation{
				CurrentTime:  currentTime,
				ExpectedTime: c.time,
				TargetTime:   targetTime,
				Reason:       fmt.Sprintf("%q is not a declared %s input", name, kind),
			}
		}
	}
	for n := range in.Real {
		check(n, KindReal)
	}
	for n := range in.Integer {
		check(n, KindInteger)
	}
	for n := range in.Boolean {
		check(n, KindBoolean)
	}
	for n := range in.String {
		check(n, KindString)
	}
	return err
}

// realAdvance integrates the unit from the authoritative state to target.
// The checkpoint is restored first when the unit has left the authoritative
// trajectory: the prediction ran past target or through a state event, or a
// failure occurred. Otherwise integration continues from where the unit stands.
func (c *Controller) realAdvance(target SimTime) (SimTime, Status, error) {
	if !c.onTrack || timeBefore(target, c.unit.Time()) {
		if err := c.unit.RestoreState(c.authState); err != nil {
			return 0, StatusError, c.fail("restore authoritative state", err)
		}
		c.onTrack = true
	}
	c.stats.RealAdvances++
	reached, err := c.unit.Advance(target)
	// A replay from the checkpoint may locate an event marginally earlier
	// than the prediction did; keep going until the authoritative time.
	for err == nil && timeBefore(reached, c.time) {
		var again SimTime
		again, err = c.unit.Advance(target)
		if !timeBefore(reached, again) {
			break
		}
		reached = again
	}
	status := StatusOK
	if err != nil {
		if !isWarning(err) {
			return 0, StatusError, c.fail("advance", err)
		}
		status = StatusWarning
		c.log.Warnf("advance to t=%g: %v", target, err)
	}
	if timeBefore(reached, c.time) || timeBefore(target, reached) {
		return 0, StatusError, c.fail("advance", NewUnitError(StatusError,
			"unit reported t=%g outside [%g, %g]", reached, c.time, target))
	}
	return reached, status, nil
}

// rebuild checkpoints the authoritative state at t under active and replaces
// the cached prediction with a new one starting there. The time and inputs
// become authoritative only once the checkpoint is taken; a failure before
// that leaves the previous checkpoint, time and inputs in place.
func (c *Controller) rebuild(t SimTime, active InputSet) error {
	if err := c.unit.SetInputs(active, t); err != nil && !isWarning(err) {
		return c.fail("set inputs", &UnitAdvanceFailure{Op: "set inputs", Time: t, Err: err})
	}
	state, err := c.unit.SaveState()
	if err != nil {
		return c.fail("save authoritative state", &UnitAdvanceFailure{Op: "save authoritative state", Time: t, Err: err})
	}
	c.authState = state
	c.authTime = t
	c.time = t
	c.active = active

	pred, err := c.predictor.Predict(t, active)
	if err != nil {
		return c.fail("predict", err)
	}
	c.stats.Predictions++
	c.cache.Store(pred)
	c.onTrack = true
	return nil
}

// fail invalidates the cache and, on FATAL, retires the controller.
func (c *Controller) fail(op string, err error) error {
	uaf, ok := err.(*UnitAdvanceFailure)
	if !ok {
		uaf = &UnitAdvanceFailure{Op: op, Time: c.time, Err: err}
	}
	if c.cache.Invalidate() {
		c.stats.Invalidations++
	}
	c.onTrack = false
	if uaf.Status() == StatusFatal {
		c.state = StateUnusable
		c.log.Errorf("%v; adapter retired", uaf)
	} else {
		c.log.Warnf("%v; cache invalidated", uaf)
	}
	return uaf
}

func worse(a, b Status) Status {
	if b > a {
		return b
	}
	return a
}

// Time returns the authoritative time.
func (c *Controller) Time() SimTime { return c.time }

// Outputs returns the snapshot served by the last Init or Sync.
func (c *Controller) Outputs() OutputSnapshot { return c.lastOutput.Clone() }

// State returns the lifecycle state.
func (c *Controller) State() ControllerState { return c.state }

// InstanceID returns the instance name given to (or generated by) Init.
func (c *Controller) InstanceID() string { return c.instanceID }

// Inputs returns a copy of the active inputs.
func (c *Controller) Inputs() InputSet { return c.active.Clone() }

// DeclaredOutputs returns the output declaration.
func (c *Controller) DeclaredOutputs() VariableSet { return c.outputs.Clone() }

// Lookahead returns the horizon and step configuration given to Init.
func (c *Controller) Lookahead() LookaheadConfig { return c.lookahead }

// Prediction returns the cached prediction, or nil when invalidated.
func (c *Controller) Prediction() *Prediction { return c.cache.Current() }

// Stats returns the activity counters.
func (c *Controller) Stats() Stats { return c.stats }

// Trace returns the sync decision trace; nil unless Config.Trace was set.
func (c *Controller) Trace() *trace.SyncTrace { return c.trace }

// Close drops the cache and retires the controller.
func (c *Controller) Close() {
	c.cache.Invalidate()
	c.authState = nil
	c.state = StateUnusable
}
