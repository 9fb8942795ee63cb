package sim

import (
	"maps"
	"math"
	"sort"
)

// SimTime is simulation time in model time units (usually seconds).
type SimTime = float64

// timeTolerance is the relative tolerance used when comparing simulation times.
// Times handed back by the controller are compared exactly in practice; the
// tolerance only absorbs round-off from callers computing t+step themselves.
const timeTolerance = 1e-9

// timeEqual reports whether a and b denote the same synchronization point.
func timeEqual(a, b SimTime) bool {
	return math.Abs(a-b) <= timeTolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// timeBefore reports whether a is strictly before b beyond tolerance.
func timeBefore(a, b SimTime) bool {
	return a < b && !timeEqual(a, b)
}

// VariableKind is the simple type of a model variable.
type VariableKind int

const (
	KindReal VariableKind = iota
	KindInteger
	KindBoolean
	KindString
)

func (k VariableKind) String() string {
	switch k {
	case KindReal:
		return "real"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Causality describes how a variable participates in the model.
type Causality int

const (
	CausalityLocal Causality = iota
	CausalityParameter
	CausalityInput
	CausalityOutput
)

// Variable describes one named model variable.
type Variable struct {
	Name      string
	Kind      VariableKind
	Causality Causality
}

// VariableSet is an ordered declaration of variable names grouped by kind.
// The order of each slice fixes the order of values in an OutputSnapshot.
type VariableSet struct {
	Real    []string `yaml:"real"`
	Integer []string `yaml:"integer"`
	Boolean []string `yaml:"boolean"`
	String  []string `yaml:"string"`
}

// Len returns the total number of declared names.
func (vs VariableSet) Len() int {
	return len(vs.Real) + len(vs.Integer) + len(vs.Boolean) + len(vs.String)
}

// Each calls fn for every declared name with its kind, in declaration order.
func (vs VariableSet) Each(fn func(name string, kind VariableKind)) {
	for _, n := range vs.Real {
		fn(n, KindReal)
	}
	for _, n := range vs.Integer {
		fn(n, KindInteger)
	}
	for _, n := range vs.Boolean {
		fn(n, KindBoolean)
	}
	for _, n := range vs.String {
		fn(n, KindString)
	}
}

// Clone returns a deep copy.
func (vs VariableSet) Clone() VariableSet {
	return VariableSet{
		Real:    append([]string(nil), vs.Real...),
		Integer: append([]string(nil), vs.Integer...),
		Boolean: append([]string(nil), vs.Boolean...),
		String:  append([]string(nil), vs.String...),
	}
}

// InputSet maps variable names to values, applied atomically at one SimTime.
type InputSet struct {
	Real    map[string]float64 `yaml:"real"`
	Integer map[string]int64   `yaml:"integer"`
	Boolean map[string]bool    `yaml:"boolean"`
	String  map[string]string  `yaml:"string"`
}

// RealInputs is shorthand for an InputSet holding only real values.
func RealInputs(values map[string]float64) InputSet {
	return InputSet{Real: values}
}

// Len returns the number of values in the set.
func (in InputSet) Len() int {
	return len(in.Real) + len(in.Integer) + len(in.Boolean) + len(in.String)
}

// Names returns all names in the set, sorted.
func (in InputSet) Names() []string {
	names := make([]string, 0, in.Len())
	for n := range in.Real {
		names = append(names, n)
	}
	for n := range in.Integer {
		names = append(names, n)
	}
	for n := range in.Boolean {
		names = append(names, n)
	}
	for n := range in.String {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy.
func (in InputSet) Clone() InputSet {
	return InputSet{
		Real:    maps.Clone(in.Real),
		Integer: maps.Clone(in.Integer),
		Boolean: maps.Clone(in.Boolean),
		String:  maps.Clone(in.String),
	}
}

// Merge returns a copy of in with every value of other overriding it.
func (in InputSet) Merge(other InputSet) InputSet {
	out := in.Clone()
	out.Real = mergeInto(out.Real, other.Real)
	out.Integer = mergeInto(out.Integer, other.Integer)
	out.Boolean = mergeInto(out.Boolean, other.Boolean)
	out.String = mergeInto(out.String, other.String)
	return out
}

func mergeInto[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// Equal reports whether both sets hold the same names and values.
// A nil map and an empty map are equal.
func (in InputSet) Equal(other InputSet) bool {
	return maps.Equal(in.Real, other.Real) &&
		maps.Equal(in.Integer, other.Integer) &&
		maps.Equal(in.Boolean, other.Boolean) &&
		maps.Equal(in.String, other.String)
}

// OutputSnapshot is the value tuple of the declared outputs at one time.
type OutputSnapshot struct {
	Time    SimTime
	Real    []float64
	Integer []int64
	Boolean []bool
	String  []string
}

// Clone returns a deep copy.
func (o OutputSnapshot) Clone() OutputSnapshot {
	return OutputSnapshot{
		Time:    o.Time,
		Real:    append([]float64(nil), o.Real...),
		Integer: append([]int64(nil), o.Integer...),
		Boolean: append([]bool(nil), o.Boolean...),
		String:  append([]string(nil), o.String...),
	}
}

// Prediction is a short-horizon trajectory computed from one base state.
// It is never mutated after construction; invalidation replaces it.
type Prediction struct {
	BaseTime  SimTime
	Horizon   SimTime
	Inputs    InputSet
	Snapshots []OutputSnapshot
	// EventTime is the earliest state event inside the span; valid only if HasEvent.
	EventTime SimTime
	HasEvent  bool
}

// LastTime returns the time of the last snapshot.
func (p *Prediction) LastTime() SimTime {
	if len(p.Snapshots) == 0 {
		return p.BaseTime
	}
	return p.Snapshots[len(p.Snapshots)-1].Time
}

// Covers reports whether t lies within [BaseTime, LastTime].
func (p *Prediction) Covers(t SimTime) bool {
	if len(p.Snapshots) == 0 {
		return false
	}
	return !timeBefore(t, p.BaseTime) && !timeBefore(p.LastTime(), t)
}

// NextSyncTime is the earlier of horizon exhaustion and the predicted event.
func (p *Prediction) NextSyncTime() SimTime {
	next := p.BaseTime + p.Horizon
	if p.HasEvent && p.EventTime < next {
		next = p.EventTime
	}
	return next
}
