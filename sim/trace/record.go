// Package trace provides decision-trace recording for lookahead synchronization.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// Path is the branch a Sync call took.
type Path string

const (
	// PathCacheHit means the target was served from the cached prediction.
	PathCacheHit Path = "cache-hit"
	// PathRealAdvance means the unit was integrated and the cache rebuilt.
	PathRealAdvance Path = "real-advance"
	// PathRejected means the call failed before touching the unit or the cache.
	PathRejected Path = "rejected"
)

// Invalidation reasons recorded on real advances.
const (
	ReasonNotCovered    = "not-covered"
	ReasonInputsChanged = "inputs-changed"
	ReasonNoPrediction  = "no-prediction"
)

// SyncRecord captures a single Sync decision.
type SyncRecord struct {
	InstanceID   string
	CurrentTime  float64
	TargetTime   float64
	ReachedTime  float64 // < TargetTime when the unit stopped at a state event
	NextSyncTime float64
	Path         Path
	Reason       string // why the cache was not used; empty on a hit
	Status       string
}

// Clamped reports whether the unit stopped before the requested target.
func (r SyncRecord) Clamped() bool {
	return r.Path == PathRealAdvance && r.ReachedTime < r.TargetTime
}
