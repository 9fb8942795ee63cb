package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelSyncs captures every Sync decision.
	TraceLevelSyncs TraceLevel = "syncs"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelSyncs: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SyncTrace collects decision records of one controller.
type SyncTrace struct {
	Config TraceConfig
	Syncs  []SyncRecord
}

// NewSyncTrace creates a SyncTrace ready for recording.
func NewSyncTrace(config TraceConfig) *SyncTrace {
	return &SyncTrace{
		Config: config,
		Syncs:  make([]SyncRecord, 0),
	}
}

// Enabled reports whether records are kept.
func (st *SyncTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelSyncs
}

// RecordSync appends a sync decision record. No-op when tracing is disabled.
func (st *SyncTrace) RecordSync(record SyncRecord) {
	if !st.Enabled() {
		return
	}
	st.Syncs = append(st.Syncs, record)
}
