// Package record persists the output samples served during a co-simulation
// run. Recorders buffer samples and write them in batches; buffered samples
// are flushed when the process exits through atexit.
package record

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lookahead-sim/lookahead-sim/sim"
)

// Sample is one output snapshot served to the master at a synchronization point.
type Sample struct {
	Instance string
	Time     sim.SimTime
	Outputs  sim.OutputSnapshot
	CacheHit bool
	Status   sim.Status
}

// Recorder stores samples.
type Recorder interface {
	Record(s Sample) error
	Flush() error
	Close() error
}

// NewRecorder picks a recorder by file extension: .csv for CSVRecorder,
// .db, .sqlite or .sqlite3 for SQLiteRecorder. The output declaration fixes
// the column names.
func NewRecorder(path string, outputs sim.VariableSet) (Recorder, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		r, err := NewCSVRecorder(path, outputs)
		if err != nil {
			return nil, err
		}
		return r, nil
	case ".db", ".sqlite", ".sqlite3":
		r, err := NewSQLiteRecorder(path, outputs)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported record format %q (use .csv, .db, .sqlite or .sqlite3)", ext)
	}
}

// columns lists the declared output names in snapshot order.
func columns(outputs sim.VariableSet) []string {
	names := make([]string, 0, outputs.Len())
	outputs.Each(func(name string, _ sim.VariableKind) { names = append(names, name) })
	return names
}

// values renders a snapshot in column order.
func values(snap sim.OutputSnapshot) []any {
	out := make([]any, 0, len(snap.Real)+len(snap.Integer)+len(snap.Boolean)+len(snap.String))
	for _, v := range snap.Real {
		out = append(out, v)
	}
	for _, v := range snap.Integer {
		out = append(out, v)
	}
	for _, v := range snap.Boolean {
		out = append(out, v)
	}
	for _, v := range snap.String {
		out = append(out, v)
	}
	return out
}
