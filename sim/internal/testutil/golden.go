// Package testutil provides shared test infrastructure for the lookahead
// adapter: the reference trajectory dataset and float assertion helpers used
// across sim/ and its sub-packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/trajectories.json.
type GoldenDataset struct {
	Tests []GoldenTrajectory `json:"tests"`
}

// GoldenTrajectory is a reference trajectory of one model output.
type GoldenTrajectory struct {
	Name       string             `json:"name"`
	Model      string             `json:"model"`
	Inputs     map[string]float64 `json:"inputs"`
	Output     string             `json:"output"`
	StepSize   float64            `json:"step_size"`
	Precision  float64            `json:"event_search_precision"`
	Tolerance  float64            `json:"tolerance"`
	Points     []GoldenPoint      `json:"points"`
	EventTimes []float64          `json:"event_times"`
}

// GoldenPoint is one expected (time, value) sample.
type GoldenPoint struct {
	Time  float64 `json:"t"`
	Value float64 `json:"value"`
}

// LoadGoldenDataset loads the reference trajectories from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "trajectories.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertFloat64Near compares two float64 values with absolute tolerance.
// Use it for values that cross zero, where a relative check is meaningless.
func AssertFloat64Near(t *testing.T, name string, want, got, absTol float64) {
	t.Helper()
	if diff := math.Abs(want - got); diff > absTol || math.IsNaN(got) {
		t.Errorf("%s: got %v, want %v (diff=%v, tol=%v)", name, got, want, diff, absTol)
	}
}
