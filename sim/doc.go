// Package sim provides the incremental lookahead adapter between an
// event-driven co-simulation master and a simulatable unit.
//
// # Reading Guide
//
// Start with these files to understand the adapter:
//   - unit.go: the SimulatableUnit boundary (advance, outputs, checkpoints, values)
//   - predictor.go: short-horizon trajectory prediction from a base state
//   - cache.go: the lookahead cache and output interpolation
//   - controller.go: Sync, the cache-hit / real-advance decision and invalidation
//
// # Architecture
//
// The sim package defines the boundary types and the controller;
// implementations live in sub-packages:
//   - sim/modelexchange/: a unit over a continuous model with integrators and state-event location
//   - sim/models/: reference models (zigzag oscillator, radiator)
//   - sim/cosim/: an event-driven master that schedules controllers
//   - sim/record/: CSV and SQLite recorders for served samples
//   - sim/trace/: Sync decision trace recording
//
// Sub-packages register their implementations via init() functions that set
// package-level factory variables (NewUnitFunc).
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - Unit: set inputs, advance without stepping over events, read outputs
//   - VariableStore: typed get/set of named values
//   - Checkpointer: save and restore the full unit state
package sim
