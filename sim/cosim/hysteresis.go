package cosim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lookahead-sim/lookahead-sim/sim"
	"github.com/lookahead-sim/lookahead-sim/sim/record"
)

// Integrable is a unit driven directly, without lookahead: the caller sets
// inputs and integrates to the next communication point.
type Integrable interface {
	SetInputs(inputs sim.InputSet, t sim.SimTime) error
	Integrate(target sim.SimTime) (sim.SimTime, error)
	Outputs(names sim.VariableSet) (sim.OutputSnapshot, error)
	Time() sim.SimTime
}

// Hysteresis is a two-point controller: it switches Input to Off once Output
// reaches High and to On once Output falls to Low, holding it in between.
type Hysteresis struct {
	Output string
	Input  string
	Low    float64
	High   float64
	On     float64
	Off    float64
}

// RadiatorThermostat keeps the radiator between 70 and 90 degrees with a 1 kW heater.
func RadiatorThermostat() Hysteresis {
	return Hysteresis{Output: "T", Input: "Pheat", Low: 70, High: 90, On: 1e3, Off: 0}
}

// Validate rejects an empty band.
func (h Hysteresis) Validate() error {
	if h.Output == "" || h.Input == "" {
		return fmt.Errorf("hysteresis: output and input names are required")
	}
	if !(h.Low < h.High) {
		return fmt.Errorf("hysteresis: low (%g) must be below high (%g)", h.Low, h.High)
	}
	return nil
}

// Decide returns the actuator value for measurement y given the current one.
func (h Hysteresis) Decide(y, current float64) float64 {
	switch {
	case y >= h.High:
		return h.Off
	case y <= h.Low:
		return h.On
	default:
		return current
	}
}

// HysteresisStats summarizes a control loop run.
type HysteresisStats struct {
	Steps    int
	Switches int
	Final    sim.OutputSnapshot
}

// RunHysteresis integrates u from its current time to stop in steps of step,
// applying h at every communication point. outputs selects what is recorded;
// it must contain h.Output as a real. rec may be nil.
func RunHysteresis(u Integrable, instance string, h Hysteresis, initial float64, outputs sim.VariableSet, step, stop sim.SimTime, rec record.Recorder) (HysteresisStats, error) {
	var stats HysteresisStats
	if err := h.Validate(); err != nil {
		return stats, err
	}
	if !(step > 0) {
		return stats, fmt.Errorf("hysteresis: step must be positive, got %g", step)
	}
	measured := -1
	for i, n := range outputs.Real {
		if n == h.Output {
			measured = i
		}
	}
	if measured < 0 {
		return stats, fmt.Errorf("hysteresis: output %q is not a recorded real output", h.Output)
	}

	actuator := initial
	if err := u.SetInputs(sim.RealInputs(map[string]float64{h.Input: actuator}), u.Time()); err != nil {
		return stats, err
	}
	for {
		t := u.Time()
		snap, err := u.Outputs(outputs)
		if err != nil {
			return stats, err
		}
		if rec != nil {
			if err := rec.Record(record.Sample{Instance: instance, Time: t, Outputs: snap, Status: sim.StatusOK}); err != nil {
				return stats, err
			}
		}
		stats.Final = snap
		if finished(t, stop) {
			break
		}

		next := h.Decide(snap.Real[measured], actuator)
		if next != actuator {
			logrus.Debugf("[t=%.1f] %s=%.3f: %s %g -> %g", t, h.Output, snap.Real[measured], h.Input, actuator, next)
			actuator = next
			stats.Switches++
			if err := u.SetInputs(sim.RealInputs(map[string]float64{h.Input: actuator}), t); err != nil {
				return stats, err
			}
		}

		target := t + step
		if target > stop {
			target = stop
		}
		if _, err := u.Integrate(target); err != nil {
			return stats, fmt.Errorf("integrating to %g: %w", target, err)
		}
		stats.Steps++
	}
	if rec != nil {
		return stats, rec.Flush()
	}
	return stats, nil
}
