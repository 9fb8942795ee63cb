package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Predictor drives a unit forward across one horizon and samples its outputs.
//
// Predicting consumes real integration work: when Predict returns, the unit
// sits at the last snapshot time, not at the base time.
type Predictor struct {
	unit    Unit
	outputs VariableSet
	cfg     LookaheadConfig
	log     logrus.FieldLogger
}

// NewPredictor creates a Predictor sampling the given outputs.
func NewPredictor(unit Unit, outputs VariableSet, cfg LookaheadConfig, log logrus.FieldLogger) *Predictor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Predictor{unit: unit, outputs: outputs, cfg: cfg, log: log}
}

// Predict applies inputs at baseTime and records snapshots every
// PredictionStepSize until the horizon is used up or the unit stops early on
// a state event. On any unit failure no prediction is returned.
func (p *Predictor) Predict(baseTime SimTime, inputs InputSet) (*Prediction, error) {
	if err := p.unit.SetInputs(inputs, baseTime); err != nil {
		if !isWarning(err) {
			return nil, &UnitAdvanceFailure{Op: "predict: set inputs", Time: baseTime, Err: err}
		}
		p.log.Warnf("predict: set inputs at t=%g: %v", baseTime, err)
	}

	first, err := p.snapshot(baseTime)
	if err != nil {
		return nil, err
	}
	pred := &Prediction{
		BaseTime:  baseTime,
		Horizon:   p.cfg.Horizon,
		Inputs:    inputs.Clone(),
		Snapshots: []OutputSnapshot{first},
	}

	end := baseTime + p.cfg.Horizon
	t := baseTime
	for i := 1; timeBefore(t, end); i++ {
		// Multiply rather than accumulate so sample times do not drift.
		sample := baseTime + float64(i)*p.cfg.PredictionStepSize
		if !timeBefore(sample, end) {
			sample = end
		}
		for timeBefore(t, sample) {
			sub := t + p.cfg.IntegratorStepSize
			if !timeBefore(sub, sample) {
				sub = sample
			}
			reached, err := p.unit.Advance(sub)
			if err != nil {
				if !isWarning(err) {
					return nil, &UnitAdvanceFailure{Op: "predict: advance", Time: t, Err: err}
				}
				p.log.Warnf("predict: advance to t=%g: %v", sub, err)
			}
			if timeBefore(reached, t) {
				return nil, &UnitAdvanceFailure{
					Op:   "predict: advance",
					Time: t,
					Err:  NewUnitError(StatusError, "unit moved backwards to t=%g", reached),
				}
			}
			if timeBefore(reached, sub) {
				return p.truncate(pred, reached)
			}
			t = sub
		}
		snap, err := p.snapshot(sample)
		if err != nil {
			return nil, err
		}
		pred.Snapshots = append(pred.Snapshots, snap)
	}
	p.log.Debugf("predicted [%g, %g] with %d snapshots", baseTime, pred.LastTime(), len(pred.Snapshots))
	return pred, nil
}

// truncate ends the prediction at a state event. Post-event behaviour is
// unknown until a new prediction starts from the post-event state.
func (p *Predictor) truncate(pred *Prediction, eventTime SimTime) (*Prediction, error) {
	pred.EventTime = eventTime
	pred.HasEvent = true
	if timeBefore(pred.LastTime(), eventTime) {
		snap, err := p.snapshot(eventTime)
		if err != nil {
			return nil, err
		}
		pred.Snapshots = append(pred.Snapshots, snap)
	}
	p.log.Debugf("predicted state event at t=%g (base %g)", eventTime, pred.BaseTime)
	return pred, nil
}

func (p *Predictor) snapshot(t SimTime) (OutputSnapshot, error) {
	snap, err := p.unit.Outputs(p.outputs)
	if err != nil && !isWarning(err) {
		return OutputSnapshot{}, &UnitAdvanceFailure{Op: "predict: read outputs", Time: t, Err: err}
	}
	if got := p.unit.Time(); !timeEqual(got, t) {
		return OutputSnapshot{}, &UnitAdvanceFailure{
			Op:   "predict: read outputs",
			Time: t,
			Err:  fmt.Errorf("unit reports t=%g", got),
		}
	}
	snap.Time = t
	return snap, nil
}
