package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPredictor(t *testing.T, unit *zigzagUnit, cfg LookaheadConfig) *Predictor {
	t.Helper()
	require.NoError(t, unit.Instantiate("p", 0))
	return NewPredictor(unit, VariableSet{Real: []string{"x"}}, cfg, nil)
}

func TestPredictor_NoEvent_UniformSamples(t *testing.T) {
	// GIVEN a zigzag with slope 1 and a horizon of 0.3
	unit := newZigzagUnit()
	p := newTestPredictor(t, unit, demoLookahead())

	// WHEN predicting from t=0
	pred, err := p.Predict(0, RealInputs(map[string]float64{"k": 1}))

	// THEN six uniformly spaced snapshots end at the horizon
	require.NoError(t, err)
	assert.False(t, pred.HasEvent)
	require.Len(t, pred.Snapshots, 6)
	for i := 1; i < len(pred.Snapshots); i++ {
		assert.InDelta(t, 0.06, pred.Snapshots[i].Time-pred.Snapshots[i-1].Time, 1e-12)
	}
	assert.Equal(t, 0.3, pred.LastTime())
	assert.Equal(t, 0.3, pred.NextSyncTime())

	// AND the unit was consumed up to the end of the prediction
	assert.Equal(t, 0.3, unit.Time())
	assert.Len(t, unit.advances, 50, "ten sub-steps per sample")
}

func TestPredictor_HorizonNotMultipleOfStep(t *testing.T) {
	unit := newZigzagUnit()
	p := newTestPredictor(t, unit, NewLookaheadConfig(0.25, 0.06, 0.03))

	pred, err := p.Predict(0, InputSet{})

	require.NoError(t, err)
	require.Len(t, pred.Snapshots, 6)
	assert.InDelta(t, 0.24, pred.Snapshots[4].Time, 1e-12)
	assert.Equal(t, 0.25, pred.LastTime(), "final sample is shortened to the horizon")
}

func TestPredictor_StopsAtStateEvent(t *testing.T) {
	// GIVEN a slope of 5, so x reaches the corner at t=0.2
	unit := newZigzagUnit()
	p := newTestPredictor(t, unit, demoLookahead())

	// WHEN predicting over a 0.3 horizon
	pred, err := p.Predict(0, RealInputs(map[string]float64{"k": 5}))

	// THEN recording stops at the event, which bounds the next sync
	require.NoError(t, err)
	require.True(t, pred.HasEvent)
	assert.InDelta(t, 0.2, pred.EventTime, 1e-12)
	assert.InDelta(t, 0.2, pred.NextSyncTime(), 1e-12)
	require.Len(t, pred.Snapshots, 5)
	last := pred.Snapshots[4]
	assert.Equal(t, pred.EventTime, last.Time)
	assert.InDelta(t, 1, last.Real[0], 1e-12)
	assert.Equal(t, pred.EventTime, unit.Time())
}

func TestPredictor_CopiesInputs(t *testing.T) {
	unit := newZigzagUnit()
	p := newTestPredictor(t, unit, demoLookahead())
	in := RealInputs(map[string]float64{"k": 1})

	pred, err := p.Predict(0, in)
	require.NoError(t, err)
	in.Real["k"] = 9

	assert.Equal(t, 1.0, pred.Inputs.Real["k"])
}

func TestPredictor_UnitFailure_ReturnsNoPrediction(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status Status
	}{
		{"discard", NewUnitError(StatusDiscard, "rejected"), StatusDiscard},
		{"error", NewUnitError(StatusError, "broken"), StatusError},
		{"fatal", NewUnitError(StatusFatal, "gone"), StatusFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := newZigzagUnit()
			unit.failAdvance = tt.err
			unit.failAfter = 0.1
			p := newTestPredictor(t, unit, demoLookahead())

			pred, err := p.Predict(0, InputSet{})

			assert.Nil(t, pred)
			var uaf *UnitAdvanceFailure
			require.ErrorAs(t, err, &uaf)
			assert.Equal(t, tt.status, uaf.Status())
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestPredictor_UnknownOutput(t *testing.T) {
	unit := newZigzagUnit()
	require.NoError(t, unit.Instantiate("p", 0))
	p := NewPredictor(unit, VariableSet{Real: []string{"speed"}}, demoLookahead(), nil)

	_, err := p.Predict(0, InputSet{})

	assert.ErrorIs(t, err, errNoSuchVariable)
}

func TestPredictor_InputsAtWrongTime(t *testing.T) {
	unit := newZigzagUnit()
	p := newTestPredictor(t, unit, demoLookahead())

	_, err := p.Predict(1, InputSet{})

	var uaf *UnitAdvanceFailure
	assert.ErrorAs(t, err, &uaf)
}
