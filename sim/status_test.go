package sim

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"nil", nil, StatusOK},
		{"configuration", &ConfigurationError{Field: "horizon", Reason: "must be > 0"}, StatusFatal},
		{"contract violation", &SyncContractViolation{Reason: "late"}, StatusError},
		{"wrapped contract violation", fmt.Errorf("set: %w", &SyncContractViolation{}), StatusError},
		{"unit discard", &UnitAdvanceFailure{Op: "advance", Err: NewUnitError(StatusDiscard, "x")}, StatusDiscard},
		{"unit fatal", &UnitAdvanceFailure{Op: "advance", Err: NewUnitError(StatusFatal, "x")}, StatusFatal},
		{"unit plain error", &UnitAdvanceFailure{Op: "advance", Err: errors.New("x")}, StatusError},
		{"bare unit warning", NewUnitError(StatusWarning, "x"), StatusWarning},
		{"unusable", ErrAdapterUnusable, StatusFatal},
		{"not initialized", ErrNotInitialized, StatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "warning", StatusWarning.String())
	assert.Equal(t, "discard", StatusDiscard.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "fatal", StatusFatal.String())
	assert.Equal(t, "status(9)", Status(9).String())
}

func TestErrorMessages(t *testing.T) {
	scv := &SyncContractViolation{CurrentTime: 0, ExpectedTime: 0, TargetTime: 0.5, Reason: "target time lies beyond one horizon (0.3)"}
	assert.Contains(t, scv.Error(), "target=0.5")

	uaf := &UnitAdvanceFailure{Op: "advance", Time: 1.5, Err: NewUnitError(StatusDiscard, "diverged")}
	assert.Equal(t, "advance at t=1.5: unit discard: diverged", uaf.Error())

	cfg := &ConfigurationError{Field: "horizon", Reason: "must be > 0, got 0"}
	assert.Equal(t, "configuration error: horizon: must be > 0, got 0", cfg.Error())
}

func TestIsWarning(t *testing.T) {
	assert.True(t, isWarning(NewUnitError(StatusWarning, "slow")))
	assert.True(t, isWarning(fmt.Errorf("wrapped: %w", NewUnitError(StatusWarning, "slow"))))
	assert.False(t, isWarning(NewUnitError(StatusError, "bad")))
	assert.False(t, isWarning(errors.New("plain")))
}
