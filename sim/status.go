package sim

import (
	"errors"
	"fmt"
)

// Status is the closed set of outcomes reported to callers.
type Status int

const (
	// StatusOK means the operation succeeded.
	StatusOK Status = iota
	// StatusWarning is a non-fatal condition, e.g. a redundant invalidation.
	StatusWarning
	// StatusDiscard means the step's results should not be trusted.
	StatusDiscard
	// StatusError means the operation failed but the adapter can be retried.
	StatusError
	// StatusFatal means the adapter is no longer usable.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	case StatusDiscard:
		return "discard"
	case StatusError:
		return "error"
	case StatusFatal:
		return "fatal"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

var (
	ErrNotInitialized     = errors.New("controller not initialized")
	ErrAlreadyInitialized = errors.New("controller already initialized")
	ErrAdapterUnusable    = errors.New("adapter unusable after fatal unit failure")
	ErrNotCovered         = errors.New("time not covered by cached prediction")
)

// ConfigurationError reports an invalid lookahead configuration or variable
// declaration. It only occurs during initialization.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// SyncContractViolation reports a Sync call with arguments outside the
// allowed window. The controller state is unchanged.
type SyncContractViolation struct {
	CurrentTime  SimTime
	ExpectedTime SimTime
	TargetTime   SimTime
	Reason       string
}

func (e *SyncContractViolation) Error() string {
	return fmt.Sprintf("sync contract violation (current=%g expected=%g target=%g): %s",
		e.CurrentTime, e.ExpectedTime, e.TargetTime, e.Reason)
}

// UnitError is returned by simulatable units to carry a status with the error.
type UnitError struct {
	Status Status
	Err    error
}

// NewUnitError builds a UnitError with a formatted message.
func NewUnitError(status Status, format string, args ...any) *UnitError {
	return &UnitError{Status: status, Err: fmt.Errorf(format, args...)}
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("unit %s: %v", e.Status, e.Err)
}

func (e *UnitError) Unwrap() error { return e.Err }

// UnitAdvanceFailure wraps a unit failure raised while the controller drove
// the unit, either during a real advance or while predicting.
type UnitAdvanceFailure struct {
	Op   string
	Time SimTime
	Err  error
}

func (e *UnitAdvanceFailure) Error() string {
	return fmt.Sprintf("%s at t=%g: %v", e.Op, e.Time, e.Err)
}

func (e *UnitAdvanceFailure) Unwrap() error { return e.Err }

// Status returns the unit's reported status, or StatusError when the unit
// returned a plain error.
func (e *UnitAdvanceFailure) Status() Status {
	var ue *UnitError
	if errors.As(e.Err, &ue) {
		return ue.Status
	}
	return StatusError
}

// StatusOf maps an error returned by this package to its status code.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var (
		cfgErr *ConfigurationError
		scv    *SyncContractViolation
		uaf    *UnitAdvanceFailure
		ue     *UnitError
	)
	switch {
	case errors.As(err, &cfgErr):
		return StatusFatal
	case errors.As(err, &scv):
		return StatusError
	case errors.As(err, &uaf):
		return uaf.Status()
	case errors.As(err, &ue):
		return ue.Status
	case errors.Is(err, ErrAdapterUnusable):
		return StatusFatal
	default:
		return StatusError
	}
}

// isWarning reports whether err is a unit warning that should not fail the call.
func isWarning(err error) bool {
	var ue *UnitError
	return errors.As(err, &ue) && ue.Status == StatusWarning
}
