package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LookaheadConfig groups the horizon and step sizes fixed at Init.
type LookaheadConfig struct {
	Horizon            float64 `yaml:"horizon"`              // maximum look-ahead per prediction (> 0)
	PredictionStepSize float64 `yaml:"prediction_step_size"` // sampling granularity of cached outputs (> 0)
	IntegratorStepSize float64 `yaml:"integrator_step_size"` // internal sub-step while predicting (<= prediction step)
}

// NewLookaheadConfig returns a LookaheadConfig with the given fields.
func NewLookaheadConfig(horizon, predictionStepSize, integratorStepSize float64) LookaheadConfig {
	return LookaheadConfig{
		Horizon:            horizon,
		PredictionStepSize: predictionStepSize,
		IntegratorStepSize: integratorStepSize,
	}
}

// DefaultLookaheadConfig derives prediction and integrator steps from the
// horizon: five predicted samples per horizon, ten sub-steps per sample.
func DefaultLookaheadConfig(horizon float64) LookaheadConfig {
	predictionStep := horizon / 5
	return NewLookaheadConfig(horizon, predictionStep, predictionStep/10)
}

// Validate rejects horizons and step sizes the predictor cannot work with.
func (c LookaheadConfig) Validate() error {
	if !(c.Horizon > 0) {
		return &ConfigurationError{Field: "horizon", Reason: fmt.Sprintf("must be > 0, got %g", c.Horizon)}
	}
	if !(c.PredictionStepSize > 0) {
		return &ConfigurationError{Field: "prediction_step_size", Reason: fmt.Sprintf("must be > 0, got %g", c.PredictionStepSize)}
	}
	if !(c.IntegratorStepSize > 0) {
		return &ConfigurationError{Field: "integrator_step_size", Reason: fmt.Sprintf("must be > 0, got %g", c.IntegratorStepSize)}
	}
	if c.IntegratorStepSize > c.PredictionStepSize {
		return &ConfigurationError{
			Field:  "integrator_step_size",
			Reason: fmt.Sprintf("must not exceed prediction_step_size (%g > %g)", c.IntegratorStepSize, c.PredictionStepSize),
		}
	}
	return nil
}

// Config is the construction-time configuration of a Controller and its unit.
// It replaces any ambient global state: each controller carries its own.
type Config struct {
	LoggingOn            bool    `yaml:"logging_on"`
	EventSearchPrecision float64 `yaml:"event_search_precision"` // passed to the unit's event locator
	Integrator           string  `yaml:"integrator"`             // "euler" or "rk4"
	StopBeforeEvent      bool    `yaml:"stop_before_event"`
	Trace                bool    `yaml:"trace"` // record every Sync decision
}

// DefaultConfig mirrors the settings used by the incremental demos.
func DefaultConfig() Config {
	return Config{
		LoggingOn:            false,
		EventSearchPrecision: 1e-2,
		Integrator:           "rk4",
	}
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.EventSearchPrecision < 0 {
		return &ConfigurationError{Field: "event_search_precision", Reason: fmt.Sprintf("must be non-negative, got %g", c.EventSearchPrecision)}
	}
	return nil
}

// UnitOptions derives the unit construction options for the given model.
func (c Config) UnitOptions(model string, stepSize float64) UnitOptions {
	return UnitOptions{
		Model:                model,
		Integrator:           c.Integrator,
		StepSize:             stepSize,
		EventSearchPrecision: c.EventSearchPrecision,
		StopBeforeEvent:      c.StopBeforeEvent,
		LoggingOn:            c.LoggingOn,
	}
}

// LoadConfig reads a YAML file holding a Config. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading adapter config: %w", err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing adapter config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
