package cmd

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lookahead-sim/lookahead-sim/sim"
)

//go:embed scenario.schema.json
var scenarioSchemaJSON string

const scenarioSchemaURL = "https://github.com/lookahead-sim/lookahead-sim/cmd/scenario.schema.json"

// Scenario is everything a command needs to set up and drive one unit.
type Scenario struct {
	Model      string              `yaml:"model"`
	Instance   string              `yaml:"instance"`
	Adapter    sim.Config          `yaml:"adapter"`
	Lookahead  sim.LookaheadConfig `yaml:"lookahead"`
	Outputs    sim.VariableSet     `yaml:"outputs"`
	Inputs     sim.VariableSet     `yaml:"inputs"`
	Initial    sim.InputSet        `yaml:"initial"`
	Start      float64             `yaml:"start"`
	Stop       float64             `yaml:"stop"`
	Step       float64             `yaml:"step"`
	Seed       int64               `yaml:"seed"`
	Record     string              `yaml:"record"`
	Stimulus   *StimulusSpec       `yaml:"stimulus"`
	Hysteresis *HysteresisSpec     `yaml:"hysteresis"`
}

// StimulusSpec configures random input events.
type StimulusSpec struct {
	Input       string    `yaml:"input"`
	Probability float64   `yaml:"probability"`
	Steps       []float64 `yaml:"steps"`
	Min         float64   `yaml:"min"`
}

// HysteresisSpec configures the two-point controller of the integrate command.
type HysteresisSpec struct {
	Output  string  `yaml:"output"`
	Input   string  `yaml:"input"`
	Low     float64 `yaml:"low"`
	High    float64 `yaml:"high"`
	On      float64 `yaml:"on"`
	Off     float64 `yaml:"off"`
	Initial float64 `yaml:"initial"`
}

// DefaultZigzagScenario is the incremental zigzag demo: horizon 0.3 with one
// master step per horizon and a random k change in a fifth of the steps.
func DefaultZigzagScenario() Scenario {
	horizon := 0.3
	return Scenario{
		Model:     "zigzag",
		Instance:  "zigzag",
		Adapter:   sim.DefaultConfig(),
		Lookahead: sim.DefaultLookaheadConfig(horizon),
		Outputs:   sim.VariableSet{Real: []string{"x", "derx"}},
		Inputs:    sim.VariableSet{Real: []string{"k"}},
		Initial:   sim.RealInputs(map[string]float64{"k": 1}),
		Stop:      10,
		Step:      horizon,
		Seed:      123,
		Stimulus:  &StimulusSpec{Input: "k", Probability: 0.2, Steps: []float64{1, -2}, Min: 1},
	}
}

// DefaultRadiatorScenario is the radiator demo: one day controlled hourly.
func DefaultRadiatorScenario() Scenario {
	step := 3600.0
	return Scenario{
		Model:     "radiator",
		Instance:  "radiator",
		Adapter:   sim.DefaultConfig(),
		Lookahead: sim.NewLookaheadConfig(step, step, step/10),
		Outputs:   sim.VariableSet{Real: []string{"T"}},
		Inputs:    sim.VariableSet{Real: []string{"Pheat"}},
		Stop:      24 * 3600,
		Step:      step,
		Seed:      123,
		Hysteresis: &HysteresisSpec{
			Output: "T", Input: "Pheat",
			Low: 70, High: 90, On: 1e3, Off: 0,
		},
	}
}

// Validate checks cross-field constraints the schema cannot express.
func (s Scenario) Validate() error {
	if s.Model == "" {
		return fmt.Errorf("scenario: model is required")
	}
	if !(s.Step > 0) {
		return fmt.Errorf("scenario: step must be > 0, got %g", s.Step)
	}
	if !(s.Stop > s.Start) {
		return fmt.Errorf("scenario: stop (%g) must be after start (%g)", s.Stop, s.Start)
	}
	if err := s.Adapter.Validate(); err != nil {
		return err
	}
	return s.Lookahead.Validate()
}

// LoadScenario reads a YAML scenario on top of base. The document is first
// checked against the embedded JSON schema, then decoded strictly.
func LoadScenario(path string, base Scenario) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario: %w", err)
	}
	return parseScenario(data, base)
}

func parseScenario(data []byte, base Scenario) (Scenario, error) {
	if err := validateScenarioSchema(data); err != nil {
		return Scenario{}, err
	}
	sc := base
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	// An empty document leaves the base untouched.
	if err := decoder.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return Scenario{}, fmt.Errorf("parsing scenario: %w", err)
	}
	return sc, sc.Validate()
}

func compileScenarioSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(scenarioSchemaURL, strings.NewReader(scenarioSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(scenarioSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validateScenarioSchema converts the YAML document to its JSON data model
// and validates it.
func validateScenarioSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing scenario: %w", err)
	}
	if doc == nil {
		return nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("scenario is not representable as JSON: %w", err)
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	schema, err := compileScenarioSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	return nil
}
