package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/lookahead-sim/lookahead-sim/sim"
	"github.com/lookahead-sim/lookahead-sim/sim/cosim"
	_ "github.com/lookahead-sim/lookahead-sim/sim/models"
	"github.com/lookahead-sim/lookahead-sim/sim/record"
	"github.com/lookahead-sim/lookahead-sim/sim/trace"
)

var (
	configPath string  // Scenario YAML file
	seed       int64   // Seed for the stimulus random source
	logLevel   string  // Log verbosity level
	recordPath string  // Output file for served samples (.csv or .sqlite3)
	stopTime   float64 // Simulation end time
	stepSize   float64 // Master communication step
	traceSyncs bool    // Record every Sync decision and print a summary
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lookahead-sim",
	Short: "Incremental lookahead co-simulation of model-exchange units",
}

// runCmd drives a unit through its lookahead controller from an event-driven master
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an event-driven co-simulation with random input events",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		sc := loadScenario(cmd, DefaultZigzagScenario())

		logrus.Infof("Starting co-simulation of %s: start=%g stop=%g step=%g horizon=%g seed=%d",
			sc.Model, sc.Start, sc.Stop, sc.Step, sc.Lookahead.Horizon, sc.Seed)
		report, err := runCoSimulation(sc)
		if err != nil {
			logrus.Fatalf("co-simulation failed: %v", err)
		}
		report.Print(os.Stdout)
		logrus.Info("Simulation complete.")
	},
}

// integrateCmd integrates a unit directly under a hysteresis controller
var integrateCmd = &cobra.Command{
	Use:   "integrate",
	Short: "Integrate a unit directly under a two-point controller",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		sc := loadScenario(cmd, DefaultRadiatorScenario())

		logrus.Infof("Starting integration of %s: start=%g stop=%g step=%g", sc.Model, sc.Start, sc.Stop, sc.Step)
		stats, err := runIntegration(sc)
		if err != nil {
			logrus.Fatalf("integration failed: %v", err)
		}
		fmt.Printf("=== Integration ===\nsteps: %d\nswitches: %d\nfinal: t=%g %v\n",
			stats.Steps, stats.Switches, stats.Final.Time, stats.Final.Real)
		logrus.Info("Integration complete.")
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadScenario reads --config over base and applies the flags the user set.
func loadScenario(cmd *cobra.Command, base Scenario) Scenario {
	sc := base
	if configPath != "" {
		var err error
		sc, err = LoadScenario(configPath, base)
		if err != nil {
			logrus.Fatalf("unable to load scenario %s: %v", configPath, err)
		}
		logrus.Infof("Using scenario %s", configPath)
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		sc.Seed = seed
	}
	if flags.Changed("stop") {
		sc.Stop = stopTime
	}
	if flags.Changed("step") {
		sc.Step = stepSize
	}
	if flags.Changed("record") {
		sc.Record = recordPath
	}
	if flags.Changed("trace") {
		sc.Adapter.Trace = traceSyncs
	}
	if err := sc.Validate(); err != nil {
		logrus.Fatalf("invalid scenario: %v", err)
	}
	return sc
}

// Report is what a co-simulation run prints.
type Report struct {
	Master     cosim.Stats
	Controller sim.Stats
	Trace      *trace.TraceSummary // nil unless tracing was on
	Final      sim.SyncResult
	Inputs     sim.InputSet
}

// Print writes the report in a human-readable form.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Co-simulation ===")
	fmt.Fprintf(w, "final time: %g\n", r.Final.Time)
	fmt.Fprintf(w, "final outputs: %v\n", r.Final.Outputs.Real)
	fmt.Fprintf(w, "final inputs: %v\n", r.Inputs.Real)
	fmt.Fprintf(w, "master: events=%d syncs=%d input_events=%d stale=%d clamped=%d\n",
		r.Master.Events, r.Master.Syncs, r.Master.InputEvents, r.Master.Stale, r.Master.Clamped)
	fmt.Fprintf(w, "controller: syncs=%d cache_hits=%d real_advances=%d predictions=%d invalidations=%d\n",
		r.Controller.Syncs, r.Controller.CacheHits, r.Controller.RealAdvances, r.Controller.Predictions, r.Controller.Invalidations)
	if r.Trace != nil {
		fmt.Fprintf(w, "trace: hit_ratio=%.3f mean_step=%.4f max_step=%.4f clamped=%d reasons=%v\n",
			r.Trace.HitRatio, r.Trace.MeanStep, r.Trace.MaxStep, r.Trace.ClampedSyncs, r.Trace.Reasons)
	}
}

func newRecorder(sc Scenario) (record.Recorder, error) {
	if sc.Record == "" {
		return nil, nil
	}
	return record.NewRecorder(sc.Record, sc.Outputs)
}

// runCoSimulation sets up one controller and a master and runs to sc.Stop.
func runCoSimulation(sc Scenario) (*Report, error) {
	unit, err := sim.NewUnit(sc.Adapter.UnitOptions(sc.Model, sc.Lookahead.IntegratorStepSize))
	if err != nil {
		return nil, err
	}
	c := sim.NewController(unit, sc.Adapter)
	defer c.Close()
	if err := c.DefineOutputs(sc.Outputs); err != nil {
		return nil, err
	}
	if err := c.DefineInputs(sc.Inputs); err != nil {
		return nil, err
	}
	if err := c.Init(sc.Instance, sc.Initial, sc.Start, sc.Lookahead); err != nil {
		return nil, fmt.Errorf("initializing %s: %w", sc.Model, err)
	}

	rec, err := newRecorder(sc)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		defer rec.Close()
	}
	m, err := cosim.NewMaster(sc.Step, rec)
	if err != nil {
		return nil, err
	}

	var stim cosim.Stimulus
	if sc.Stimulus != nil {
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(sc.Seed)).ForSubsystem(sim.SubsystemStimulus)
		r := cosim.NewRandomInputs(sc.Stimulus.Input, rng)
		r.Probability = sc.Stimulus.Probability
		if len(sc.Stimulus.Steps) > 0 {
			r.Steps = sc.Stimulus.Steps
		}
		r.Min = sc.Stimulus.Min
		if err := r.Validate(); err != nil {
			return nil, err
		}
		stim = r
	}
	p, err := m.Add(c.InstanceID(), c, stim)
	if err != nil {
		return nil, err
	}
	if err := m.Run(sc.Stop); err != nil {
		return nil, err
	}

	report := &Report{
		Master:     m.Stats(),
		Controller: c.Stats(),
		Final:      p.Last(),
		Inputs:     c.Inputs(),
	}
	if sc.Adapter.Trace {
		report.Trace = trace.Summarize(c.Trace())
	}
	return report, nil
}

// runIntegration integrates the unit without lookahead under sc.Hysteresis.
func runIntegration(sc Scenario) (cosim.HysteresisStats, error) {
	if sc.Hysteresis == nil {
		return cosim.HysteresisStats{}, fmt.Errorf("scenario has no hysteresis section")
	}
	unit, err := sim.NewUnit(sc.Adapter.UnitOptions(sc.Model, sc.Lookahead.IntegratorStepSize))
	if err != nil {
		return cosim.HysteresisStats{}, err
	}
	u, ok := unit.(cosim.Integrable)
	if !ok {
		return cosim.HysteresisStats{}, fmt.Errorf("unit for %s cannot integrate directly", sc.Model)
	}
	instance := sc.Instance
	if instance == "" {
		instance = sc.Model
	}
	if err := unit.Instantiate(instance, sc.Start); err != nil {
		return cosim.HysteresisStats{}, err
	}
	rec, err := newRecorder(sc)
	if err != nil {
		return cosim.HysteresisStats{}, err
	}
	if rec != nil {
		defer rec.Close()
	}
	h := sc.Hysteresis
	ctrl := cosim.Hysteresis{Output: h.Output, Input: h.Input, Low: h.Low, High: h.High, On: h.On, Off: h.Off}
	return cosim.RunHysteresis(u, instance, ctrl, h.Initial, sc.Outputs, sc.Step, sc.Stop, rec)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// init sets up CLI flags and subcommands
func init() {
	// logrus.Fatal exits through atexit so recorders flush their buffers.
	logrus.StandardLogger().ExitFunc = atexit.Exit

	for _, c := range []*cobra.Command{runCmd, integrateCmd} {
		c.Flags().StringVar(&configPath, "config", "", "Scenario YAML file (defaults to the built-in demo)")
		c.Flags().Int64Var(&seed, "seed", 123, "Seed for random input events")
		c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().StringVar(&recordPath, "record", "", "Record served samples to a .csv or .sqlite3 file")
		c.Flags().Float64Var(&stopTime, "stop", 0, "Simulation end time (overrides the scenario)")
		c.Flags().Float64Var(&stepSize, "step", 0, "Master communication step (overrides the scenario)")
		c.Flags().BoolVar(&traceSyncs, "trace", false, "Trace every Sync decision and print a summary")
		rootCmd.AddCommand(c)
	}
}
