package cosim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lookahead-sim/lookahead-sim/sim"
)

// Stimulus produces input changes between synchronization points.
// Next is asked once per scheduled interval [now, until); it returns the
// time and values of an input event inside it, or false for none.
type Stimulus interface {
	Next(now, until sim.SimTime, current sim.InputSet) (sim.SimTime, sim.InputSet, bool)
}

// RandomInputs fires with the given probability per interval at a uniformly
// drawn time and moves one real input by a randomly chosen increment,
// never below Min.
type RandomInputs struct {
	Input       string
	Probability float64
	Steps       []float64
	Min         float64
	rng         *rand.Rand
}

// NewRandomInputs returns the zigzag demo stimulus: p=0.2, k += +1 or -2, k >= 1.
func NewRandomInputs(input string, rng *rand.Rand) *RandomInputs {
	return &RandomInputs{
		Input:       input,
		Probability: 0.2,
		Steps:       []float64{1, -2},
		Min:         1,
		rng:         rng,
	}
}

// Validate checks the stimulus parameters.
func (r *RandomInputs) Validate() error {
	if r.Input == "" {
		return fmt.Errorf("random inputs: no input name")
	}
	if r.Probability < 0 || r.Probability > 1 {
		return fmt.Errorf("random inputs: probability must be in [0,1], got %g", r.Probability)
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("random inputs: no steps")
	}
	if r.rng == nil {
		return fmt.Errorf("random inputs: no random source")
	}
	return nil
}

func (r *RandomInputs) Next(now, until sim.SimTime, current sim.InputSet) (sim.SimTime, sim.InputSet, bool) {
	if r.rng.Float64() >= r.Probability {
		return 0, sim.InputSet{}, false
	}
	at := now + (until-now)*r.rng.Float64()
	v, ok := current.Real[r.Input]
	if !ok {
		v = r.Min
	}
	v = math.Max(r.Min, v+r.Steps[r.rng.Intn(len(r.Steps))])
	return at, sim.RealInputs(map[string]float64{r.Input: v}), true
}
