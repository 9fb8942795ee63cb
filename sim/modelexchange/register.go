// register.go wires the model-exchange unit into the sim package's
// registration variable (NewUnitFunc). This init() runs when any package
// imports sim/modelexchange, breaking the import cycle between sim/
// (interface owner) and sim/modelexchange/ (implementation).
package modelexchange

import "github.com/lookahead-sim/lookahead-sim/sim"

func init() {
	sim.NewUnitFunc = func(opts sim.UnitOptions) (sim.SimulatableUnit, error) {
		model, err := NewModel(opts.Model)
		if err != nil {
			return nil, err
		}
		return New(model, opts)
	}
}
