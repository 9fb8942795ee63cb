package models

import "github.com/lookahead-sim/lookahead-sim/sim/modelexchange"

func init() {
	modelexchange.RegisterModel("zigzag", func() modelexchange.Model { return NewZigzag() })
	modelexchange.RegisterModel("radiator", func() modelexchange.Model { return NewRadiator() })
}
