package sim

import "fmt"

// Simple-value exchange. Reads and writes are delegated to the unit; no
// caching or prediction applies. Once initialized, only declared inputs may
// be written, and writing one is an input change at the current
// authoritative time (equivalent to Sync(t, t, inputs)).

func (c *Controller) GetReal(name string) (float64, error)  { return c.unit.GetReal(name) }
func (c *Controller) GetInteger(name string) (int64, error) { return c.unit.GetInteger(name) }
func (c *Controller) GetBoolean(name string) (bool, error)  { return c.unit.GetBoolean(name) }
func (c *Controller) GetString(name string) (string, error) { return c.unit.GetString(name) }
func (c *Controller) Lookup(name string) (Variable, bool)   { return c.unit.Lookup(name) }
func (c *Controller) SetReal(name string, v float64) error {
	return c.set(InputSet{Real: map[string]float64{name: v}})
}
func (c *Controller) SetInteger(name string, v int64) error {
	return c.set(InputSet{Integer: map[string]int64{name: v}})
}
func (c *Controller) SetBoolean(name string, v bool) error {
	return c.set(InputSet{Boolean: map[string]bool{name: v}})
}
func (c *Controller) SetString(name string, v string) error {
	return c.set(InputSet{String: map[string]string{name: v}})
}

func (c *Controller) set(in InputSet) error {
	if c.state == StateUninitialized {
		return applyInputs(c.unit, in)
	}
	if err := c.checkUsable(); err != nil {
		return err
	}
	if err := c.checkInputNames(c.time, c.time, in); err != nil {
		return fmt.Errorf("set after init: %w", err)
	}
	_, err := c.Sync(c.time, c.time, &in)
	return err
}
