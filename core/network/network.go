// Package network models the power network description handed to the
// solver: equipment tables, the controllers feeding them at every time step,
// the output writer selection and the common time index of the study.
package network

import (
	"encoding/json"

	"github.com/kilianp07/gridstudy/core/timeseries"
)

// Network is the prepared study network. It is built by the loader and then
// mutated in place by the binder and the runner; it is not safe for
// concurrent use.
type Network struct {
	Name        string
	Controllers []Controller
	Output      *OutputWriter
	// TimeIndex is the common time grid every bound profile shares. It is
	// empty until the first profile is bound.
	TimeIndex []timeseries.TimeOfDay

	tables map[string]*Table
	order  []string
}

// New returns an empty network.
func New(name string) *Network {
	return &Network{Name: name, tables: make(map[string]*Table)}
}

// SetTable adds or replaces the table of its class.
func (n *Network) SetTable(t *Table) {
	if _, ok := n.tables[t.Name]; !ok {
		n.order = append(n.order, t.Name)
	}
	n.tables[t.Name] = t
}

// Table returns the table of class.
func (n *Network) Table(class string) (*Table, bool) {
	t, ok := n.tables[class]
	return t, ok
}

// Classes returns the equipment classes in load order.
func (n *Network) Classes() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// AddController registers c.
func (n *Network) AddController(c Controller) {
	n.Controllers = append(n.Controllers, c)
}

// RemoveControllers drops every controller bound to class and returns how
// many were removed.
func (n *Network) RemoveControllers(class string) int {
	kept := n.Controllers[:0]
	removed := 0
	for _, c := range n.Controllers {
		if c.Class == class {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	n.Controllers = kept
	return removed
}

// ControllersFor returns the controllers bound to class.
func (n *Network) ControllersFor(class string) []Controller {
	var out []Controller
	for _, c := range n.Controllers {
		if c.Class == class {
			out = append(out, c)
		}
	}
	return out
}

// ApplyControllers writes the step values of every controller into the
// equipment tables.
func (n *Network) ApplyControllers(step int) error {
	for _, c := range n.Controllers {
		if err := c.Apply(n, step); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON encodes the equipment tables keyed by class.
func (n *Network) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.tables)
}
