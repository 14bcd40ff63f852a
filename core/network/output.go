package network

import (
	"fmt"
	"strings"
)

// ParametersKey is the output entry reserved for solver run parameters. It
// never becomes a result table.
const ParametersKey = "Parameters"

// Selector names one logged result variable, e.g. res_bus.vm_pu.
type Selector struct {
	Table string
	Field string
}

// ParseSelector splits "table.field".
func ParseSelector(s string) (Selector, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Selector{}, fmt.Errorf("invalid result selector %q: want table.field", s)
	}
	return Selector{Table: parts[0], Field: parts[1]}, nil
}

// Key returns the "table.field" form.
func (s Selector) Key() string { return s.Table + "." + s.Field }

// Class returns the equipment class the result table reports on:
// res_bus -> bus.
func (s Selector) Class() string { return strings.TrimPrefix(s.Table, "res_") }

// OutputWriter is the ordered set of variables logged at every step.
type OutputWriter struct {
	Selectors []Selector
}

// Log adds sel unless it is already present.
func (o *OutputWriter) Log(sel Selector) {
	for _, s := range o.Selectors {
		if s == sel {
			return
		}
	}
	o.Selectors = append(o.Selectors, sel)
}

// Keys returns the selectors in "table.field" form.
func (o *OutputWriter) Keys() []string {
	out := make([]string, len(o.Selectors))
	for i, s := range o.Selectors {
		out[i] = s.Key()
	}
	return out
}
