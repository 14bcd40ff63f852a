package network

import (
	"fmt"
	"math"

	"github.com/kilianp07/gridstudy/core/timeseries"
)

// DataSource yields the value of a profile column at a time step.
type DataSource interface {
	Len() int
	Value(step int, column string) (float64, error)
}

// FrameSource serves a frame by row position: row k is time step k.
type FrameSource struct {
	frame *timeseries.Frame
}

// NewFrameSource wraps f. The frame's time labels are ignored.
func NewFrameSource(f *timeseries.Frame) *FrameSource {
	return &FrameSource{frame: f}
}

// Len returns the number of steps available.
func (s *FrameSource) Len() int { return s.frame.Len() }

// Columns returns the column labels served.
func (s *FrameSource) Columns() []string { return s.frame.Columns }

// Value returns the sample of column at step. Steps past the end of a
// shorter profile yield NaN so the record keeps its static value.
func (s *FrameSource) Value(step int, column string) (float64, error) {
	if step < 0 {
		return 0, fmt.Errorf("negative step %d", step)
	}
	if !s.frame.Has(column) {
		return 0, fmt.Errorf("profile column %s not found", column)
	}
	return s.frame.At(step, column), nil
}

// Controller writes one variable of a set of equipment records from a data
// source at every time step. Profiles[i] is the source column feeding
// ElementIndex[i].
type Controller struct {
	Class        string
	Variable     string
	ElementIndex []int64
	Profiles     []string
	Source       DataSource
}

// Apply writes the step values into the network. A NaN sample leaves the
// record's current value in place.
func (c Controller) Apply(n *Network, step int) error {
	t, ok := n.Table(c.Class)
	if !ok {
		return fmt.Errorf("controller %s.%s: unknown class", c.Class, c.Variable)
	}
	for i, idx := range c.ElementIndex {
		v, err := c.Source.Value(step, c.Profiles[i])
		if err != nil {
			return fmt.Errorf("controller %s.%s: %w", c.Class, c.Variable, err)
		}
		if math.IsNaN(v) {
			continue
		}
		if err := t.Set(idx, c.Variable, Float(v)); err != nil {
			return fmt.Errorf("controller %s.%s: %w", c.Class, c.Variable, err)
		}
	}
	return nil
}
