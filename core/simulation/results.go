package simulation

import (
	"sort"
	"strconv"

	"github.com/kilianp07/gridstudy/core/network"
	"github.com/kilianp07/gridstudy/core/timeseries"
)

// ResultTable is the time series of one logged selector. Frame columns are
// equipment display names.
type ResultTable struct {
	Selector network.Selector
	Frame    *timeseries.Frame
}

// Key returns the "table.field" name of the result, used as sheet name.
func (r ResultTable) Key() string { return r.Selector.Key() }

// Results lists the result tables of a run in output writer order.
type Results []ResultTable

// Get returns the frame logged under key.
func (r Results) Get(key string) (*timeseries.Frame, bool) {
	for _, t := range r {
		if t.Key() == key {
			return t.Frame, true
		}
	}
	return nil, false
}

// Keys returns the result keys in order.
func (r Results) Keys() []string {
	out := make([]string, len(r))
	for i, t := range r {
		out[i] = t.Key()
	}
	return out
}

// collector accumulates the per-step values of one selector.
type collector struct {
	sel   network.Selector
	steps []map[int64]float64
	seen  map[int64]bool
}

func newCollector(sel network.Selector, steps int) *collector {
	return &collector{sel: sel, steps: make([]map[int64]float64, steps), seen: make(map[int64]bool)}
}

func (c *collector) record(step int, res StepResult) {
	rows := res.Tables[c.sel.Table]
	values := make(map[int64]float64, len(rows))
	for idx, fields := range rows {
		if v, ok := fields[c.sel.Field]; ok {
			values[idx] = v
			c.seen[idx] = true
		}
	}
	c.steps[step] = values
}

// table builds the result frame: one row per time index entry, one column
// per equipment index seen in any step, renamed to display names.
func (c *collector) table(net *network.Network) ResultTable {
	indices := make([]int64, 0, len(c.seen))
	for idx := range c.seen {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	f := timeseries.NewFrame(net.TimeIndex)
	names := make(map[string]string, len(indices))
	equipment, named := net.Table(c.sel.Class())
	for _, idx := range indices {
		series := timeseries.NaNs(len(c.steps))
		for k, values := range c.steps {
			if v, ok := values[idx]; ok {
				series[k] = v
			}
		}
		label := strconv.FormatInt(idx, 10)
		_ = f.AddColumn(label, series)
		if named {
			names[label] = equipment.DisplayName(idx)
		}
	}
	f.Rename(names)
	return ResultTable{Selector: c.sel, Frame: f}
}
