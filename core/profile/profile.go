// Package profile turns profile worksheets into power profiles sharing one
// common time grid. Each sheet carries a two-row header (profile identifier,
// quantity) and a time-of-day first column; sheets may be sampled at
// different rates and over different spans of the same day.
package profile

import (
	"math"
	"time"

	"gonum.org/v1/gonum/interp"

	"github.com/kilianp07/gridstudy/core/sheet"
	"github.com/kilianp07/gridstudy/core/timeseries"
)

// Set holds the profiles of one equipment class keyed by variable
// (p_mw, q_mvar). Frame columns are profile identifiers.
type Set map[string]*timeseries.Frame

// Grid is the common reference time grid.
type Grid struct {
	Start  timeseries.TimeOfDay
	End    timeseries.TimeOfDay
	Period time.Duration
}

// Index lists the grid timestamps from Start to End inclusive.
func (g Grid) Index() []timeseries.TimeOfDay {
	var out []timeseries.TimeOfDay
	for t := g.Start; t <= g.End; t += timeseries.TimeOfDay(g.Period) {
		out = append(out, t)
	}
	return out
}

// Load parses every sheet and aligns them on a common grid. The result is
// keyed by sheet name; sheets without data are left out. ErrNoProfiles is
// returned when no sheet holds any data.
func Load(sheets []sheet.Sheet) (map[string]Set, error) {
	var natives []*native
	for _, s := range sheets {
		n, err := parseSheet(s)
		if err != nil {
			return nil, err
		}
		if n != nil {
			natives = append(natives, n)
		}
	}
	if len(natives) == 0 {
		return nil, ErrNoProfiles
	}
	grid := commonGrid(natives)
	index := grid.Index()
	out := make(map[string]Set, len(natives))
	for _, n := range natives {
		out[n.name] = n.align(grid, index)
	}
	return out, nil
}

// commonGrid spans the earliest first sample to the latest last sample at
// the smallest sampling gap found. Single-sample sheets do not constrain the
// period; without any constraint the period is one day.
func commonGrid(natives []*native) Grid {
	g := Grid{Start: natives[0].times[0], End: natives[0].times[0], Period: timeseries.Day}
	for _, n := range natives {
		if n.times[0] < g.Start {
			g.Start = n.times[0]
		}
		if last := n.times[len(n.times)-1]; last > g.End {
			g.End = last
		}
		for i := 1; i < len(n.times); i++ {
			if d := time.Duration(n.times[i] - n.times[i-1]); d < g.Period {
				g.Period = d
			}
		}
	}
	return g
}

// align projects the native samples onto the grid. A sample falls in the
// bucket of the latest grid point not after it; each bucket keeps its first
// non-missing sample; gaps are linearly interpolated over bucket positions
// and edges take the nearest known value.
func (n *native) align(g Grid, index []timeseries.TimeOfDay) Set {
	buckets := make([]int, len(n.times))
	for i, t := range n.times {
		k := int(time.Duration(t-g.Start) / g.Period)
		if k >= len(index) {
			k = len(index) - 1
		}
		buckets[i] = k
	}

	set := make(Set)
	for _, col := range n.columns {
		variable, ok := variableFor(col.quantity)
		if !ok {
			continue
		}
		series := timeseries.NaNs(len(index))
		for i, v := range col.values {
			if k := buckets[i]; math.IsNaN(series[k]) && !math.IsNaN(v) {
				series[k] = v
			}
		}
		fillGaps(series)

		f, ok := set[variable]
		if !ok {
			f = timeseries.NewFrame(index)
			set[variable] = f
		}
		_ = f.AddColumn(col.id, series)
	}
	for _, f := range set {
		f.DropEmpty()
	}
	return set
}

// fillGaps interpolates NaN entries in place. Positions before the first or
// after the last known value take that value.
func fillGaps(series []float64) {
	var xs, ys []float64
	for i, v := range series {
		if !math.IsNaN(v) {
			xs = append(xs, float64(i))
			ys = append(ys, v)
		}
	}
	switch len(xs) {
	case 0:
		return
	case 1:
		for i := range series {
			series[i] = ys[0]
		}
		return
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return
	}
	for i, v := range series {
		if math.IsNaN(v) {
			series[i] = pl.Predict(float64(i))
		}
	}
}
