// Package timeseries provides the time-of-day index and the column-oriented
// frame shared by profiles, bound controllers and simulation results.
package timeseries

import (
	"fmt"
	"math"
)

// Frame is a time-indexed table. Values[i] holds the series of Columns[i];
// NaN marks a missing sample. Column labels are not required to be unique.
type Frame struct {
	Index   []TimeOfDay
	Columns []string
	Values  [][]float64
}

// NewFrame returns an empty frame over index.
func NewFrame(index []TimeOfDay) *Frame {
	idx := make([]TimeOfDay, len(index))
	copy(idx, index)
	return &Frame{Index: idx}
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Index) }

// AddColumn appends a column. The series length must match the index.
func (f *Frame) AddColumn(label string, series []float64) error {
	if len(series) != len(f.Index) {
		return fmt.Errorf("column %s: %d values for %d rows", label, len(series), len(f.Index))
	}
	col := make([]float64, len(series))
	copy(col, series)
	f.Columns = append(f.Columns, label)
	f.Values = append(f.Values, col)
	return nil
}

// Column returns the series of the first column named label.
func (f *Frame) Column(label string) ([]float64, bool) {
	for i, c := range f.Columns {
		if c == label {
			return f.Values[i], true
		}
	}
	return nil, false
}

// Has reports whether a column named label exists.
func (f *Frame) Has(label string) bool {
	_, ok := f.Column(label)
	return ok
}

// At returns the value of column label at row, or NaN when either is missing.
func (f *Frame) At(row int, label string) float64 {
	col, ok := f.Column(label)
	if !ok || row < 0 || row >= len(col) {
		return math.NaN()
	}
	return col[row]
}

// Row returns the values of every column at row, in column order.
func (f *Frame) Row(row int) []float64 {
	out := make([]float64, len(f.Columns))
	for i := range f.Columns {
		out[i] = f.Values[i][row]
	}
	return out
}

// Rename relabels columns through mapping; labels without an entry are kept.
func (f *Frame) Rename(mapping map[string]string) {
	for i, c := range f.Columns {
		if n, ok := mapping[c]; ok {
			f.Columns[i] = n
		}
	}
}

// DropEmpty removes columns holding no sample at all.
func (f *Frame) DropEmpty() {
	cols := f.Columns[:0]
	vals := f.Values[:0]
	for i, c := range f.Columns {
		if !AllNaN(f.Values[i]) {
			cols = append(cols, c)
			vals = append(vals, f.Values[i])
		}
	}
	f.Columns = cols
	f.Values = vals
}


// AllNaN reports whether every value of s is NaN.
func AllNaN(s []float64) bool {
	for _, v := range s {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

// NaNs returns a series of n NaN values.
func NaNs(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
