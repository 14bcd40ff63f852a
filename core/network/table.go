package network

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Row is one equipment record keyed by field name.
type Row map[string]Value

// Table is one equipment class: records keyed by a stable integer index.
type Table struct {
	Name    string
	Columns []string
	index   []int64
	rows    map[int64]Row
}

// NewTable returns an empty table for class name with the given columns.
func NewTable(name string, columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols, rows: make(map[int64]Row)}
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.index) }

// Index returns the record indices in insertion order.
func (t *Table) Index() []int64 {
	out := make([]int64, len(t.index))
	copy(out, t.index)
	return out
}

// HasColumn reports whether field is a column of the table.
func (t *Table) HasColumn(field string) bool {
	for _, c := range t.Columns {
		if c == field {
			return true
		}
	}
	return false
}

// Insert adds or replaces the record at idx. Unknown fields extend Columns.
func (t *Table) Insert(idx int64, row Row) {
	if _, ok := t.rows[idx]; !ok {
		t.index = append(t.index, idx)
	}
	r := make(Row, len(row))
	for k, v := range row {
		r[k] = v
		if !t.HasColumn(k) {
			t.Columns = append(t.Columns, k)
		}
	}
	t.rows[idx] = r
}

// Row returns the record at idx.
func (t *Table) Row(idx int64) (Row, bool) {
	r, ok := t.rows[idx]
	return r, ok
}

// Get returns field of record idx, absent when either is missing.
func (t *Table) Get(idx int64, field string) Value {
	r, ok := t.rows[idx]
	if !ok {
		return Absent()
	}
	return r[field]
}

// Set writes field of an existing record.
func (t *Table) Set(idx int64, field string, v Value) error {
	r, ok := t.rows[idx]
	if !ok {
		return fmt.Errorf("%s: no record with index %d", t.Name, idx)
	}
	if !t.HasColumn(field) {
		t.Columns = append(t.Columns, field)
	}
	r[field] = v
	return nil
}

// DisplayName returns the record's name field, or its index when unnamed.
func (t *Table) DisplayName(idx int64) string {
	if n := t.Get(idx, "name"); !n.IsAbsent() {
		return n.Text()
	}
	return strconv.FormatInt(idx, 10)
}

// MarshalJSON encodes the table as {"<index>": {"<field>": value}}.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := make(map[string]Row, len(t.rows))
	for idx, r := range t.rows {
		out[strconv.FormatInt(idx, 10)] = r
	}
	return json.Marshal(out)
}

// SortedIndex returns the record indices in ascending order.
func (t *Table) SortedIndex() []int64 {
	out := t.Index()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
