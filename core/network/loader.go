package network

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kilianp07/gridstudy/core/sheet"
)

var (
	// ErrMalformedCoords is returned for a coords cell that is not a
	// bracketed list of numeric pairs.
	ErrMalformedCoords = errors.New("malformed coordinates")
	// ErrNotNumeric is returned when an integer or boolean column holds a
	// value that cannot be converted.
	ErrNotNumeric = errors.New("value is not numeric")
	// ErrMissingValue is returned for an empty cell in an integer or boolean
	// column that has no default.
	ErrMissingValue = errors.New("missing value")
)

// FromSheets builds a network from raw worksheets, one equipment class per
// sheet. The first row of each sheet holds the column names. Any conversion
// failure aborts the whole load.
func FromSheets(name string, sheets []sheet.Sheet) (*Network, error) {
	net := New(name)
	for _, s := range sheets {
		t, err := TableFromSheet(s)
		if err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}
		net.SetTable(t)
	}
	return net, nil
}

// TableFromSheet converts one worksheet. It returns nil when the sheet holds
// no data once the idx column and empty rows are dropped.
func TableFromSheet(s sheet.Sheet) (*Table, error) {
	if len(s.Rows) == 0 {
		return nil, nil
	}
	type column struct {
		pos  int
		name string
	}
	var cols []column
	for c := 0; c < s.Width(); c++ {
		h := s.Cell(0, c)
		if h == "" || h == IndexColumn {
			continue
		}
		cols = append(cols, column{pos: c, name: h})
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	t := NewTable(s.Name, names...)

	for r := 1; r < len(s.Rows); r++ {
		row := make(Row, len(cols))
		empty := true
		for _, c := range cols {
			v := cellValue(s, r, c.pos)
			if !v.IsAbsent() {
				empty = false
			}
			row[c.name] = v
		}
		if empty {
			continue
		}
		if err := normalizeRow(s.Name, row); err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", s.Name, r+1, err)
		}
		t.Insert(int64(r-1), row)
	}
	if t.Len() == 0 {
		return nil, nil
	}
	return t, nil
}

func normalizeRow(class string, row Row) error {
	for field, v := range row {
		if v.IsAbsent() {
			if d, ok := Default(class, field); ok {
				row[field] = d
			}
		}
	}
	if geodataClasses[class] {
		if v, ok := row["coords"]; ok && !v.IsAbsent() {
			c, err := ParseCoords(v.Text())
			if err != nil {
				return fmt.Errorf("column coords: %w", err)
			}
			row["coords"] = Coords(c)
		}
	}
	for field, v := range row {
		var err error
		switch {
		case intColumns[field]:
			row[field], err = toInt(v)
		case boolColumns[field]:
			row[field], err = toBool(v)
		}
		if err != nil {
			return fmt.Errorf("column %s: %w", field, err)
		}
	}
	return nil
}

// cellValue types the cell at (r, c). Cells stored as text stay strings.
func cellValue(s sheet.Sheet, r, c int) Value {
	raw := s.Cell(r, c)
	if raw != "" && s.IsText(r, c) {
		return String(raw)
	}
	return ParseCell(raw)
}

func toInt(v Value) (Value, error) {
	switch v.Kind() {
	case KindInt:
		return v, nil
	case KindFloat, KindBool:
		f, _ := v.AsFloat()
		return truncate(f, v)
	case KindString:
		s, _ := v.AsString()
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return truncate(f, v)
		}
	case KindAbsent:
		return v, ErrMissingValue
	}
	return v, fmt.Errorf("%w: %q", ErrNotNumeric, v.Text())
}

// truncate converts f toward zero. Values outside the int64 range, 2^63
// included, are rejected.
func truncate(f float64, v Value) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return v, fmt.Errorf("%w: %s", ErrNotNumeric, v.Text())
	}
	return Int(int64(f)), nil
}

func toBool(v Value) (Value, error) {
	switch v.Kind() {
	case KindBool:
		return v, nil
	case KindFloat, KindInt:
		f, _ := v.AsFloat()
		return Bool(f != 0), nil
	case KindString:
		s, _ := v.AsString()
		if b, err := strconv.ParseBool(strings.ToLower(s)); err == nil {
			return Bool(b), nil
		}
	case KindAbsent:
		return v, ErrMissingValue
	}
	return v, fmt.Errorf("%w: %q", ErrNotNumeric, v.Text())
}

// ParseCoords reads "[[x1, y1], [x2, y2]]" into coordinate pairs.
func ParseCoords(s string) ([][]float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[[") || !strings.HasSuffix(s, "]]") {
		return nil, fmt.Errorf("%w: %q", ErrMalformedCoords, s)
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, "[["), "]]")
	var out [][]float64
	for _, pair := range strings.Split(body, "],") {
		pair = strings.TrimSpace(pair)
		pair = strings.TrimSuffix(strings.TrimPrefix(pair, "["), "]")
		var point []float64
		for _, z := range strings.Split(pair, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(z), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrMalformedCoords, s)
			}
			point = append(point, f)
		}
		out = append(out, point)
	}
	return out, nil
}
