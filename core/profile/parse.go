package profile

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kilianp07/gridstudy/core/sheet"
	"github.com/kilianp07/gridstudy/core/timeseries"
)

// Quantity labels found on the second header row.
const (
	ActivePowerLabel   = "P [MW]"
	ReactivePowerLabel = "Q [MVAR]"
)

// Variables the quantities map onto in the network tables.
const (
	ActivePower   = "p_mw"
	ReactivePower = "q_mvar"
)

var (
	// ErrNonMonotonicTime is returned when a sheet's time column is not
	// strictly increasing. Profiles cover a single day.
	ErrNonMonotonicTime = errors.New("time column is not strictly increasing")
	// ErrNotNumeric is returned for a data cell that is not a number.
	ErrNotNumeric = errors.New("profile value is not numeric")
	// ErrNoProfiles is returned when no sheet holds any data.
	ErrNoProfiles = errors.New("no profile data")
)

// column is one (profile identifier, quantity) pair of a sheet.
type column struct {
	id       string
	quantity string
	values   []float64
}

// native is a profile sheet on its own time grid.
type native struct {
	name    string
	times   []timeseries.TimeOfDay
	columns []column
}

// parseSheet reads a two-row header sheet. It returns nil when no data is
// left once empty rows and columns are dropped.
func parseSheet(s sheet.Sheet) (*native, error) {
	if len(s.Rows) < 3 {
		return nil, nil
	}
	width := s.Width()
	ids := make([]string, width)
	last := ""
	for c := 1; c < width; c++ {
		if h := s.Cell(0, c); h != "" {
			last = normalizeID(h)
		}
		ids[c] = last
	}

	var rows []int
	for r := 2; r < len(s.Rows); r++ {
		if !s.RowEmpty(r, 1) {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	n := &native{name: s.Name}
	for _, r := range rows {
		tod, err := timeseries.ParseTimeOfDay(s.Cell(r, 0))
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", s.Name, r+1, err)
		}
		if k := len(n.times); k > 0 && tod <= n.times[k-1] {
			return nil, fmt.Errorf("sheet %s row %d: %w", s.Name, r+1, ErrNonMonotonicTime)
		}
		n.times = append(n.times, tod)
	}

	for c := 1; c < width; c++ {
		col := column{id: ids[c], quantity: s.Cell(1, c), values: make([]float64, len(rows))}
		empty := true
		for i, r := range rows {
			raw := s.Cell(r, c)
			if raw == "" {
				col.values[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("sheet %s row %d column %d: %w: %q", s.Name, r+1, c+1, ErrNotNumeric, raw)
			}
			col.values[i] = v
			empty = false
		}
		if !empty {
			n.columns = append(n.columns, col)
		}
	}
	if len(n.columns) == 0 {
		return nil, nil
	}
	return n, nil
}

// normalizeID renders numeric identifiers the way integer equipment
// mappings print them: "3.0" becomes "3".
func normalizeID(h string) string {
	if f, err := strconv.ParseFloat(h, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatInt(int64(f), 10)
	}
	return h
}

// variableFor maps a quantity label onto a network variable.
func variableFor(quantity string) (string, bool) {
	switch strings.ToUpper(strings.Join(strings.Fields(quantity), " ")) {
	case ActivePowerLabel:
		return ActivePower, true
	case ReactivePowerLabel:
		return ReactivePower, true
	}
	return "", false
}
