// Package export renders result frames as CSV or JSON documents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/kilianp07/gridstudy/core/timeseries"
)

// TimeHeader labels the time column of exported tables.
const TimeHeader = "Time"

// Record is one row of a frame in JSON form. Missing samples are null.
type Record struct {
	Time   timeseries.TimeOfDay `json:"time"`
	Values map[string]*float64  `json:"values"`
}

// Records converts f to one Record per row. Duplicate column labels keep the
// first column.
func Records(f *timeseries.Frame) []Record {
	out := make([]Record, f.Len())
	for r, tod := range f.Index {
		values := make(map[string]*float64, len(f.Columns))
		for i := len(f.Columns) - 1; i >= 0; i-- {
			v := f.Values[i][r]
			if math.IsNaN(v) {
				values[f.Columns[i]] = nil
				continue
			}
			values[f.Columns[i]] = &v
		}
		out[r] = Record{Time: tod, Values: values}
	}
	return out
}

// WriteJSON writes the frame to w as an array of records.
func WriteJSON(w io.Writer, f *timeseries.Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Records(f))
}

// WriteCSV writes the frame to w with a Time column followed by one column
// per frame column. Missing samples are written as empty cells.
func WriteCSV(w io.Writer, f *timeseries.Frame) error {
	cw := csv.NewWriter(w)
	header := append([]string{TimeHeader}, f.Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for r, tod := range f.Index {
		rec := make([]string, 0, len(f.Columns)+1)
		rec = append(rec, tod.String())
		for _, v := range f.Row(r) {
			if math.IsNaN(v) {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
