package xlsx

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/gridstudy/core/simulation"
	"github.com/kilianp07/gridstudy/pkg/export"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// Writer persists result tables as a workbook. It implements
// simulation.Persister.
type Writer struct{}

// Persist writes tables to path.
func (Writer) Persist(path string, tables simulation.Results) error {
	return WriteWorkbook(path, tables)
}

// WriteWorkbook writes one sheet per result table, named "class.field", with
// a Time column followed by one column per equipment. Missing samples are
// left blank.
func WriteWorkbook(path string, tables simulation.Results) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const initial = "Sheet1"
	for i, t := range tables {
		name := sheetName(t.Key())
		if i == 0 {
			if err := f.SetSheetName(initial, name); err != nil {
				return fmt.Errorf("sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}

		header := make([]any, 0, len(t.Frame.Columns)+1)
		header = append(header, export.TimeHeader)
		for _, c := range t.Frame.Columns {
			header = append(header, c)
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("sheet %s header: %w", name, err)
		}
		for r, tod := range t.Frame.Index {
			row := make([]any, 0, len(header))
			row = append(row, tod.String())
			for _, v := range t.Frame.Row(r) {
				if math.IsNaN(v) {
					row = append(row, nil)
					continue
				}
				row = append(row, v)
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("sheet %s row %d: %w", name, r+2, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func sheetName(key string) string {
	if len(key) > maxSheetName {
		return key[:maxSheetName]
	}
	return key
}
