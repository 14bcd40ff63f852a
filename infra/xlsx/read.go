// Package xlsx reads study workbooks and writes result workbooks with
// excelize. Cells are read as raw stored values so numbers and Excel time
// fractions reach the loaders unformatted; string cells are flagged so they
// keep their text type.
package xlsx

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/gridstudy/core/network"
	"github.com/kilianp07/gridstudy/core/profile"
	"github.com/kilianp07/gridstudy/core/sheet"
)

// ReadSheets returns every worksheet of the workbook at path in workbook
// order.
func ReadSheets(path string) ([]sheet.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var out []sheet.Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %s of %s: %w", name, path, err)
		}
		text, err := textCells(f, name, rows)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s of %s: %w", name, path, err)
		}
		out = append(out, sheet.Sheet{Name: name, Rows: rows, Text: text})
	}
	return out, nil
}

// textCells flags the non-empty cells stored as shared or inline strings.
func textCells(f *excelize.File, name string, rows [][]string) ([][]bool, error) {
	text := make([][]bool, len(rows))
	for r, row := range rows {
		text[r] = make([]bool, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, cell)
			if err != nil {
				return nil, err
			}
			text[r][c] = typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString
		}
	}
	return text, nil
}

// LoadNetwork reads a network workbook, one equipment class per sheet. The
// network is named after the file.
func LoadNetwork(path string) (*network.Network, error) {
	sheets, err := ReadSheets(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	net, err := network.FromSheets(name, sheets)
	if err != nil {
		return nil, fmt.Errorf("load network %s: %w", path, err)
	}
	return net, nil
}

// LoadProfiles reads a profile workbook and aligns every sheet on the
// common time grid.
func LoadProfiles(path string) (map[string]profile.Set, error) {
	sheets, err := ReadSheets(path)
	if err != nil {
		return nil, err
	}
	sets, err := profile.Load(sheets)
	if err != nil {
		return nil, fmt.Errorf("load profiles %s: %w", path, err)
	}
	return sets, nil
}
