// Package sheet holds the raw cell grid read from one worksheet. Cells are
// kept as the raw strings the workbook stores so that the network and
// profile loaders can apply their own typing rules.
package sheet

import "strings"

// Sheet is one worksheet: its name and its rows, header rows included.
// Rows may be ragged; a missing trailing cell reads as empty. Text marks the
// cells the workbook stores as strings; it may be nil or shorter than Rows.
type Sheet struct {
	Name string
	Rows [][]string
	Text [][]bool
}

// Cell returns the trimmed content of the cell at (row, col) or "" when the
// position is outside the stored grid.
func (s Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// IsText reports whether the cell at (row, col) is stored as a string, so a
// numeric-looking value such as "007" must not be read as a number.
func (s Sheet) IsText(row, col int) bool {
	if row < 0 || row >= len(s.Text) {
		return false
	}
	r := s.Text[row]
	return col >= 0 && col < len(r) && r[col]
}

// Width returns the number of columns of the widest row.
func (s Sheet) Width() int {
	w := 0
	for _, r := range s.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// RowEmpty reports whether every cell of row from column `from` on is empty.
func (s Sheet) RowEmpty(row, from int) bool {
	if row < 0 || row >= len(s.Rows) {
		return true
	}
	for c := from; c < len(s.Rows[row]); c++ {
		if s.Cell(row, c) != "" {
			return false
		}
	}
	return true
}
