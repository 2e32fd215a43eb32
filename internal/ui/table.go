package ui

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// Table provides minimal table rendering
// Uses simple spacing alignment without borders

// Table represents a simple table structure
type Table struct {
	rows       [][]string
	colWidths  []int
	colPadding int
	maxWidth   int
}

// NewTable creates a new table with the specified number of columns
func NewTable(cols int) *Table {
	return &Table{
		colWidths:  make([]int, cols),
		colPadding: 2,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	// Ensure we have the right number of cells
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		// Track max width for each column
		if w := ansi.PrintableRuneWidth(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// SetPadding sets the padding between columns
func (t *Table) SetPadding(padding int) {
	t.colPadding = padding
}

// SetMaxWidth truncates each line's last column so rows fit in width.
// Zero disables truncation.
func (t *Table) SetMaxWidth(width int) {
	t.maxWidth = width
}

// String renders the table as a string
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	padding := strings.Repeat(" ", t.colPadding)

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(padding)
			}
			// Left-align all columns, pad to column width (except last)
			if i < len(row)-1 {
				sb.WriteString(cell)
				sb.WriteString(strings.Repeat(" ", t.colWidths[i]-ansi.PrintableRuneWidth(cell)))
			} else {
				sb.WriteString(t.fit(cell, i))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// fit truncates the last cell to whatever room the earlier columns leave.
func (t *Table) fit(cell string, last int) string {
	if t.maxWidth <= 0 {
		return cell
	}
	used := 0
	for i := 0; i < last; i++ {
		used += t.colWidths[i] + t.colPadding
	}
	room := t.maxWidth - used
	if ansi.PrintableRuneWidth(cell) <= room {
		return cell
	}
	if room <= 1 {
		return ""
	}
	return truncate.StringWithTail(cell, uint(room), "…")
}
