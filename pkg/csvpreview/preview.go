// Package csvpreview builds the tabular preview shown after a batch run.
//
// Parsing is deliberately naive: lines are split on "\n" and cells on ",".
// Quoted fields containing commas are not handled. The preview is display
// only; downloads replay the original bytes.
package csvpreview

import (
	"fmt"
	"strings"
)

// DefaultRows is the number of data rows shown when no limit is given.
const DefaultRows = 10

// Table is the parsed CSV text. Header is the first line.
type Table struct {
	Header []string
	Rows   [][]string
}

// Preview is the window of a Table rendered to the user.
type Preview struct {
	Header  []string
	Rows    [][]string
	Total   int
	Shown   int
	Columns int
}

// Parse splits text into header and rows.
func Parse(text string) Table {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Table{}
	}
	lines := strings.Split(trimmed, "\n")
	table := Table{Header: splitLine(lines[0])}
	if len(lines) > 1 {
		table.Rows = make([][]string, 0, len(lines)-1)
		for _, line := range lines[1:] {
			table.Rows = append(table.Rows, splitLine(line))
		}
	}
	return table
}

func splitLine(line string) []string {
	cells := strings.Split(line, ",")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

// Window returns the first limit rows. A non-positive limit uses DefaultRows.
func (t Table) Window(limit int) Preview {
	if limit <= 0 {
		limit = DefaultRows
	}
	shown := min(limit, len(t.Rows))
	return Preview{
		Header:  t.Header,
		Rows:    t.Rows[:shown],
		Total:   len(t.Rows),
		Shown:   shown,
		Columns: len(t.Header),
	}
}

// Build parses text and windows it in one step.
func Build(text string, limit int) Preview {
	return Parse(text).Window(limit)
}

// Summary is the line rendered above the preview table.
func (p Preview) Summary() string {
	return fmt.Sprintf("Showing first %d of %d rows. Total columns: %d", p.Shown, p.Total, p.Columns)
}

// Truncated reports whether rows were left out of the window.
func (p Preview) Truncated() bool {
	return p.Shown < p.Total
}
