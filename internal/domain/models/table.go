package models

import (
	"errors"
	"fmt"
)

// ErrRaggedRow indicates a row carrying more cells than the table has columns.
var ErrRaggedRow = errors.New("row has more cells than columns")

// Table is a tabular section as stored on disk: ordered column names and
// ordered rows of text cells. Cells stay text so a saved table reloads verbatim.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) Table {
	return Table{Columns: append([]string(nil), columns...), Rows: [][]string{}}
}

// IsEmpty reports whether the table has no schema at all.
func (t Table) IsEmpty() bool {
	return len(t.Columns) == 0
}

// Index returns the position of the named column or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell of row i in the named column, or "" if either is missing.
func (t Table) Value(i int, column string) string {
	idx := t.Index(column)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return ""
	}
	row := t.Rows[i]
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Column returns every value of the named column, nil when absent.
func (t Table) Column(name string) []string {
	if t.Index(name) < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Value(i, name)
	}
	return out
}

// AppendRow adds a row of cells.
func (t *Table) AppendRow(cells ...string) {
	t.Rows = append(t.Rows, append([]string(nil), cells...))
}

// Clone deep copies the table.
func (t Table) Clone() Table {
	out := Table{Columns: append([]string(nil), t.Columns...), Rows: make([][]string, len(t.Rows))}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// WithColumn returns a copy where the named column holds values, replacing an
// existing column of that name or appending a new one. Missing values are "".
func (t Table) WithColumn(name string, values []string) Table {
	out := t.Rectangular()
	idx := out.Index(name)
	if idx < 0 {
		out.Columns = append(out.Columns, name)
		idx = len(out.Columns) - 1
		for i := range out.Rows {
			out.Rows[i] = append(out.Rows[i], "")
		}
	}
	for i := range out.Rows {
		if i < len(values) {
			out.Rows[i][idx] = values[i]
		} else {
			out.Rows[i][idx] = ""
		}
	}
	return out
}

// WithoutColumns returns a copy with the named columns dropped.
func (t Table) WithoutColumns(names ...string) Table {
	drop := make(map[int]bool, len(names))
	for _, n := range names {
		if idx := t.Index(n); idx >= 0 {
			drop[idx] = true
		}
	}
	if len(drop) == 0 {
		return t.Clone()
	}

	out := Table{Rows: make([][]string, len(t.Rows))}
	for i, c := range t.Columns {
		if !drop[i] {
			out.Columns = append(out.Columns, c)
		}
	}
	for r, row := range t.Rows {
		kept := make([]string, 0, len(out.Columns))
		for i, cell := range row {
			if !drop[i] {
				kept = append(kept, cell)
			}
		}
		out.Rows[r] = kept
	}
	return out.Rectangular()
}

// Rectangular returns a copy where every row has exactly one cell per column.
// Short rows are padded with ""; long rows are kept as-is (see CheckShape).
func (t Table) Rectangular() Table {
	out := t.Clone()
	for i, row := range out.Rows {
		for len(row) < len(out.Columns) {
			row = append(row, "")
		}
		out.Rows[i] = row
	}
	return out
}

// CheckShape rejects rows wider than the header.
func (t Table) CheckShape() error {
	for i, row := range t.Rows {
		if len(row) > len(t.Columns) {
			return fmt.Errorf("%w: row %d has %d cells for %d columns", ErrRaggedRow, i+1, len(row), len(t.Columns))
		}
	}
	return nil
}
