// Package table holds the typed in-memory table the reconciliation
// engine operates on, together with header normalization, spreadsheet
// column-letter addressing, and lenient numeric coercion.
package table

import (
	"fmt"
	"strings"
)

// Column is one standardized column: the canonical key used for all
// matching, the original header text, and a display label.
type Column struct {
	Key      string
	Original string
	Label    string
}

// Table is an ordered sequence of rows keyed by canonical column key.
// The constructor owns normalization and key de-duplication; callers
// never see raw headers again after construction.
type Table struct {
	cols []Column
	rows []map[string]interface{}
}

// New standardizes raw headers and builds a table from row values in
// header order. Colliding canonical keys are disambiguated with a
// numeric suffix in first-seen order. Rows whose cells are all blank
// are dropped. Short rows are padded with nil cells.
func New(headers []interface{}, records [][]interface{}) *Table {
	used := make(map[string]int)
	cols := make([]Column, 0, len(headers))
	for _, h := range headers {
		base := NormalizeKey(h)
		if n, ok := used[base]; ok {
			used[base] = n + 1
			base = fmt.Sprintf("%s_%d", base, n+1)
		} else {
			used[base] = 1
		}
		original := stringify(h)
		cols = append(cols, Column{Key: base, Original: original, Label: PrettyLabel(original)})
	}

	t := &Table{cols: cols}
	for _, rec := range records {
		if allBlank(rec) {
			continue
		}
		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			if i < len(rec) {
				row[col.Key] = rec[i]
			} else {
				row[col.Key] = nil
			}
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// Columns returns the standardized columns in table order.
func (t *Table) Columns() []Column { return t.cols }

// Keys returns the canonical column keys in table order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.cols))
	for i, c := range t.cols {
		keys[i] = c.Key
	}
	return keys
}

// Len is the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Width is the number of columns.
func (t *Table) Width() int { return len(t.cols) }

// HasColumn reports whether a canonical key exists.
func (t *Table) HasColumn(key string) bool {
	for _, c := range t.cols {
		if c.Key == key {
			return true
		}
	}
	return false
}

// Column returns the column descriptor for a canonical key.
func (t *Table) Column(key string) (Column, bool) {
	for _, c := range t.cols {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnAt returns the column at a zero-based position.
func (t *Table) ColumnAt(index int) (Column, bool) {
	if index < 0 || index >= len(t.cols) {
		return Column{}, false
	}
	return t.cols[index], true
}

// Value returns the raw cell at (row, key); nil for unknown cells.
func (t *Table) Value(row int, key string) interface{} {
	if row < 0 || row >= len(t.rows) {
		return nil
	}
	return t.rows[row][key]
}

// Label returns the display label for a key, falling back to a pretty
// rendering of the key itself.
func (t *Table) Label(key string) string {
	if c, ok := t.Column(key); ok {
		return c.Label
	}
	return PrettyLabel(key)
}

// AnyNumeric reports whether at least one cell in a column parses as
// a number.
func (t *Table) AnyNumeric(key string) bool {
	for i := range t.rows {
		if _, ok := NumericOK(t.rows[i][key]); ok {
			return true
		}
	}
	return false
}

func allBlank(rec []interface{}) bool {
	for _, v := range rec {
		switch val := v.(type) {
		case nil:
		case string:
			if strings.TrimSpace(val) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}
