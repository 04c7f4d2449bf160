// Package table is the in-memory form of one sheet: a header row and data
// rows keyed by column name. Every cell is kept as the string the backing
// store holds; numeric columns are canonicalised by CoerceNumeric.
package table

import (
	"fmt"
	"strings"

	"fjacquet/caisse/internal/currencyutils"
	"fjacquet/caisse/internal/textutils"

	"github.com/shopspring/decimal"
)

// Record is one row, field name to cell value. A missing key reads as "".
type Record map[string]string

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is a named, ordered collection of records.
type Table struct {
	Name    string
	Columns []string
	Rows    []Record
}

// New creates an empty table with the given header.
func New(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: append([]string(nil), columns...)}
}

// FromValues builds a table from raw sheet values whose first row is the
// header. Headers are trimmed and NFC-normalised; headers matching one of
// accentInsensitive without diacritics are renamed to it. Blank header cells
// drop their column, short rows are padded and fully blank rows are skipped.
func FromValues(name string, values [][]string, accentInsensitive []string) *Table {
	t := New(name)
	if len(values) == 0 {
		return t
	}

	index := make([]string, len(values[0]))
	seen := make(map[string]bool)
	for i, h := range values[0] {
		col := textutils.CanonicalHeader(h, accentInsensitive)
		if col == "" || seen[col] {
			continue
		}
		seen[col] = true
		index[i] = col
		t.Columns = append(t.Columns, col)
	}

	for _, raw := range values[1:] {
		rec := make(Record, len(t.Columns))
		blank := true
		for i, col := range index {
			if col == "" {
				continue
			}
			v := ""
			if i < len(raw) {
				v = raw[i]
			}
			if strings.TrimSpace(v) != "" {
				blank = false
			}
			rec[col] = v
		}
		if !blank {
			t.Rows = append(t.Rows, rec)
		}
	}
	return t
}

// Values renders the table as a header row followed by one row per record,
// in column order.
func (t *Table) Values() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string(nil), t.Columns...))
	for _, r := range t.Rows {
		out = append(out, t.RowValues(r))
	}
	return out
}

// RowValues renders r in the table's column order.
func (t *Table) RowValues(r Record) []string {
	row := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		row[i] = r[c]
	}
	return row
}

// Len is the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	out := New(t.Name, t.Columns...)
	out.Rows = make([]Record, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// HasColumn reports whether name is part of the header.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Get returns the cell at row i, or "" when absent.
func (t *Table) Get(i int, field string) string {
	return t.Rows[i][field]
}

// Decimal returns the cell at row i coerced to a number.
func (t *Table) Decimal(i int, field string) decimal.Decimal {
	return currencyutils.CoerceAmount(t.Rows[i][field])
}

// Set writes one cell, extending the header when field is new.
func (t *Table) Set(i int, field, value string) {
	t.addColumn(field)
	t.Rows[i][field] = value
}

// Append adds a copy of r. Fields unknown to the header extend it.
func (t *Table) Append(r Record) {
	for _, c := range sortedKeys(r, t.Columns) {
		t.addColumn(c)
	}
	t.Rows = append(t.Rows, r.Clone())
}

// Remove deletes row i, keeping the order of the others.
func (t *Table) Remove(i int) {
	t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
}

// Column returns every value of field, in row order.
func (t *Table) Column(field string) []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[field]
	}
	return out
}

// IndexOf returns the first row whose fields equal every field of match
// under eq, or -1. A nil eq means exact string comparison.
func (t *Table) IndexOf(match Record, eq func(a, b string) bool) int {
	if eq == nil {
		eq = func(a, b string) bool { return a == b }
	}
	for i, r := range t.Rows {
		ok := true
		for k, v := range match {
			if !eq(r[k], v) {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}

// Filter returns a table holding the rows for which keep is true.
func (t *Table) Filter(keep func(Record) bool) *Table {
	out := New(t.Name, t.Columns...)
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r.Clone())
		}
	}
	return out
}

func (t *Table) String() string {
	return fmt.Sprintf("%s(%d columns, %d rows)", t.Name, len(t.Columns), len(t.Rows))
}

func (t *Table) addColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// sortedKeys lists r's keys missing from known, in a stable order.
func sortedKeys(r Record, known []string) []string {
	have := make(map[string]bool, len(known))
	for _, k := range known {
		have[k] = true
	}
	var missing []string
	for k := range r {
		if !have[k] {
			missing = append(missing, k)
		}
	}
	sortStrings(missing)
	return missing
}
