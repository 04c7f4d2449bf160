package table

import (
	"sort"
	"strings"

	"fjacquet/caisse/internal/currencyutils"

	"github.com/shopspring/decimal"
)

// Schema is the required-field list of one logical table.
type Schema struct {
	Name string
	// Fields are the required columns, in header order.
	Fields []string
	// Numeric fields default to "0" and are coerced on load.
	Numeric []string
	// IDField, when set, is populated by AssignIDs on load.
	IDField string
	// AccentInsensitive headers are matched without diacritics.
	AccentInsensitive []string
}

// IsNumeric reports whether field is an amount field of the schema.
func (s Schema) IsNumeric(field string) bool {
	for _, n := range s.Numeric {
		if n == field {
			return true
		}
	}
	return false
}

// Default is the backfill value of field.
func (s Schema) Default(field string) string {
	if s.IsNumeric(field) {
		return "0"
	}
	return ""
}

// EnsureColumns adds every required field missing from t, backfilled with
// the schema default, and puts required fields first in schema order.
// Extra columns are kept after them.
func EnsureColumns(t *Table, schema Schema) *Table {
	required := make(map[string]bool, len(schema.Fields))
	columns := make([]string, 0, len(schema.Fields)+len(t.Columns))
	for _, f := range schema.Fields {
		required[f] = true
		columns = append(columns, f)
	}
	for _, c := range t.Columns {
		if !required[c] {
			columns = append(columns, c)
		}
	}

	for _, f := range schema.Fields {
		for _, r := range t.Rows {
			if _, ok := r[f]; !ok {
				r[f] = schema.Default(f)
			}
		}
	}
	t.Columns = columns
	return t
}

// CoerceNumeric rewrites every value of field as a canonical decimal string.
// Values that do not parse, including blanks, become "0".
func CoerceNumeric(t *Table, field string) *Table {
	for _, r := range t.Rows {
		r[field] = currencyutils.CoerceAmount(r[field]).String()
	}
	return t
}

// AssignIDs keeps every idField value that parses as a positive integer and
// replaces any other value with the row's 1-based position. A blank ID
// sitting before existing numeric IDs therefore takes a positional number,
// which may collide with or renumber other rows; callers rely on this exact
// numbering.
func AssignIDs(t *Table, idField string) *Table {
	for i, r := range t.Rows {
		if id, ok := parsePositiveInt(r[idField]); ok {
			r[idField] = itoa(id)
			continue
		}
		r[idField] = itoa(int64(i + 1))
	}
	return t
}

// NextID returns max(idField)+1 over rows with a valid positive ID, or 1.
func NextID(t *Table, idField string) int64 {
	var maxID int64
	for _, r := range t.Rows {
		if id, ok := parsePositiveInt(r[idField]); ok && id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// Dedupe drops rows repeating an earlier combination of keyFields.
func Dedupe(t *Table, keyFields ...string) *Table {
	seen := make(map[string]bool, len(t.Rows))
	kept := t.Rows[:0]
	for _, r := range t.Rows {
		parts := make([]string, len(keyFields))
		for i, k := range keyFields {
			parts[i] = r[k]
		}
		key := strings.Join(parts, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, r)
	}
	t.Rows = kept
	return t
}

// Conform applies the whole schema to a freshly read table: column
// backfill, numeric coercion and ID assignment.
func Conform(t *Table, schema Schema) *Table {
	EnsureColumns(t, schema)
	for _, f := range schema.Numeric {
		CoerceNumeric(t, f)
	}
	if schema.IDField != "" {
		AssignIDs(t, schema.IDField)
	}
	return t
}

func parsePositiveInt(s string) (int64, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsInteger() || !d.IsPositive() {
		return 0, false
	}
	return d.IntPart(), true
}

func itoa(n int64) string {
	return decimal.NewFromInt(n).String()
}

func sortStrings(s []string) {
	sort.Strings(s)
}
