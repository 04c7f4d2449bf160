package table

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gocarina/gocsv"
)

// Encode converts typed records into a table whose columns follow the csv
// struct tags of T.
func Encode[T any](name string, records []T) (*Table, error) {
	var buf bytes.Buffer
	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(csv.NewWriter(&buf))); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}
	values, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("re-reading %s: %w", name, err)
	}
	return FromValues(name, values, nil), nil
}

// EncodeRecord converts a single typed value into a Record.
func EncodeRecord[T any](rec T) (Record, error) {
	t, err := Encode("", []T{rec})
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		// every field was blank
		r := make(Record, len(t.Columns))
		for _, c := range t.Columns {
			r[c] = ""
		}
		return r, nil
	}
	return t.Rows[0], nil
}

// Decode converts the rows of t into typed records. Columns without a
// matching csv tag are ignored.
func Decode[T any](t *Table) ([]T, error) {
	out := make([]T, 0, t.Len())
	if t.Len() == 0 {
		return out, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(t.Values()); err != nil {
		return nil, fmt.Errorf("staging %s: %w", t.Name, err)
	}
	if err := gocsv.UnmarshalBytes(buf.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", t.Name, err)
	}
	return out, nil
}
