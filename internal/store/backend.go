// Package store persists ledger tables. A Backend moves raw sheet values to
// and from one medium; Store layers the table contract on top of it.
package store

import (
	"context"
	"errors"
)

// ErrTableNotFound is returned by backends for a table that was never
// created.
var ErrTableNotFound = errors.New("table not found")

// Backend is one persistence medium. Values are rows of cells, the first
// row being the header.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// EnsureTable creates the table with header as its first row when it
	// does not exist yet. It must be safe to call repeatedly.
	EnsureTable(ctx context.Context, name string, header []string) error
	// Header returns the first row of the table.
	Header(ctx context.Context, name string) ([]string, error)
	// ReadValues returns every row of the table, header included.
	ReadValues(ctx context.Context, name string) ([][]string, error)
	// WriteValues replaces the whole content of the table.
	WriteValues(ctx context.Context, name string, values [][]string) error
	// AppendValues adds one row after the last one.
	AppendValues(ctx context.Context, name string, row []string) error
}
