package store

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// Memory keeps tables in process memory. It backs tests and dry runs.
type Memory struct {
	tables *xsync.MapOf[string, [][]string]
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{tables: xsync.NewMapOf[string, [][]string]()}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) EnsureTable(_ context.Context, name string, header []string) error {
	m.tables.LoadOrCompute(name, func() [][]string {
		return [][]string{append([]string(nil), header...)}
	})
	return nil
}

func (m *Memory) Header(_ context.Context, name string) ([]string, error) {
	values, ok := m.tables.Load(name)
	if !ok {
		return nil, ErrTableNotFound
	}
	if len(values) == 0 {
		return nil, nil
	}
	return append([]string(nil), values[0]...), nil
}

func (m *Memory) ReadValues(_ context.Context, name string) ([][]string, error) {
	values, ok := m.tables.Load(name)
	if !ok {
		return nil, ErrTableNotFound
	}
	return copyValues(values), nil
}

func (m *Memory) WriteValues(_ context.Context, name string, values [][]string) error {
	m.tables.Store(name, copyValues(values))
	return nil
}

// AppendValues adds row to an existing table, like the file and sheet
// backends. A missing table is ErrTableNotFound.
func (m *Memory) AppendValues(_ context.Context, name string, row []string) error {
	_, ok := m.tables.Compute(name, func(old [][]string, loaded bool) ([][]string, bool) {
		if !loaded {
			return nil, true
		}
		return append(copyValues(old), append([]string(nil), row...)), false
	})
	if !ok {
		return ErrTableNotFound
	}
	return nil
}

// Tables lists the table names held.
func (m *Memory) Tables() []string {
	var names []string
	m.tables.Range(func(name string, _ [][]string) bool {
		names = append(names, name)
		return true
	})
	return names
}

func copyValues(values [][]string) [][]string {
	out := make([][]string, len(values))
	for i, r := range values {
		out[i] = append([]string(nil), r...)
	}
	return out
}
