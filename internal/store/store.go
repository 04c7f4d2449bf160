package store

import (
	"context"
	"errors"
	"sync"

	"fjacquet/caisse/internal/ledgererror"
	"fjacquet/caisse/internal/logging"
	"fjacquet/caisse/internal/table"
	"fjacquet/caisse/internal/textutils"
)

// Store exposes whole-table reads and writes over a Backend. It holds no
// per-table locks: concurrent writers race and the last write wins.
type Store struct {
	backend Backend
	logger  logging.Logger

	initMu   sync.Mutex
	initDone bool
}

// New creates a Store over backend.
func New(backend Backend, logger logging.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

// BackendName reports which medium the store writes to.
func (s *Store) BackendName() string {
	return s.backend.Name()
}

// EnsureTable creates the table with the schema's header if it is missing.
func (s *Store) EnsureTable(ctx context.Context, schema table.Schema) error {
	if err := s.backend.EnsureTable(ctx, schema.Name, schema.Fields); err != nil {
		return &ledgererror.StoreError{Op: "ensure", Table: schema.Name, Err: err}
	}
	return nil
}

// EnsureAll creates every missing table once per process. Concurrent
// callers wait for the first one; a failed run is retried by the next call.
func (s *Store) EnsureAll(ctx context.Context, schemas []table.Schema) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.initDone {
		s.logger.Debug("Tables already initialised, skipping")
		return nil
	}
	for _, schema := range schemas {
		if err := s.EnsureTable(ctx, schema); err != nil {
			s.logger.WithError(err).Error("Table initialisation failed",
				logging.F(logging.FieldTable, schema.Name))
			return err
		}
	}
	s.initDone = true
	s.logger.Info("Tables initialised",
		logging.F(logging.FieldBackend, s.backend.Name()),
		logging.F(logging.FieldCount, len(schemas)))
	return nil
}

// ReadTable returns the stored rows of schema's table. It never fails: a
// missing or unreadable table comes back empty and the cause is logged.
func (s *Store) ReadTable(ctx context.Context, schema table.Schema) *table.Table {
	t, err := s.LoadTable(ctx, schema)
	if err != nil {
		s.logger.WithError(err).Warn("Reading table failed, using an empty table",
			logging.F(logging.FieldTable, schema.Name),
			logging.F(logging.FieldBackend, s.backend.Name()))
		return table.New(schema.Name, schema.Fields...)
	}
	return t
}

// LoadTable is ReadTable for write paths: a table that does not exist is
// empty, any other failure is returned so a rewrite never starts from a
// table that merely failed to load.
func (s *Store) LoadTable(ctx context.Context, schema table.Schema) (*table.Table, error) {
	values, err := s.backend.ReadValues(ctx, schema.Name)
	if errors.Is(err, ErrTableNotFound) {
		return table.New(schema.Name, schema.Fields...), nil
	}
	if err != nil {
		return nil, &ledgererror.StoreError{Op: "read", Table: schema.Name, Err: err}
	}
	t := table.FromValues(schema.Name, values, schema.AccentInsensitive)
	if len(t.Columns) == 0 {
		t.Columns = append(t.Columns, schema.Fields...)
	}
	return t, nil
}

// WriteTable replaces the stored table with t.
func (s *Store) WriteTable(ctx context.Context, t *table.Table) error {
	if err := s.backend.WriteValues(ctx, t.Name, t.Values()); err != nil {
		return &ledgererror.StoreError{Op: "write", Table: t.Name, Err: err}
	}
	s.logger.Debug("Table written",
		logging.F(logging.FieldTable, t.Name),
		logging.F(logging.FieldCount, t.Len()))
	return nil
}

// AppendRow adds rec at the end of the table without rewriting it. Cells
// follow the stored header. A table with no header yet, or whose header
// lacks one of rec's fields, is rewritten whole instead.
func (s *Store) AppendRow(ctx context.Context, schema table.Schema, rec table.Record) error {
	header, err := s.backend.Header(ctx, schema.Name)
	if err != nil && !errors.Is(err, ErrTableNotFound) {
		return &ledgererror.StoreError{Op: "append", Table: schema.Name, Err: err}
	}
	if len(header) == 0 {
		return s.appendByRewrite(ctx, schema, rec)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = textutils.CanonicalHeader(h, schema.AccentInsensitive)
	}
	if !covers(columns, rec) {
		return s.appendByRewrite(ctx, schema, rec)
	}

	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = rec[c]
	}
	if err := s.backend.AppendValues(ctx, schema.Name, row); err != nil {
		return &ledgererror.StoreError{Op: "append", Table: schema.Name, Err: err}
	}
	return nil
}

func (s *Store) appendByRewrite(ctx context.Context, schema table.Schema, rec table.Record) error {
	t, err := s.LoadTable(ctx, schema)
	if err != nil {
		return err
	}
	t.Append(rec)
	s.logger.Debug("Appending through a full rewrite",
		logging.F(logging.FieldTable, schema.Name))
	return s.WriteTable(ctx, t)
}

func covers(columns []string, rec table.Record) bool {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}
	for k := range rec {
		if !have[k] {
			return false
		}
	}
	return true
}
