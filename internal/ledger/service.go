// Package ledger is the record service: per-table list, append, update,
// delete and upsert operations, and the petty-cash operations built on them.
// Every mutation reads the whole table, changes it in memory and writes it
// back, except inserts into append-only tables.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fjacquet/caisse/internal/currencyutils"
	"fjacquet/caisse/internal/dateutils"
	"fjacquet/caisse/internal/ledgererror"
	"fjacquet/caisse/internal/logging"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/store"
	"fjacquet/caisse/internal/table"
	"fjacquet/caisse/internal/textutils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settings are the fixed amounts and display currency of the ledger.
type Settings struct {
	Currency        string
	RegistrationFee decimal.Decimal
	WorkFees        map[string]decimal.Decimal
}

// DefaultSettings matches the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		Currency:        "USD",
		RegistrationFee: decimal.NewFromInt(10),
		WorkFees: map[string]decimal.Decimal{
			models.WorkTutoredProject: decimal.NewFromInt(10),
			models.WorkInternship:     decimal.NewFromInt(10),
			models.WorkThesis:         decimal.NewFromInt(150),
		},
	}
}

// Service implements the record operations over a store.
type Service struct {
	store    *store.Store
	logger   logging.Logger
	clock    dateutils.Clock
	settings Settings
	newID    func() string
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for stamps.
func WithClock(c dateutils.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithSettings replaces the default fees and currency.
func WithSettings(settings Settings) Option {
	return func(s *Service) { s.settings = settings }
}

// WithIDGenerator replaces the journal entry id source.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// New creates a Service.
func New(st *store.Store, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		store:    st,
		logger:   logger,
		clock:    dateutils.SystemClock{},
		settings: DefaultSettings(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the ledger settings in use.
func (s *Service) Settings() Settings {
	return s.settings
}

// Init creates every missing table. It is guarded so concurrent first
// callers create each table once.
func (s *Service) Init(ctx context.Context) error {
	return s.store.EnsureAll(ctx, models.Schemas())
}

// List returns the conformed content of a table: required columns present,
// amounts numeric, IDs assigned. It never fails; an unreadable table lists
// as empty.
func (s *Service) List(ctx context.Context, name string) *table.Table {
	schema := models.MustSchema(name)
	if err := s.store.EnsureTable(ctx, schema); err != nil {
		s.logger.WithError(err).Warn("Ensuring table failed", logging.F(logging.FieldTable, name))
	}
	return table.Conform(s.store.ReadTable(ctx, schema), schema)
}

// load is List for write paths: failures are returned.
func (s *Service) load(ctx context.Context, schema table.Schema) (*table.Table, error) {
	t, err := s.store.LoadTable(ctx, schema)
	if err != nil {
		return nil, err
	}
	return table.Conform(t, schema), nil
}

// Append validates rec, fills missing fields and stores it. Tables with an
// ID column get max(ID)+1. The stored record is returned.
func (s *Service) Append(ctx context.Context, name string, rec table.Record, user string) (table.Record, error) {
	schema := models.MustSchema(name)
	rec, err := prepare(schema, rec)
	if err != nil {
		return nil, err
	}

	if models.IsAppendOnly(name) {
		if schema.IDField != "" {
			current, err := s.load(ctx, schema)
			if err != nil {
				return nil, err
			}
			rec[schema.IDField] = fmt.Sprint(table.NextID(current, schema.IDField))
		}
		if err := s.store.AppendRow(ctx, schema, rec); err != nil {
			return nil, err
		}
	} else {
		current, err := s.load(ctx, schema)
		if err != nil {
			return nil, err
		}
		if schema.IDField != "" {
			rec[schema.IDField] = fmt.Sprint(table.NextID(current, schema.IDField))
		}
		current.Append(rec)
		if err := s.store.WriteTable(ctx, current); err != nil {
			return nil, err
		}
	}

	s.journal(ctx, user, "append", name, describe(schema, rec))
	return rec, nil
}

// UpdateByKey overwrites, in the first row matching key, the fields present
// in changes. Key fields keep their stored spelling.
func (s *Service) UpdateByKey(ctx context.Context, name string, key, changes table.Record, user string) error {
	schema := models.MustSchema(name)
	if err := validateAmounts(schema, changes); err != nil {
		return err
	}
	current, err := s.load(ctx, schema)
	if err != nil {
		return err
	}
	i := current.IndexOf(key, textutils.Equal)
	if i < 0 {
		return ledgererror.NotFound(entityName(name), keyString(key))
	}
	for f, v := range changes {
		if _, isKey := key[f]; isKey {
			continue
		}
		current.Set(i, f, canonicalCell(schema, f, v))
	}
	if err := s.store.WriteTable(ctx, current); err != nil {
		return err
	}
	s.journal(ctx, user, "update", name, keyString(key))
	return nil
}

// DeleteByKey removes every row matching key and reports how many went.
func (s *Service) DeleteByKey(ctx context.Context, name string, key table.Record, user string) (int, error) {
	schema := models.MustSchema(name)
	current, err := s.load(ctx, schema)
	if err != nil {
		return 0, err
	}
	before := current.Len()
	kept := current.Filter(func(r table.Record) bool {
		for k, v := range key {
			if !textutils.Equal(r[k], v) {
				return true
			}
		}
		return false
	})
	removed := before - kept.Len()
	if removed == 0 {
		return 0, ledgererror.NotFound(entityName(name), keyString(key))
	}
	if err := s.store.WriteTable(ctx, kept); err != nil {
		return 0, err
	}
	s.journal(ctx, user, "delete", name, keyString(key))
	return removed, nil
}

// Upsert updates the first row whose keyFields match rec, or appends rec
// when none does. stampField, when set, receives the current timestamp
// either way. It reports whether a row was created.
func (s *Service) Upsert(ctx context.Context, name string, keyFields []string, rec table.Record, stampField, user string) (bool, error) {
	schema := models.MustSchema(name)
	if err := validateAmounts(schema, rec); err != nil {
		return false, err
	}
	rec = rec.Clone()
	if stampField != "" {
		rec[stampField] = dateutils.Timestamp(s.clock.Now())
	}

	current, err := s.load(ctx, schema)
	if err != nil {
		return false, err
	}
	key := make(table.Record, len(keyFields))
	for _, k := range keyFields {
		key[k] = rec[k]
	}

	created := false
	if i := current.IndexOf(key, textutils.Equal); i >= 0 {
		for f, v := range rec {
			if _, isKey := key[f]; isKey {
				continue
			}
			current.Set(i, f, canonicalCell(schema, f, v))
		}
	} else {
		prepared, err := prepare(schema, rec)
		if err != nil {
			return false, err
		}
		if schema.IDField != "" {
			prepared[schema.IDField] = fmt.Sprint(table.NextID(current, schema.IDField))
		}
		current.Append(prepared)
		created = true
	}

	if err := s.store.WriteTable(ctx, current); err != nil {
		return false, err
	}
	s.journal(ctx, user, "upsert", name, keyString(key))
	return created, nil
}

// prepare validates amounts and backfills every required field.
func prepare(schema table.Schema, rec table.Record) (table.Record, error) {
	if err := validateAmounts(schema, rec); err != nil {
		return nil, err
	}
	out := rec.Clone()
	for _, f := range schema.Fields {
		if _, ok := out[f]; !ok {
			out[f] = schema.Default(f)
		}
	}
	for _, f := range schema.Numeric {
		out[f] = canonicalCell(schema, f, out[f])
	}
	return out, nil
}

// validateAmounts rejects any amount field of rec that is not a number
// strictly above zero.
func validateAmounts(schema table.Schema, rec table.Record) error {
	for _, f := range schema.Numeric {
		v, ok := rec[f]
		if !ok {
			continue
		}
		amount, err := currencyutils.ParseAmount(v)
		if err != nil {
			return ledgererror.Invalid(entityName(schema.Name), f, v, "must be a number")
		}
		if !amount.IsPositive() {
			return ledgererror.Invalid(entityName(schema.Name), f, v, "must be greater than zero")
		}
	}
	return nil
}

func canonicalCell(schema table.Schema, field, value string) string {
	if schema.IsNumeric(field) {
		return currencyutils.CoerceAmount(value).String()
	}
	return value
}

func describe(schema table.Schema, rec table.Record) string {
	key := make(table.Record)
	for _, f := range schema.Fields {
		if f == models.FieldPasswordHash || rec[f] == "" {
			continue
		}
		key[f] = rec[f]
	}
	return keyString(key)
}

func keyString(key table.Record) string {
	parts := make([]string, 0, len(key))
	for k, v := range key {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

var entityNames = map[string]string{
	models.TableClasses:           "class",
	models.TableCourses:           "course",
	models.TablePayments:          "payment",
	models.TableExpenses:          "expense",
	models.TableWorkExpenses:      "work expense",
	models.TableComments:          "comment",
	models.TablePaymentCategories: "payment category",
	models.TableExpenseCategories: "expense category",
	models.TableOtherReceipts:     "receipt",
	models.TableRegistrationFees:  "registration fee",
	models.TableWorkFees:          "work fee",
	models.TableUsers:             "user",
	models.TableAuditLog:          "journal entry",
}

func entityName(name string) string {
	if e, ok := entityNames[name]; ok {
		return e
	}
	return name
}
