// Package sheetstore keeps each ledger table in a named sheet of one remote
// spreadsheet. Every remote call goes through the retry wrapper.
package sheetstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"fjacquet/caisse/internal/ledgererror"
	"fjacquet/caisse/internal/logging"
	"fjacquet/caisse/internal/retry"
	"fjacquet/caisse/internal/store"

	"github.com/puzpuzpuz/xsync/v3"
	"google.golang.org/api/googleapi"
)

// DefaultExistenceTTL bounds how often the sheet list is fetched.
const DefaultExistenceTTL = 60 * time.Second

const minColumns = 10

// Backend is the remote store.Backend.
type Backend struct {
	api     API
	retrier *retry.Retrier
	logger  logging.Logger

	// titles maps folded sheet titles to their exact spelling.
	titles    *xsync.MapOf[string, string]
	ttl       time.Duration
	now       func() time.Time
	mu        sync.Mutex
	refreshed time.Time
}

// Option customises a Backend.
type Option func(*Backend)

// WithExistenceTTL changes how long the sheet list is trusted.
func WithExistenceTTL(ttl time.Duration) Option {
	return func(b *Backend) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

// WithClock replaces time.Now for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// New creates a backend over api. The handle is owned by the backend and
// reused for every call.
func New(api API, retrier *retry.Retrier, logger logging.Logger, opts ...Option) *Backend {
	b := &Backend{
		api:     api,
		retrier: retrier,
		logger:  logger,
		titles:  xsync.NewMapOf[string, string](),
		ttl:     DefaultExistenceTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) Name() string { return "sheets" }

func (b *Backend) EnsureTable(ctx context.Context, name string, header []string) error {
	if _, ok, err := b.lookup(ctx, name); err != nil || ok {
		return err
	}
	return b.create(ctx, name, header)
}

func (b *Backend) Header(ctx context.Context, name string) ([]string, error) {
	title, err := b.title(ctx, name)
	if err != nil {
		return nil, err
	}
	rows, err := retry.Call(ctx, b.retrier, "values.get", func() ([][]interface{}, error) {
		v, err := b.api.GetValues(ctx, quote(title)+"!1:1")
		return v, classify("values.get", err)
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return toStrings(rows)[0], nil
}

func (b *Backend) ReadValues(ctx context.Context, name string) ([][]string, error) {
	title, err := b.title(ctx, name)
	if err != nil {
		return nil, err
	}
	rows, err := retry.Call(ctx, b.retrier, "values.get", func() ([][]interface{}, error) {
		v, err := b.api.GetValues(ctx, quote(title))
		return v, classify("values.get", err)
	})
	if err != nil {
		return nil, err
	}
	return toStrings(rows), nil
}

// WriteValues clears the sheet then writes values from A1. A reader between
// the two calls sees an empty sheet.
func (b *Backend) WriteValues(ctx context.Context, name string, values [][]string) error {
	title, ok, err := b.lookup(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		var header []string
		if len(values) > 0 {
			header = values[0]
		}
		if err := b.create(ctx, name, header); err != nil {
			return err
		}
		title = strings.TrimSpace(name)
		if t, found := b.titles.Load(fold(name)); found {
			title = t
		}
	}

	if err := b.retrier.Do(ctx, "values.clear", func() error {
		return classify("values.clear", b.api.ClearValues(ctx, quote(title)))
	}); err != nil {
		return fmt.Errorf("clearing sheet %s: %w", title, err)
	}
	if len(values) == 0 {
		return nil
	}
	if err := b.retrier.Do(ctx, "values.update", func() error {
		return classify("values.update", b.api.UpdateValues(ctx, quote(title)+"!A1", toCells(values)))
	}); err != nil {
		return fmt.Errorf("updating sheet %s: %w", title, err)
	}
	return nil
}

func (b *Backend) AppendValues(ctx context.Context, name string, row []string) error {
	title, err := b.title(ctx, name)
	if err != nil {
		return err
	}
	return b.retrier.Do(ctx, "values.append", func() error {
		return classify("values.append", b.api.AppendValues(ctx, quote(title), toCells([][]string{row})))
	})
}

// title resolves name to an existing sheet title or store.ErrTableNotFound.
func (b *Backend) title(ctx context.Context, name string) (string, error) {
	title, ok, err := b.lookup(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", store.ErrTableNotFound
	}
	return title, nil
}

func (b *Backend) lookup(ctx context.Context, name string) (string, bool, error) {
	if err := b.refresh(ctx, false); err != nil {
		return "", false, err
	}
	title, ok := b.titles.Load(fold(name))
	return title, ok, nil
}

// refresh reloads the sheet list when it is older than the TTL, or always
// when force is set.
func (b *Backend) refresh(ctx context.Context, force bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !force && !b.refreshed.IsZero() && b.now().Sub(b.refreshed) < b.ttl {
		return nil
	}
	titles, err := retry.Call(ctx, b.retrier, "spreadsheets.get", func() ([]string, error) {
		t, err := b.api.SheetTitles(ctx)
		return t, classify("spreadsheets.get", err)
	})
	if err != nil {
		return fmt.Errorf("listing sheets: %w", err)
	}
	b.titles.Clear()
	for _, t := range titles {
		b.titles.Store(fold(t), t)
	}
	b.refreshed = b.now()
	b.logger.Debug("Sheet list refreshed", logging.F(logging.FieldCount, len(titles)))
	return nil
}

func (b *Backend) create(ctx context.Context, name string, header []string) error {
	title := strings.TrimSpace(name)
	err := b.retrier.Do(ctx, "sheets.add", func() error {
		return classify("sheets.add", b.api.AddSheet(ctx, title, max(len(header), minColumns)))
	})
	if isAlreadyExists(err) {
		// created elsewhere since the last refresh
		return b.refresh(ctx, true)
	}
	if err != nil {
		return fmt.Errorf("adding sheet %s: %w", title, err)
	}
	b.titles.Store(fold(title), title)

	if len(header) > 0 {
		if err := b.retrier.Do(ctx, "values.update", func() error {
			return classify("values.update", b.api.UpdateValues(ctx, quote(title)+"!A1", toCells([][]string{header})))
		}); err != nil {
			return fmt.Errorf("writing header of %s: %w", title, err)
		}
	}
	b.logger.Info("Created sheet",
		logging.F(logging.FieldTable, title),
		logging.F(logging.FieldBackend, b.Name()))
	return nil
}

// classify marks HTTP 429 responses as retryable.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return &ledgererror.RateLimitError{Op: op, Err: err}
	}
	return err
}

func isAlreadyExists(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(gerr.Message), "already exists")
}

func fold(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func quote(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func toStrings(rows [][]interface{}) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = cellString(cell)
		}
	}
	return out
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func toCells(values [][]string) [][]interface{} {
	out := make([][]interface{}, len(values))
	for i, row := range values {
		out[i] = make([]interface{}, len(row))
		for j, cell := range row {
			out[i][j] = cell
		}
	}
	return out
}
