package sheetstore

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"fjacquet/caisse/internal/ledgererror"
	"fjacquet/caisse/internal/logging"
	"fjacquet/caisse/internal/retry"
	"fjacquet/caisse/internal/store"
	"fjacquet/caisse/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

// fakeAPI is an in-memory spreadsheet. Ranges are either "'Title'" or
// "'Title'!A1" / "'Title'!1:1".
type fakeAPI struct {
	mu          sync.Mutex
	sheets      map[string][][]interface{}
	order       []string
	titleCalls  int
	addCalls    int
	failNext    map[string]int
	permanent   error
	appendCalls int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{sheets: map[string][][]interface{}{}, failNext: map[string]int{}}
}

func (f *fakeAPI) fail(op string) error {
	if f.permanent != nil {
		return f.permanent
	}
	if f.failNext[op] > 0 {
		f.failNext[op]--
		return &googleapi.Error{Code: http.StatusTooManyRequests, Message: "Quota exceeded"}
	}
	return nil
}

func parseRange(rng string) (title, cell string) {
	parts := strings.SplitN(rng, "!", 2)
	title = strings.ReplaceAll(strings.Trim(parts[0], "'"), "''", "'")
	if len(parts) == 2 {
		cell = parts[1]
	}
	return title, cell
}

func (f *fakeAPI) SheetTitles(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleCalls++
	if err := f.fail("titles"); err != nil {
		return nil, err
	}
	return append([]string(nil), f.order...), nil
}

func (f *fakeAPI) AddSheet(_ context.Context, title string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if err := f.fail("add"); err != nil {
		return err
	}
	if _, ok := f.sheets[title]; ok {
		return &googleapi.Error{Code: http.StatusBadRequest, Message: "A sheet with the name \"" + title + "\" already exists."}
	}
	f.sheets[title] = nil
	f.order = append(f.order, title)
	return nil
}

func (f *fakeAPI) GetValues(_ context.Context, rng string) ([][]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("get"); err != nil {
		return nil, err
	}
	title, cell := parseRange(rng)
	rows, ok := f.sheets[title]
	if !ok {
		return nil, &googleapi.Error{Code: http.StatusBadRequest, Message: "Unable to parse range: " + rng}
	}
	if cell == "1:1" && len(rows) > 0 {
		return rows[:1], nil
	}
	return rows, nil
}

func (f *fakeAPI) ClearValues(_ context.Context, rng string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("clear"); err != nil {
		return err
	}
	title, _ := parseRange(rng)
	f.sheets[title] = nil
	return nil
}

func (f *fakeAPI) UpdateValues(_ context.Context, rng string, values [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("update"); err != nil {
		return err
	}
	title, _ := parseRange(rng)
	rows := f.sheets[title]
	for i, v := range values {
		if i < len(rows) {
			rows[i] = v
		} else {
			rows = append(rows, v)
		}
	}
	f.sheets[title] = rows
	return nil
}

func (f *fakeAPI) AppendValues(_ context.Context, rng string, values [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendCalls++
	if err := f.fail("append"); err != nil {
		return err
	}
	title, _ := parseRange(rng)
	f.sheets[title] = append(f.sheets[title], values...)
	return nil
}

type instantTimer struct{ c chan time.Time }

func (t *instantTimer) Start(time.Duration) {
	t.c = make(chan time.Time, 1)
	t.c <- time.Time{}
}
func (t *instantTimer) Stop()               {}
func (t *instantTimer) C() <-chan time.Time { return t.c }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newBackend(api API, c *clock) *Backend {
	logger := logging.NewMockLogger()
	r := retry.New(retry.DefaultConfig(), logger, retry.WithTimer(&instantTimer{}))
	return New(api, r, logger, WithClock(c.now), WithExistenceTTL(time.Minute))
}

func TestEnsureTableIdempotent(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	b := newBackend(api, &clock{t: time.Unix(0, 0)})
	header := []string{"ID", "ClassName"}

	for i := 0; i < 5; i++ {
		require.NoError(t, b.EnsureTable(ctx, "Payments", header))
	}

	assert.Equal(t, []string{"Payments"}, api.order, "exactly one sheet")
	assert.Equal(t, 1, api.addCalls)
	assert.Equal(t, [][]interface{}{{"ID", "ClassName"}}, api.sheets["Payments"])
	assert.Equal(t, 1, api.titleCalls, "existence index is cached")
}

func TestExistenceCacheExpires(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	c := &clock{t: time.Unix(0, 0)}
	b := newBackend(api, c)

	require.NoError(t, b.EnsureTable(ctx, "Classes", []string{"ClassName"}))
	c.t = c.t.Add(30 * time.Second)
	require.NoError(t, b.EnsureTable(ctx, "Classes", []string{"ClassName"}))
	assert.Equal(t, 1, api.titleCalls)

	c.t = c.t.Add(31 * time.Second)
	require.NoError(t, b.EnsureTable(ctx, "Classes", []string{"ClassName"}))
	assert.Equal(t, 2, api.titleCalls)
}

func TestEnsureTableCreatedElsewhere(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	b := newBackend(api, &clock{t: time.Unix(0, 0)})

	require.NoError(t, b.EnsureTable(ctx, "Classes", []string{"ClassName"}))
	// another process adds the sheet after our index was built
	require.NoError(t, api.AddSheet(ctx, "Courses", 2))
	require.NoError(t, b.EnsureTable(ctx, "Courses", []string{"ClassName", "CourseName"}))

	_, ok := b.titles.Load("courses")
	assert.True(t, ok)
}

func TestTitlesMatchCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.sheets["Payments "] = [][]interface{}{{"ID", "Amount"}, {float64(1), 12.5}}
	api.order = []string{"Payments "}
	b := newBackend(api, &clock{t: time.Unix(0, 0)})

	values, err := b.ReadValues(ctx, "payments")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ID", "Amount"}, {"1", "12.5"}}, values)
}

func TestReadMissingSheet(t *testing.T) {
	b := newBackend(newFakeAPI(), &clock{t: time.Unix(0, 0)})
	_, err := b.ReadValues(context.Background(), "Nope")
	assert.ErrorIs(t, err, store.ErrTableNotFound)
}

func TestWriteReplacesContent(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	b := newBackend(api, &clock{t: time.Unix(0, 0)})

	require.NoError(t, b.WriteValues(ctx, "Comments", [][]string{{"A"}, {"1"}, {"2"}}))
	require.NoError(t, b.WriteValues(ctx, "Comments", [][]string{{"A"}, {"3"}}))

	values, err := b.ReadValues(ctx, "Comments")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A"}, {"3"}}, values)
}

func TestRateLimitIsRetried(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	b := newBackend(api, &clock{t: time.Unix(0, 0)})
	require.NoError(t, b.EnsureTable(ctx, "Payments", []string{"ID"}))

	api.failNext["append"] = 2
	require.NoError(t, b.AppendValues(ctx, "Payments", []string{"1"}))
	assert.Equal(t, 3, api.appendCalls)
	assert.Len(t, api.sheets["Payments"], 2)
}

func TestQuotaExhausted(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	b := newBackend(api, &clock{t: time.Unix(0, 0)})
	require.NoError(t, b.EnsureTable(ctx, "Payments", []string{"ID"}))

	api.failNext["get"] = 100
	_, err := b.ReadValues(ctx, "Payments")
	require.Error(t, err)
	assert.True(t, ledgererror.IsQuotaExhausted(err))
}

func TestOtherErrorsAreNotRetried(t *testing.T) {
	api := newFakeAPI()
	api.permanent = &googleapi.Error{Code: http.StatusForbidden, Message: "caller does not have permission"}
	b := newBackend(api, &clock{t: time.Unix(0, 0)})

	err := b.EnsureTable(context.Background(), "Payments", []string{"ID"})
	require.Error(t, err)
	assert.Equal(t, 1, api.titleCalls)
	var gerr *googleapi.Error
	assert.True(t, errors.As(err, &gerr))
}

func TestThroughStore(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := store.New(newBackend(api, &clock{t: time.Unix(0, 0)}), logging.NewMockLogger())
	schema := table.Schema{
		Name:              "PaymentCategories",
		Fields:            []string{"Categorie"},
		AccentInsensitive: []string{"Categorie"},
	}

	require.NoError(t, s.EnsureAll(ctx, []table.Schema{schema}))
	api.sheets["PaymentCategories"][0] = []interface{}{"Catégorie"}
	require.NoError(t, s.AppendRow(ctx, schema, table.Record{"Categorie": "Tuition"}))

	tbl := s.ReadTable(ctx, schema)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "Tuition", tbl.Get(0, "Categorie"))
}
