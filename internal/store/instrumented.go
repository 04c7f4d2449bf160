package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// Instrumented counts calls, failures and latency of every backend call.
type Instrumented struct {
	next Backend
}

// Instrument wraps next with metrics.
func Instrument(next Backend) *Instrumented {
	return &Instrumented{next: next}
}

func (i *Instrumented) Name() string { return i.next.Name() }

func (i *Instrumented) EnsureTable(ctx context.Context, name string, header []string) error {
	defer i.observe("ensure", name, time.Now())
	return i.count("ensure", name, i.next.EnsureTable(ctx, name, header))
}

func (i *Instrumented) Header(ctx context.Context, name string) ([]string, error) {
	defer i.observe("header", name, time.Now())
	h, err := i.next.Header(ctx, name)
	return h, i.count("header", name, err)
}

func (i *Instrumented) ReadValues(ctx context.Context, name string) ([][]string, error) {
	defer i.observe("read", name, time.Now())
	v, err := i.next.ReadValues(ctx, name)
	if err == nil {
		metrics.GetOrCreateCounter(i.metric("caisse_store_rows_read_total", "read", name)).Add(len(v))
	}
	return v, i.count("read", name, err)
}

func (i *Instrumented) WriteValues(ctx context.Context, name string, values [][]string) error {
	defer i.observe("write", name, time.Now())
	return i.count("write", name, i.next.WriteValues(ctx, name, values))
}

func (i *Instrumented) AppendValues(ctx context.Context, name string, row []string) error {
	defer i.observe("append", name, time.Now())
	return i.count("append", name, i.next.AppendValues(ctx, name, row))
}

func (i *Instrumented) count(op, table string, err error) error {
	metrics.GetOrCreateCounter(i.metric("caisse_store_calls_total", op, table)).Inc()
	if err != nil && !errors.Is(err, ErrTableNotFound) {
		metrics.GetOrCreateCounter(i.metric("caisse_store_errors_total", op, table)).Inc()
	}
	return err
}

func (i *Instrumented) observe(op, table string, start time.Time) {
	metrics.GetOrCreateHistogram(i.metric("caisse_store_call_duration_seconds", op, table)).UpdateDuration(start)
}

func (i *Instrumented) metric(name, op, table string) string {
	return fmt.Sprintf(`%s{backend=%q,op=%q,table=%q}`, name, i.next.Name(), op, table)
}

// WriteMetrics writes every store metric in Prometheus text format.
func WriteMetrics(w io.Writer) {
	metrics.WritePrometheus(w, false)
}
