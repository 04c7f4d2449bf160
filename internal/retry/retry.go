// Package retry runs remote store calls with bounded exponential backoff on
// rate-limit errors. Any other error is returned at once.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"fjacquet/caisse/internal/ledgererror"
	"fjacquet/caisse/internal/logging"

	"github.com/VictoriaMetrics/metrics"
	"github.com/cenkalti/backoff/v4"
)

// Config bounds the retry loop.
type Config struct {
	// MaxAttempts counts the first call.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultConfig is five attempts doubling from one second, capped at 32s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    32 * time.Second,
	}
}

// Schedule is a backoff.BackOff yielding min(2^n * base, max) plus jitter
// for the n-th retry.
type Schedule struct {
	base    time.Duration
	max     time.Duration
	attempt int
	jitter  func() time.Duration
}

// NewSchedule returns a schedule starting at base.
func NewSchedule(base, max time.Duration, jitter func() time.Duration) *Schedule {
	if jitter == nil {
		jitter = func() time.Duration { return 0 }
	}
	return &Schedule{base: base, max: max, jitter: jitter}
}

// NextBackOff implements backoff.BackOff.
func (s *Schedule) NextBackOff() time.Duration {
	delay := s.max
	if s.attempt < 32 {
		if d := s.base << s.attempt; d > 0 && d < s.max {
			delay = d
		}
	}
	s.attempt++
	return delay + s.jitter()
}

// Reset implements backoff.BackOff.
func (s *Schedule) Reset() {
	s.attempt = 0
}

// Retrier wraps remote operations.
type Retrier struct {
	cfg    Config
	logger logging.Logger
	timer  backoff.Timer
	jitter func() time.Duration
}

// Option customises a Retrier.
type Option func(*Retrier)

// WithTimer replaces the wall-clock timer used between attempts.
func WithTimer(t backoff.Timer) Option {
	return func(r *Retrier) { r.timer = t }
}

// WithJitter replaces the random jitter source.
func WithJitter(j func() time.Duration) Option {
	return func(r *Retrier) { r.jitter = j }
}

// New creates a Retrier. A zero MaxAttempts falls back to the defaults.
func New(cfg Config, logger logging.Logger, opts ...Option) *Retrier {
	if cfg.MaxAttempts < 1 {
		cfg = DefaultConfig()
	}
	r := &Retrier{cfg: cfg, logger: logger}
	r.jitter = func() time.Duration {
		if r.cfg.BaseDelay <= 0 {
			return 0
		}
		return time.Duration(rand.Int64N(int64(r.cfg.BaseDelay)))
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs fn until it succeeds, fails with a non rate-limit error, or the
// attempt budget is spent. In the last case the result is a
// *ledgererror.QuotaExhaustedError, never the rate-limit error itself.
func (r *Retrier) Do(ctx context.Context, op string, fn func() error) error {
	attempts := 0
	var last error

	operation := func() error {
		attempts++
		err := fn()
		if err == nil {
			return nil
		}
		if !ledgererror.IsRateLimit(err) {
			return backoff.Permanent(err)
		}
		last = err
		return err
	}

	notify := func(err error, wait time.Duration) {
		metrics.GetOrCreateCounter(fmt.Sprintf(`caisse_store_retries_total{op=%q}`, op)).Inc()
		r.logger.WithFields(
			logging.F(logging.FieldOperation, op),
			logging.F(logging.FieldAttempt, attempts),
			logging.F(logging.FieldDelay, wait.Milliseconds()),
		).WithError(err).Warn("Rate limited by remote store, retrying")
	}

	schedule := backoff.WithMaxRetries(NewSchedule(r.cfg.BaseDelay, r.cfg.MaxDelay, r.jitter), uint64(r.cfg.MaxAttempts-1))
	err := backoff.RetryNotifyWithTimer(operation, backoff.WithContext(schedule, ctx), notify, r.timer)
	if err == nil {
		return nil
	}
	if ledgererror.IsRateLimit(err) && attempts >= r.cfg.MaxAttempts {
		metrics.GetOrCreateCounter(fmt.Sprintf(`caisse_store_quota_exhausted_total{op=%q}`, op)).Inc()
		return &ledgererror.QuotaExhaustedError{Op: op, Attempts: attempts, Last: last}
	}
	return err
}

// Call is Do for operations returning a value.
func Call[T any](ctx context.Context, r *Retrier, op string, fn func() (T, error)) (T, error) {
	var out T
	err := r.Do(ctx, op, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
