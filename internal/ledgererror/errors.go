// Package ledgererror defines the error taxonomy shared by the store and the
// record service: validation failures, uniqueness conflicts, transient
// rate limiting and terminal store failures.
package ledgererror

import (
	"errors"
	"fmt"
)

// Sentinels wrapped by ConflictError.
var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

// ValidationError reports user input that was rejected.
type ValidationError struct {
	Entity string
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: field %s %s", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: field %s='%s' %s", e.Entity, e.Field, e.Value, e.Reason)
}

// Invalid is shorthand for building a *ValidationError.
func Invalid(entity, field, value, reason string) error {
	return &ValidationError{Entity: entity, Field: field, Value: value, Reason: reason}
}

// ConflictError reports a uniqueness violation or a missing key.
// Err is ErrAlreadyExists or ErrNotFound.
type ConflictError struct {
	Entity string
	Key    string
	Err    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s '%s' %v", e.Entity, e.Key, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// AlreadyExists builds a ConflictError wrapping ErrAlreadyExists.
func AlreadyExists(entity, key string) error {
	return &ConflictError{Entity: entity, Key: key, Err: ErrAlreadyExists}
}

// NotFound builds a ConflictError wrapping ErrNotFound.
func NotFound(entity, key string) error {
	return &ConflictError{Entity: entity, Key: key, Err: ErrNotFound}
}

// RateLimitError marks a remote failure as retryable.
type RateLimitError struct {
	Op  string
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited: %v", e.Op, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// QuotaExhaustedError is returned once every retry attempt hit a rate limit.
// It intentionally does not unwrap to the last RateLimitError.
type QuotaExhaustedError struct {
	Op       string
	Attempts int
	Last     error
}

func (e *QuotaExhaustedError) Error() string {
	return fmt.Sprintf("%s: quota exhausted after %d attempts (last error: %v)", e.Op, e.Attempts, e.Last)
}

// StoreError is a terminal failure of the backing store.
type StoreError struct {
	Op    string
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsAlreadyExists reports whether err wraps ErrAlreadyExists.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimit reports whether err carries a *RateLimitError.
func IsRateLimit(err error) bool {
	var r *RateLimitError
	return errors.As(err, &r)
}

// IsQuotaExhausted reports whether err carries a *QuotaExhaustedError.
func IsQuotaExhausted(err error) bool {
	var q *QuotaExhaustedError
	return errors.As(err, &q)
}
