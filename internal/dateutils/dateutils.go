// Package dateutils provides the date layouts used in stored records and an
// injectable clock for the timestamps stamped on upserts and journal entries.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Layouts used by the ledger. Stored dates are ISO; timestamps use the full layout.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutEuropean = "02/01/2006"
	DateLayoutDotted   = "02.01.2006"
)

var commonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	DateLayoutEuropean,
	DateLayoutDotted,
	"2006/01/02",
	time.RFC3339,
}

// Clock yields the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// ParseDate parses dateStr with the first matching known layout.
func ParseDate(dateStr string) (time.Time, error) {
	cleaned := strings.Join(strings.Fields(dateStr), " ")
	for _, layout := range commonFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// NormalizeDate re-renders a user-entered date in ISO form.
func NormalizeDate(dateStr string) (string, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayoutISO), nil
}

// Timestamp renders t in the full layout stored in Date/Timestamp fields.
func Timestamp(t time.Time) string {
	return t.Format(DateLayoutFull)
}

// ToISODate renders t as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}
