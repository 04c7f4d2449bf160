package ledger

import (
	"strings"

	"fjacquet/caisse/internal/currencyutils"
	"fjacquet/caisse/internal/dateutils"
	"fjacquet/caisse/internal/ledgererror"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/table"
)

// ParseAmount turns user input into an amount, naming field in the error.
func ParseAmount(entity, field, raw string) (models.Amount, error) {
	d, err := currencyutils.ParseAmount(raw)
	if err != nil {
		return models.Amount{}, ledgererror.Invalid(entity, field, raw, "must be a number")
	}
	if !d.IsPositive() {
		return models.Amount{}, ledgererror.Invalid(entity, field, raw, "must be greater than zero")
	}
	return models.NewAmount(d), nil
}

func required(entity, field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ledgererror.Invalid(entity, field, value, "is required")
	}
	return value, nil
}

// dateOr normalises raw to ISO form, or returns fallback when raw is blank.
func dateOr(entity, field, raw, fallback string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	d, err := dateutils.NormalizeDate(raw)
	if err != nil {
		return "", ledgererror.Invalid(entity, field, raw, "is not a date")
	}
	return d, nil
}

func (s *Service) today() string {
	return dateutils.ToISODate(s.clock.Now())
}

// decodeOne turns a stored record back into its typed form.
func decodeOne[T any](name string, rec table.Record) (T, error) {
	t := table.New(name)
	t.Append(rec)
	out, err := table.Decode[T](t)
	if err != nil || len(out) == 0 {
		var zero T
		return zero, err
	}
	return out[0], nil
}
