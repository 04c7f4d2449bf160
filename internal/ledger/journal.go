package ledger

import (
	"context"

	"fjacquet/caisse/internal/dateutils"
	"fjacquet/caisse/internal/logging"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/table"
)

// journal appends one entry to the cash journal. A failed entry is logged
// and otherwise ignored; the mutation it describes already happened.
func (s *Service) journal(ctx context.Context, user, op, tableName, detail string) {
	if tableName == models.TableAuditLog {
		return
	}
	entry := models.AuditEntry{
		ID:        s.newID(),
		Timestamp: dateutils.Timestamp(s.clock.Now()),
		User:      user,
		Operation: op,
		Table:     tableName,
		Detail:    detail,
	}
	rec, err := table.EncodeRecord(entry)
	if err == nil {
		err = s.store.AppendRow(ctx, models.MustSchema(models.TableAuditLog), rec)
	}
	if err != nil {
		s.logger.WithError(err).Error("Journal entry lost",
			logging.F(logging.FieldOperation, op),
			logging.F(logging.FieldTable, tableName),
			logging.F(logging.FieldUser, user))
	}
}

// Journal returns the cash journal, oldest entry first.
func (s *Service) Journal(ctx context.Context) ([]models.AuditEntry, error) {
	return table.Decode[models.AuditEntry](s.List(ctx, models.TableAuditLog))
}
