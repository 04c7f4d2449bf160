package ledger

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/caisse/internal/ledgererror"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/table"
	"fjacquet/caisse/internal/textutils"
)

// CategoryKind selects the payment or the expense category list.
type CategoryKind string

const (
	PaymentCategory CategoryKind = "payment"
	ExpenseCategory CategoryKind = "expense"
)

// ParseCategoryKind accepts "payment" or "expense" in any case.
func ParseCategoryKind(s string) (CategoryKind, error) {
	switch CategoryKind(strings.ToLower(strings.TrimSpace(s))) {
	case PaymentCategory:
		return PaymentCategory, nil
	case ExpenseCategory:
		return ExpenseCategory, nil
	}
	return "", fmt.Errorf("unknown category kind %q, want payment or expense", s)
}

func (k CategoryKind) table() string {
	if k == ExpenseCategory {
		return models.TableExpenseCategories
	}
	return models.TablePaymentCategories
}

// Categories lists the categories of kind in stored order, blanks and
// repeats removed.
func (s *Service) Categories(ctx context.Context, kind CategoryKind) []string {
	t := s.List(ctx, kind.table())
	var out []string
	seen := make(map[string]bool)
	for _, name := range t.Column(models.FieldCategory) {
		name = strings.TrimSpace(name)
		folded := textutils.Normalize(name)
		if name == "" || seen[folded] {
			continue
		}
		seen[folded] = true
		out = append(out, name)
	}
	return out
}

// CanonicalCategory returns the stored spelling of name.
func (s *Service) CanonicalCategory(ctx context.Context, kind CategoryKind, name string) (string, bool) {
	for _, c := range s.Categories(ctx, kind) {
		if textutils.Equal(c, name) {
			return c, true
		}
	}
	return "", false
}

// AddCategory adds name unless an equal name already exists.
func (s *Service) AddCategory(ctx context.Context, kind CategoryKind, name, user string) error {
	name = strings.TrimSpace(name)
	entity := entityName(kind.table())
	if name == "" {
		return ledgererror.Invalid(entity, models.FieldCategory, name, "must not be empty")
	}
	schema := models.MustSchema(kind.table())
	current, err := s.load(ctx, schema)
	if err != nil {
		return err
	}
	if current.IndexOf(table.Record{models.FieldCategory: name}, textutils.Equal) >= 0 {
		return ledgererror.AlreadyExists(entity, name)
	}
	current.Append(table.Record{models.FieldCategory: name})
	if err := s.store.WriteTable(ctx, current); err != nil {
		return err
	}
	s.journal(ctx, user, "add", kind.table(), name)
	return nil
}

// RenameCategory renames from to to. Renaming a category to the exact same
// string succeeds without writing; a rename that only changes case or
// accents is applied; a target equal to another category is rejected.
func (s *Service) RenameCategory(ctx context.Context, kind CategoryKind, from, to, user string) error {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	entity := entityName(kind.table())
	if to == "" {
		return ledgererror.Invalid(entity, models.FieldCategory, to, "must not be empty")
	}

	schema := models.MustSchema(kind.table())
	current, err := s.load(ctx, schema)
	if err != nil {
		return err
	}
	i := current.IndexOf(table.Record{models.FieldCategory: from}, textutils.Equal)
	if i < 0 {
		return ledgererror.NotFound(entity, from)
	}
	if current.Get(i, models.FieldCategory) == to {
		return nil
	}
	for j := range current.Rows {
		if j != i && textutils.Equal(current.Get(j, models.FieldCategory), to) {
			return ledgererror.AlreadyExists(entity, to)
		}
	}

	current.Set(i, models.FieldCategory, to)
	if err := s.store.WriteTable(ctx, current); err != nil {
		return err
	}
	s.journal(ctx, user, "rename", kind.table(), from+" -> "+to)
	return nil
}

// RemoveCategory deletes name.
func (s *Service) RemoveCategory(ctx context.Context, kind CategoryKind, name, user string) error {
	_, err := s.DeleteByKey(ctx, kind.table(), table.Record{models.FieldCategory: strings.TrimSpace(name)}, user)
	return err
}
