package ledger

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/caisse/internal/ledgererror"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/table"
	"fjacquet/caisse/internal/textutils"

	"github.com/shopspring/decimal"
)

// FeeKind separates registration fees from work fees.
type FeeKind string

const (
	RegistrationFee FeeKind = "registration"
	WorkFee         FeeKind = "work"
)

// ParseFeeKind accepts "registration" or "work" in any case.
func ParseFeeKind(s string) (FeeKind, error) {
	switch FeeKind(strings.ToLower(strings.TrimSpace(s))) {
	case RegistrationFee:
		return RegistrationFee, nil
	case WorkFee:
		return WorkFee, nil
	}
	return "", fmt.Errorf("unknown fee kind %q, want registration or work", s)
}

func (k FeeKind) table() string {
	if k == WorkFee {
		return models.TableWorkFees
	}
	return models.TableRegistrationFees
}

// FeeTypes lists the fee types of kind.
func FeeTypes(kind FeeKind) []string {
	if kind == WorkFee {
		return models.WorkCategories()
	}
	return models.RegistrationTypes()
}

func canonicalFeeType(kind FeeKind, feeType string) (string, bool) {
	if kind == WorkFee {
		return models.CanonicalWorkCategory(feeType)
	}
	return models.CanonicalRegistrationType(feeType)
}

// FeeAmount is the fixed fee charged for feeType.
func (s *Service) FeeAmount(kind FeeKind, feeType string) decimal.Decimal {
	if kind == WorkFee {
		return s.settings.WorkFees[feeType]
	}
	return s.settings.RegistrationFee
}

// PayFee records that student paid the fee of feeType. Paying the same fee
// twice is a conflict.
func (s *Service) PayFee(ctx context.Context, kind FeeKind, class, student, feeType, user string) (models.FeePayment, error) {
	entity := entityName(kind.table())
	var err error
	if class, err = required(entity, models.FieldClassName, class); err != nil {
		return models.FeePayment{}, err
	}
	if student, err = required(entity, models.FieldStudentName, student); err != nil {
		return models.FeePayment{}, err
	}
	canonical, ok := canonicalFeeType(kind, feeType)
	if !ok {
		return models.FeePayment{}, ledgererror.Invalid(entity, models.FieldFeeType, feeType,
			"must be one of "+strings.Join(FeeTypes(kind), ", "))
	}
	if !s.IsEnrolled(ctx, class, student) {
		return models.FeePayment{}, ledgererror.Invalid(entity, models.FieldStudentName, student,
			"is not enrolled in class "+class)
	}

	current, err := s.load(ctx, models.MustSchema(kind.table()))
	if err != nil {
		return models.FeePayment{}, err
	}
	if paidRow(current, class, student, canonical) >= 0 {
		return models.FeePayment{}, ledgererror.AlreadyExists(entity, class+"/"+student+"/"+canonical)
	}

	payment := models.FeePayment{
		ClassName:     class,
		StudentName:   student,
		FeeType:       canonical,
		PaymentStatus: models.StatusPaid,
		Amount:        models.NewAmount(s.FeeAmount(kind, canonical)),
		PaymentDate:   s.today(),
	}
	rec, err := table.EncodeRecord(payment)
	if err != nil {
		return models.FeePayment{}, err
	}
	stored, err := s.Append(ctx, kind.table(), rec, user)
	if err != nil {
		return models.FeePayment{}, err
	}
	return decodeOne[models.FeePayment](kind.table(), stored)
}

// FeeStatus reports Paid or Unpaid for one student and fee type.
func (s *Service) FeeStatus(ctx context.Context, kind FeeKind, class, student, feeType string) string {
	if paidRow(s.List(ctx, kind.table()), class, student, feeType) >= 0 {
		return models.StatusPaid
	}
	return models.StatusUnpaid
}

// FeePayments returns the stored fee payments of kind.
func (s *Service) FeePayments(ctx context.Context, kind FeeKind) ([]models.FeePayment, error) {
	return table.Decode[models.FeePayment](s.List(ctx, kind.table()))
}

// FeeLine is the fee situation of one student.
type FeeLine struct {
	StudentName string        `csv:"StudentName" json:"student_name" yaml:"student_name"`
	Status      string        `csv:"Status" json:"status" yaml:"status"`
	Amount      models.Amount `csv:"Amount" json:"amount" yaml:"amount"`
	PaymentDate string        `csv:"PaymentDate" json:"payment_date" yaml:"payment_date"`
}

// FeeSummary is the fee situation of a whole class for one fee type.
type FeeSummary struct {
	ClassName string          `json:"class_name" yaml:"class_name"`
	FeeType   string          `json:"fee_type" yaml:"fee_type"`
	Paid      int             `json:"paid" yaml:"paid"`
	Unpaid    int             `json:"unpaid" yaml:"unpaid"`
	Total     decimal.Decimal `json:"total" yaml:"total"`
	Students  []FeeLine       `json:"students" yaml:"students"`
}

// SummarizeFees walks the class roster and reports who paid feeType.
func (s *Service) SummarizeFees(ctx context.Context, kind FeeKind, class, feeType string) (FeeSummary, error) {
	canonical, ok := canonicalFeeType(kind, feeType)
	if !ok {
		return FeeSummary{}, ledgererror.Invalid(entityName(kind.table()), models.FieldFeeType, feeType,
			"must be one of "+strings.Join(FeeTypes(kind), ", "))
	}
	payments := s.List(ctx, kind.table())
	summary := FeeSummary{ClassName: class, FeeType: canonical, Total: decimal.Zero}

	for _, student := range s.Students(ctx, class) {
		line := FeeLine{StudentName: student, Status: models.StatusUnpaid}
		if i := paidRow(payments, class, student, canonical); i >= 0 {
			line.Status = models.StatusPaid
			line.Amount = models.NewAmount(payments.Decimal(i, models.FieldAmount))
			line.PaymentDate = payments.Get(i, models.FieldPaymentDate)
			summary.Paid++
			summary.Total = summary.Total.Add(line.Amount.Decimal)
		} else {
			summary.Unpaid++
		}
		summary.Students = append(summary.Students, line)
	}
	return summary, nil
}

func paidRow(t *table.Table, class, student, feeType string) int {
	return t.IndexOf(table.Record{
		models.FieldClassName:     class,
		models.FieldStudentName:   student,
		models.FieldFeeType:       feeType,
		models.FieldPaymentStatus: models.StatusPaid,
	}, textutils.Equal)
}
