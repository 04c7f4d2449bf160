package ledger

import (
	"context"
	"fmt"
	"sort"

	"fjacquet/caisse/internal/ledgererror"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/table"
)

// RecordPayment stores a student payment. The student must be enrolled in
// the class and the category must exist. A blank date means today.
func (s *Service) RecordPayment(ctx context.Context, p models.Payment, user string) (models.Payment, error) {
	var err error
	if p.ClassName, err = required("payment", models.FieldClassName, p.ClassName); err != nil {
		return models.Payment{}, err
	}
	if p.StudentName, err = required("payment", models.FieldStudentName, p.StudentName); err != nil {
		return models.Payment{}, err
	}
	if !s.IsEnrolled(ctx, p.ClassName, p.StudentName) {
		return models.Payment{}, ledgererror.Invalid("payment", models.FieldStudentName, p.StudentName,
			"is not enrolled in class "+p.ClassName)
	}
	category, ok := s.CanonicalCategory(ctx, PaymentCategory, p.PaymentCategory)
	if !ok {
		return models.Payment{}, ledgererror.Invalid("payment", models.FieldPaymentCategory, p.PaymentCategory,
			"is not a known payment category")
	}
	p.PaymentCategory = category
	if p.PaymentDate, err = dateOr("payment", models.FieldPaymentDate, p.PaymentDate, s.today()); err != nil {
		return models.Payment{}, err
	}

	rec, err := table.EncodeRecord(p)
	if err != nil {
		return models.Payment{}, err
	}
	delete(rec, models.FieldID)
	stored, err := s.Append(ctx, models.TablePayments, rec, user)
	if err != nil {
		return models.Payment{}, err
	}
	return decodeOne[models.Payment](models.TablePayments, stored)
}

// Payments returns every payment in stored order.
func (s *Service) Payments(ctx context.Context) ([]models.Payment, error) {
	return table.Decode[models.Payment](s.List(ctx, models.TablePayments))
}

// CorrectPayment replaces the amount of payment id.
func (s *Service) CorrectPayment(ctx context.Context, id int64, amount models.Amount, user string) error {
	return s.UpdateByKey(ctx, models.TablePayments,
		table.Record{models.FieldID: fmt.Sprint(id)},
		table.Record{models.FieldAmount: amount.String()}, user)
}

// DeletePayment removes payment id.
func (s *Service) DeletePayment(ctx context.Context, id int64, user string) error {
	_, err := s.DeleteByKey(ctx, models.TablePayments, table.Record{models.FieldID: fmt.Sprint(id)}, user)
	return err
}

// RecordReceipt stores a receipt that is not a student payment.
func (s *Service) RecordReceipt(ctx context.Context, r models.Receipt, user string) (models.Receipt, error) {
	var err error
	if r.PaymentCategory, err = required("receipt", models.FieldPaymentCategory, r.PaymentCategory); err != nil {
		return models.Receipt{}, err
	}
	if r.Date, err = dateOr("receipt", models.FieldDate, r.Date, s.today()); err != nil {
		return models.Receipt{}, err
	}
	r.User = user

	rec, err := table.EncodeRecord(r)
	if err != nil {
		return models.Receipt{}, err
	}
	stored, err := s.Append(ctx, models.TableOtherReceipts, rec, user)
	if err != nil {
		return models.Receipt{}, err
	}
	return decodeOne[models.Receipt](models.TableOtherReceipts, stored)
}

// OtherReceipts returns the manually entered receipts.
func (s *Service) OtherReceipts(ctx context.Context) ([]models.Receipt, error) {
	return table.Decode[models.Receipt](s.List(ctx, models.TableOtherReceipts))
}

// ReceiptLine is one incoming amount, whether a payment or another receipt.
type ReceiptLine struct {
	Date        string        `csv:"Date" json:"date" yaml:"date"`
	Type        string        `csv:"Type" json:"type" yaml:"type"`
	Description string        `csv:"Description" json:"description" yaml:"description"`
	ClassName   string        `csv:"ClassName" json:"class_name" yaml:"class_name"`
	StudentName string        `csv:"StudentName" json:"student_name" yaml:"student_name"`
	Amount      models.Amount `csv:"Amount" json:"amount" yaml:"amount"`
	Source      string        `csv:"Source" json:"source" yaml:"source"`
	User        string        `csv:"User" json:"user" yaml:"user"`
}

// Receipts merges payments and other receipts, sorted by date.
func (s *Service) Receipts(ctx context.Context) ([]ReceiptLine, error) {
	payments, err := s.Payments(ctx)
	if err != nil {
		return nil, err
	}
	others, err := s.OtherReceipts(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]ReceiptLine, 0, len(payments)+len(others))
	for _, p := range payments {
		lines = append(lines, ReceiptLine{
			Date:        p.PaymentDate,
			Type:        p.PaymentCategory,
			Description: fmt.Sprintf("Payment #%d", p.ID),
			ClassName:   p.ClassName,
			StudentName: p.StudentName,
			Amount:      p.Amount,
			Source:      models.SourcePayment,
		})
	}
	for _, r := range others {
		lines = append(lines, ReceiptLine{
			Date:        r.Date,
			Type:        r.PaymentCategory,
			Description: r.Description,
			ClassName:   r.ClassName,
			StudentName: r.StudentName,
			Amount:      r.Amount,
			Source:      models.SourceReceipt,
			User:        r.User,
		})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Date < lines[j].Date })
	return lines, nil
}
