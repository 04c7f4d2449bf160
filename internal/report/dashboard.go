// Package report aggregates ledger records into summaries and renders them
// as JSON, YAML or CSV.
package report

import (
	"context"
	"sort"
	"strings"

	"fjacquet/caisse/internal/ledger"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/textutils"

	"github.com/shopspring/decimal"
)

// Source is the part of the record service the dashboard reads.
type Source interface {
	Payments(ctx context.Context) ([]models.Payment, error)
	OtherReceipts(ctx context.Context) ([]models.Receipt, error)
	Expenses(ctx context.Context) ([]models.Expense, error)
	WorkExpenses(ctx context.Context) ([]models.WorkExpense, error)
	FeePayments(ctx context.Context, kind ledger.FeeKind) ([]models.FeePayment, error)
	Classes(ctx context.Context) []string
	Students(ctx context.Context, class string) []string
}

// Dashboard is the cash position of the school.
type Dashboard struct {
	Currency      string          `json:"currency" yaml:"currency"`
	TotalReceipts decimal.Decimal `json:"total_receipts" yaml:"total_receipts"`
	TotalExpenses decimal.Decimal `json:"total_expenses" yaml:"total_expenses"`
	ExamExpenses  decimal.Decimal `json:"exam_expenses" yaml:"exam_expenses"`
	OtherExpenses decimal.Decimal `json:"other_expenses" yaml:"other_expenses"`
	Balance       decimal.Decimal `json:"balance" yaml:"balance"`
	WorkExpenses  decimal.Decimal `json:"work_expenses" yaml:"work_expenses"`
	FeesCollected decimal.Decimal `json:"fees_collected" yaml:"fees_collected"`
	Classes       []ClassSummary  `json:"classes" yaml:"classes"`
	Categories    []CategoryTotal `json:"categories" yaml:"categories"`
}

// ClassSummary is what one class has paid. PayersByCategory counts
// distinct students per payment category.
type ClassSummary struct {
	ClassName        string          `json:"class_name" yaml:"class_name"`
	Students         int             `json:"students" yaml:"students"`
	Collected        decimal.Decimal `json:"collected" yaml:"collected"`
	PayersByCategory map[string]int  `json:"payers_by_category" yaml:"payers_by_category"`
}

// CategoryTotal sums one receipt or expense category.
type CategoryTotal struct {
	Kind     string          `json:"kind" yaml:"kind"`
	Category string          `json:"category" yaml:"category"`
	Count    int             `json:"count" yaml:"count"`
	Total    decimal.Decimal `json:"total" yaml:"total"`
}

// Category kinds in a breakdown
const (
	KindReceipt = "receipt"
	KindExpense = "expense"
)

// BuildDashboard reads every money table once and aggregates them. The
// balance is receipts (payments plus other receipts) minus expenses; work
// expenses and fees are reported beside it.
func BuildDashboard(ctx context.Context, src Source, currency string) (*Dashboard, error) {
	payments, err := src.Payments(ctx)
	if err != nil {
		return nil, err
	}
	others, err := src.OtherReceipts(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := src.Expenses(ctx)
	if err != nil {
		return nil, err
	}
	work, err := src.WorkExpenses(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Currency:      currency,
		TotalReceipts: decimal.Zero,
		ExamExpenses:  decimal.Zero,
		OtherExpenses: decimal.Zero,
		WorkExpenses:  decimal.Zero,
		FeesCollected: decimal.Zero,
	}
	breakdown := newBreakdown()

	for _, p := range payments {
		d.TotalReceipts = d.TotalReceipts.Add(p.Amount.Decimal)
		breakdown.add(KindReceipt, p.PaymentCategory, p.Amount.Decimal)
	}
	for _, r := range others {
		d.TotalReceipts = d.TotalReceipts.Add(r.Amount.Decimal)
		breakdown.add(KindReceipt, r.PaymentCategory, r.Amount.Decimal)
	}
	for _, e := range expenses {
		if e.IsExam() {
			d.ExamExpenses = d.ExamExpenses.Add(e.Amount.Decimal)
		} else {
			d.OtherExpenses = d.OtherExpenses.Add(e.Amount.Decimal)
		}
		breakdown.add(KindExpense, e.ExpenseCategory, e.Amount.Decimal)
	}
	for _, w := range work {
		d.WorkExpenses = d.WorkExpenses.Add(w.Amount.Decimal)
	}
	for _, kind := range []ledger.FeeKind{ledger.RegistrationFee, ledger.WorkFee} {
		fees, err := src.FeePayments(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, f := range fees {
			if f.PaymentStatus == models.StatusPaid {
				d.FeesCollected = d.FeesCollected.Add(f.Amount.Decimal)
			}
		}
	}

	d.TotalExpenses = d.ExamExpenses.Add(d.OtherExpenses)
	d.Balance = d.TotalReceipts.Sub(d.TotalExpenses)
	d.Classes = summarizeClasses(ctx, src, payments, others)
	d.Categories = breakdown.totals()
	return d, nil
}

func summarizeClasses(ctx context.Context, src Source, payments []models.Payment, others []models.Receipt) []ClassSummary {
	classes := src.Classes(ctx)
	out := make([]ClassSummary, 0, len(classes))
	for _, class := range classes {
		cs := ClassSummary{
			ClassName:        class,
			Students:         len(src.Students(ctx, class)),
			Collected:        decimal.Zero,
			PayersByCategory: map[string]int{},
		}
		payers := map[string]map[string]bool{}
		count := func(category, student string, amount decimal.Decimal) {
			cs.Collected = cs.Collected.Add(amount)
			if category == "" || student == "" {
				return
			}
			if payers[category] == nil {
				payers[category] = map[string]bool{}
			}
			payers[category][textutils.Normalize(student)] = true
		}
		for _, p := range payments {
			if textutils.Equal(p.ClassName, class) {
				count(p.PaymentCategory, p.StudentName, p.Amount.Decimal)
			}
		}
		for _, r := range others {
			if textutils.Equal(r.ClassName, class) {
				count(r.PaymentCategory, r.StudentName, r.Amount.Decimal)
			}
		}
		for category, students := range payers {
			cs.PayersByCategory[category] = len(students)
		}
		out = append(out, cs)
	}
	return out
}

type breakdown struct {
	index map[string]int
	rows  []CategoryTotal
}

func newBreakdown() *breakdown {
	return &breakdown{index: map[string]int{}}
}

func (b *breakdown) add(kind, category string, amount decimal.Decimal) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = models.CategoryOther
	}
	key := kind + "\x00" + textutils.Normalize(category)
	i, ok := b.index[key]
	if !ok {
		i = len(b.rows)
		b.index[key] = i
		b.rows = append(b.rows, CategoryTotal{Kind: kind, Category: category, Total: decimal.Zero})
	}
	b.rows[i].Count++
	b.rows[i].Total = b.rows[i].Total.Add(amount)
}

// totals sorts receipts before expenses, then by category name.
func (b *breakdown) totals() []CategoryTotal {
	out := make([]CategoryTotal, len(b.rows))
	copy(out, b.rows)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind == KindReceipt
		}
		return textutils.Normalize(out[i].Category) < textutils.Normalize(out[j].Category)
	})
	return out
}

// Line is one flattened dashboard figure, used for CSV export.
type Line struct {
	Section string `csv:"Section"`
	Label   string `csv:"Label"`
	Amount  string `csv:"Amount"`
	Count   string `csv:"Count"`
}

// Lines flattens the dashboard into rows.
func (d *Dashboard) Lines() []Line {
	fixed := func(v decimal.Decimal) string { return v.StringFixed(2) }
	lines := []Line{
		{Section: "totals", Label: "receipts", Amount: fixed(d.TotalReceipts)},
		{Section: "totals", Label: "exam expenses", Amount: fixed(d.ExamExpenses)},
		{Section: "totals", Label: "other expenses", Amount: fixed(d.OtherExpenses)},
		{Section: "totals", Label: "expenses", Amount: fixed(d.TotalExpenses)},
		{Section: "totals", Label: "balance", Amount: fixed(d.Balance)},
		{Section: "totals", Label: "work expenses", Amount: fixed(d.WorkExpenses)},
		{Section: "totals", Label: "fees collected", Amount: fixed(d.FeesCollected)},
	}
	for _, c := range d.Classes {
		lines = append(lines, Line{Section: "class", Label: c.ClassName, Amount: fixed(c.Collected), Count: itoa(c.Students)})
	}
	for _, c := range d.Categories {
		lines = append(lines, Line{Section: c.Kind, Label: c.Category, Amount: fixed(c.Total), Count: itoa(c.Count)})
	}
	return lines
}
