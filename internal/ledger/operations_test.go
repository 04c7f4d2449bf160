package ledger

import (
	"context"
	"testing"

	"fjacquet/caisse/internal/ledgererror"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, store.NewMemory())

	_, err := svc.AddStudents(ctx, "L1A", []string{"Bob", "Alice", "Bob"}, "admin")
	require.NoError(t, err)
	_, err = svc.AddStudents(ctx, "L2", []string{"Zoé"}, "admin")
	require.NoError(t, err)

	assert.Equal(t, []string{"Alice", "Bob"}, svc.Students(ctx, " l1a "))
	assert.Equal(t, []string{"L1A", "L2"}, svc.Classes(ctx))
	assert.True(t, svc.IsEnrolled(ctx, "L2", "zoe"))

	_, err = svc.AddStudents(ctx, "", []string{"X"}, "admin")
	assert.True(t, ledgererror.IsValidation(err))
	_, err = svc.AddStudents(ctx, "L1A", []string{" "}, "admin")
	assert.True(t, ledgererror.IsValidation(err))
}

func TestRenameStudentMovesComment(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, store.NewMemory())
	seedRoster(t, svc)
	_, err := svc.SetComment(ctx, "L1A", "Alice", "Good", "mdupont")
	require.NoError(t, err)

	require.NoError(t, svc.RenameStudent(ctx, "L1A", "alice", "Alicia", "admin"))
	assert.Equal(t, []string{"Alicia", "Bob"}, svc.Students(ctx, "L1A"))
	c, ok := svc.CommentFor(ctx, "L1A", "Alicia")
	require.True(t, ok)
	assert.Equal(t, "Good", c.Text)

	assert.True(t, ledgererror.IsNotFound(svc.RenameStudent(ctx, "L1A", "Nobody", "X", "admin")))
	assert.True(t, ledgererror.IsAlreadyExists(svc.RenameStudent(ctx, "L1A", "Alicia", "Bob", "admin")))
}

func TestRenameStudentFoldsDuplicateMemberships(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, store.NewMemory())

	_, err := svc.AddStudents(ctx, "L1A", []string{"Alice"}, "admin")
	require.NoError(t, err)
	_, err = svc.AddStudents(ctx, "L1A", []string{"Alice", "Bob"}, "admin")
	require.NoError(t, err)
	require.Equal(t, 3, svc.List(ctx, models.TableClasses).Len(), "appends keep the repeat")

	require.NoError(t, svc.RenameStudent(ctx, "L1A", "Alice", "Alicia", "admin"))

	rows := svc.List(ctx, models.TableClasses)
	assert.Equal(t, []string{"Alicia", "Bob"}, rows.Column(models.FieldStudentName))
	assert.Equal(t, []string{"Alicia", "Bob"}, svc.Students(ctx, "L1A"))
	assert.False(t, svc.IsEnrolled(ctx, "L1A", "Alice"))
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, store.NewMemory())
	seedRoster(t, svc)

	p, err := svc.RecordPayment(ctx, models.Payment{
		ClassName: "L1A", StudentName: "alice", PaymentCategory: "tuition", Amount: models.AmountFromInt(50),
	}, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Tuition", p.PaymentCategory, "stored with the canonical category spelling")
	assert.Equal(t, "2024-03-01", p.PaymentDate)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(50)))

	p2, err := svc.RecordPayment(ctx, models.Payment{
		ClassName: "L1A", StudentName: "Bob", PaymentCategory: "Tuition", Amount: models.AmountFromInt(20), PaymentDate: "05/03/2024",
	}, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(2), p2.ID)
	assert.Equal(t, "2024-03-05", p2.PaymentDate)

	tests := []struct {
		name    string
		payment models.Payment
		field   string
	}{
		{"not enrolled", models.Payment{ClassName: "L1A", StudentName: "Eve", PaymentCategory: "Tuition", Amount: models.AmountFromInt(1)}, "StudentName"},
		{"unknown category", models.Payment{ClassName: "L1A", StudentName: "Bob", PaymentCategory: "Bus", Amount: models.AmountFromInt(1)}, "PaymentCategory"},
		{"zero amount", models.Payment{ClassName: "L1A", StudentName: "Bob", PaymentCategory: "Tuition"}, "Amount"},
		{"bad date", models.Payment{ClassName: "L1A", StudentName: "Bob", PaymentCategory: "Tuition", Amount: models.AmountFromInt(1), PaymentDate: "soon"}, "PaymentDate"},
		{"missing class", models.Payment{StudentName: "Bob"}, "ClassName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordPayment(ctx, tt.payment, "admin")
			var verr *ledgererror.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	require.NoError(t, svc.CorrectPayment(ctx, 2, models.AmountFromInt(25), "admin"))
	payments, err := svc.Payments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "25", payments[1].Amount.String())

	require.NoError(t, svc.DeletePayment(ctx, 1, "admin"))
	payments, err = svc.Payments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "Bob", payments[0].StudentName)
}

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount("payment", "Amount", "1'250,50")
	require.NoError(t, err)
	assert.Equal(t, "1250.5", a.String())

	_, err = ParseAmount("payment", "Amount", "-5")
	var verr *ledgererror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Amount", verr.Field)
	assert.Contains(t, err.Error(), "greater than zero")
}

func TestExamExpense(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, store.NewMemory())
	require.NoError(t, svc.AddCourse(ctx, "L1A", "Algebra", "admin"))
	assert.True(t, ledgererror.IsAlreadyExists(svc.AddCourse(ctx, "l1a", "ALGEBRA", "admin")))
	require.NoError(t, svc.AddCategory(ctx, ExpenseCategory, "Printing", "admin"))

	e, err := svc.RecordExamExpense(ctx, models.Expense{
		ClassName: "L1A", CourseName: "algebra", ExamDate: "2024-06-10", ExpenseCategory: "printing",
		Description: "Exam copies", Amount: models.AmountFromInt(30),
	}, "", "cashier")
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.ID)
	assert.Equal(t, "Algebra", e.CourseName)
	assert.Equal(t, "Printing", e.ExpenseCategory)
	assert.Equal(t, models.ExpenseTypeExam, e.ExpenseType)
	assert.Equal(t, "cashier", e.User)
	assert.Equal(t, "2024-03-01", e.ExpenseDate)
	assert.True(t, e.IsExam())

	other, err := svc.RecordExamExpense(ctx, models.Expense{
		ClassName: "L1A", CourseName: "Algebra", ExamDate: "2024-06-10", ExpenseCategory: "Other",
		Amount: models.AmountFromInt(5),
	}, "Snacks for proctors", "cashier")
	require.NoError(t, err)
	assert.Equal(t, "Snacks for proctors", other.ExpenseCategory)

	tests := []struct {
		name    string
		expense models.Expense
		custom  string
		field   string
	}{
		{"course of another class", models.Expense{ClassName: "L2", CourseName: "Algebra", ExamDate: "2024-06-10", ExpenseCategory: "Printing", Amount: models.AmountFromInt(1)}, "", "CourseName"},
		{"no exam date", models.Expense{ClassName: "L1A", CourseName: "Algebra", ExpenseCategory: "Printing", Amount: models.AmountFromInt(1)}, "", "ExamDate"},
		{"other without custom", models.Expense{ClassName: "L1A", CourseName: "Algebra", ExamDate: "2024-06-10", ExpenseCategory: "other", Amount: models.AmountFromInt(1)}, "", "ExpenseCategory"},
		{"unknown category", models.Expense{ClassName: "L1A", CourseName: "Algebra", ExamDate: "2024-06-10", ExpenseCategory: "Travel", Amount: models.AmountFromInt(1)}, "", "ExpenseCategory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordExamExpense(ctx, tt.expense, tt.custom, "cashier")
			var verr *ledgererror.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	general, err := svc.RecordExpense(ctx, models.Expense{
		CourseName: "ignored", ExpenseCategory: "Printing", Amount: models.AmountFromInt(12),
	}, "", "cashier")
	require.NoError(t, err)
	assert.Equal(t, int64(3), general.ID)
	assert.False(t, general.IsExam())
	assert.Equal(t, models.ExpenseTypeGeneral, general.ExpenseType)
}

func TestWorkExpense(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, store.NewMemory())
	seedRoster(t, svc)

	w, err := svc.RecordWorkExpense(ctx, models.WorkExpense{
		ClassName: "L1A", StudentName: "Alice", WorkCategory: "thesis", ExpenseType: "mentoring fee",
		Amount: models.AmountFromInt(40),
	}, "cashier")
	require.NoError(t, err)
	assert.Equal(t, models.WorkThesis, w.WorkCategory)
	assert.Equal(t, models.ExpenseMentoring, w.ExpenseType)

	_, err = svc.RecordWorkExpense(ctx, models.WorkExpense{
		ClassName: "L1A", StudentName: "Alice", WorkCategory: "Internship", ExpenseType: "Mentoring fee",
		Amount: models.AmountFromInt(40),
	}, "cashier")
	var verr *ledgererror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ExpenseType", verr.Field)
	assert.Contains(t, err.Error(), models.ExpenseInternshipReview)

	_, err = svc.RecordWorkExpense(ctx, models.WorkExpense{
		ClassName: "L1A", StudentName: "Alice", WorkCategory: "Holiday", ExpenseType: "x", Amount: models.AmountFromInt(1),
	}, "cashier")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "WorkCategory", verr.Field)

	all, err := svc.WorkExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFees(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, store.NewMemory())
	seedRoster(t, svc)

	fp, err := svc.PayFee(ctx, RegistrationFee, "L1A", "Alice", "first SEMESTER", "cashier")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationFirstSemester, fp.FeeType)
	assert.Equal(t, models.StatusPaid, fp.PaymentStatus)
	assert.Equal(t, "10", fp.Amount.String())

	_, err = svc.PayFee(ctx, RegistrationFee, "L1A", "alice", "First semester", "cashier")
	assert.True(t, ledgererror.IsAlreadyExists(err))

	thesis, err := svc.PayFee(ctx, WorkFee, "L1A", "Bob", "Thesis", "cashier")
	require.NoError(t, err)
	assert.Equal(t, "150", thesis.Amount.String())

	_, err = svc.PayFee(ctx, WorkFee, "L1A", "Bob", "Holiday", "cashier")
	assert.True(t, ledgererror.IsValidation(err))
	_, err = svc.PayFee(ctx, RegistrationFee, "L1A", "Eve", "Resit", "cashier")
	assert.True(t, ledgererror.IsValidation(err))

	assert.Equal(t, models.StatusPaid, svc.FeeStatus(ctx, RegistrationFee, "L1A", "Alice", models.RegistrationFirstSemester))
	assert.Equal(t, models.StatusUnpaid, svc.FeeStatus(ctx, RegistrationFee, "L1A", "Bob", models.RegistrationFirstSemester))

	summary, err := svc.SummarizeFees(ctx, RegistrationFee, "L1A", "First semester")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Paid)
	assert.Equal(t, 1, summary.Unpaid)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(10)))
	require.Len(t, summary.Students, 2)
	assert.Equal(t, "Alice", summary.Students[0].StudentName)
	assert.Equal(t, models.StatusPaid, summary.Students[0].Status)
	assert.Equal(t, models.StatusUnpaid, summary.Students[1].Status)

	_, err = svc.SummarizeFees(ctx, WorkFee, "L1A", "Resit")
	assert.True(t, ledgererror.IsValidation(err))
}

func TestFeeAmountsFollowSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.RegistrationFee = decimal.NewFromInt(15)
	svc := New(store.New(store.NewMemory(), nil), nil, WithSettings(settings))
	assert.Equal(t, "15", svc.FeeAmount(RegistrationFee, models.RegistrationResit).String())
	assert.Equal(t, "10", svc.FeeAmount(WorkFee, models.WorkInternship).String())
}

func TestReceipts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, store.NewMemory())
	seedRoster(t, svc)

	_, err := svc.RecordPayment(ctx, models.Payment{
		ClassName: "L1A", StudentName: "Alice", PaymentCategory: "Tuition", Amount: models.AmountFromInt(50), PaymentDate: "2024-03-02",
	}, "admin")
	require.NoError(t, err)
	r, err := svc.RecordReceipt(ctx, models.Receipt{
		Date: "2024-03-01", PaymentCategory: "Donation", Amount: models.AmountFromInt(100), Description: "Alumni gift",
	}, "cashier")
	require.NoError(t, err)
	assert.Equal(t, "cashier", r.User)

	_, err = svc.RecordReceipt(ctx, models.Receipt{PaymentCategory: "Donation"}, "cashier")
	assert.True(t, ledgererror.IsValidation(err))

	lines, err := svc.Receipts(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, models.SourceReceipt, lines[0].Source)
	assert.Equal(t, "Alumni gift", lines[0].Description)
	assert.Equal(t, models.SourcePayment, lines[1].Source)
	assert.Equal(t, "Payment #1", lines[1].Description)
}

func TestParseKinds(t *testing.T) {
	k, err := ParseCategoryKind(" Expense ")
	require.NoError(t, err)
	assert.Equal(t, ExpenseCategory, k)
	_, err = ParseCategoryKind("income")
	assert.Error(t, err)

	f, err := ParseFeeKind("WORK")
	require.NoError(t, err)
	assert.Equal(t, WorkFee, f)
	_, err = ParseFeeKind("tuition")
	assert.Error(t, err)
}
