package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"fjacquet/caisse/internal/ledger"
	"fjacquet/caisse/internal/logging"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func seededLedger(t *testing.T) *ledger.Service {
	t.Helper()
	ctx := context.Background()
	logger := logging.NewMockLogger()
	svc := ledger.New(store.New(store.NewMemory(), logger), logger)
	require.NoError(t, svc.Init(ctx))

	_, err := svc.AddStudents(ctx, "L1A", []string{"Alice", "Bob"}, "admin")
	require.NoError(t, err)
	_, err = svc.AddStudents(ctx, "L2", []string{"Carl"}, "admin")
	require.NoError(t, err)
	require.NoError(t, svc.AddCategory(ctx, ledger.PaymentCategory, "Tuition", "admin"))
	require.NoError(t, svc.AddCategory(ctx, ledger.ExpenseCategory, "Printing", "admin"))
	require.NoError(t, svc.AddCourse(ctx, "L1A", "Algebra", "admin"))

	for _, p := range []models.Payment{
		{ClassName: "L1A", StudentName: "Alice", PaymentCategory: "Tuition", Amount: models.AmountFromInt(50)},
		{ClassName: "L1A", StudentName: "Bob", PaymentCategory: "Tuition", Amount: models.AmountFromInt(30)},
		{ClassName: "L2", StudentName: "Carl", PaymentCategory: "Tuition", Amount: models.AmountFromInt(20)},
	} {
		_, err := svc.RecordPayment(ctx, p, "cashier")
		require.NoError(t, err)
	}
	_, err = svc.RecordReceipt(ctx, models.Receipt{PaymentCategory: "Donation", Amount: models.AmountFromInt(100)}, "cashier")
	require.NoError(t, err)
	_, err = svc.RecordExamExpense(ctx, models.Expense{
		ClassName: "L1A", CourseName: "Algebra", ExamDate: "2024-06-10", ExpenseCategory: "Printing", Amount: models.AmountFromInt(15),
	}, "", "cashier")
	require.NoError(t, err)
	_, err = svc.RecordExpense(ctx, models.Expense{ExpenseCategory: "Printing", Amount: models.AmountFromInt(5)}, "", "cashier")
	require.NoError(t, err)
	_, err = svc.RecordWorkExpense(ctx, models.WorkExpense{
		ClassName: "L1A", StudentName: "Alice", WorkCategory: "Thesis", ExpenseType: "Mentoring fee", Amount: models.AmountFromInt(40),
	}, "cashier")
	require.NoError(t, err)
	_, err = svc.PayFee(ctx, ledger.RegistrationFee, "L1A", "Alice", "First semester", "cashier")
	require.NoError(t, err)
	return svc
}

func TestBuildDashboard(t *testing.T) {
	d, err := BuildDashboard(context.Background(), seededLedger(t), "USD")
	require.NoError(t, err)

	assert.Equal(t, "200", d.TotalReceipts.String())
	assert.Equal(t, "15", d.ExamExpenses.String())
	assert.Equal(t, "5", d.OtherExpenses.String())
	assert.Equal(t, "20", d.TotalExpenses.String())
	assert.Equal(t, "180", d.Balance.String())
	assert.Equal(t, "40", d.WorkExpenses.String())
	assert.Equal(t, "10", d.FeesCollected.String())

	require.Len(t, d.Classes, 2)
	assert.Equal(t, "L1A", d.Classes[0].ClassName)
	assert.Equal(t, 2, d.Classes[0].Students)
	assert.Equal(t, "80", d.Classes[0].Collected.String())
	assert.Equal(t, map[string]int{"Tuition": 2}, d.Classes[0].PayersByCategory)
	assert.Equal(t, "20", d.Classes[1].Collected.String())

	require.Len(t, d.Categories, 3)
	assert.Equal(t, CategoryTotal{Kind: KindReceipt, Category: "Donation", Count: 1, Total: d.Categories[0].Total}, d.Categories[0])
	assert.Equal(t, "100", d.Categories[0].Total.String())
	assert.Equal(t, "Tuition", d.Categories[1].Category)
	assert.Equal(t, 3, d.Categories[1].Count)
	assert.Equal(t, KindExpense, d.Categories[2].Kind)
	assert.Equal(t, "20", d.Categories[2].Total.String())
}

func TestBuildDashboard_Empty(t *testing.T) {
	logger := logging.NewMockLogger()
	svc := ledger.New(store.New(store.NewMemory(), logger), logger)
	d, err := BuildDashboard(context.Background(), svc, "USD")
	require.NoError(t, err)
	assert.True(t, d.Balance.IsZero())
	assert.Empty(t, d.Classes)
	assert.NotNil(t, d.Categories)
}

func TestGenerator_JSON(t *testing.T) {
	d, err := BuildDashboard(context.Background(), seededLedger(t), "USD")
	require.NoError(t, err)

	out, err := NewGenerator(logging.NewMockLogger()).GenerateDashboard(d, "json")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "USD", decoded["currency"])
	assert.Equal(t, "180", fmt.Sprint(decoded["balance"]))
	assert.Len(t, decoded["classes"], 2)
}

func TestGenerator_YAML(t *testing.T) {
	d, err := BuildDashboard(context.Background(), seededLedger(t), "USD")
	require.NoError(t, err)

	out, err := NewGenerator(logging.NewMockLogger()).GenerateDashboard(d, "YML")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "180", fmt.Sprint(decoded["balance"]))
	assert.Equal(t, "USD", decoded["currency"])
}

func TestGenerator_CSV(t *testing.T) {
	ctx := context.Background()
	svc := seededLedger(t)
	g := NewGenerator(logging.NewMockLogger())

	d, err := BuildDashboard(ctx, svc, "USD")
	require.NoError(t, err)
	out, err := g.GenerateDashboard(d, "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Equal(t, "Section,Label,Amount,Count", lines[0])
	assert.Equal(t, "totals,receipts,200.00,", lines[1])
	assert.Contains(t, lines, "class,L1A,80.00,2")

	payments, err := svc.Payments(ctx)
	require.NoError(t, err)
	out, err = g.Generate(payments, "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "ID,ClassName,StudentName,PaymentCategory,Amount,PaymentDate\n"))
	assert.Contains(t, string(out), "1,L1A,Alice,Tuition,50,")
}

func TestGenerator_Errors(t *testing.T) {
	logger := logging.NewMockLogger()
	g := NewGenerator(logger)

	_, err := g.Generate(map[string]int{}, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format: xml")

	_, err = g.Generate(struct{ A int }{1}, "csv")
	assert.Error(t, err)
	assert.True(t, logger.HasEntry("ERROR", "Failed to marshal CSV report"))
}

func TestUsersExportOmitsHash(t *testing.T) {
	users := []models.User{{Username: "admin", PasswordHash: "$2a$secret", Role: models.RoleAdmin}}
	g := NewGenerator(logging.NewMockLogger())
	for _, format := range []string{FormatJSON, FormatYAML} {
		out, err := g.Generate(users, format)
		require.NoError(t, err)
		assert.NotContains(t, string(out), "secret", format)
	}
}
