package models

import (
	"fjacquet/caisse/internal/table"
)

var schemaList = []table.Schema{
	{Name: TableClasses, Fields: []string{FieldClassName, FieldStudentName}},
	{Name: TableCourses, Fields: []string{FieldClassName, FieldCourseName}},
	{
		Name:    TablePayments,
		Fields:  []string{FieldID, FieldClassName, FieldStudentName, FieldPaymentCategory, FieldAmount, FieldPaymentDate},
		Numeric: []string{FieldAmount},
		IDField: FieldID,
	},
	{
		Name: TableExpenses,
		Fields: []string{FieldID, FieldClassName, FieldCourseName, "ExamDate", "ExpenseCategory", "Description",
			FieldAmount, "ExpenseType", FieldComment, FieldExpenseDate, "User"},
		Numeric: []string{FieldAmount},
		IDField: FieldID,
	},
	{
		Name: TableWorkExpenses,
		Fields: []string{FieldClassName, FieldStudentName, "WorkCategory", "ExpenseType", FieldAmount,
			FieldComment, FieldExpenseDate},
		Numeric: []string{FieldAmount},
	},
	{Name: TableComments, Fields: []string{FieldClassName, FieldStudentName, FieldComment, FieldAuthor, FieldDate}},
	{Name: TablePaymentCategories, Fields: []string{FieldCategory}, AccentInsensitive: []string{FieldCategory}},
	{Name: TableExpenseCategories, Fields: []string{FieldCategory}, AccentInsensitive: []string{FieldCategory}},
	{
		Name: TableOtherReceipts,
		Fields: []string{FieldDate, FieldClassName, FieldStudentName, FieldPaymentCategory, FieldAmount,
			"Description", "User"},
		Numeric: []string{FieldAmount},
	},
	{
		Name:    TableRegistrationFees,
		Fields:  []string{FieldClassName, FieldStudentName, FieldFeeType, FieldPaymentStatus, FieldAmount, FieldPaymentDate},
		Numeric: []string{FieldAmount},
	},
	{
		Name:    TableWorkFees,
		Fields:  []string{FieldClassName, FieldStudentName, FieldFeeType, FieldPaymentStatus, FieldAmount, FieldPaymentDate},
		Numeric: []string{FieldAmount},
	},
	{Name: TableUsers, Fields: []string{FieldUsername, FieldPasswordHash, FieldRole}},
	{Name: TableAuditLog, Fields: []string{FieldID, "Timestamp", "User", "Operation", "Table", "Detail"}},
}

var schemaIndex = func() map[string]table.Schema {
	m := make(map[string]table.Schema, len(schemaList))
	for _, s := range schemaList {
		m[s.Name] = s
	}
	return m
}()

// appendOnly tables receive new rows through the store's append path rather
// than a whole-table rewrite.
var appendOnly = map[string]bool{
	TablePayments:         true,
	TableOtherReceipts:    true,
	TableRegistrationFees: true,
	TableWorkFees:         true,
	TableAuditLog:         true,
}

// Schemas returns every table schema in initialisation order.
func Schemas() []table.Schema {
	return append([]table.Schema(nil), schemaList...)
}

// SchemaFor looks up the schema of a table.
func SchemaFor(name string) (table.Schema, bool) {
	s, ok := schemaIndex[name]
	return s, ok
}

// MustSchema is SchemaFor for names known at compile time.
func MustSchema(name string) table.Schema {
	s, ok := schemaIndex[name]
	if !ok {
		panic("models: unknown table " + name)
	}
	return s
}

// IsAppendOnly reports whether inserts into name use the append path.
func IsAppendOnly(name string) bool {
	return appendOnly[name]
}
