package models

// Table names as they appear in the backing store.
const (
	TableClasses           = "Classes"
	TableCourses           = "Courses"
	TablePayments          = "Payments"
	TableExpenses          = "Expenses"
	TableWorkExpenses      = "WorkExpenses"
	TableComments          = "Comments"
	TablePaymentCategories = "PaymentCategories"
	TableExpenseCategories = "ExpenseCategories"
	TableOtherReceipts     = "OtherReceipts"
	TableRegistrationFees  = "RegistrationFees"
	TableWorkFees          = "WorkFees"
	TableUsers             = "Users"
	TableAuditLog          = "AuditLog"
)

// Column names shared by several tables.
const (
	FieldID              = "ID"
	FieldClassName       = "ClassName"
	FieldStudentName     = "StudentName"
	FieldCourseName      = "CourseName"
	FieldAmount          = "Amount"
	FieldDate            = "Date"
	FieldComment         = "Comment"
	FieldAuthor          = "Author"
	FieldCategory        = "Categorie"
	FieldPaymentCategory = "PaymentCategory"
	FieldPaymentDate     = "PaymentDate"
	FieldFeeType         = "FeeType"
	FieldPaymentStatus   = "PaymentStatus"
	FieldExpenseDate     = "ExpenseDate"
	FieldUsername        = "username"
	FieldPasswordHash    = "password_hash"
	FieldRole            = "role"
)

// Fee payment statuses
const (
	StatusPaid   = "Paid"
	StatusUnpaid = "Unpaid"
)

// Registration fee types
const (
	RegistrationFirstSemester  = "First semester"
	RegistrationSecondSemester = "Second semester"
	RegistrationResit          = "Resit"
)

// RegistrationTypes lists the registration fee types in display order.
func RegistrationTypes() []string {
	return []string{RegistrationFirstSemester, RegistrationSecondSemester, RegistrationResit}
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Expense classification
const (
	ExpenseTypeExam    = "Exam"
	ExpenseTypeGeneral = "General"
	// CategoryOther asks the caller for a free-text category instead.
	CategoryOther = "Other"
)

// Receipt line sources
const (
	SourcePayment = "Payment"
	SourceReceipt = "Other receipt"
)

// File permissions
const (
	PermissionDirectory = 0750
	PermissionDataFile  = 0644
)
