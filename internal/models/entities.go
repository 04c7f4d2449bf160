// Package models defines one typed record per ledger table together with the
// schema registry that maps table names to their required columns.
package models

// Class is one (class, student) membership.
type Class struct {
	ClassName   string `csv:"ClassName" json:"class_name" yaml:"class_name"`
	StudentName string `csv:"StudentName" json:"student_name" yaml:"student_name"`
}

// Course is a course offered to a class.
type Course struct {
	ClassName  string `csv:"ClassName" json:"class_name" yaml:"class_name"`
	CourseName string `csv:"CourseName" json:"course_name" yaml:"course_name"`
}

// Payment is a student payment against a payment category.
type Payment struct {
	ID              int64  `csv:"ID" json:"id" yaml:"id"`
	ClassName       string `csv:"ClassName" json:"class_name" yaml:"class_name"`
	StudentName     string `csv:"StudentName" json:"student_name" yaml:"student_name"`
	PaymentCategory string `csv:"PaymentCategory" json:"payment_category" yaml:"payment_category"`
	Amount          Amount `csv:"Amount" json:"amount" yaml:"amount"`
	PaymentDate     string `csv:"PaymentDate" json:"payment_date" yaml:"payment_date"`
}

// Expense is money spent, either for an exam (CourseName set) or in general.
type Expense struct {
	ID              int64  `csv:"ID" json:"id" yaml:"id"`
	ClassName       string `csv:"ClassName" json:"class_name" yaml:"class_name"`
	CourseName      string `csv:"CourseName" json:"course_name" yaml:"course_name"`
	ExamDate        string `csv:"ExamDate" json:"exam_date" yaml:"exam_date"`
	ExpenseCategory string `csv:"ExpenseCategory" json:"expense_category" yaml:"expense_category"`
	Description     string `csv:"Description" json:"description" yaml:"description"`
	Amount          Amount `csv:"Amount" json:"amount" yaml:"amount"`
	ExpenseType     string `csv:"ExpenseType" json:"expense_type" yaml:"expense_type"`
	Comment         string `csv:"Comment" json:"comment" yaml:"comment"`
	ExpenseDate     string `csv:"ExpenseDate" json:"expense_date" yaml:"expense_date"`
	User            string `csv:"User" json:"user" yaml:"user"`
}

// IsExam reports whether the expense is tied to a course exam.
func (e Expense) IsExam() bool {
	return e.CourseName != ""
}

// WorkExpense is an expense tied to a student's thesis, internship or
// tutored project.
type WorkExpense struct {
	ClassName    string `csv:"ClassName" json:"class_name" yaml:"class_name"`
	StudentName  string `csv:"StudentName" json:"student_name" yaml:"student_name"`
	WorkCategory string `csv:"WorkCategory" json:"work_category" yaml:"work_category"`
	ExpenseType  string `csv:"ExpenseType" json:"expense_type" yaml:"expense_type"`
	Amount       Amount `csv:"Amount" json:"amount" yaml:"amount"`
	Comment      string `csv:"Comment" json:"comment" yaml:"comment"`
	ExpenseDate  string `csv:"ExpenseDate" json:"expense_date" yaml:"expense_date"`
}

// Comment is the single remark kept per student.
type Comment struct {
	ClassName   string `csv:"ClassName" json:"class_name" yaml:"class_name"`
	StudentName string `csv:"StudentName" json:"student_name" yaml:"student_name"`
	Text        string `csv:"Comment" json:"comment" yaml:"comment"`
	Author      string `csv:"Author" json:"author" yaml:"author"`
	Date        string `csv:"Date" json:"date" yaml:"date"`
}

// Category is one allowed payment or expense category.
type Category struct {
	Name string `csv:"Categorie" json:"name" yaml:"name"`
}

// Receipt is a manually entered receipt outside regular payments.
type Receipt struct {
	Date            string `csv:"Date" json:"date" yaml:"date"`
	ClassName       string `csv:"ClassName" json:"class_name" yaml:"class_name"`
	StudentName     string `csv:"StudentName" json:"student_name" yaml:"student_name"`
	PaymentCategory string `csv:"PaymentCategory" json:"payment_category" yaml:"payment_category"`
	Amount          Amount `csv:"Amount" json:"amount" yaml:"amount"`
	Description     string `csv:"Description" json:"description" yaml:"description"`
	User            string `csv:"User" json:"user" yaml:"user"`
}

// FeePayment records a registration or work fee settled by a student.
type FeePayment struct {
	ClassName     string `csv:"ClassName" json:"class_name" yaml:"class_name"`
	StudentName   string `csv:"StudentName" json:"student_name" yaml:"student_name"`
	FeeType       string `csv:"FeeType" json:"fee_type" yaml:"fee_type"`
	PaymentStatus string `csv:"PaymentStatus" json:"payment_status" yaml:"payment_status"`
	Amount        Amount `csv:"Amount" json:"amount" yaml:"amount"`
	PaymentDate   string `csv:"PaymentDate" json:"payment_date" yaml:"payment_date"`
}

// User is a stored account. The hash never leaves the auth package in
// exports.
type User struct {
	Username     string `csv:"username" json:"username" yaml:"username"`
	PasswordHash string `csv:"password_hash" json:"-" yaml:"-"`
	Role         string `csv:"role" json:"role" yaml:"role"`
}

// AuditEntry is one line of the cash journal.
type AuditEntry struct {
	ID        string `csv:"ID" json:"id" yaml:"id"`
	Timestamp string `csv:"Timestamp" json:"timestamp" yaml:"timestamp"`
	User      string `csv:"User" json:"user" yaml:"user"`
	Operation string `csv:"Operation" json:"operation" yaml:"operation"`
	Table     string `csv:"Table" json:"table" yaml:"table"`
	Detail    string `csv:"Detail" json:"detail" yaml:"detail"`
}
