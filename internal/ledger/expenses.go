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

// RecordExamExpense stores an expense for a course exam. The course must
// belong to the class and an exam date is required. Choosing the "Other"
// category requires customCategory, which is stored in its place.
func (s *Service) RecordExamExpense(ctx context.Context, e models.Expense, customCategory, user string) (models.Expense, error) {
	var err error
	if e.ClassName, err = required("expense", models.FieldClassName, e.ClassName); err != nil {
		return models.Expense{}, err
	}
	if e.CourseName, err = required("expense", models.FieldCourseName, e.CourseName); err != nil {
		return models.Expense{}, err
	}
	course, ok := lookupFold(s.CoursesFor(ctx, e.ClassName), e.CourseName)
	if !ok {
		return models.Expense{}, ledgererror.Invalid("expense", models.FieldCourseName, e.CourseName,
			"is not a course of class "+e.ClassName)
	}
	e.CourseName = course
	if strings.TrimSpace(e.ExamDate) == "" {
		return models.Expense{}, ledgererror.Invalid("expense", "ExamDate", "", "is required")
	}
	if e.ExamDate, err = dateOr("expense", "ExamDate", e.ExamDate, ""); err != nil {
		return models.Expense{}, err
	}
	e.ExpenseType = models.ExpenseTypeExam
	return s.recordExpense(ctx, e, customCategory, user)
}

// RecordExpense stores a general expense, not tied to a course.
func (s *Service) RecordExpense(ctx context.Context, e models.Expense, customCategory, user string) (models.Expense, error) {
	e.CourseName = ""
	e.ExamDate = ""
	e.ExpenseType = models.ExpenseTypeGeneral
	return s.recordExpense(ctx, e, customCategory, user)
}

func (s *Service) recordExpense(ctx context.Context, e models.Expense, customCategory, user string) (models.Expense, error) {
	category, err := s.expenseCategory(ctx, e.ExpenseCategory, customCategory)
	if err != nil {
		return models.Expense{}, err
	}
	e.ExpenseCategory = category
	e.ExpenseDate = s.today()
	e.User = user

	rec, err := table.EncodeRecord(e)
	if err != nil {
		return models.Expense{}, err
	}
	delete(rec, models.FieldID)
	stored, err := s.Append(ctx, models.TableExpenses, rec, user)
	if err != nil {
		return models.Expense{}, err
	}
	return decodeOne[models.Expense](models.TableExpenses, stored)
}

func (s *Service) expenseCategory(ctx context.Context, category, custom string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", ledgererror.Invalid("expense", "ExpenseCategory", category, "is required")
	}
	if textutils.Equal(category, models.CategoryOther) {
		custom = strings.TrimSpace(custom)
		if custom == "" {
			return "", ledgererror.Invalid("expense", "ExpenseCategory", category, "needs a custom category")
		}
		return custom, nil
	}
	canonical, ok := s.CanonicalCategory(ctx, ExpenseCategory, category)
	if !ok {
		return "", ledgererror.Invalid("expense", "ExpenseCategory", category, "is not a known expense category")
	}
	return canonical, nil
}

// Expenses returns every expense in stored order.
func (s *Service) Expenses(ctx context.Context) ([]models.Expense, error) {
	return table.Decode[models.Expense](s.List(ctx, models.TableExpenses))
}

// DeleteExpense removes expense id.
func (s *Service) DeleteExpense(ctx context.Context, id int64, user string) error {
	_, err := s.DeleteByKey(ctx, models.TableExpenses, table.Record{models.FieldID: fmt.Sprint(id)}, user)
	return err
}

// RecordWorkExpense stores an expense tied to a student's work. Category
// and expense type come from a closed list.
func (s *Service) RecordWorkExpense(ctx context.Context, w models.WorkExpense, user string) (models.WorkExpense, error) {
	var err error
	if w.ClassName, err = required("work expense", models.FieldClassName, w.ClassName); err != nil {
		return models.WorkExpense{}, err
	}
	if w.StudentName, err = required("work expense", models.FieldStudentName, w.StudentName); err != nil {
		return models.WorkExpense{}, err
	}
	if !s.IsEnrolled(ctx, w.ClassName, w.StudentName) {
		return models.WorkExpense{}, ledgererror.Invalid("work expense", models.FieldStudentName, w.StudentName,
			"is not enrolled in class "+w.ClassName)
	}
	if _, ok := models.CanonicalWorkCategory(w.WorkCategory); !ok {
		return models.WorkExpense{}, ledgererror.Invalid("work expense", "WorkCategory", w.WorkCategory,
			"must be one of "+strings.Join(models.WorkCategories(), ", "))
	}
	category, expenseType, ok := models.CanonicalWorkExpense(w.WorkCategory, w.ExpenseType)
	if !ok {
		allowed, _ := models.ExpenseTypesFor(w.WorkCategory)
		return models.WorkExpense{}, ledgererror.Invalid("work expense", "ExpenseType", w.ExpenseType,
			"must be one of "+strings.Join(allowed, ", "))
	}
	w.WorkCategory, w.ExpenseType = category, expenseType
	w.ExpenseDate = s.today()

	rec, err := table.EncodeRecord(w)
	if err != nil {
		return models.WorkExpense{}, err
	}
	stored, err := s.Append(ctx, models.TableWorkExpenses, rec, user)
	if err != nil {
		return models.WorkExpense{}, err
	}
	return decodeOne[models.WorkExpense](models.TableWorkExpenses, stored)
}

// WorkExpenses returns every work expense in stored order.
func (s *Service) WorkExpenses(ctx context.Context) ([]models.WorkExpense, error) {
	return table.Decode[models.WorkExpense](s.List(ctx, models.TableWorkExpenses))
}

func lookupFold(options []string, value string) (string, bool) {
	for _, o := range options {
		if textutils.Equal(o, value) {
			return o, true
		}
	}
	return "", false
}
