package models

import "fjacquet/caisse/internal/textutils"

// Work categories
const (
	WorkThesis         = "Thesis"
	WorkTutoredProject = "Tutored project"
	WorkInternship     = "Internship"
)

// Work expense types
const (
	ExpenseDefenseJury       = "Defense jury fee"
	ExpenseThesisSupervision = "Thesis supervision fee"
	ExpenseMentoring         = "Mentoring fee"
	ExpenseInternshipReview  = "Internship report review"
)

var workCategories = []string{WorkThesis, WorkTutoredProject, WorkInternship}

var workExpenseTypes = map[string][]string{
	WorkThesis:         {ExpenseDefenseJury, ExpenseThesisSupervision, ExpenseMentoring},
	WorkTutoredProject: {ExpenseDefenseJury, ExpenseMentoring},
	WorkInternship:     {ExpenseInternshipReview},
}

// WorkCategories lists the work categories. The list is closed.
func WorkCategories() []string {
	return append([]string(nil), workCategories...)
}

// ExpenseTypesFor returns the expense types allowed for a work category.
func ExpenseTypesFor(category string) ([]string, bool) {
	canonical, ok := CanonicalWorkCategory(category)
	if !ok {
		return nil, false
	}
	return append([]string(nil), workExpenseTypes[canonical]...), true
}

// CanonicalWorkCategory resolves a user-entered category to its stored
// spelling.
func CanonicalWorkCategory(category string) (string, bool) {
	return lookup(workCategories, category)
}

// CanonicalWorkExpense resolves both parts of a work expense, reporting
// false when the category is unknown or the type is not allowed for it.
func CanonicalWorkExpense(category, expenseType string) (string, string, bool) {
	c, ok := CanonicalWorkCategory(category)
	if !ok {
		return "", "", false
	}
	t, ok := lookup(workExpenseTypes[c], expenseType)
	if !ok {
		return "", "", false
	}
	return c, t, true
}

// CanonicalRegistrationType resolves a registration fee type.
func CanonicalRegistrationType(feeType string) (string, bool) {
	return lookup(RegistrationTypes(), feeType)
}

func lookup(options []string, value string) (string, bool) {
	for _, o := range options {
		if textutils.Equal(o, value) {
			return o, true
		}
	}
	return "", false
}
