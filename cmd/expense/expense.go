// Package expense handles exam and general expense commands
package expense

import (
	"fjacquet/caisse/cmd/common"
	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/internal/ledger"
	"fjacquet/caisse/internal/models"

	"github.com/spf13/cobra"
)

var (
	className   string
	course      string
	examDate    string
	category    string
	custom      string
	description string
	amount      string
	comment     string

	examOnly    bool
	generalOnly bool
	page        int
	perPage     int
)

// Cmd represents the expense command
var Cmd = &cobra.Command{
	Use:   "expense",
	Short: "Record and review expenses",
}

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Record an exam expense for a course",
	Long: `Record an expense tied to the exam of a course. The course must belong to
the class. Choosing the "Other" category requires --other with the
category to store instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return record(cmd, true)
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a general expense",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return record(cmd, false)
	},
}

func record(cmd *cobra.Command, exam bool) error {
	a, err := ledger.ParseAmount("expense", models.FieldAmount, amount)
	if err != nil {
		return err
	}
	e := models.Expense{
		ClassName:       className,
		CourseName:      course,
		ExamDate:        examDate,
		ExpenseCategory: category,
		Description:     description,
		Amount:          a,
		Comment:         comment,
	}
	svc := root.App().GetLedger()
	if exam {
		e, err = svc.RecordExamExpense(root.Context(cmd), e, custom, root.SharedFlags.User)
	} else {
		e, err = svc.RecordExpense(root.Context(cmd), e, custom, root.SharedFlags.User)
	}
	if err != nil {
		return err
	}
	common.Printf(cmd, "Expense #%d recorded: %s %s\n", e.ID, e.Amount.StringFixed(2), e.ExpenseCategory)
	return nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		expenses, err := root.App().GetLedger().Expenses(root.Context(cmd))
		if err != nil {
			return err
		}
		filtered := expenses[:0]
		for _, e := range expenses {
			if (examOnly && !e.IsExam()) || (generalOnly && e.IsExam()) {
				continue
			}
			filtered = append(filtered, e)
		}
		return common.RenderPage(cmd, common.Paginate(filtered, page, perPage))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an expense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := common.ParseID(args[0])
		if err != nil {
			return err
		}
		if err := root.App().GetLedger().DeleteExpense(root.Context(cmd), id, root.SharedFlags.User); err != nil {
			return err
		}
		common.Printf(cmd, "Expense #%d deleted\n", id)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{examCmd, addCmd} {
		c.Flags().StringVarP(&category, "category", "k", "", "Expense category")
		c.Flags().StringVar(&custom, "other", "", `Category to store when --category is "Other"`)
		c.Flags().StringVarP(&description, "description", "d", "", "Description")
		c.Flags().StringVarP(&amount, "amount", "a", "", "Amount spent")
		c.Flags().StringVar(&comment, "comment", "", "Free comment")
		_ = c.MarkFlagRequired("category")
		_ = c.MarkFlagRequired("amount")
	}
	examCmd.Flags().StringVarP(&className, "class", "c", "", "Class name")
	examCmd.Flags().StringVar(&course, "course", "", "Course name")
	examCmd.Flags().StringVar(&examDate, "exam-date", "", "Exam date")
	_ = examCmd.MarkFlagRequired("class")
	_ = examCmd.MarkFlagRequired("course")
	_ = examCmd.MarkFlagRequired("exam-date")

	listCmd.Flags().BoolVar(&examOnly, "exam", false, "Only exam expenses")
	listCmd.Flags().BoolVar(&generalOnly, "general", false, "Only general expenses")
	listCmd.MarkFlagsMutuallyExclusive("exam", "general")
	common.AddPageFlags(listCmd, &page, &perPage)

	Cmd.AddCommand(examCmd, addCmd, listCmd, deleteCmd)
}
