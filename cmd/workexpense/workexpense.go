// Package workexpense handles expenses tied to a student's work
package workexpense

import (
	"fmt"

	"fjacquet/caisse/cmd/common"
	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/internal/ledger"
	"fjacquet/caisse/internal/models"

	"github.com/spf13/cobra"
)

var (
	className   string
	student     string
	work        string
	expenseType string
	amount      string
	comment     string
)

// Cmd represents the work-expense command
var Cmd = &cobra.Command{
	Use:   "work-expense",
	Short: "Record expenses for theses, tutored projects and internships",
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a work expense",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := ledger.ParseAmount("work expense", models.FieldAmount, amount)
		if err != nil {
			return err
		}
		w, err := root.App().GetLedger().RecordWorkExpense(root.Context(cmd), models.WorkExpense{
			ClassName:    className,
			StudentName:  student,
			WorkCategory: work,
			ExpenseType:  expenseType,
			Amount:       a,
			Comment:      comment,
		}, root.SharedFlags.User)
		if err != nil {
			return err
		}
		common.Printf(cmd, "%s expense recorded for %s: %s\n", w.WorkCategory, w.StudentName, w.Amount.StringFixed(2))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List work expenses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := root.App().GetLedger().WorkExpenses(root.Context(cmd))
		if err != nil {
			return err
		}
		return common.Render(cmd, rows)
	},
}

var typesCmd = &cobra.Command{
	Use:   "types [WORK]",
	Short: "List work categories, or the expense types of one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return common.Render(cmd, common.Names(models.WorkCategories()))
		}
		types, ok := models.ExpenseTypesFor(args[0])
		if !ok {
			return fmt.Errorf("unknown work category %q", args[0])
		}
		return common.Render(cmd, common.Names(types))
	},
}

func init() {
	addCmd.Flags().StringVarP(&className, "class", "c", "", "Class name")
	addCmd.Flags().StringVarP(&student, "student", "s", "", "Student name")
	addCmd.Flags().StringVarP(&work, "work", "w", "", "Work category")
	addCmd.Flags().StringVarP(&expenseType, "type", "y", "", "Expense type")
	addCmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount spent")
	addCmd.Flags().StringVar(&comment, "comment", "", "Free comment")
	for _, f := range []string{"class", "student", "work", "type", "amount"} {
		_ = addCmd.MarkFlagRequired(f)
	}
	Cmd.AddCommand(addCmd, listCmd, typesCmd)
}
