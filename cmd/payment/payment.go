// Package payment handles student payment commands
package payment

import (
	"fjacquet/caisse/cmd/common"
	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/internal/ledger"
	"fjacquet/caisse/internal/models"

	"github.com/spf13/cobra"
)

var (
	className string
	student   string
	category  string
	amount    string
	date      string

	page    int
	perPage int
)

// Cmd represents the payment command
var Cmd = &cobra.Command{
	Use:   "payment",
	Short: "Record and review student payments",
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a student payment",
	Long: `Record a payment by an enrolled student against a known payment category.
The payment gets the next free ID. A missing date means today.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := ledger.ParseAmount("payment", models.FieldAmount, amount)
		if err != nil {
			return err
		}
		p, err := root.App().GetLedger().RecordPayment(root.Context(cmd), models.Payment{
			ClassName:       className,
			StudentName:     student,
			PaymentCategory: category,
			Amount:          a,
			PaymentDate:     date,
		}, root.SharedFlags.User)
		if err != nil {
			return err
		}
		common.Printf(cmd, "Payment #%d recorded: %s %s\n", p.ID, p.Amount.StringFixed(2), p.PaymentCategory)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List payments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		payments, err := root.App().GetLedger().Payments(root.Context(cmd))
		if err != nil {
			return err
		}
		return common.RenderPage(cmd, common.Paginate(payments, page, perPage))
	},
}

var correctCmd = &cobra.Command{
	Use:   "correct ID AMOUNT",
	Short: "Replace the amount of a payment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := common.ParseID(args[0])
		if err != nil {
			return err
		}
		a, err := ledger.ParseAmount("payment", models.FieldAmount, args[1])
		if err != nil {
			return err
		}
		if err := root.App().GetLedger().CorrectPayment(root.Context(cmd), id, a, root.SharedFlags.User); err != nil {
			return err
		}
		common.Printf(cmd, "Payment #%d corrected\n", id)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := common.ParseID(args[0])
		if err != nil {
			return err
		}
		if err := root.App().GetLedger().DeletePayment(root.Context(cmd), id, root.SharedFlags.User); err != nil {
			return err
		}
		common.Printf(cmd, "Payment #%d deleted\n", id)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&className, "class", "c", "", "Class name")
	addCmd.Flags().StringVarP(&student, "student", "s", "", "Student name")
	addCmd.Flags().StringVarP(&category, "category", "k", "", "Payment category")
	addCmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount paid")
	addCmd.Flags().StringVarP(&date, "date", "t", "", "Payment date (default today)")
	_ = addCmd.MarkFlagRequired("class")
	_ = addCmd.MarkFlagRequired("student")
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("amount")

	common.AddPageFlags(listCmd, &page, &perPage)
	Cmd.AddCommand(addCmd, listCmd, correctCmd, deleteCmd)
}
