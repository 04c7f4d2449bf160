// Package receipt handles receipts that are not student payments
package receipt

import (
	"fjacquet/caisse/cmd/common"
	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/internal/ledger"
	"fjacquet/caisse/internal/models"

	"github.com/spf13/cobra"
)

var (
	className   string
	student     string
	category    string
	amount      string
	date        string
	description string

	all     bool
	page    int
	perPage int
)

// Cmd represents the receipt command
var Cmd = &cobra.Command{
	Use:   "receipt",
	Short: "Record other receipts and list every incoming amount",
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a receipt outside regular payments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := ledger.ParseAmount("receipt", models.FieldAmount, amount)
		if err != nil {
			return err
		}
		r, err := root.App().GetLedger().RecordReceipt(root.Context(cmd), models.Receipt{
			Date:            date,
			ClassName:       className,
			StudentName:     student,
			PaymentCategory: category,
			Amount:          a,
			Description:     description,
		}, root.SharedFlags.User)
		if err != nil {
			return err
		}
		common.Printf(cmd, "Receipt recorded: %s %s on %s\n", r.Amount.StringFixed(2), r.PaymentCategory, r.Date)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List other receipts, or with --all every incoming amount",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := root.App().GetLedger()
		if all {
			lines, err := svc.Receipts(root.Context(cmd))
			if err != nil {
				return err
			}
			return common.RenderPage(cmd, common.Paginate(lines, page, perPage))
		}
		receipts, err := svc.OtherReceipts(root.Context(cmd))
		if err != nil {
			return err
		}
		return common.RenderPage(cmd, common.Paginate(receipts, page, perPage))
	},
}

func init() {
	addCmd.Flags().StringVarP(&category, "category", "k", "", "Receipt category")
	addCmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount received")
	addCmd.Flags().StringVarP(&date, "date", "t", "", "Receipt date (default today)")
	addCmd.Flags().StringVarP(&className, "class", "c", "", "Class name, if any")
	addCmd.Flags().StringVarP(&student, "student", "s", "", "Student name, if any")
	addCmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("amount")

	listCmd.Flags().BoolVar(&all, "all", false, "Merge student payments and other receipts")
	common.AddPageFlags(listCmd, &page, &perPage)
	Cmd.AddCommand(addCmd, listCmd)
}
