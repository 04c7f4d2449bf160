// Package category handles payment and expense category commands
package category

import (
	"fjacquet/caisse/cmd/common"
	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/internal/ledger"

	"github.com/spf13/cobra"
)

// Cmd represents the category command
var Cmd = &cobra.Command{
	Use:   "category",
	Short: "Manage payment and expense categories",
	Long: `Manage the payment and expense category lists. KIND is "payment" or
"expense". Names are compared without regard to case or accents.`,
}

var addCmd = &cobra.Command{
	Use:   "add KIND NAME",
	Short: "Add a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := ledger.ParseCategoryKind(args[0])
		if err != nil {
			return err
		}
		if err := root.App().GetLedger().AddCategory(root.Context(cmd), kind, args[1], root.SharedFlags.User); err != nil {
			return err
		}
		common.Printf(cmd, "Category %s added\n", args[1])
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename KIND OLD NEW",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := ledger.ParseCategoryKind(args[0])
		if err != nil {
			return err
		}
		if err := root.App().GetLedger().RenameCategory(root.Context(cmd), kind, args[1], args[2], root.SharedFlags.User); err != nil {
			return err
		}
		common.Printf(cmd, "Category %s renamed to %s\n", args[1], args[2])
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove KIND NAME",
	Short: "Remove a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := ledger.ParseCategoryKind(args[0])
		if err != nil {
			return err
		}
		if err := root.App().GetLedger().RemoveCategory(root.Context(cmd), kind, args[1], root.SharedFlags.User); err != nil {
			return err
		}
		common.Printf(cmd, "Category %s removed\n", args[1])
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list KIND",
	Short: "List categories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := ledger.ParseCategoryKind(args[0])
		if err != nil {
			return err
		}
		return common.Render(cmd, common.Names(root.App().GetLedger().Categories(root.Context(cmd), kind)))
	},
}

func init() {
	Cmd.AddCommand(addCmd, renameCmd, removeCmd, listCmd)
}
