// Package fee handles registration and work fee commands
package fee

import (
	"fjacquet/caisse/cmd/common"
	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/internal/currencyutils"
	"fjacquet/caisse/internal/ledger"

	"github.com/spf13/cobra"
)

// Cmd represents the fee command
var Cmd = &cobra.Command{
	Use:   "fee",
	Short: "Track registration and work fees",
	Long: `Track fixed fees. KIND is "registration" (first semester, second semester,
resit) or "work" (tutored project, internship, thesis). Amounts come from
the ledger configuration.`,
}

var payCmd = &cobra.Command{
	Use:   "pay KIND CLASS STUDENT TYPE",
	Short: "Record that a student paid a fee",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := ledger.ParseFeeKind(args[0])
		if err != nil {
			return err
		}
		svc := root.App().GetLedger()
		fp, err := svc.PayFee(root.Context(cmd), kind, args[1], args[2], args[3], root.SharedFlags.User)
		if err != nil {
			return err
		}
		common.Printf(cmd, "%s fee paid by %s: %s\n", fp.FeeType, fp.StudentName,
			currencyutils.FormatAmount(fp.Amount.Decimal, svc.Settings().Currency))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status KIND CLASS STUDENT TYPE",
	Short: "Show whether a student paid a fee",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := ledger.ParseFeeKind(args[0])
		if err != nil {
			return err
		}
		common.Printf(cmd, "%s\n", root.App().GetLedger().FeeStatus(root.Context(cmd), kind, args[1], args[2], args[3]))
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary KIND CLASS TYPE",
	Short: "Summarize who paid a fee in a class",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := ledger.ParseFeeKind(args[0])
		if err != nil {
			return err
		}
		svc := root.App().GetLedger()
		s, err := svc.SummarizeFees(root.Context(cmd), kind, args[1], args[2])
		if err != nil {
			return err
		}
		if root.SharedFlags.Format != common.FormatTable {
			data, err := root.App().GetReportGenerator().Generate(s, root.SharedFlags.Format)
			if err != nil {
				return err
			}
			return common.Write(cmd, data, false)
		}
		if err := common.Render(cmd, s.Students); err != nil {
			return err
		}
		common.Printf(cmd, "%s %s: %d paid, %d unpaid, %s collected\n", s.ClassName, s.FeeType, s.Paid, s.Unpaid,
			currencyutils.FormatAmount(s.Total, svc.Settings().Currency))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list KIND",
	Short: "List fee payments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := ledger.ParseFeeKind(args[0])
		if err != nil {
			return err
		}
		rows, err := root.App().GetLedger().FeePayments(root.Context(cmd), kind)
		if err != nil {
			return err
		}
		return common.Render(cmd, rows)
	},
}

var typesCmd = &cobra.Command{
	Use:   "types KIND",
	Short: "List the fee types of a kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := ledger.ParseFeeKind(args[0])
		if err != nil {
			return err
		}
		return common.Render(cmd, common.Names(ledger.FeeTypes(kind)))
	},
}

func init() {
	Cmd.AddCommand(payCmd, statusCmd, summaryCmd, listCmd, typesCmd)
}
