// Package report handles the summary and export commands
package report

import (
	"fjacquet/caisse/cmd/common"
	"fjacquet/caisse/cmd/root"
	rpt "fjacquet/caisse/internal/report"
	"fjacquet/caisse/internal/store"

	"github.com/spf13/cobra"
)

var (
	page    int
	perPage int
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Summaries, the cash journal and store metrics",
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show receipts, expenses, balance and per-class totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := root.App().GetLedger()
		d, err := rpt.BuildDashboard(root.Context(cmd), svc, svc.Settings().Currency)
		if err != nil {
			return err
		}
		return common.RenderDashboard(cmd, d)
	},
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show the cash journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := root.App().GetLedger().Journal(root.Context(cmd))
		if err != nil {
			return err
		}
		return common.RenderPage(cmd, common.Paginate(entries, page, perPage))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print store call metrics in Prometheus text format",
	Long: `Print the store call counters and durations collected by this process.
Metrics are only collected when metrics.enabled is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store.WriteMetrics(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	common.AddPageFlags(journalCmd, &page, &perPage)
	Cmd.AddCommand(dashboardCmd, journalCmd, metricsCmd)
}
