// Package initcmd creates the ledger tables and the default administrator
package initcmd

import (
	"fjacquet/caisse/cmd/common"
	"fjacquet/caisse/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the init command
var Cmd = &cobra.Command{
	Use:   "init",
	Short: "Create missing tables and the default administrator",
	Long: `Create every missing ledger table with its header row, then create the
default administrator when no account holds the admin role. When no admin
password is configured a random one is generated and printed once.`,
	Args: cobra.NoArgs,
	RunE: initFunc,
}

func initFunc(cmd *cobra.Command, args []string) error {
	app := root.App()
	generated, err := app.Bootstrap(root.Context(cmd))
	if err != nil {
		return err
	}
	common.Printf(cmd, "Tables ready on the %s backend\n", app.GetBackend().Name())
	if generated != "" {
		common.Printf(cmd, "Admin account %q created with password: %s\n",
			app.GetConfig().Auth.DefaultAdminUser, generated)
	}
	return nil
}
