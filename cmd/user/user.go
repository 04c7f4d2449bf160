// Package user handles account commands
package user

import (
	"fjacquet/caisse/cmd/common"
	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/internal/config"
	"fjacquet/caisse/internal/models"

	"github.com/spf13/cobra"
)

var (
	role     string
	password string
)

// Cmd represents the user command
var Cmd = &cobra.Command{
	Use:   "user",
	Short: "Manage ledger accounts",
}

var addCmd = &cobra.Command{
	Use:   "add USERNAME",
	Short: "Create an account",
	Long: `Create an account with a bcrypt-hashed password. The password is read from
--password or, when that is empty, from CAISSE_NEW_PASSWORD.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := root.App().GetAuth().CreateUser(root.Context(cmd), args[0], secret(), role, root.SharedFlags.User)
		if err != nil {
			return err
		}
		common.Printf(cmd, "User %s created with role %s\n", u.Username, u.Role)
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd USERNAME",
	Short: "Change the password of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := root.App().GetAuth().SetPassword(root.Context(cmd), args[0], secret(), root.SharedFlags.User); err != nil {
			return err
		}
		common.Printf(cmd, "Password changed for %s\n", args[0])
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check USERNAME",
	Short: "Check a username and password pair",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := root.App().GetAuth().Authenticate(root.Context(cmd), args[0], secret())
		if err != nil {
			return err
		}
		common.Printf(cmd, "Credentials valid for %s (%s)\n", u.Username, u.Role)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := root.App().GetAuth().Users(root.Context(cmd))
		if err != nil {
			return err
		}
		rows := make([]account, len(users))
		for i, u := range users {
			rows[i] = account{Username: u.Username, Role: u.Role}
		}
		return common.Render(cmd, rows)
	},
}

// account is a user without its hash, for display.
type account struct {
	Username string `csv:"username" json:"username" yaml:"username"`
	Role     string `csv:"role" json:"role" yaml:"role"`
}

func secret() string {
	if password != "" {
		return password
	}
	return config.GetEnv("CAISSE_NEW_PASSWORD", "")
}

func init() {
	addCmd.Flags().StringVarP(&role, "role", "r", models.RoleUser, "Role: user or admin")
	for _, c := range []*cobra.Command{addCmd, passwdCmd, checkCmd} {
		c.Flags().StringVarP(&password, "password", "p", "", "Password")
	}
	Cmd.AddCommand(addCmd, passwdCmd, checkCmd, listCmd)
}
