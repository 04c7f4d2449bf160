// Package comment handles the per-student comment commands
package comment

import (
	"fmt"

	"fjacquet/caisse/cmd/common"
	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the comment command
var Cmd = &cobra.Command{
	Use:   "comment",
	Short: "Keep one comment per student",
}

var setCmd = &cobra.Command{
	Use:   "set CLASS STUDENT TEXT",
	Short: "Set the comment on a student, replacing any previous one",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := root.App().GetLedger().SetComment(root.Context(cmd), args[0], args[1], args[2], root.SharedFlags.User)
		if err != nil {
			return err
		}
		if created {
			common.Printf(cmd, "Comment added for %s\n", args[1])
		} else {
			common.Printf(cmd, "Comment updated for %s\n", args[1])
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show CLASS STUDENT",
	Short: "Show the comment on a student",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ok := root.App().GetLedger().CommentFor(root.Context(cmd), args[0], args[1])
		if !ok {
			return fmt.Errorf("no comment for %s in %s", args[1], args[0])
		}
		return common.Render(cmd, []models.Comment{c})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every comment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		comments, err := root.App().GetLedger().Comments(root.Context(cmd))
		if err != nil {
			return err
		}
		return common.Render(cmd, comments)
	},
}

func init() {
	Cmd.AddCommand(setCmd, showCmd, listCmd)
}
