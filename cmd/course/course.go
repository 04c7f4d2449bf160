// Package course handles course commands
package course

import (
	"fjacquet/caisse/cmd/common"
	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the course command
var Cmd = &cobra.Command{
	Use:   "course",
	Short: "Manage the courses of each class",
}

var addCmd = &cobra.Command{
	Use:   "add CLASS COURSE",
	Short: "Add a course to a class",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := root.App().GetLedger().AddCourse(root.Context(cmd), args[0], args[1], root.SharedFlags.User); err != nil {
			return err
		}
		common.Printf(cmd, "Course %s added to %s\n", args[1], args[0])
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list CLASS",
	Short: "List the courses of a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := root.App().GetLedger().CoursesFor(root.Context(cmd), args[0])
		rows := make([]models.Course, len(names))
		for i, n := range names {
			rows[i] = models.Course{ClassName: args[0], CourseName: n}
		}
		return common.Render(cmd, rows)
	},
}

func init() {
	Cmd.AddCommand(addCmd, listCmd)
}
