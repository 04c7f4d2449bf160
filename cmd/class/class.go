// Package class handles class roster commands
package class

import (
	"fjacquet/caisse/cmd/common"
	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/internal/models"

	"github.com/spf13/cobra"
)

var (
	page    int
	perPage int
)

// Cmd represents the class command
var Cmd = &cobra.Command{
	Use:   "class",
	Short: "Manage classes and their students",
}

var addCmd = &cobra.Command{
	Use:   "add CLASS STUDENT...",
	Short: "Enrol students in a class",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := root.App().GetLedger().AddStudents(root.Context(cmd), args[0], args[1:], root.SharedFlags.User)
		if err != nil {
			return err
		}
		common.Printf(cmd, "%d student(s) added to %s\n", n, args[0])
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List classes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		classes := root.App().GetLedger().Classes(root.Context(cmd))
		return common.RenderPage(cmd, common.Paginate(common.Names(classes), page, perPage))
	},
}

var studentsCmd = &cobra.Command{
	Use:   "students CLASS",
	Short: "List the students of a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := root.App().GetLedger().Students(root.Context(cmd), args[0])
		rows := make([]models.Class, len(names))
		for i, n := range names {
			rows[i] = models.Class{ClassName: args[0], StudentName: n}
		}
		return common.RenderPage(cmd, common.Paginate(rows, page, perPage))
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename-student CLASS OLD NEW",
	Short: "Rename a student and move their comment",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := root.App().GetLedger().RenameStudent(root.Context(cmd), args[0], args[1], args[2], root.SharedFlags.User); err != nil {
			return err
		}
		common.Printf(cmd, "Student renamed to %s\n", args[2])
		return nil
	},
}

func init() {
	common.AddPageFlags(listCmd, &page, &perPage)
	common.AddPageFlags(studentsCmd, &page, &perPage)
	Cmd.AddCommand(addCmd, listCmd, studentsCmd, renameCmd)
}
