// Package common contains shared functionality for command handlers
package common

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/internal/ledger"
	"fjacquet/caisse/internal/models"
	"fjacquet/caisse/internal/report"

	"github.com/spf13/cobra"
)

// FormatTable prints CSV-shaped output as aligned columns.
const FormatTable = "table"

// Render writes rows, a slice of csv-tagged structs, in the selected format.
func Render(cmd *cobra.Command, rows interface{}) error {
	gen := root.App().GetReportGenerator()
	format := root.SharedFlags.Format
	if format == FormatTable {
		data, err := gen.Generate(rows, report.FormatCSV)
		if err != nil {
			return err
		}
		return Write(cmd, data, true)
	}
	data, err := gen.Generate(rows, format)
	if err != nil {
		return err
	}
	return Write(cmd, data, false)
}

// RenderPage writes one page of rows followed by a page footer in table
// mode. Structured formats get the whole page object.
func RenderPage[T any](cmd *cobra.Command, p ledger.Page[T]) error {
	if root.SharedFlags.Format != FormatTable && root.SharedFlags.Format != report.FormatCSV {
		data, err := root.App().GetReportGenerator().Generate(p, root.SharedFlags.Format)
		if err != nil {
			return err
		}
		return Write(cmd, data, false)
	}
	if err := Render(cmd, p.Items); err != nil {
		return err
	}
	if root.SharedFlags.Format == FormatTable {
		Printf(cmd, "page %d/%d (%d items)\n", p.Page, max(p.TotalPages, 1), p.TotalItems)
	}
	return nil
}

// RenderDashboard writes the dashboard in the selected format.
func RenderDashboard(cmd *cobra.Command, d *report.Dashboard) error {
	gen := root.App().GetReportGenerator()
	format := root.SharedFlags.Format
	table := format == FormatTable
	if table {
		format = report.FormatCSV
	}
	data, err := gen.GenerateDashboard(d, format)
	if err != nil {
		return err
	}
	return Write(cmd, data, table)
}

// Write sends data to --output or stdout. asTable re-lays CSV data as
// aligned columns.
func Write(cmd *cobra.Command, data []byte, asTable bool) error {
	if root.SharedFlags.Output == "" {
		return writeTo(cmd.OutOrStdout(), data, asTable)
	}
	f, err := os.OpenFile(root.SharedFlags.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionDataFile)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	if err := writeTo(f, data, asTable); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

func writeTo(w io.Writer, data []byte, asTable bool) error {
	if !asTable {
		_, err := w.Write(data)
		return err
	}
	return writeTable(w, data)
}

func writeTable(w io.Writer, data []byte) error {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to lay out table: %w", err)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range records {
		if _, err := fmt.Fprintln(tw, strings.Join(rec, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Printf writes a message to the command's stdout.
func Printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// ParseID parses a record id argument.
func ParseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

// Name wraps a plain string so it renders like a record.
type Name struct {
	Name string `csv:"Name" json:"name" yaml:"name"`
}

// Names converts values to rows.
func Names(values []string) []Name {
	out := make([]Name, len(values))
	for i, v := range values {
		out[i] = Name{Name: v}
	}
	return out
}

// AddPageFlags registers --page and --per-page on cmd.
func AddPageFlags(cmd *cobra.Command, page, perPage *int) {
	cmd.Flags().IntVar(page, "page", 1, "Page to show")
	cmd.Flags().IntVar(perPage, "per-page", 0, "Rows per page (0 shows everything)")
}

// Paginate pages items, or returns them all on one page when perPage is 0.
func Paginate[T any](items []T, page, perPage int) ledger.Page[T] {
	if perPage == 0 {
		perPage = max(len(items), 1)
	}
	return ledger.Paginate(items, page, perPage)
}
