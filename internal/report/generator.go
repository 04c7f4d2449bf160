package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"fjacquet/caisse/internal/logging"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// Supported output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Formats lists the accepted format names.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatCSV}
}

// Generator renders reports and record lists in the supported formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{logger: logger}
}

// GenerateDashboard renders d. CSV output holds the flattened lines.
func (g *Generator) GenerateDashboard(d *Dashboard, format string) ([]byte, error) {
	if normalizeFormat(format) == FormatCSV {
		return g.generateCSV(d.Lines())
	}
	return g.Generate(d, format)
}

// Generate renders any value as JSON or YAML, or a slice of csv-tagged
// structs as CSV.
func (g *Generator) Generate(v interface{}, format string) ([]byte, error) {
	switch normalizeFormat(format) {
	case FormatJSON:
		return g.generateJSON(v)
	case FormatYAML:
		return g.generateYAML(v)
	case FormatCSV:
		return g.generateCSV(v)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(v interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush YAML report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) generateCSV(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gocsv.MarshalCSV(v, gocsv.NewSafeCSVWriter(csv.NewWriter(&buf))); err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	return buf.Bytes(), nil
}

func normalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "yml" {
		return FormatYAML
	}
	return f
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
