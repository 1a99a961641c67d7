package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// Stdout receives console output; os.Stdout when nil
	Stdout    io.Writer
}

func (c Config) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// Report is a result the CLI knows how to render
type Report interface {
	// Name is the base name of files written for the report
	Name() string

	payload() any
	writeText(w io.Writer) error
	csvRecords() [][]string
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Generate creates output in the specified format
func Generate(report Report, config Config) error {
	switch config.Format {
	case "text", "":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	case "csv":
		return generateCSVOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(report Report, config Config) error {
	if err := report.writeText(config.stdout()); err != nil {
		return err
	}
	if config.OutputDir == "" {
		return nil
	}
	return saveFile(report, config, ".txt", report.writeText)
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report Report, config Config) error {
	jsonData, err := json.MarshalIndent(report.payload(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	write := func(w io.Writer) error {
		_, err := fmt.Fprintln(w, string(jsonData))
		return err
	}
	if config.OutputDir == "" {
		return write(config.stdout())
	}
	return saveFile(report, config, ".json", write)
}

// generateCSVOutput creates CSV output
func generateCSVOutput(report Report, config Config) error {
	write := func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.WriteAll(report.csvRecords()); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		return nil
	}
	if config.OutputDir == "" {
		return write(config.stdout())
	}
	return saveFile(report, config, ".csv", write)
}

func saveFile(report Report, config Config, ext string, write func(io.Writer) error) error {
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, report.Name()+ext)
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	if config.Verbose {
		fmt.Fprintf(config.stdout(), "💾 Results saved to: %s\n", filename)
	}
	return nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
