// Package reporter renders scan and cleanup results as a summary,
// table, JSON, or YAML.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/reclaim-sh/reclaim/internal/catalog"
	"github.com/reclaim-sh/reclaim/internal/cleaner"
	"github.com/reclaim-sh/reclaim/internal/scanner"
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	safeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	reviewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	riskyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func riskStyle(level catalog.RiskLevel) lipgloss.Style {
	switch level {
	case catalog.RiskSafe:
		return safeStyle
	case catalog.RiskReview:
		return reviewStyle
	default:
		return riskyStyle
	}
}

// Reporter renders results to a writer in one format.
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a Reporter.
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{writer: writer, format: format}
}

// Report renders scan results.
func (r *Reporter) Report(results []scanner.Result) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(results)
	case FormatJSON:
		return r.reportJSON(results)
	case FormatYAML:
		return r.reportYAML(results)
	case FormatSummary:
		return r.reportSummary(results)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) reportSummary(results []scanner.Result) error {
	analysis := scanner.Analyze(results)

	fmt.Fprintln(r.writer, headerStyle.Render("=== Disk Scan Summary ==="))
	fmt.Fprintf(r.writer, "Total reclaimable: %s\n", humanize.Bytes(uint64(analysis.TotalBytes)))
	fmt.Fprintf(r.writer, "Safe to clean:     %s\n\n", safeStyle.Render(humanize.Bytes(uint64(analysis.SafeBytes))))

	sections := []struct {
		label string
		items []scanner.Result
	}{
		{"Safe", analysis.SafeItems},
		{"Review first", analysis.ReviewItems},
		{"Risky", analysis.RiskyItems},
	}
	for _, sec := range sections {
		if len(sec.items) == 0 {
			continue
		}
		fmt.Fprintln(r.writer, headerStyle.Render(sec.label+":"))
		for _, item := range sec.items {
			fmt.Fprintf(r.writer, "  %s  %s  %s\n",
				riskStyle(item.RiskLevel).Render(fmt.Sprintf("%-10s", item.HumanSize())),
				item.CategoryName,
				dimStyle.Render(item.Path))
		}
		fmt.Fprintln(r.writer)
	}
	return nil
}

func (r *Reporter) reportTable(results []scanner.Result) error {
	fmt.Fprintf(r.writer, "%-34s | %-10s | %-8s | %s\n", "Category", "Size", "Risk", "Path")

	var total int64
	for _, res := range results {
		if !res.Exists {
			continue
		}
		total += res.SizeBytes
		path := res.Path
		if len(path) > 58 {
			path = "..." + path[len(path)-55:]
		}
		fmt.Fprintf(r.writer, "%-34s | %-10s | %-8s | %s\n",
			truncate(res.CategoryName, 34),
			res.HumanSize(),
			riskStyle(res.RiskLevel).Render(string(res.RiskLevel)),
			path)
	}

	fmt.Fprintf(r.writer, "\nTotal: %s across %d categories\n", humanize.Bytes(uint64(total)), len(results))
	return nil
}

func (r *Reporter) reportJSON(results []scanner.Result) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(scanReport(results))
}

func (r *Reporter) reportYAML(results []scanner.Result) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(scanReport(results))
}

type report struct {
	Timestamp      string           `json:"timestamp" yaml:"timestamp"`
	TotalBytes     int64            `json:"total_bytes" yaml:"total_bytes"`
	TotalFormatted string           `json:"total_formatted" yaml:"total_formatted"`
	Results        []scanner.Result `json:"results" yaml:"results"`
}

func scanReport(results []scanner.Result) report {
	var total int64
	for _, res := range results {
		total += res.SizeBytes
	}
	return report{
		Timestamp:      time.Now().Format(time.RFC3339),
		TotalBytes:     total,
		TotalFormatted: humanize.Bytes(uint64(total)),
		Results:        results,
	}
}

// ReportDisk renders the disk capacity line.
func (r *Reporter) ReportDisk(du *scanner.DiskUsage) error {
	switch r.format {
	case FormatJSON:
		encoder := json.NewEncoder(r.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(du)
	case FormatYAML:
		encoder := yaml.NewEncoder(r.writer)
		defer encoder.Close()
		return encoder.Encode(du)
	default:
		fmt.Fprintf(r.writer, "%s: %s free of %s (%.1f%% used)\n",
			du.MountPoint,
			safeStyle.Render(humanize.Bytes(uint64(du.FreeBytes))),
			humanize.Bytes(uint64(du.TotalBytes)),
			du.UsedPercent())
		return nil
	}
}

// ReportCleanup renders cleanup outcomes.
func (r *Reporter) ReportCleanup(results []cleaner.Result) error {
	switch r.format {
	case FormatJSON:
		encoder := json.NewEncoder(r.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case FormatYAML:
		encoder := yaml.NewEncoder(r.writer)
		defer encoder.Close()
		return encoder.Encode(results)
	}

	var freed int64
	for _, res := range results {
		status := safeStyle.Render("ok")
		if !res.Success {
			status = riskyStyle.Render("failed")
		}
		label := res.CategoryName
		if label == "" {
			label = res.CategoryID
		}
		fmt.Fprintf(r.writer, "%-8s %-34s %s\n", status, label, res.HumanFreed())
		for _, e := range res.Errors {
			fmt.Fprintf(r.writer, "         %s\n", dimStyle.Render(e))
		}
		freed += res.FreedBytes
	}

	verb := "Freed"
	if len(results) > 0 && results[0].DryRun {
		verb = "Would free"
	}
	fmt.Fprintf(r.writer, "\n%s %s\n", verb, headerStyle.Render(humanize.Bytes(uint64(freed))))
	return nil
}

// SaveToFile writes a scan report to path.
func SaveToFile(results []scanner.Result, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()
	return New(file, format).Report(results)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
