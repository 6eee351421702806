// Package outwriter has output and writer logic.
package outwriter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/schema"
)

// ReportSink writes the report in the configured output format, either to
// stdout or to the configured output file.
type ReportSink struct {
	output     schema.OutputMode
	outputFile string
	useColors  bool
	maxWidth   int
	now        func() time.Time
}

var _ contract.Sink = &ReportSink{} // Compile-time check

// NewReportSink creates a sink from the output settings of cfg.
func NewReportSink(cfg *contract.Config) *ReportSink {
	return &ReportSink{
		output:     cfg.Output,
		outputFile: cfg.OutputFile,
		useColors:  cfg.UseColors,
		now:        time.Now,
	}
}

// Emit implements the Sink interface.
func (s *ReportSink) Emit(_ context.Context, report schema.QualityReport, markdown string) error {
	return s.write(report, markdown)
}

// write dispatches based on the output format configured.
func (s *ReportSink) write(report schema.QualityReport, markdown string) error {
	switch s.output {
	case schema.TextOut:
		if err := writeWithFile(s.outputFile, func(w io.Writer) error {
			return writeReportTable(w, report, s.useColors, s.detailWidth())
		}, "Wrote table"); err != nil {
			return fmt.Errorf("error writing text output: %w", err)
		}
	case schema.JSONOut:
		if err := writeWithFile(s.outputFile, func(w io.Writer) error {
			return writeReportJSON(w, report, markdown)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(s.outputFile, func(w io.Writer) error {
			return writeReportCSV(w, report)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.HTMLOut:
		if err := writeWithFile(s.outputFile, func(w io.Writer) error {
			return writeReportHTML(w, markdown)
		}, "Wrote HTML"); err != nil {
			return fmt.Errorf("error writing HTML output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeReportParquet(s.outputFile, report, s.now()); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to the Markdown report itself
		if err := writeWithFile(s.outputFile, func(w io.Writer) error {
			_, err := io.WriteString(w, markdown)
			return err
		}, "Wrote Markdown"); err != nil {
			return fmt.Errorf("error writing Markdown output: %w", err)
		}
	}
	return nil
}

func (s *ReportSink) detailWidth() int {
	if s.maxWidth > 0 {
		return s.maxWidth
	}
	return getMaxDetailWidth()
}
