// Package parquet provides data structures and functions for exporting quality
// gate results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/huangsam/qualitygate/schema"
	"github.com/parquet-go/parquet-go"
)

// CheckResultRow represents one check of one quality gate run.
// Rows of the same run share RunTime and OverallPassed.
type CheckResultRow struct {
	// RunTime is when the report was exported (stored as TIMESTAMP with nanosecond precision)
	RunTime time.Time `parquet:"run_time,snappy"`

	// OverallPassed is the verdict of the whole run
	OverallPassed bool `parquet:"overall_passed,snappy"`

	// Position is the zero-based order of the check within the run
	Position int32 `parquet:"position,snappy"`

	// CheckName is the stable identifier of the check
	CheckName string `parquet:"check_name,snappy"`

	// Title is the human-readable label of the check
	Title string `parquet:"title,snappy"`

	// Passed tells whether this check succeeded
	Passed bool `parquet:"passed,snappy"`

	// Outcome is how the check ended (passed, failed, timeout, launch_error)
	Outcome string `parquet:"outcome,snappy"`

	// Detail is the one-line summary shown in the report
	Detail string `parquet:"detail,snappy"`

	// IssueCodes is the comma-separated list of issue codes (nullable)
	IssueCodes *string `parquet:"issue_codes,optional,snappy"`

	// DurationMs is how long the check ran in milliseconds
	DurationMs int64 `parquet:"duration_ms,snappy"`
}

// RowsFromReport flattens a report into one row per check result.
func RowsFromReport(report schema.QualityReport, runTime time.Time) []CheckResultRow {
	rows := make([]CheckResultRow, 0, len(report.Results))
	for i, r := range report.Results {
		var codes *string
		if len(r.IssueCodes) > 0 {
			joined := strings.Join(r.IssueCodes, ",")
			codes = &joined
		}
		rows = append(rows, CheckResultRow{
			RunTime:       runTime,
			OverallPassed: report.OverallPassed,
			Position:      int32(i),
			CheckName:     string(r.Name),
			Title:         r.Title,
			Passed:        r.Passed,
			Outcome:       string(r.Outcome),
			Detail:        r.Detail,
			IssueCodes:    codes,
			DurationMs:    r.Duration.Milliseconds(),
		})
	}
	return rows
}

// WriteCheckResults writes rows to w in Parquet format.
func WriteCheckResults(w io.Writer, data []CheckResultRow) error {
	// The schema is automatically derived from the CheckResultRow struct tags
	writer := parquet.NewGenericWriter[CheckResultRow](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer, so its error matters
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteCheckResultsParquet writes rows to a Parquet file at outputPath.
func WriteCheckResultsParquet(data []CheckResultRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return WriteCheckResults(file, data)
}

// ReadCheckResultsParquet reads every row of a file written by WriteCheckResultsParquet.
func ReadCheckResultsParquet(inputPath string) ([]CheckResultRow, error) {
	rows, err := parquet.ReadFile[CheckResultRow](inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}
