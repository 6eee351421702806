package outwriter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/internal/parquet"
	"github.com/huangsam/qualitygate/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// reportJSON is the JSON document written for the json output mode.
type reportJSON struct {
	Report   schema.QualityReport `json:"report"`
	Markdown string               `json:"markdown"`
}

// writeReportTable generates and writes the human-readable table.
func writeReportTable(w io.Writer, report schema.QualityReport, useColors bool, maxDetailWidth int) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Check", "Status", "Detail", "Issue Codes", "Time"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, r := range report.Results {
		label := contract.GetPlainLabel(r)
		if useColors {
			label = contract.GetColorLabel(r)
		}
		data = append(data, []string{
			r.Title,
			label,
			contract.TruncateText(r.Detail, maxDetailWidth),
			strings.Join(r.IssueCodes, ", "),
			r.Duration.Round(time.Millisecond).String(),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	status := schema.FailedStatus
	if report.OverallPassed {
		status = schema.PassedStatus
	}
	_, err := fmt.Fprintf(w, "\n%s: %s\n%s\n", schema.ReportTitle, status, report.ActionMessage)
	return err
}

// writeReportJSON writes the report together with its Markdown rendering.
func writeReportJSON(w io.Writer, report schema.QualityReport, markdown string) error {
	return writeJSON(w, reportJSON{Report: report, Markdown: markdown})
}

// writeReportCSV writes one row per check result.
func writeReportCSV(w io.Writer, report schema.QualityReport) error {
	header := []string{"check", "title", "status", "outcome", "detail", "issue_codes", "duration_ms"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range report.Results {
			row := []string{
				string(r.Name),
				r.Title,
				contract.GetPlainLabel(r),
				string(r.Outcome),
				r.Detail,
				strings.Join(r.IssueCodes, ";"),
				strconv.FormatInt(r.Duration.Milliseconds(), 10),
			}
			if err := csvWriter.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// markdownConverter renders the report with GitHub-flavored Markdown. Raw HTML
// is kept so the collapsible help block survives.
var markdownConverter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// writeReportHTML converts the Markdown report into a standalone HTML page.
func writeReportHTML(w io.Writer, markdown string) error {
	var body bytes.Buffer
	if err := markdownConverter.Convert([]byte(markdown), &body); err != nil {
		return fmt.Errorf("failed to convert Markdown: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", schema.ReportTitle)
	sb.WriteString("</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// writeReportParquet exports the check results to a Parquet file.
func writeReportParquet(outputFile string, report schema.QualityReport, runTime time.Time) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires an output file")
	}
	if err := parquet.WriteCheckResultsParquet(parquet.RowsFromReport(report, runTime), outputFile); err != nil {
		return err
	}
	contract.LogInfo("💾 Wrote Parquet to %s", outputFile)
	return nil
}
