package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/qualitygate/schema"
)

// Status label constants.
const (
	PassValue    = "PASS"    // Check passed
	FailValue    = "FAIL"    // Check failed
	TimeoutValue = "TIMEOUT" // Check exceeded its time budget
	ErrorValue   = "ERROR"   // Check could not run
)

// Color variables for console output.
var (
	PassColor    = color.New(color.FgGreen, color.Bold)   // PassColor represents success.
	FailColor    = color.New(color.FgRed, color.Bold)     // FailColor represents standard danger.
	TimeoutColor = color.New(color.FgMagenta, color.Bold) // TimeoutColor represents a strong, distinct warning.
	ErrorColor   = color.New(color.FgYellow)              // ErrorColor represents a tooling problem, not a content problem.
)

// GetPlainLabel returns a plain text label for a check result.
// This is the core logic used for CSV and table printing.
func GetPlainLabel(result schema.CheckResult) string {
	switch {
	case result.Passed:
		return PassValue
	case result.Outcome == schema.OutcomeTimeout:
		return TimeoutValue
	case result.Outcome == schema.OutcomeLaunchError:
		return ErrorValue
	default:
		return FailValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(result schema.CheckResult) string {
	text := GetPlainLabel(result)

	switch text {
	case PassValue:
		return PassColor.Sprint(text)
	case TimeoutValue:
		return TimeoutColor.Sprint(text)
	case ErrorValue:
		return ErrorColor.Sprint(text)
	default:
		return FailColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means standard output.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr, keeping stdout for the report.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// TruncateText shortens text to maxWidth runes with a trailing ellipsis.
// Requires maxWidth > 3 so there is room for the ellipsis and some content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
