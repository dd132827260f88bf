package contract

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/adviz/schema"
	"github.com/lmittmann/tint"
)

// Severity label constants.
const (
	HighValue   = "High"   // High anomaly grade
	MediumValue = "Medium" // Medium anomaly grade
	LowValue    = "Low"    // Low anomaly grade
	NoneValue   = "None"   // Nothing anomalous
)

// Color variables for console output.
var (
	HighColor   = color.New(color.FgRed, color.Bold) // HighColor represents standard danger.
	MediumColor = color.New(color.FgYellow)          // MediumColor represents standard caution, not bold.
	LowColor    = color.New(color.FgCyan)            // LowColor represents informational / low-priority signal.
	NoneColor   = color.New(color.FgHiBlack)         // NoneColor fades quiet cells into the background.
)

// GetSeverityLabel returns a plain text label for an anomaly grade in [0,1].
// This is the core logic used for CSV, JSON, and table printing.
func GetSeverityLabel(severity float64) string {
	switch {
	case severity >= 0.7:
		return HighValue
	case severity >= 0.4:
		return MediumValue
	case severity > 0:
		return LowValue
	default:
		return NoneValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(severity float64) string {
	return ColorizeBySeverity(GetSeverityLabel(severity), severity)
}

// ColorizeBySeverity colors arbitrary text with the color of the severity level.
func ColorizeBySeverity(text string, severity float64) string {
	switch GetSeverityLabel(severity) {
	case HighValue:
		return HighColor.Sprint(text)
	case MediumValue:
		return MediumColor.Sprint(text)
	case LowValue:
		return LowColor.Sprint(text)
	default:
		return NoneColor.Sprint(text)
	}
}

// GetMissingColorLabel returns a colored label for a missing-data severity.
func GetMissingColorLabel(s schema.MissingSeverity) string {
	text := string(s)
	switch s {
	case schema.MissingHigh:
		return HighColor.Sprint(text)
	case schema.MissingMedium:
		return MediumColor.Sprint(text)
	case schema.MissingLow:
		return LowColor.Sprint(text)
	default:
		return NoneColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
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

var logLevel = new(slog.LevelVar)

var logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
	Level:      logLevel,
	TimeFormat: time.Kitchen,
}))

func init() {
	logLevel.Set(slog.LevelWarn)
}

// Logger returns the process-wide structured logger. It writes to stderr
// because stdout carries results and the MCP stdio transport.
func Logger() *slog.Logger {
	return logger
}

// SetLogLevel changes the level of the process-wide logger.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and some content.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
