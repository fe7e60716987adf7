package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/seoscore/schema"
)

// Color variables for console output.
var (
	RedColor    = color.New(color.FgRed, color.Bold) // RedColor marks pages or checks that need urgent work.
	YellowColor = color.New(color.FgYellow)          // YellowColor marks pages or checks that need attention.
	GreenColor  = color.New(color.FgGreen)           // GreenColor marks healthy pages or checks.
)

// GetPlainLabel returns the plain text label of a score status. This is the core
// logic used for CSV, JSON, and table printing.
func GetPlainLabel(status schema.ScoreStatus) string {
	return strings.ToUpper(string(status))
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(status schema.ScoreStatus) string {
	text := GetPlainLabel(status)

	switch status {
	case schema.GreenStatus:
		return GreenColor.Sprint(text)
	case schema.YellowStatus:
		return YellowColor.Sprint(text)
	default:
		return RedColor.Sprint(text)
	}
}

// GetCheckColorLabel returns a colored label for a single check status.
func GetCheckColorLabel(status schema.CheckStatus) string {
	text := strings.ToUpper(string(status.Normalize()))
	if text == "" {
		text = "UNKNOWN"
	}

	switch status.Normalize() {
	case schema.PassStatus:
		return GreenColor.Sprint(text)
	case schema.WarnStatus:
		return YellowColor.Sprint(text)
	default:
		return RedColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
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

// GetCacheDBFilePath returns the path to the SQLite DB file for page cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".seoscore_cache.db"
	}
	return filepath.Join(homeDir, ".seoscore_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for history storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".seoscore_history.db"
	}
	return filepath.Join(homeDir, ".seoscore_history.db")
}

// TruncatePath truncates a path or URL to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
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
