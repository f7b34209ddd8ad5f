package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/lightbox/schema"
)

// Color variables for console output.
var (
	SharpColor      = color.New(color.FgGreen, color.Bold) // sharpColor marks keepers.
	AcceptableColor = color.New(color.FgYellow)            // acceptableColor marks borderline frames.
	BlurryColor     = color.New(color.FgRed, color.Bold)   // blurryColor marks cull candidates.
	UnknownColor    = color.New(color.FgCyan)              // unknownColor marks unscored entries.
)

// GetColorLabel returns a colored category label for console output (table).
// It uses the category's plain label and applies the matching color.
func GetColorLabel(category schema.SharpnessCategory) string {
	text := category.Label()

	switch category {
	case schema.SharpCategory:
		return SharpColor.Sprint(text)
	case schema.AcceptableCategory:
		return AcceptableColor.Sprint(text)
	case schema.BlurryCategory:
		return BlurryColor.Sprint(text)
	default:
		return UnknownColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
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

// GetCacheDBFilePath returns the path to the SQLite DB file for scan cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".lightbox_cache.db"
	}
	return filepath.Join(homeDir, ".lightbox_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".lightbox_history.db"
	}
	return filepath.Join(homeDir, ".lightbox_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
// Without this check, small maxWidth values could cause slice bounds errors in the truncation calculation.
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
