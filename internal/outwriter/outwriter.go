// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/lightbox/internal/contract"
	"golang.org/x/term"
)

// PrintScanHeader prints a concise, 2-line header for each scan phase.
func PrintScanHeader(cfg *contract.Config, title string) {
	folderName := filepath.Base(cfg.Folder)
	if folderName == "" || folderName == "." {
		folderName = "current"
	}

	scope := "top-level only"
	if cfg.Recursive {
		scope = "recursive"
	}

	if cfg.UseEmojis {
		// Line 1: The scan summary (folder nickname and scan kind)
		fmt.Printf("🔎 %s: %s\n", title, folderName)
		// Line 2: The folder actually walked and how
		fmt.Printf("📂 Folder: %s (%s, %d workers)\n", cfg.Folder, scope, cfg.Workers)
	} else {
		fmt.Printf("%s: %s\n", title, folderName)
		fmt.Printf("Folder: %s (%s, %d workers)\n", cfg.Folder, scope, cfg.Workers)
	}
}

// getMaxTablePathWidth calculates the maximum width for file paths in table output
// based on terminal width and table configuration.
func getMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns (rank, score, label, size) plus
	// table borders, separators and padding.
	baseWidth := 45

	// Calculate available space for path
	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable path width
		return 15
	}
	if available > 70 {
		// Maximum path width to prevent overly long paths
		return 70
	}
	return available
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for u := n / unit; u >= unit; u /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
