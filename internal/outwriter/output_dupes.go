package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/internal/parquet"
	"github.com/huangsam/lightbox/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// hashDisplayLen is how many hex digits of the content hash tables show.
const hashDisplayLen = 12

// PrintDupeReport outputs the duplicate scan report, dispatching based on
// the output format configured.
func PrintDupeReport(report *schema.DupeReport, cfg *contract.Config, duration time.Duration) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeDupeJSONReport(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeDupeCSVReport(report, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeDupeParquetReport(report, cfg); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDupeTable(report, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// shortHash truncates a content hash for table display.
func shortHash(hash string) string {
	if len(hash) > hashDisplayLen {
		return hash[:hashDisplayLen]
	}
	return hash
}

// writeDupeTable generates and writes the human-readable table, one row per
// group member so every duplicate path is visible.
func writeDupeTable(report *schema.DupeReport, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	groups := report.Groups
	if cfg.ResultLimit > 0 && cfg.ResultLimit < len(groups) {
		groups = groups[:cfg.ResultLimit]
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Group", "Path", "Size", "Hash"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for gi, g := range groups {
		for _, f := range g.Files {
			row := []string{
				strconv.Itoa(gi + 1), // Group rank
				contract.TruncatePath(f, getMaxTablePathWidth(cfg)), // Path
				formatBytes(g.Size),
				shortHash(g.Hash),
			}
			data = append(data, row)
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	var wasted int64
	for _, g := range report.Groups {
		wasted += g.WastedBytes()
	}
	if _, err := fmt.Fprintf(writer, "Found %d duplicate groups across %d files (%s reclaimable, %d hashed)\n",
		len(report.Groups), report.TotalFiles, formatBytes(wasted), report.HashedFiles); err != nil {
		return err
	}
	if len(report.Trashed) > 0 {
		if _, err := fmt.Fprintf(writer, "Moved %d files to trash\n", len(report.Trashed)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Cache backend: %s\n",
		duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeDupeCSVReport writes one CSV row per group member.
func writeDupeCSVReport(report *schema.DupeReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"group", "path", "size_bytes", "wasted_bytes", "hash"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for gi, g := range report.Groups {
				wasted := strconv.FormatInt(g.WastedBytes(), 10)
				for _, f := range g.Files {
					rec := []string{
						strconv.Itoa(gi + 1),
						f,
						strconv.FormatInt(g.Size, 10),
						wasted,
						g.Hash,
					}
					if err := csvWriter.Write(rec); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeDupeJSONReport writes the report with ranked, enriched groups.
func writeDupeJSONReport(report *schema.DupeReport, cfg *contract.Config) error {
	type jsonReport struct {
		Folder      string                          `json:"folder"`
		TotalFiles  int                             `json:"total_files"`
		HashedFiles int                             `json:"hashed_files"`
		Groups      []schema.EnrichedDuplicateGroup `json:"groups"`
		Trashed     []string                        `json:"trashed,omitempty"`
		Failures    []schema.FileFailure            `json:"failures,omitempty"`
	}
	output := jsonReport{
		Folder:      report.Folder,
		TotalFiles:  report.TotalFiles,
		HashedFiles: report.HashedFiles,
		Groups:      schema.EnrichDuplicateGroups(report.Groups),
		Trashed:     report.Trashed,
		Failures:    report.Failures,
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, output)
	}, "Wrote JSON")
}

// writeDupeParquetReport writes one parquet row per group member.
func writeDupeParquetReport(report *schema.DupeReport, cfg *contract.Config) error {
	if err := requireOutputFile(cfg.OutputFile, "parquet"); err != nil {
		return err
	}
	rows := parquet.ConvertDupeReport(report)
	if err := parquet.WriteDupeMembersParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", cfg.OutputFile)
	return nil
}
