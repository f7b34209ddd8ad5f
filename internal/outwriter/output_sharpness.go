package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/internal/parquet"
	"github.com/huangsam/lightbox/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSharpnessReport outputs the sharpness scan report, dispatching based
// on the output format configured.
func PrintSharpnessReport(report *schema.SharpnessReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	ranked := rankSharpnessResults(report.Results)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeSharpnessJSONReport(ranked, report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeSharpnessCSVReport(ranked, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeSharpnessParquetReport(report, cfg); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSharpnessTable(ranked, report, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// rankSharpnessResults orders results sharpest first, with entries still
// pending at the end in their original order.
func rankSharpnessResults(results []schema.SharpnessResult) []schema.SharpnessResult {
	ranked := append([]schema.SharpnessResult(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.State != b.State {
			return a.State == schema.ScoreDone
		}
		return a.Score > b.Score
	})
	return ranked
}

// writeSharpnessTable generates and writes the human-readable table.
func writeSharpnessTable(ranked []schema.SharpnessResult, report *schema.SharpnessReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Path", "Score", "Label", "Pixels"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	shown := len(ranked)
	if cfg.ResultLimit > 0 {
		shown = min(cfg.ResultLimit, shown)
	}

	var data [][]string
	for i, r := range ranked[:shown] {
		score := "-"
		label := contract.GetColorLabel("")
		if r.State == schema.ScoreDone {
			score = fmtFloat(r.Score)
			label = contract.GetColorLabel(r.Category)
		}
		row := []string{
			strconv.Itoa(i + 1), // Rank
			contract.TruncatePath(r.Path, getMaxTablePathWidth(cfg)), // Path
			score,
			label,
			fmt.Sprintf("%dx%d", r.Width, r.Height),
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	scored, blurry := 0, 0
	for _, r := range report.Results {
		if r.State != schema.ScoreDone {
			continue
		}
		scored++
		if r.Category == schema.BlurryCategory {
			blurry++
		}
	}
	if _, err := fmt.Fprintf(writer, "Scored %d of %d files (%d blurry, grid %dx%d)\n",
		scored, len(report.Results), blurry, report.Grid, report.Grid); err != nil {
		return err
	}
	if len(report.Culled) > 0 {
		if _, err := fmt.Fprintf(writer, "Moved %d files to trash\n", len(report.Culled)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeSharpnessCSVReport writes the ranked results in CSV format.
func writeSharpnessCSVReport(ranked []schema.SharpnessResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"rank", "path", "state", "score", "label", "width", "height"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for i, r := range ranked {
				score := ""
				label := schema.UnknownLabel
				if r.State == schema.ScoreDone {
					score = fmtFloat(r.Score)
					label = r.Category.Label()
				}
				rec := []string{
					strconv.Itoa(i + 1),
					r.Path,
					string(r.State),
					score,
					label,
					strconv.Itoa(r.Width),
					strconv.Itoa(r.Height),
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeSharpnessJSONReport writes the report with ranked, enriched results.
func writeSharpnessJSONReport(ranked []schema.SharpnessResult, report *schema.SharpnessReport, cfg *contract.Config) error {
	type jsonReport struct {
		Folder   string                           `json:"folder"`
		Grid     int                              `json:"grid"`
		Results  []schema.EnrichedSharpnessResult `json:"results"`
		Culled   []string                         `json:"culled,omitempty"`
		Failures []schema.FileFailure             `json:"failures,omitempty"`
	}
	output := jsonReport{
		Folder:   report.Folder,
		Grid:     report.Grid,
		Results:  schema.EnrichSharpnessResults(ranked),
		Culled:   report.Culled,
		Failures: report.Failures,
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, output)
	}, "Wrote JSON")
}

// writeSharpnessParquetReport writes the score rows to a parquet file.
func writeSharpnessParquetReport(report *schema.SharpnessReport, cfg *contract.Config) error {
	if err := requireOutputFile(cfg.OutputFile, "parquet"); err != nil {
		return err
	}
	rows := parquet.ConvertSharpnessReport(report)
	if err := parquet.WriteSharpnessScoresParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", cfg.OutputFile)
	return nil
}
