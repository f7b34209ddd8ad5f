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

// PrintMetaReport outputs the metadata scan report, dispatching based on the
// output format configured.
func PrintMetaReport(report *schema.MetadataReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeMetaJSONReport(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeMetaCSVReport(report, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeMetaParquetReport(report, cfg); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetaTables(report, cfg, fmtFloat, duration, w)
		}, "Wrote tables")
	}
	return nil
}

// metricDisplayLimit returns how many buckets of a metric the text report
// shows. A --limit override applies to every metric uniformly.
func metricDisplayLimit(metric schema.Metric, cfg *contract.Config) int {
	if cfg.ResultLimit > 0 {
		return cfg.ResultLimit
	}
	switch metric {
	case schema.MetricAperture:
		return schema.TopApertures
	case schema.MetricShutterSpeed:
		return schema.TopShutterSpeeds
	case schema.MetricISO:
		return schema.TopISOs
	case schema.MetricFocalLength:
		return schema.TopFocalLengths
	case schema.MetricLensModel:
		return schema.TopLenses
	default:
		return schema.TopCombos
	}
}

// writeMetaTables generates and writes the human-readable per-metric tables.
func writeMetaTables(report *schema.MetadataReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	distributions := make([]schema.Distribution, 0, len(schema.AllMetrics)+2)
	for _, metric := range schema.AllMetrics {
		if dist, ok := report.Distributions[metric]; ok {
			distributions = append(distributions, dist)
		}
	}
	distributions = append(distributions, report.Combos)
	if report.EquivalentFocal != nil {
		distributions = append(distributions, *report.EquivalentFocal)
	}

	for _, dist := range distributions {
		if err := writeDistributionTable(dist, report, cfg, fmtFloat, writer); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Scanned %d files, %d with usable metadata\n",
		report.TotalFiles, report.TotalRecords); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeDistributionTable renders one metric's bucket counts with its summary line.
func writeDistributionTable(dist schema.Distribution, report *schema.MetadataReport, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	limit := metricDisplayLimit(dist.Metric, cfg)
	shown := min(limit, len(dist.Buckets))

	if _, err := fmt.Fprintf(writer, "%s (top %d of %d)\n", dist.Metric, shown, len(dist.Buckets)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Value", "Count"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, b := range dist.Buckets[:shown] {
		data = append(data, []string{
			strconv.Itoa(i + 1), // Rank
			b.Label,             // Value
			strconv.Itoa(b.Count),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Numeric metrics carry a summary line under the table.
	if summary, ok := report.Summaries[dist.Metric]; ok && summary.Count > 0 {
		if _, err := fmt.Fprintf(writer, "  n=%d mean=%s min=%s max=%s\n",
			summary.Count, fmtFloat(summary.Mean), fmtFloat(summary.Min), fmtFloat(summary.Max)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(writer)
	return err
}

// writeMetaCSVReport writes every distribution bucket as one flat CSV row set.
func writeMetaCSVReport(report *schema.MetadataReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"metric", "rank", "value", "count"}
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			return writeMetaCSVRows(csvWriter, report)
		})
	}, "Wrote CSV")
}

// writeMetaCSVRows writes the bucket rows for all distributions, combos included.
func writeMetaCSVRows(w *csv.Writer, report *schema.MetadataReport) error {
	writeDist := func(dist schema.Distribution) error {
		for i, b := range dist.Buckets {
			rec := []string{
				string(dist.Metric),
				strconv.Itoa(i + 1),
				b.Label,
				strconv.Itoa(b.Count),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	}

	for _, metric := range schema.AllMetrics {
		if dist, ok := report.Distributions[metric]; ok {
			if err := writeDist(dist); err != nil {
				return err
			}
		}
	}
	if err := writeDist(report.Combos); err != nil {
		return err
	}
	if report.EquivalentFocal != nil {
		return writeDist(*report.EquivalentFocal)
	}
	return nil
}

// writeMetaJSONReport writes the full report as indented JSON.
func writeMetaJSONReport(report *schema.MetadataReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, report)
	}, "Wrote JSON")
}

// writeMetaParquetReport writes the bucket rows to a parquet file.
func writeMetaParquetReport(report *schema.MetadataReport, cfg *contract.Config) error {
	if err := requireOutputFile(cfg.OutputFile, "parquet"); err != nil {
		return err
	}
	rows := parquet.ConvertMetadataReport(report)
	if err := parquet.WriteMetricBucketsParquet(rows, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", cfg.OutputFile)
	return nil
}
