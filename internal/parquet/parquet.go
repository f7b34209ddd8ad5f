// Package parquet provides row types and writers for exporting lightbox
// reports and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/lightbox/schema"
	"github.com/parquet-go/parquet-go"
)

// ScanRun is one scan run with its timing and configuration.
// This struct maps to the lightbox_scan_runs database table.
type ScanRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Command is the scan that produced the run (meta, sharpness, dupes)
	Command string `parquet:"command,snappy"`

	// Folder is the folder that was scanned
	Folder string `parquet:"folder,snappy"`

	// StartTime is when the scan began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the scan finished (nullable while a run is open)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the scan duration in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalFiles is the number of files the run processed
	TotalFiles int32 `parquet:"total_files,snappy"`

	// ConfigParams contains the JSON-encoded run configuration (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// FileResult is the per-file outcome captured during one run. Each command
// fills only the columns it produces, so most value columns are nullable.
// This struct maps to the lightbox_file_results database table.
type FileResult struct {
	// RunID references the parent scan run
	RunID int64 `parquet:"run_id,snappy"`

	// FilePath is the absolute path of the scanned file
	FilePath string `parquet:"file_path,snappy"`

	// ScanTime is when this file was processed
	ScanTime time.Time `parquet:"scan_time,snappy"`

	// Aperture is the f-number from the metadata scan (nullable)
	Aperture *float64 `parquet:"aperture,optional,snappy"`

	// ShutterSpeed is the exposure time in seconds (nullable)
	ShutterSpeed *float64 `parquet:"shutter_speed,optional,snappy"`

	// ISO is the sensitivity rating (nullable)
	ISO *int32 `parquet:"iso,optional,snappy"`

	// FocalLength is the focal length in millimeters (nullable)
	FocalLength *float64 `parquet:"focal_length,optional,snappy"`

	// LensModel is the lens identifier string (nullable)
	LensModel *string `parquet:"lens_model,optional,snappy"`

	// Sharpness is the Laplacian variance score (nullable)
	Sharpness *float64 `parquet:"sharpness,optional,snappy"`

	// Category is the sharpness category derived from the score (nullable)
	Category *string `parquet:"category,optional,snappy"`

	// ContentHash is the BLAKE3 hash from the duplicate scan (nullable)
	ContentHash *string `parquet:"content_hash,optional,snappy"`

	// SizeBytes is the file size from the duplicate scan (nullable)
	SizeBytes *int64 `parquet:"size_bytes,optional,snappy"`
}

// MetricBucket is one distribution bucket from a metadata report.
type MetricBucket struct {
	// Metric is the dimension the bucket belongs to
	Metric string `parquet:"metric,snappy"`

	// Kind tells whether the buckets are numeric or categorical
	Kind string `parquet:"kind,snappy"`

	// Bucket is the display label, e.g. "f/2.8" or "24-28 mm"
	Bucket string `parquet:"bucket,snappy"`

	// Count is how many files fell into the bucket
	Count int32 `parquet:"count,snappy"`
}

// SharpnessScore is one score table entry from a sharpness report.
type SharpnessScore struct {
	// FilePath is the scored image
	FilePath string `parquet:"file_path,snappy"`

	// Width and Height are the image dimensions in pixels
	Width  int32 `parquet:"width,snappy"`
	Height int32 `parquet:"height,snappy"`

	// State is the score lifecycle state (pending or scored)
	State string `parquet:"state,snappy"`

	// Score is the maximum per-block Laplacian variance
	Score float64 `parquet:"score,snappy"`

	// Category is the threshold label (nullable while pending)
	Category *string `parquet:"category,optional,snappy"`
}

// DupeMember is one file inside a duplicate group.
type DupeMember struct {
	// ContentHash identifies the group
	ContentHash string `parquet:"content_hash,snappy"`

	// SizeBytes is the shared byte size of the group's members
	SizeBytes int64 `parquet:"size_bytes,snappy"`

	// FilePath is the group member
	FilePath string `parquet:"file_path,snappy"`
}

// writeParquet writes rows to a Parquet file. The schema is inferred from
// the row struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	// Close flushes the row group and footer, so its error matters.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteScanRunsParquet writes a slice of ScanRun structs to a Parquet file.
func WriteScanRunsParquet(data []ScanRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFileResultsParquet writes a slice of FileResult structs to a Parquet file.
func WriteFileResultsParquet(data []FileResult, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteMetricBucketsParquet writes a slice of MetricBucket structs to a Parquet file.
func WriteMetricBucketsParquet(data []MetricBucket, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSharpnessScoresParquet writes a slice of SharpnessScore structs to a Parquet file.
func WriteSharpnessScoresParquet(data []SharpnessScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteDupeMembersParquet writes a slice of DupeMember structs to a Parquet file.
func WriteDupeMembersParquet(data []DupeMember, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord rows to ScanRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []ScanRun {
	result := make([]ScanRun, len(records))
	for i, record := range records {
		result[i] = ScanRun{
			RunID:         record.RunID,
			Command:       record.Command,
			Folder:        record.Folder,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.DurationMs,
			TotalFiles:    record.TotalFiles,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertFileResultRecords converts schema.FileResultRecord rows to FileResult for Parquet export.
func ConvertFileResultRecords(records []schema.FileResultRecord) []FileResult {
	result := make([]FileResult, len(records))
	for i, record := range records {
		result[i] = FileResult{
			RunID:        record.RunID,
			FilePath:     record.FilePath,
			ScanTime:     record.ScanTime,
			Aperture:     record.Aperture,
			ShutterSpeed: record.ShutterSpeed,
			ISO:          record.ISO,
			FocalLength:  record.FocalLength,
			LensModel:    record.LensModel,
			Sharpness:    record.Sharpness,
			Category:     record.Category,
			ContentHash:  record.ContentHash,
			SizeBytes:    record.SizeBytes,
		}
	}
	return result
}

// ConvertMetadataReport flattens a metadata report's distributions into
// bucket rows. Metrics appear in report order, then the combo view, then
// the 35mm-equivalent view when present.
func ConvertMetadataReport(report *schema.MetadataReport) []MetricBucket {
	var rows []MetricBucket
	appendDist := func(dist schema.Distribution) {
		for _, b := range dist.Buckets {
			rows = append(rows, MetricBucket{
				Metric: string(dist.Metric),
				Kind:   string(dist.Kind),
				Bucket: b.Label,
				Count:  int32(b.Count),
			})
		}
	}
	for _, metric := range schema.AllMetrics {
		if dist, ok := report.Distributions[metric]; ok {
			appendDist(dist)
		}
	}
	appendDist(report.Combos)
	if report.EquivalentFocal != nil {
		appendDist(*report.EquivalentFocal)
	}
	return rows
}

// ConvertSharpnessReport converts a sharpness report's results into score
// rows. Pending entries keep a nil category.
func ConvertSharpnessReport(report *schema.SharpnessReport) []SharpnessScore {
	result := make([]SharpnessScore, len(report.Results))
	for i, r := range report.Results {
		row := SharpnessScore{
			FilePath: r.Path,
			Width:    int32(r.Width),
			Height:   int32(r.Height),
			State:    string(r.State),
			Score:    r.Score,
		}
		if r.State == schema.ScoreDone {
			category := string(r.Category)
			row.Category = &category
		}
		result[i] = row
	}
	return result
}

// ConvertDupeReport flattens a duplicate report into one row per group member.
func ConvertDupeReport(report *schema.DupeReport) []DupeMember {
	var rows []DupeMember
	for _, group := range report.Groups {
		for _, path := range group.Files {
			rows = append(rows, DupeMember{
				ContentHash: group.Hash,
				SizeBytes:   group.Size,
				FilePath:    path,
			})
		}
	}
	return rows
}
