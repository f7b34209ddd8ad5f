package schema

import "time"

// CacheStatus represents the status of the scan cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend            string           `json:"backend"`
	Connected          bool             `json:"connected"`
	TotalRuns          int              `json:"total_runs"`
	LastRunID          int64            `json:"last_run_id"`
	LastRunTime        time.Time        `json:"last_run_time"`
	OldestRunTime      time.Time        `json:"oldest_run_time"`
	TotalFilesRecorded int              `json:"total_files_recorded"`
	TableSizes         map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the lightbox_scan_runs table. Pointer
// fields are nullable columns, unset while a run is still open.
type RunRecord struct {
	RunID        int64
	Command      string
	Folder       string
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int32
	TotalFiles   int32
	ConfigParams *string
}

// FileScan holds the per-file values captured during one run. Pointer
// fields are nullable columns; a nil means the run did not produce that value.
type FileScan struct {
	ScanTime     time.Time
	Aperture     *float64
	ShutterSpeed *float64
	ISO          *int32
	FocalLength  *float64
	LensModel    *string
	Sharpness    *float64
	Category     *string
	ContentHash  *string
	SizeBytes    *int64
}

// FileResultRecord represents a row from the lightbox_file_results table.
type FileResultRecord struct {
	RunID    int64
	FilePath string
	FileScan
}
