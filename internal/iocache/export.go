package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/lightbox/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of run history data to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the history store
	store := Manager.GetHistoryStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total scan runs: %d\n", status.TotalRuns)
	fmt.Printf("Total file records: %d\n", status.TableSizes[fileResultsTable])

	// Retrieve all scan runs
	scanRuns, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve scan runs: %w", err)
	}

	// Retrieve all per-file results
	fileResults, err := store.GetAllFileScans()
	if err != nil {
		return fmt.Errorf("failed to retrieve file results: %w", err)
	}

	// Convert to Parquet format
	parquetScanRuns := parquet.ConvertRunRecords(scanRuns)
	parquetFileResults := parquet.ConvertFileResultRecords(fileResults)

	// Write scan runs to Parquet
	scanRunsFile := outputFile + ".scan_runs.parquet"
	if err := parquet.WriteScanRunsParquet(parquetScanRuns, scanRunsFile); err != nil {
		return fmt.Errorf("failed to write scan runs: %w", err)
	}
	fmt.Printf("Exported %d scan runs to: %s\n", len(parquetScanRuns), scanRunsFile)

	// Write file results to Parquet
	fileResultsFile := outputFile + ".file_results.parquet"
	if err := parquet.WriteFileResultsParquet(parquetFileResults, fileResultsFile); err != nil {
		return fmt.Errorf("failed to write file results: %w", err)
	}
	fmt.Printf("Exported %d file records to: %s\n", len(parquetFileResults), fileResultsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
