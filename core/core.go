// Package core has core logic for scanning, scoring and duplicate detection.
package core

import (
	"context"
	"time"

	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/internal/outwriter"
	"github.com/huangsam/lightbox/schema"
)

// ExecutorFunc defines the function signature for executing different scan modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// GetMetaReport runs the metadata scan and returns the report without
// rendering it. Embedding callers pair this with WithSuppressHeader.
func GetMetaReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.MetadataReport, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.PrintScanHeader(cfg, "Metadata scan")
	}
	decoder := contract.NewExifToolDecoder(cfg.DecoderPath)
	return runMetaScan(ctx, cfg, decoder, mgr)
}

// ExecuteMeta runs the metadata scan and prints results to stdout.
// It serves as the main entry point for the 'meta' command.
func ExecuteMeta(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := GetMetaReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintMetaReport(report, cfg, duration)
}

// GetSharpnessReport runs the sharpness scan and returns the report without
// rendering it.
func GetSharpnessReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.SharpnessReport, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.PrintScanHeader(cfg, "Sharpness scan")
	}
	trash := contract.NewLocalTrashMover()
	return runSharpnessScan(ctx, cfg, trash, mgr)
}

// ExecuteSharpness runs the sharpness scan and prints results to stdout.
// It serves as the main entry point for the 'sharpness' command.
func ExecuteSharpness(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := GetSharpnessReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintSharpnessReport(report, cfg, duration)
}

// GetDupeReport runs the duplicate scan and returns the report without
// rendering it.
func GetDupeReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.DupeReport, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.PrintScanHeader(cfg, "Duplicate scan")
	}
	trash := contract.NewLocalTrashMover()
	return runDupeScan(ctx, cfg, trash, mgr)
}

// ExecuteDupes runs the duplicate scan and prints results to stdout.
// It serves as the main entry point for the 'dupes' command.
func ExecuteDupes(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := GetDupeReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintDupeReport(report, cfg, duration)
}
