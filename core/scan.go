package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/huangsam/lightbox/core/dupe"
	"github.com/huangsam/lightbox/core/meta"
	"github.com/huangsam/lightbox/core/sharp"
	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/schema"
)

// collectFiles walks the folder and returns the sorted candidate paths
// matching the extension set. With recursion off only the folder's own
// entries are considered.
func collectFiles(folder string, exts schema.ExtensionSet, recursive bool) ([]string, error) {
	root := filepath.Clean(folder)
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if exts.Contains(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", folder, err)
	}
	sort.Strings(files)
	return files, nil
}

// beginRunTracking opens a history record for this scan. Tracking failures
// warn and disable tracking; they never fail the scan itself.
func beginRunTracking(mgr contract.CacheManager, command string, folder string, configParams map[string]any) (contract.HistoryStore, int64) {
	if mgr == nil {
		return nil, 0
	}
	history := mgr.GetHistoryStore()
	if history == nil {
		return nil, 0
	}
	runID, err := history.BeginRun(time.Now(), command, folder, configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return nil, 0
	}
	return history, runID
}

// endRunTracking finalizes the run record opened by beginRunTracking.
func endRunTracking(history contract.HistoryStore, runID int64, totalFiles int) {
	if history == nil || runID <= 0 {
		return
	}
	if err := history.EndRun(runID, time.Now(), totalFiles); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// recordFileScan stores one per-file row under the open run.
func recordFileScan(history contract.HistoryStore, runID int64, path string, scan schema.FileScan) {
	if history == nil || runID <= 0 {
		return
	}
	if err := history.RecordFileScan(runID, path, scan); err != nil {
		contract.LogWarn(fmt.Sprintf("Run tracking failed for %s", path), err)
	}
}

// metadataFileScan maps a record's present values onto the nullable history
// columns. Absent values stay nil and land as SQL NULLs.
func metadataFileScan(rec schema.MetadataRecord) schema.FileScan {
	scan := schema.FileScan{ScanTime: time.Now()}
	if rec.Aperture > 0 {
		scan.Aperture = &rec.Aperture
	}
	if rec.ShutterSpeed > 0 {
		scan.ShutterSpeed = &rec.ShutterSpeed
	}
	if rec.ISO > 0 {
		iso := int32(rec.ISO)
		scan.ISO = &iso
	}
	if rec.FocalLength > 0 {
		scan.FocalLength = &rec.FocalLength
	}
	if rec.LensModel != "" {
		scan.LensModel = &rec.LensModel
	}
	return scan
}

// sharpnessFileScan maps one scored entry onto the history columns.
func sharpnessFileScan(score float64, category schema.SharpnessCategory) schema.FileScan {
	cat := string(category)
	return schema.FileScan{
		ScanTime:  time.Now(),
		Sharpness: &score,
		Category:  &cat,
	}
}

// dupeFileScan maps one duplicate group member onto the history columns.
func dupeFileScan(group schema.DuplicateGroup) schema.FileScan {
	hash := group.Hash
	size := group.Size
	return schema.FileScan{
		ScanTime:    time.Now(),
		ContentHash: &hash,
		SizeBytes:   &size,
	}
}

// runMetaScan walks the folder, reads every supported file through a worker
// pool and aggregates the records into the distribution report. Per-file
// read failures are collected, never fatal. Cancellation stops work between
// files; records read so far still make it into the report.
func runMetaScan(ctx context.Context, cfg *contract.Config, decoder contract.MetadataDecoder, mgr contract.CacheManager) (*schema.MetadataReport, error) {
	files, err := collectFiles(cfg.Folder, cfg.MetadataExts, cfg.Recursive)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}

	history, runID := beginRunTracking(mgr, "meta", cfg.Folder, map[string]any{
		"workers":     cfg.Workers,
		"recursive":   cfg.Recursive,
		"crop_factor": cfg.CropFactor,
	})

	reader := meta.NewReader(cfg.MetadataExts, cfg.ForcedExts, decoder)

	type metaOutcome struct {
		record  schema.MetadataRecord
		failure *schema.FileFailure
	}

	// Initialize channels based on the number of files to be processed.
	fileCh := make(chan string, len(files))
	resultCh := make(chan metaOutcome, len(files))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for f := range fileCh {
				if ctx.Err() != nil {
					continue // drain without work; unprocessed files stay out of the report
				}
				rec, err := readRecordCached(ctx, reader, mgr, f)
				if err != nil {
					resultCh <- metaOutcome{failure: &schema.FileFailure{Path: f, Error: err.Error()}}
					continue
				}
				resultCh <- metaOutcome{record: rec}
				recordFileScan(history, runID, f, metadataFileScan(rec))
			}
		})
	}

	// Send files to worker channel
	for _, f := range files {
		fileCh <- f
	}
	close(fileCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh)

	// The aggregator has a single owner: this goroutine, after the pool is done.
	agg := meta.NewAggregator()
	var failures []schema.FileFailure
	for out := range resultCh {
		if out.failure != nil {
			failures = append(failures, *out.failure)
			continue
		}
		agg.Add(out.record)
	}
	sortFailures(failures)

	endRunTracking(history, runID, len(files))

	report := &schema.MetadataReport{
		Folder:        cfg.Folder,
		TotalFiles:    len(files),
		TotalRecords:  agg.Count(),
		Summaries:     agg.Summaries(),
		Distributions: agg.Finalize(),
		Combos:        agg.Combos(),
		Failures:      failures,
	}
	if cfg.CropFactor > 0 {
		equiv := agg.EquivalentFocal(cfg.CropFactor)
		report.EquivalentFocal = &equiv
	}
	return report, nil
}

// runSharpnessScan scores every decodable image in two phases. The pre-load
// phase registers pending entries with their header dimensions; the scan
// phase scores them through a worker pool. Entries still pending after a
// cancelled scan are a valid final state.
func runSharpnessScan(ctx context.Context, cfg *contract.Config, trash contract.TrashMover, mgr contract.CacheManager) (*schema.SharpnessReport, error) {
	files, err := collectFiles(cfg.Folder, cfg.PixelExts, cfg.Recursive)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}

	history, runID := beginRunTracking(mgr, "sharpness", cfg.Folder, map[string]any{
		"workers":         cfg.Workers,
		"grid":            cfg.GridSize,
		"blur_threshold":  cfg.BlurThreshold,
		"sharp_threshold": cfg.SharpThreshold,
	})

	scorer := sharp.NewScorer(cfg.PixelExts, cfg.GridSize)
	table := sharp.NewScoreTable()

	// Pre-load phase: header-only decode, sequential. Files that cannot
	// even yield dimensions are failures and never enter the table.
	var failures []schema.FileFailure
	registered := make([]string, 0, len(files))
	for _, f := range files {
		w, h, err := scorer.Preload(f)
		if err != nil {
			failures = append(failures, schema.FileFailure{Path: f, Error: err.Error()})
			continue
		}
		table.Register(f, w, h)
		registered = append(registered, f)
	}

	// Scan phase: pixel decode and grid scoring through the pool. Scores
	// land in the table; only failures need a channel.
	fileCh := make(chan string, len(registered))
	failCh := make(chan schema.FileFailure, len(registered))
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Go(func() {
			for f := range fileCh {
				if ctx.Err() != nil {
					continue // entry stays pending
				}
				score, err := scoreFileCached(scorer, mgr, cfg.GridSize, f)
				if err != nil {
					failCh <- schema.FileFailure{Path: f, Error: err.Error()}
					continue
				}
				category := schema.CategorizeSharpness(score, cfg.BlurThreshold, cfg.SharpThreshold)
				if err := table.SetScore(f, score, category); err != nil {
					failCh <- schema.FileFailure{Path: f, Error: err.Error()}
					continue
				}
				recordFileScan(history, runID, f, sharpnessFileScan(score, category))
			}
		})
	}
	for _, f := range registered {
		fileCh <- f
	}
	close(fileCh)
	wg.Wait()
	close(failCh)
	for failure := range failCh {
		failures = append(failures, failure)
	}

	endRunTracking(history, runID, len(files))

	results := table.Results()

	var culled []string
	if cfg.CullBelow > 0 && cfg.Trash {
		culled, failures = cullBelow(results, cfg.CullBelow, trash, failures)
	}
	sortFailures(failures)

	return &schema.SharpnessReport{
		Folder:   cfg.Folder,
		Grid:     cfg.GridSize,
		Results:  results,
		Culled:   culled,
		Failures: failures,
	}, nil
}

// cullBelow moves every scored file under the bound to the trash, along
// with its same-stem related files, so a culled frame takes its RAW and
// sidecar siblings with it. Trash failures are reported per file and never
// abort the pass. Pending entries are never culled.
func cullBelow(results []schema.SharpnessResult, bound float64, trash contract.TrashMover, failures []schema.FileFailure) ([]string, []schema.FileFailure) {
	var culled []string
	moveToTrash := func(path string) {
		if trash == nil {
			failures = append(failures, schema.FileFailure{Path: path, Error: "trash is not available"})
			return
		}
		if err := trash.Move(path); err != nil {
			failures = append(failures, schema.FileFailure{Path: path, Error: err.Error()})
			return
		}
		culled = append(culled, path)
	}

	for _, r := range results {
		if r.State != schema.ScoreDone || r.Score >= bound {
			continue
		}
		related, err := sharp.FindRelated(r.Path)
		if err != nil {
			failures = append(failures, schema.FileFailure{Path: r.Path, Error: err.Error()})
			continue
		}
		moveToTrash(r.Path)
		for _, sibling := range related {
			moveToTrash(sibling)
		}
	}
	return culled, failures
}

// runDupeScan finds identical files and, when asked, trashes every group
// member except the first sorted one. The progress callback reports each
// hashed file unless headers are suppressed.
func runDupeScan(ctx context.Context, cfg *contract.Config, trash contract.TrashMover, mgr contract.CacheManager) (*schema.DupeReport, error) {
	files, err := collectFiles(cfg.Folder, cfg.DuplicateExts, cfg.Recursive)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}

	history, runID := beginRunTracking(mgr, "dupes", cfg.Folder, map[string]any{
		"workers":   cfg.Workers,
		"recursive": cfg.Recursive,
		"trash":     cfg.Trash,
	})

	var progress schema.ProgressFunc
	if !shouldSuppressHeader(ctx) {
		progress = func(processed, total int) {
			fmt.Printf("\rHashing files: %d/%d", processed, total)
			if processed == total {
				fmt.Println()
			}
		}
	}

	groups, hashed, failures, err := dupe.Find(ctx, files, progress)
	if err != nil {
		return nil, err
	}

	for _, group := range groups {
		for _, f := range group.Files {
			recordFileScan(history, runID, f, dupeFileScan(group))
		}
	}

	// The report keeps group membership as found; the trash pass below
	// mutates the working groups as members get moved.
	reportGroups := make([]schema.DuplicateGroup, len(groups))
	for i, g := range groups {
		reportGroups[i] = schema.DuplicateGroup{
			Hash:  g.Hash,
			Size:  g.Size,
			Files: append([]string(nil), g.Files...),
		}
	}

	var trashed []string
	if cfg.Trash {
		deleter := dupe.NewDeleter(trash)
		for gi := range groups {
			group := &groups[gi]
			// Files come sorted from the finder; the first member is the keeper.
			candidates := append([]string(nil), group.Files[1:]...)
			for _, f := range candidates {
				outcome, err := deleter.Delete(group, f)
				if outcome == schema.DeleteTrashed {
					trashed = append(trashed, f)
					continue
				}
				failures = append(failures, schema.FileFailure{Path: f, Error: err.Error()})
			}
		}
	}
	sortFailures(failures)

	endRunTracking(history, runID, len(files))

	return &schema.DupeReport{
		Folder:      cfg.Folder,
		TotalFiles:  len(files),
		HashedFiles: hashed,
		Groups:      reportGroups,
		Trashed:     trashed,
		Failures:    failures,
	}, nil
}

// sortFailures orders per-file failures by path for stable reports.
func sortFailures(failures []schema.FileFailure) {
	sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })
}
