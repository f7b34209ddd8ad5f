package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/schema"
)

// ExecuteCheck probes every external collaborator the scans depend on and
// prints one line per probe. It serves as the main entry point for the
// 'check' command. A failing probe surfaces as an error so the command
// exits non-zero.
func ExecuteCheck(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()

	result := buildCheckResult(cfg, mgr)
	printCheckResult(result, time.Since(start))

	if !result.Passed {
		failed := 0
		for _, item := range result.Items {
			if !item.Passed {
				failed++
			}
		}
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

// buildCheckResult runs the individual probes. Disabled backends pass;
// only collaborators the current config would actually use can fail.
func buildCheckResult(cfg *contract.Config, mgr contract.CacheManager) *schema.CheckResult {
	items := []schema.CheckItem{
		checkDecoder(cfg),
		checkTrash(),
		checkScanStore(cfg, mgr),
		checkHistoryStore(cfg, mgr),
	}

	passed := true
	for _, item := range items {
		if !item.Passed {
			passed = false
		}
	}
	return &schema.CheckResult{Passed: passed, Items: items}
}

// checkDecoder probes the external metadata decoder binary.
func checkDecoder(cfg *contract.Config) schema.CheckItem {
	name := cfg.DecoderPath
	if name == "" {
		name = "exiftool"
	}
	decoder := contract.NewExifToolDecoder(cfg.DecoderPath)
	if !decoder.Available() {
		return schema.CheckItem{
			Name:   "Metadata decoder",
			Detail: fmt.Sprintf("%s not found; RAW and HEIC files will fail to read", name),
		}
	}
	return schema.CheckItem{Name: "Metadata decoder", Passed: true, Detail: name}
}

// checkTrash probes the trash location used by --trash and cull passes.
func checkTrash() schema.CheckItem {
	trash := contract.NewLocalTrashMover()
	if !trash.Available() {
		return schema.CheckItem{
			Name:   "Trash location",
			Detail: "trash directory cannot be created; --trash will fail",
		}
	}
	return schema.CheckItem{Name: "Trash location", Passed: true, Detail: "writable"}
}

// checkScanStore probes scan cache connectivity.
func checkScanStore(cfg *contract.Config, mgr contract.CacheManager) schema.CheckItem {
	const label = "Scan cache"
	if cfg.CacheBackend == schema.NoneBackend {
		return schema.CheckItem{Name: label, Passed: true, Detail: "disabled"}
	}
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetScanStore()
	}
	if store == nil {
		return schema.CheckItem{
			Name:   label,
			Detail: fmt.Sprintf("%s store is not connected", cfg.CacheBackend),
		}
	}
	status, err := store.GetStatus()
	if err != nil {
		return schema.CheckItem{Name: label, Detail: err.Error()}
	}
	return schema.CheckItem{
		Name:   label,
		Passed: true,
		Detail: fmt.Sprintf("%s, %d entries", status.Backend, status.TotalEntries),
	}
}

// checkHistoryStore probes run history connectivity.
func checkHistoryStore(cfg *contract.Config, mgr contract.CacheManager) schema.CheckItem {
	const label = "Run history"
	if cfg.HistoryBackend == schema.NoneBackend {
		return schema.CheckItem{Name: label, Passed: true, Detail: "disabled"}
	}
	var store contract.HistoryStore
	if mgr != nil {
		store = mgr.GetHistoryStore()
	}
	if store == nil {
		return schema.CheckItem{
			Name:   label,
			Detail: fmt.Sprintf("%s store is not connected", cfg.HistoryBackend),
		}
	}
	status, err := store.GetStatus()
	if err != nil {
		return schema.CheckItem{Name: label, Detail: err.Error()}
	}
	return schema.CheckItem{
		Name:   label,
		Passed: true,
		Detail: fmt.Sprintf("%s, %d runs", status.Backend, status.TotalRuns),
	}
}

// printCheckResult prints the probe outcomes in a concise format suitable for CI/CD.
func printCheckResult(result *schema.CheckResult, duration time.Duration) {
	fmt.Println("Environment check:")

	// Find the longest label for consistent padding
	maxLabelLen := 0
	for _, item := range result.Items {
		if len(item.Name) > maxLabelLen {
			maxLabelLen = len(item.Name)
		}
	}

	// Print each probe with consistent padding
	for _, item := range result.Items {
		mark := "✅"
		if !item.Passed {
			mark = "❌"
		}
		fmt.Printf("  %s %-*s %s\n", mark, maxLabelLen+1, item.Name+":", item.Detail)
	}
	fmt.Println()

	if result.Passed {
		fmt.Printf("All checks passed in %v\n", duration)
	} else {
		fmt.Printf("Checked %d collaborators in %v\n", len(result.Items), duration)
	}
}
