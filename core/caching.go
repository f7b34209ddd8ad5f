package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/lightbox/core/meta"
	"github.com/huangsam/lightbox/core/sharp"
	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheMaxAge bounds how long a cache entry stays usable. Keys already
// carry size and mtime, so any file change misses naturally; the age cap
// just keeps dead keys from being trusted forever.
const cacheMaxAge = 7 * 24 * time.Hour

// scanCacheKey builds the cache key for one file. The scope keeps the meta
// and sharpness namespaces apart; grid-dependent scores carry the grid in
// their scope so a grid change never replays stale scores.
func scanCacheKey(scope, path string, info os.FileInfo) string {
	key := fmt.Sprintf("%s:%s:%d:%d", scope, path, info.Size(), info.ModTime().UnixNano())
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// scanStore returns the scan cache store, or nil when caching is off.
func scanStore(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetScanStore()
}

// checkCacheHit fetches and decodes one entry. A miss, a version mismatch,
// a stale timestamp and a decode failure all report false.
func checkCacheHit(store contract.CacheStore, key string, out any) bool {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return false // Cache miss
	}
	if version != currentCacheVersion {
		return false
	}
	if time.Since(time.Unix(ts, 0)) > cacheMaxAge {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// storeInCache writes one entry. Cache write failures are invisible to the
// scan; the next run simply recomputes.
func storeInCache(store contract.CacheStore, key string, value any) {
	if data, err := json.Marshal(value); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
}

// readRecordCached wraps Reader.Read with the scan cache. A cache hit skips
// the decode entirely; cache problems fall back to a direct read.
func readRecordCached(ctx context.Context, reader *meta.Reader, mgr contract.CacheManager, path string) (schema.MetadataRecord, error) {
	store := scanStore(mgr)
	if store == nil {
		return reader.Read(ctx, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return schema.MetadataRecord{}, &schema.UnreadableFileError{Path: path, Reason: err}
	}
	key := scanCacheKey("meta", path, info)

	var cached schema.MetadataRecord
	if checkCacheHit(store, key, &cached) {
		return cached, nil
	}

	rec, err := reader.Read(ctx, path)
	if err != nil {
		return schema.MetadataRecord{}, err
	}
	storeInCache(store, key, rec)
	return rec, nil
}

// scoreFileCached wraps Scorer.Score with the scan cache. The raw score is
// what gets cached; categories are recomputed from the current thresholds,
// so threshold changes never need a cache clear.
func scoreFileCached(scorer *sharp.Scorer, mgr contract.CacheManager, grid int, path string) (float64, error) {
	store := scanStore(mgr)
	if store == nil {
		return scorer.Score(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, &schema.UnreadableFileError{Path: path, Reason: err}
	}
	key := scanCacheKey(fmt.Sprintf("sharp:%d", grid), path, info)

	var cached float64
	if checkCacheHit(store, key, &cached) {
		return cached, nil
	}

	score, err := scorer.Score(path)
	if err != nil {
		return 0, err
	}
	storeInCache(store, key, score)
	return score, nil
}
