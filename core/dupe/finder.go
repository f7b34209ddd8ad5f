// Package dupe finds files with identical content and moves unwanted
// copies to the trash.
package dupe

import (
	"context"
	"encoding/hex"
	"io"
	"os"
	"sort"

	"github.com/huangsam/lightbox/schema"
	"lukechampine.com/blake3"
)

// groupKey identifies one potential duplicate group. Size is part of the
// key so buckets never bleed into each other.
type groupKey struct {
	size int64
	hash string
}

// Find groups identical files. Files are bucketed by size first; only
// buckets with two or more members get content-hashed, so unique-sized
// files cost a stat and nothing more. It returns the groups, how many
// files were hashed, and per-file failures. The progress callback fires
// after each hashed file.
//
// Cancellation is honored between files and returns the context error;
// partial results are discarded.
func Find(ctx context.Context, paths []string, progress schema.ProgressFunc) ([]schema.DuplicateGroup, int, []schema.FileFailure, error) {
	var failures []schema.FileFailure

	buckets := make(map[int64][]string)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			failures = append(failures, schema.FileFailure{Path: path, Error: err.Error()})
			continue
		}
		buckets[info.Size()] = append(buckets[info.Size()], path)
	}

	// Deterministic hashing order: larger buckets' sizes first, paths
	// sorted within each bucket.
	sizes := make([]int64, 0, len(buckets))
	total := 0
	for size, files := range buckets {
		if len(files) < 2 {
			continue
		}
		sizes = append(sizes, size)
		total += len(files)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] > sizes[j] })

	groups := make(map[groupKey][]string)
	processed := 0
	for _, size := range sizes {
		files := buckets[size]
		sort.Strings(files)
		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return nil, 0, nil, err
			}
			sum, err := hashFile(path)
			if err != nil {
				failures = append(failures, schema.FileFailure{Path: path, Error: err.Error()})
			} else {
				key := groupKey{size: size, hash: sum}
				groups[key] = append(groups[key], path)
			}
			processed++
			if progress != nil {
				progress(processed, total)
			}
		}
	}

	out := make([]schema.DuplicateGroup, 0, len(groups))
	for key, files := range groups {
		if len(files) < 2 {
			continue
		}
		sort.Strings(files)
		out = append(out, schema.DuplicateGroup{Hash: key.hash, Size: key.size, Files: files})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WastedBytes() != out[j].WastedBytes() {
			return out[i].WastedBytes() > out[j].WastedBytes()
		}
		return out[i].Hash < out[j].Hash
	})
	return out, total, failures, nil
}

// hashFile streams one file through BLAKE3 and returns the hex digest.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
