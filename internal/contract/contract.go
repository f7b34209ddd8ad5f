// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/lightbox/schema"
)

// MetadataDecoder defines the external decode capability for formats the
// native reader cannot parse (RAW, HEIC, and other container formats).
// This allows the metadata reader to be tested without a real decoder binary.
type MetadataDecoder interface {
	// Available reports whether the decoder can run at all. Callers probe
	// this once per batch; an unavailable decoder fails files one by one
	// rather than aborting the batch.
	Available() bool

	// Decode returns the raw tag map for one file. Keys are decoder-native
	// tag names; normalization onto the five metadata dimensions happens
	// in the reader.
	Decode(ctx context.Context, path string) (map[string]any, error)
}

// TrashMover defines the platform trash capability used by deletion flows.
// Moves are recoverable by the user; nothing is ever unlinked directly.
type TrashMover interface {
	// Available reports whether the trash location is usable.
	Available() bool

	// Move sends one file to the trash.
	Move(path string) error
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetScanStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for scan cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking scan runs and storing
// per-file results.
type HistoryStore interface {
	// BeginRun creates a new run record and returns its unique ID
	BeginRun(startTime time.Time, command string, folder string, configParams map[string]any) (int64, error)

	// EndRun updates the run record with completion data
	EndRun(runID int64, endTime time.Time, totalFiles int) error

	// RecordFileScan stores the per-file values captured during a run
	RecordFileScan(runID int64, filePath string, scan schema.FileScan) error

	// GetAllRuns retrieves every run record, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllFileScans retrieves every per-file row, ordered by run and path
	GetAllFileScans() ([]schema.FileResultRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
