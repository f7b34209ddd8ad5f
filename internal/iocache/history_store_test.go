package iocache

import (
	"testing"
	"time"

	"github.com/huangsam/lightbox/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ptr returns a pointer to v for building FileScan values in tests.
func ptr[T any](v T) *T { return &v }

func TestHistoryStore_NoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	// BeginRun should return 0 for NoneBackend
	runID, err := store.BeginRun(time.Now(), "meta", "/photos", map[string]any{"test": "value"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	// Other operations should not error
	err = store.EndRun(1, time.Now(), 10)
	assert.NoError(t, err)

	err = store.RecordFileScan(1, "IMG_0001.jpg", schema.FileScan{ScanTime: time.Now()})
	assert.NoError(t, err)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	records, err := store.GetAllFileScans()
	assert.NoError(t, err)
	assert.Empty(t, records)

	err = store.Close()
	assert.NoError(t, err)
}

func TestHistoryStore_SQLite(t *testing.T) {
	// Use in-memory SQLite for testing
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	// Test BeginRun
	startTime := time.Now()
	configParams := map[string]any{
		"workers":   4,
		"recursive": true,
		"folder":    "/photos/2024",
	}
	runID, err := store.BeginRun(startTime, "sharpness", "/photos/2024", configParams)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	// Test RecordFileScan
	scan := schema.FileScan{
		ScanTime:  time.Now(),
		Sharpness: ptr(152.4),
		Category:  ptr("sharp"),
	}
	err = store.RecordFileScan(runID, "/photos/2024/IMG_0001.jpg", scan)
	assert.NoError(t, err)

	// Test EndRun
	endTime := time.Now()
	err = store.EndRun(runID, endTime, 1)
	assert.NoError(t, err)
}

func TestHistoryStore_MultipleRuns(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	// Create multiple scan runs
	var runIDs []int64
	for i := range 3 {
		id, err := store.BeginRun(time.Now(), "meta", "/photos", map[string]any{"run": i})
		require.NoError(t, err)
		runIDs = append(runIDs, id)

		// Record a file for each run
		scan := schema.FileScan{
			ScanTime:    time.Now(),
			Aperture:    ptr(2.8),
			ISO:         ptr(int32(100 + i*100)),
			FocalLength: ptr(50.0),
		}
		err = store.RecordFileScan(id, "IMG_0001.jpg", scan)
		assert.NoError(t, err)

		err = store.EndRun(id, time.Now(), 1)
		assert.NoError(t, err)
	}

	// Verify all IDs are unique
	assert.Equal(t, 3, len(runIDs))
	assert.NotEqual(t, runIDs[0], runIDs[1])
	assert.NotEqual(t, runIDs[1], runIDs[2])
}

func TestHistoryStore_RuntimeCapture(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	t.Run("runtime calculation", func(t *testing.T) {
		// Start run at a known time
		startTime := time.Now().Add(-100 * time.Millisecond) // Start 100ms ago
		runID, err := store.BeginRun(startTime, "dupes", "/photos", map[string]any{"test": "runtime"})
		require.NoError(t, err)

		// Wait a bit to ensure measurable duration
		time.Sleep(50 * time.Millisecond)

		// End run
		endTime := time.Now()
		err = store.EndRun(runID, endTime, 1)
		assert.NoError(t, err)

		// Query the database to verify runtime was captured
		db := store.(*HistoryStoreImpl).db
		var storedStartTime, storedEndTime string
		var storedDurationMs int64

		row := db.QueryRow("SELECT start_time, end_time, run_duration_ms FROM lightbox_scan_runs WHERE run_id = ?", runID)
		err = row.Scan(&storedStartTime, &storedEndTime, &storedDurationMs)
		assert.NoError(t, err)

		// Parse stored times
		storedStart, err := time.Parse(time.RFC3339Nano, storedStartTime)
		assert.NoError(t, err)
		storedEnd, err := time.Parse(time.RFC3339Nano, storedEndTime)
		assert.NoError(t, err)

		// Verify duration calculation: should be approximately end - start
		expectedDurationMs := storedEnd.Sub(storedStart).Milliseconds()
		assert.Equal(t, expectedDurationMs, storedDurationMs)

		// Verify duration is reasonable (should be around 150ms ± some tolerance)
		assert.GreaterOrEqual(t, storedDurationMs, int64(100)) // At least 100ms (our initial offset)
		assert.LessOrEqual(t, storedDurationMs, int64(300))    // At most 300ms (allowing for test overhead)
	})

	t.Run("zero duration edge case", func(t *testing.T) {
		// Test with same start and end time
		startTime := time.Now()
		runID, err := store.BeginRun(startTime, "meta", "/photos", map[string]any{"test": "zero_duration"})
		require.NoError(t, err)

		// End immediately with same time
		err = store.EndRun(runID, startTime, 1)
		assert.NoError(t, err)

		// Verify duration is 0
		db := store.(*HistoryStoreImpl).db
		var storedDurationMs int64
		row := db.QueryRow("SELECT run_duration_ms FROM lightbox_scan_runs WHERE run_id = ?", runID)
		err = row.Scan(&storedDurationMs)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), storedDurationMs)
	})
}

func TestHistoryStore_GetAllRuns(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	// Test empty store
	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	// Add some finished runs
	startTime := time.Now()
	commands := []string{"meta", "sharpness"}

	var runIDs []int64
	for _, command := range commands {
		id, err := store.BeginRun(startTime, command, "/photos", map[string]any{"cmd": command})
		require.NoError(t, err)
		runIDs = append(runIDs, id)

		err = store.EndRun(id, startTime.Add(time.Minute), 5)
		assert.NoError(t, err)
	}

	// Get all runs
	runs, err = store.GetAllRuns()
	assert.NoError(t, err)
	assert.Len(t, runs, 2)

	// Verify the runs
	for i, run := range runs {
		assert.Equal(t, runIDs[i], run.RunID)
		assert.Equal(t, commands[i], run.Command)
		assert.Equal(t, "/photos", run.Folder)
		assert.Equal(t, int32(5), run.TotalFiles)
		assert.NotNil(t, run.EndTime)
		assert.NotNil(t, run.DurationMs)
		assert.Greater(t, *run.DurationMs, int32(0))
		assert.NotNil(t, run.ConfigParams)
	}
}

func TestHistoryStore_GetAllRunsOpenRun(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	// Begin a run but never end it
	runID, err := store.BeginRun(time.Now(), "dupes", "/photos", nil)
	require.NoError(t, err)

	// An open run has NULL end_time, duration and total_files
	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Nil(t, run.EndTime, "Open run should have nil end time")
	assert.Nil(t, run.DurationMs, "Open run should have nil duration")
	assert.Equal(t, int32(0), run.TotalFiles, "Open run should report zero files")
}

func TestHistoryStore_GetAllFileScans(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	// Test empty store
	records, err := store.GetAllFileScans()
	assert.NoError(t, err)
	assert.Empty(t, records)

	// Add a run with one fully populated file scan
	runID, err := store.BeginRun(time.Now(), "meta", "/photos", map[string]any{"test": "scans"})
	require.NoError(t, err)

	scan := schema.FileScan{
		ScanTime:     time.Now(),
		Aperture:     ptr(1.8),
		ShutterSpeed: ptr(0.005),
		ISO:          ptr(int32(3200)),
		FocalLength:  ptr(85.0),
		LensModel:    ptr("FE 85mm F1.8"),
		Sharpness:    ptr(241.7),
		Category:     ptr("sharp"),
		ContentHash:  ptr("abc123"),
		SizeBytes:    ptr(int64(24_000_000)),
	}
	err = store.RecordFileScan(runID, "/photos/IMG_0001.arw", scan)
	assert.NoError(t, err)

	err = store.EndRun(runID, time.Now(), 1)
	assert.NoError(t, err)

	// Get all scans
	records, err = store.GetAllFileScans()
	assert.NoError(t, err)
	assert.Len(t, records, 1)

	// Verify the record
	record := records[0]
	assert.Equal(t, runID, record.RunID)
	assert.Equal(t, "/photos/IMG_0001.arw", record.FilePath)
	assert.Equal(t, 1.8, *record.Aperture)
	assert.Equal(t, 0.005, *record.ShutterSpeed)
	assert.Equal(t, int32(3200), *record.ISO)
	assert.Equal(t, 85.0, *record.FocalLength)
	assert.Equal(t, "FE 85mm F1.8", *record.LensModel)
	assert.Equal(t, 241.7, *record.Sharpness)
	assert.Equal(t, "sharp", *record.Category)
	assert.Equal(t, "abc123", *record.ContentHash)
	assert.Equal(t, int64(24_000_000), *record.SizeBytes)
}

func TestHistoryStore_GetAllFileScansNullColumns(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), "dupes", "/photos", nil)
	require.NoError(t, err)

	// A dupes run records only hash and size; metadata columns stay NULL
	scan := schema.FileScan{
		ScanTime:    time.Now(),
		ContentHash: ptr("deadbeef"),
		SizeBytes:   ptr(int64(1024)),
	}
	err = store.RecordFileScan(runID, "/photos/copy.jpg", scan)
	assert.NoError(t, err)

	records, err := store.GetAllFileScans()
	assert.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Nil(t, record.Aperture)
	assert.Nil(t, record.ShutterSpeed)
	assert.Nil(t, record.ISO)
	assert.Nil(t, record.FocalLength)
	assert.Nil(t, record.LensModel)
	assert.Nil(t, record.Sharpness)
	assert.Nil(t, record.Category)
	assert.Equal(t, "deadbeef", *record.ContentHash)
	assert.Equal(t, int64(1024), *record.SizeBytes)
}

func TestHistoryStore_GetStatus(t *testing.T) {
	t.Run("SQLite backend with data", func(t *testing.T) {
		store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		startTime := time.Now()
		runID, err := store.BeginRun(startTime, "meta", "/photos", nil)
		require.NoError(t, err)

		err = store.RecordFileScan(runID, "a.jpg", schema.FileScan{ScanTime: startTime})
		assert.NoError(t, err)
		err = store.RecordFileScan(runID, "b.jpg", schema.FileScan{ScanTime: startTime})
		assert.NoError(t, err)

		err = store.EndRun(runID, startTime.Add(time.Second), 2)
		assert.NoError(t, err)

		status, err := store.GetStatus()
		assert.NoError(t, err)

		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 1, status.TotalRuns)
		assert.Equal(t, runID, status.LastRunID)
		assert.Equal(t, 2, status.TotalFilesRecorded)
		assert.Equal(t, int64(1), status.TableSizes[scanRunsTable])
		assert.Equal(t, int64(2), status.TableSizes[fileResultsTable])
	})

	t.Run("None backend", func(t *testing.T) {
		store, err := NewHistoryStore(schema.NoneBackend, "")
		require.NoError(t, err)

		status, err := store.GetStatus()
		assert.NoError(t, err)

		assert.Equal(t, "none", status.Backend)
		assert.False(t, status.Connected)
		assert.Equal(t, 0, status.TotalRuns)
	})
}

func TestNewHistoryStoreErrors(t *testing.T) {
	t.Run("unsupported backend", func(t *testing.T) {
		_, err := NewHistoryStore("unsupported", "")
		assert.Error(t, err, "Expected error for unsupported backend")
	})
}
