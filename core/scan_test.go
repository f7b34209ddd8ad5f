package core

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/internal/iocache"
	"github.com/huangsam/lightbox/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig(folder string) *contract.Config {
	return &contract.Config{
		Folder:         folder,
		Recursive:      true,
		Workers:        2,
		GridSize:       schema.DefaultGridSize,
		BlurThreshold:  schema.DefaultBlurThreshold,
		SharpThreshold: schema.DefaultSharpThreshold,
		MetadataExts:   schema.MetadataExtensions,
		ForcedExts:     schema.ForcedDecoderExtensions,
		DuplicateExts:  schema.DuplicateExtensions,
		PixelExts:      schema.PixelExtensions,
	}
}

// writeTestJPEG encodes a small valid JPEG with no tag block.
func writeTestJPEG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	require.NoError(t, jpeg.Encode(f, img, nil))
	return path
}

// writeTestPNG encodes the given image as a PNG file.
func writeTestPNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// writeTestBytes writes raw content, for duplicate fixtures and corrupt files.
func writeTestBytes(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// flatTestImage is uniform gray, the zero-score baseline.
func flatTestImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	return img
}

// checkerTestImage alternates black and white per pixel, far into sharp territory.
func checkerTestImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTestJPEG(t, dir, "a.jpg")
	b := writeTestJPEG(t, dir, "b.jpg")
	writeTestBytes(t, dir, "notes.txt", []byte("not an image"))

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o750))
	c := writeTestJPEG(t, sub, "c.jpg")

	deeper := filepath.Join(sub, "deeper")
	require.NoError(t, os.Mkdir(deeper, 0o750))
	d := writeTestBytes(t, deeper, "d.heic", []byte("raw container"))

	t.Run("recursive", func(t *testing.T) {
		files, err := collectFiles(dir, schema.MetadataExtensions, true)
		require.NoError(t, err)
		assert.Equal(t, []string{a, b, c, d}, files)
	})

	t.Run("top level only", func(t *testing.T) {
		files, err := collectFiles(dir, schema.MetadataExtensions, false)
		require.NoError(t, err)
		assert.Equal(t, []string{a, b}, files)
	})

	t.Run("missing folder", func(t *testing.T) {
		_, err := collectFiles(filepath.Join(dir, "ghost"), schema.MetadataExtensions, true)
		assert.ErrorContains(t, err, "failed to walk")
	})
}

func TestRunMetaScanNativeFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestJPEG(t, dir, "one.jpg")
	writeTestJPEG(t, dir, "two.jpg")
	corrupt := writeTestBytes(t, dir, "broken.jpg", []byte("not an image at all"))
	writeTestBytes(t, dir, "notes.txt", []byte("ignored"))

	cfg := testConfig(dir)
	report, err := runMetaScan(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, dir, report.Folder)
	assert.Equal(t, 3, report.TotalFiles)
	assert.Equal(t, 2, report.TotalRecords)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, corrupt, report.Failures[0].Path)
	assert.Nil(t, report.EquivalentFocal)
}

func TestRunMetaScanForcedDecoder(t *testing.T) {
	dir := t.TempDir()
	raw := writeTestBytes(t, dir, "shot.arw", []byte("raw payload"))

	decoder := &contract.MockMetadataDecoder{}
	decoder.On("Available").Return(true)
	decoder.On("Decode", mock.Anything, raw).Return(map[string]any{
		"Composite:Aperture":    2.8,
		"Composite:ISO":         float64(800),
		"Composite:FocalLength": "50.0 mm",
	}, nil)

	cfg := testConfig(dir)
	cfg.CropFactor = 1.5
	report, err := runMetaScan(context.Background(), cfg, decoder, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalRecords)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 2.8, report.Summaries[schema.MetricAperture].Mean)

	aperture := report.Distributions[schema.MetricAperture]
	require.Len(t, aperture.Buckets, 1)
	assert.Equal(t, schema.Bucket{Label: "f/2.8", Count: 1, Sort: 2.8}, aperture.Buckets[0])

	require.Len(t, report.Combos.Buckets, 1)
	assert.Equal(t, "f/2.8 @ 50 mm", report.Combos.Buckets[0].Label)

	require.NotNil(t, report.EquivalentFocal)
	require.Len(t, report.EquivalentFocal.Buckets, 1)
	assert.Equal(t, "75 mm", report.EquivalentFocal.Buckets[0].Label)
	decoder.AssertExpectations(t)
}

func TestRunMetaScanEmptyFolder(t *testing.T) {
	cfg := testConfig(t.TempDir())
	_, err := runMetaScan(context.Background(), cfg, nil, nil)
	assert.ErrorContains(t, err, "no image files found")
}

func TestRunMetaScanCancelled(t *testing.T) {
	dir := t.TempDir()
	writeTestJPEG(t, dir, "one.jpg")
	writeTestJPEG(t, dir, "two.jpg")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(dir)
	report, err := runMetaScan(ctx, cfg, nil, nil)
	require.NoError(t, err)

	// Unprocessed files produce neither records nor failures.
	assert.Equal(t, 2, report.TotalFiles)
	assert.Zero(t, report.TotalRecords)
	assert.Empty(t, report.Failures)
}

func TestRunMetaScanRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	writeTestJPEG(t, dir, "one.jpg")
	writeTestJPEG(t, dir, "two.jpg")
	cfg := testConfig(dir)

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, "meta", dir, mock.Anything).Return(int64(7), nil)
	history.On("RecordFileScan", int64(7), mock.Anything, mock.Anything).Return(nil)
	history.On("EndRun", int64(7), mock.Anything, 2).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetScanStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	_, err := runMetaScan(context.Background(), cfg, nil, mgr)
	require.NoError(t, err)

	history.AssertExpectations(t)
	history.AssertNumberOfCalls(t, "RecordFileScan", 2)
}

func TestRunSharpnessScan(t *testing.T) {
	dir := t.TempDir()
	busy := writeTestPNG(t, dir, "busy.png", checkerTestImage(64, 64))
	flat := writeTestPNG(t, dir, "flat.png", flatTestImage(64, 64))
	broken := writeTestBytes(t, dir, "broken.png", []byte("definitely not a png"))

	cfg := testConfig(dir)
	report, err := runSharpnessScan(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, dir, report.Folder)
	assert.Equal(t, schema.DefaultGridSize, report.Grid)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, broken, report.Failures[0].Path)

	require.Len(t, report.Results, 2)
	assert.Equal(t, busy, report.Results[0].Path)
	assert.Equal(t, schema.ScoreDone, report.Results[0].State)
	assert.Equal(t, schema.SharpCategory, report.Results[0].Category)
	assert.Equal(t, 64, report.Results[0].Width)

	assert.Equal(t, flat, report.Results[1].Path)
	assert.Equal(t, schema.ScoreDone, report.Results[1].State)
	assert.Zero(t, report.Results[1].Score)
	assert.Equal(t, schema.BlurryCategory, report.Results[1].Category)
}

func TestRunSharpnessScanCull(t *testing.T) {
	dir := t.TempDir()
	busy := writeTestPNG(t, dir, "busy.png", checkerTestImage(64, 64))
	flat := writeTestPNG(t, dir, "flat.png", flatTestImage(64, 64))
	sidecar := writeTestBytes(t, dir, "flat.arw", []byte("raw sibling"))

	cfg := testConfig(dir)
	cfg.CullBelow = 50
	cfg.Trash = true
	trash := contract.NewTrashMoverAt(t.TempDir())

	report, err := runSharpnessScan(context.Background(), cfg, trash, nil)
	require.NoError(t, err)

	// The flat frame goes, and takes its RAW sibling with it.
	assert.Equal(t, []string{flat, sidecar}, report.Culled)
	assert.Empty(t, report.Failures)
	assert.NoFileExists(t, flat)
	assert.NoFileExists(t, sidecar)
	assert.FileExists(t, busy)
}

func TestRunSharpnessScanEmptyFolder(t *testing.T) {
	cfg := testConfig(t.TempDir())
	_, err := runSharpnessScan(context.Background(), cfg, nil, nil)
	assert.ErrorContains(t, err, "no image files found")
}

func TestRunDupeScan(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte{0xAB}, 4096)
	a := writeTestBytes(t, dir, "a.jpg", payload)
	b := writeTestBytes(t, dir, "b.jpg", payload)
	writeTestBytes(t, dir, "c.jpg", bytes.Repeat([]byte{0xCD}, 2048))

	ctx := WithSuppressHeader(context.Background())
	cfg := testConfig(dir)
	report, err := runDupeScan(ctx, cfg, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalFiles)
	assert.Equal(t, 2, report.HashedFiles)
	require.Len(t, report.Groups, 1)
	assert.Equal(t, []string{a, b}, report.Groups[0].Files)
	assert.Equal(t, int64(4096), report.Groups[0].Size)
	assert.Empty(t, report.Trashed)
	assert.Empty(t, report.Failures)
}

func TestRunDupeScanTrash(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte{0xAB}, 4096)
	a := writeTestBytes(t, dir, "a.jpg", payload)
	b := writeTestBytes(t, dir, "b.jpg", payload)

	ctx := WithSuppressHeader(context.Background())
	cfg := testConfig(dir)
	cfg.Trash = true
	trash := contract.NewTrashMoverAt(t.TempDir())

	report, err := runDupeScan(ctx, cfg, trash, nil)
	require.NoError(t, err)

	// The report keeps the group as found even though b was moved.
	require.Len(t, report.Groups, 1)
	assert.Equal(t, []string{a, b}, report.Groups[0].Files)
	assert.Equal(t, []string{b}, report.Trashed)
	assert.Empty(t, report.Failures)
	assert.FileExists(t, a)
	assert.NoFileExists(t, b)
}

func TestRunDupeScanRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte{0xEF}, 1024)
	writeTestBytes(t, dir, "a.jpg", payload)
	writeTestBytes(t, dir, "b.jpg", payload)

	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, "dupes", dir, mock.Anything).Return(int64(3), nil)
	history.On("RecordFileScan", int64(3), mock.Anything, mock.Anything).Return(nil)
	history.On("EndRun", int64(3), mock.Anything, 2).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetHistoryStore").Return(history)

	ctx := WithSuppressHeader(context.Background())
	_, err := runDupeScan(ctx, testConfig(dir), nil, mgr)
	require.NoError(t, err)

	// One row per group member.
	history.AssertNumberOfCalls(t, "RecordFileScan", 2)
	history.AssertExpectations(t)
}

func TestMetadataFileScan(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		scan := metadataFileScan(schema.MetadataRecord{
			Path:         "/photos/shot.jpg",
			Aperture:     1.8,
			ShutterSpeed: 0.005,
			ISO:          1600,
			FocalLength:  35,
			LensModel:    "FE 35mm F1.8",
		})
		require.NotNil(t, scan.Aperture)
		assert.Equal(t, 1.8, *scan.Aperture)
		require.NotNil(t, scan.ISO)
		assert.Equal(t, int32(1600), *scan.ISO)
		require.NotNil(t, scan.LensModel)
		assert.Equal(t, "FE 35mm F1.8", *scan.LensModel)
		assert.Nil(t, scan.Sharpness)
	})

	t.Run("all absent", func(t *testing.T) {
		scan := metadataFileScan(schema.MetadataRecord{Path: "/photos/bare.jpg"})
		assert.Nil(t, scan.Aperture)
		assert.Nil(t, scan.ShutterSpeed)
		assert.Nil(t, scan.ISO)
		assert.Nil(t, scan.FocalLength)
		assert.Nil(t, scan.LensModel)
		assert.False(t, scan.ScanTime.IsZero())
	})
}

func TestSharpnessFileScan(t *testing.T) {
	scan := sharpnessFileScan(241.7, schema.AcceptableCategory)
	require.NotNil(t, scan.Sharpness)
	assert.Equal(t, 241.7, *scan.Sharpness)
	require.NotNil(t, scan.Category)
	assert.Equal(t, "acceptable", *scan.Category)
	assert.Nil(t, scan.ContentHash)
}

func TestDupeFileScan(t *testing.T) {
	scan := dupeFileScan(schema.DuplicateGroup{Hash: "9c3aa1b2", Size: 4096})
	require.NotNil(t, scan.ContentHash)
	assert.Equal(t, "9c3aa1b2", *scan.ContentHash)
	require.NotNil(t, scan.SizeBytes)
	assert.Equal(t, int64(4096), *scan.SizeBytes)
	assert.Nil(t, scan.Aperture)
}
