package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/lightbox/internal/contract"
	"github.com/huangsam/lightbox/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSharpnessReport() *schema.SharpnessReport {
	return &schema.SharpnessReport{
		Folder: "/photos",
		Grid:   8,
		Results: []schema.SharpnessResult{
			{Path: "/photos/a.jpg", State: schema.ScoreDone, Score: 120.5, Category: schema.AcceptableCategory, Width: 4000, Height: 3000},
			{Path: "/photos/b.jpg", State: schema.ScorePending, Width: 2000, Height: 1500},
			{Path: "/photos/c.jpg", State: schema.ScoreDone, Score: 812.0, Category: schema.SharpCategory, Width: 4000, Height: 3000},
			{Path: "/photos/d.jpg", State: schema.ScoreDone, Score: 12.25, Category: schema.BlurryCategory, Width: 4000, Height: 3000},
		},
	}
}

func TestRankSharpnessResults(t *testing.T) {
	report := sampleSharpnessReport()
	ranked := rankSharpnessResults(report.Results)

	require.Len(t, ranked, 4)
	assert.Equal(t, "/photos/c.jpg", ranked[0].Path) // sharpest first
	assert.Equal(t, "/photos/a.jpg", ranked[1].Path)
	assert.Equal(t, "/photos/d.jpg", ranked[2].Path)
	assert.Equal(t, "/photos/b.jpg", ranked[3].Path) // pending last

	// Input order untouched
	assert.Equal(t, "/photos/a.jpg", report.Results[0].Path)
}

func TestWriteSharpnessTable(t *testing.T) {
	report := sampleSharpnessReport()
	cfg := &contract.Config{Precision: 1, Workers: 4, Width: 120, CacheBackend: schema.NoneBackend}
	fmtFloat, _ := createFormatters(cfg.Precision)
	ranked := rankSharpnessResults(report.Results)

	var buf bytes.Buffer
	err := writeSharpnessTable(ranked, report, cfg, fmtFloat, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "812.0")
	assert.Contains(t, out, "4000x3000")
	assert.Contains(t, out, "Scored 3 of 4 files (1 blurry, grid 8x8)")
	assert.NotContains(t, out, "Moved")
}

func TestWriteSharpnessTableLimit(t *testing.T) {
	report := sampleSharpnessReport()
	cfg := &contract.Config{Precision: 1, Workers: 4, Width: 120, ResultLimit: 1, CacheBackend: schema.NoneBackend}
	fmtFloat, _ := createFormatters(cfg.Precision)
	ranked := rankSharpnessResults(report.Results)

	var buf bytes.Buffer
	require.NoError(t, writeSharpnessTable(ranked, report, cfg, fmtFloat, time.Second, &buf))

	out := buf.String()
	assert.Contains(t, out, "c.jpg")
	assert.NotContains(t, out, "d.jpg")
	// Summary always covers the full result set
	assert.Contains(t, out, "Scored 3 of 4 files")
}

func TestWriteSharpnessCSVReport(t *testing.T) {
	report := sampleSharpnessReport()
	outputFile := filepath.Join(t.TempDir(), "scores.csv")
	cfg := &contract.Config{Precision: 2, OutputFile: outputFile}
	fmtFloat, _ := createFormatters(cfg.Precision)
	ranked := rankSharpnessResults(report.Results)

	require.NoError(t, writeSharpnessCSVReport(ranked, cfg, fmtFloat))

	content, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 5) // header + 4 rows
	assert.Equal(t, []string{"rank", "path", "state", "score", "label", "width", "height"}, records[0])
	assert.Equal(t, "/photos/c.jpg", records[1][1])
	assert.Equal(t, "812.00", records[1][3])
	assert.Equal(t, "Sharp", records[1][4])
	// Pending entries export an empty score and the unknown label
	assert.Equal(t, "pending", records[4][2])
	assert.Equal(t, "", records[4][3])
	assert.Equal(t, schema.UnknownLabel, records[4][4])
}

func TestPrintSharpnessReportJSONFile(t *testing.T) {
	report := sampleSharpnessReport()
	outputFile := filepath.Join(t.TempDir(), "scores.json")
	cfg := &contract.Config{
		Precision:  1,
		Output:     schema.JSONOut,
		OutputFile: outputFile,
	}

	require.NoError(t, PrintSharpnessReport(report, cfg, time.Second))

	content, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var decoded struct {
		Folder  string                           `json:"folder"`
		Results []schema.EnrichedSharpnessResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, "/photos", decoded.Folder)
	require.Len(t, decoded.Results, 4)
	assert.Equal(t, 1, decoded.Results[0].Rank)
	assert.Equal(t, "/photos/c.jpg", decoded.Results[0].Path)
	assert.Equal(t, "Sharp", decoded.Results[0].Label)
	assert.Equal(t, schema.UnknownLabel, decoded.Results[3].Label)
}
