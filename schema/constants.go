package schema

import (
	"path/filepath"
	"strings"
)

// Custom string types for type safety.
type (
	// Metric identifies one of the normalized metadata dimensions.
	Metric string

	// DistributionKind tells how a distribution's buckets are ordered.
	DistributionKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// ScoreState tracks one score table entry through its lifecycle.
	ScoreState string

	// SharpnessCategory is the label derived from a Laplacian variance score.
	SharpnessCategory string

	// DeleteOutcome is the result of a duplicate deletion request.
	DeleteOutcome string
)

// All normalized metadata dimensions. Raw decoder tags map onto exactly these.
const (
	MetricAperture     Metric = "Aperture"
	MetricShutterSpeed Metric = "Shutter Speed"
	MetricISO          Metric = "ISO"
	MetricFocalLength  Metric = "Focal Length"
	MetricLensModel    Metric = "Lens Model"
)

// MetricCombo labels the derived aperture and focal length pairing view.
// It is not a normalized dimension and never appears in AllMetrics.
const MetricCombo Metric = "Combos"

// All distribution kinds supported.
const (
	NumericDist     DistributionKind = "numeric"     // buckets derived from numeric values
	CategoricalDist DistributionKind = "categorical" // buckets derived from string categories
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All score table states.
const (
	ScorePending ScoreState = "pending" // registered, not yet scored
	ScoreDone    ScoreState = "scored"  // terminal; never overwritten
)

// All sharpness categories.
const (
	BlurryCategory     SharpnessCategory = "blurry"
	AcceptableCategory SharpnessCategory = "acceptable"
	SharpCategory      SharpnessCategory = "sharp"
)

// All duplicate deletion outcomes.
const (
	DeleteTrashed     DeleteOutcome = "trashed"      // file moved to trash, group updated
	DeleteTrashFailed DeleteOutcome = "trash_failed" // trash refused the file, group unchanged
	DeleteRejected    DeleteOutcome = "rejected"     // policy refused the request
)

// AllMetrics orders the metadata dimensions for deterministic reports.
var AllMetrics = []Metric{
	MetricAperture,
	MetricShutterSpeed,
	MetricISO,
	MetricFocalLength,
	MetricLensModel,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Scoring thresholds and layout defaults.
const (
	// DefaultBlurThreshold is the score below which a file counts as blurry.
	DefaultBlurThreshold = 100.0

	// DefaultSharpThreshold is the score at or above which a file counts as sharp.
	DefaultSharpThreshold = 500.0

	// DefaultGridSize splits the center crop into an NxN block grid.
	DefaultGridSize = 8

	// MinBlockPixels is the smallest grid block worth scoring on its own.
	// Below this the whole crop is scored as a single block.
	MinBlockPixels = 10

	// MaxFocalBuckets caps how many focal length buckets a report shows
	// before nearby values are grouped into ranges.
	MaxFocalBuckets = 25

	// UnknownLabel marks absent or non-positive values in display output.
	UnknownLabel = "unknown"
)

// Per-metric display limits for text reports.
const (
	TopApertures     = 5
	TopShutterSpeeds = 25
	TopISOs          = 5
	TopFocalLengths  = 15
	TopLenses        = 5
	TopCombos        = 25
)

// ExtensionSet is an ordered set of case-insensitive file suffixes.
type ExtensionSet []string

// Contains reports whether the path's extension is in the set.
func (s ExtensionSet) Contains(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range s {
		if e == ext {
			return true
		}
	}
	return false
}

// Union returns a new set with the extra suffixes appended in order,
// skipping ones already present.
func (s ExtensionSet) Union(extra ...string) ExtensionSet {
	out := make(ExtensionSet, len(s), len(s)+len(extra))
	copy(out, s)
	for _, e := range extra {
		dup := false
		for _, have := range out {
			if have == e {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return out
}

// ForcedDecoderExtensions always go through the external decoder. They are
// RAW or container formats whose tags the native reader cannot parse.
var ForcedDecoderExtensions = ExtensionSet{
	".arw", ".nef", ".cr2", ".dng", ".raw",
	".cr3", ".raf", ".orf", ".rw2", ".pef", ".srw", ".sr2",
	".heic", ".heif",
	".png", ".webp",
}

// MetadataExtensions lists every format the metadata reader accepts.
var MetadataExtensions = ForcedDecoderExtensions.Union(".jpg", ".jpeg", ".tif", ".tiff")

// DuplicateExtensions lists every format the duplicate finder considers.
var DuplicateExtensions = MetadataExtensions.Union(".bmp", ".gif")

// PixelExtensions lists formats the sharpness scorer can decode into pixels.
var PixelExtensions = ExtensionSet{
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp",
}

// CategorizeSharpness maps a Laplacian variance score onto a category using
// the given thresholds. Scores are non-negative; a perfectly flat image is 0.
func CategorizeSharpness(score, blurThreshold, sharpThreshold float64) SharpnessCategory {
	switch {
	case score < blurThreshold:
		return BlurryCategory
	case score < sharpThreshold:
		return AcceptableCategory
	default:
		return SharpCategory
	}
}

// Label returns the category's display form.
func (c SharpnessCategory) Label() string {
	switch c {
	case BlurryCategory:
		return "Blurry"
	case AcceptableCategory:
		return "Acceptable"
	case SharpCategory:
		return "Sharp"
	default:
		return UnknownLabel
	}
}
