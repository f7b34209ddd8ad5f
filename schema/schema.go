// Package schema has models, enums and shared constants for all parts of lightbox.
package schema

// MetadataRecord holds the normalized capture metadata for one decoded file.
// Every field besides Path is optional: the zero value means the tag was absent.
// All valid values are strictly positive, so zero never collides with real data.
// Records are immutable after creation.
type MetadataRecord struct {
	Path         string  `json:"path"`
	Aperture     float64 `json:"aperture,omitempty"`        // f-number
	ShutterSpeed float64 `json:"shutter_speed,omitempty"`   // seconds
	ISO          int     `json:"iso,omitempty"`             // sensitivity
	FocalLength  float64 `json:"focal_length_mm,omitempty"` // millimeters; values <= 0 never enter aggregation
	LensModel    string  `json:"lens_model,omitempty"`      // normalized lens identifier
}

// Bucket is one labeled count within a Distribution.
type Bucket struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Sort  float64 `json:"-"` // numeric sort key; bucket minimum for ranges, zero for categorical
}

// Distribution holds the bucketed counts for one metric across a corpus.
// Buckets come pre-ordered for display: most frequent first, except focal
// length ranges which run in ascending value order.
type Distribution struct {
	Metric  Metric           `json:"metric"`
	Kind    DistributionKind `json:"kind"`
	Buckets []Bucket         `json:"buckets"`
}

// Summary holds basic statistics for one numeric metric.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// FileFailure records a per-file error collected during a batch operation.
// Batch operations skip failed files and keep going; failures surface here.
type FileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// MetadataReport is the finalized output of a metadata scan.
type MetadataReport struct {
	Folder        string                  `json:"folder"`
	TotalFiles    int                     `json:"total_files"`   // candidate files walked
	TotalRecords  int                     `json:"total_records"` // files that produced a record
	Summaries     map[Metric]Summary      `json:"summaries"`
	Distributions map[Metric]Distribution `json:"distributions"`
	// Combos counts aperture and focal length pairs, the most common
	// "what settings do I actually shoot" view.
	Combos Distribution `json:"combos"`
	// EquivalentFocal is only present when a crop factor was requested.
	EquivalentFocal *Distribution `json:"equivalent_focal,omitempty"`
	Failures        []FileFailure `json:"failures,omitempty"`
}

// SharpnessResult is one entry of the score table. Entries start Pending at
// pre-load time and transition to Scored exactly once during the scan phase.
// A Pending entry after scan completion means the file was skipped or the
// scan was cancelled; both are valid terminal states.
type SharpnessResult struct {
	Path     string            `json:"path"`
	State    ScoreState        `json:"state"`
	Score    float64           `json:"score"`
	Category SharpnessCategory `json:"category,omitempty"`
	Width    int               `json:"width,omitempty"`
	Height   int               `json:"height,omitempty"`
}

// SharpnessReport is the finalized output of a sharpness scan.
type SharpnessReport struct {
	Folder   string            `json:"folder"`
	Grid     int               `json:"grid"`
	Results  []SharpnessResult `json:"results"`
	Culled   []string          `json:"culled,omitempty"` // files moved to trash by a cull pass
	Failures []FileFailure     `json:"failures,omitempty"`
}

// DuplicateGroup is a set of two or more paths sharing identical size and
// content hash. Files are sorted for stable display. A group never drops
// below one member through engine-side deletion.
type DuplicateGroup struct {
	Hash  string   `json:"hash"`
	Size  int64    `json:"size"`
	Files []string `json:"files"`
}

// DupeReport is the finalized output of a duplicate scan.
type DupeReport struct {
	Folder      string           `json:"folder"`
	TotalFiles  int              `json:"total_files"`  // candidate files walked
	HashedFiles int              `json:"hashed_files"` // files inside multi-member size buckets
	Groups      []DuplicateGroup `json:"groups"`
	Trashed     []string         `json:"trashed,omitempty"`
	Failures    []FileFailure    `json:"failures,omitempty"`
}

// ProgressFunc reports batch progress as (processed, total). Total counts
// only the work actually scheduled, e.g. files that need hashing.
type ProgressFunc func(processed, total int)
