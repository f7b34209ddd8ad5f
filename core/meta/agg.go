package meta

import (
	"sort"

	"github.com/huangsam/lightbox/schema"
)

// comboKey pairs the two settings photographers actually dial in together.
type comboKey struct {
	aperture float64
	focal    float64
}

// Aggregator accumulates metadata records into per-metric distributions.
// It is not safe for concurrent use: a single goroutine owns it and drains
// the record stream, so no locking is needed. Add order never affects the
// finalized output.
type Aggregator struct {
	apertures []float64
	shutters  []float64
	isos      []float64
	focals    []float64
	lenses    map[string]int
	combos    map[comboKey]int
	records   int
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		lenses: make(map[string]int),
		combos: make(map[comboKey]int),
	}
}

// Add folds one record into the running state. Absent fields contribute
// nothing; non-positive focal lengths are dropped silently.
func (a *Aggregator) Add(rec schema.MetadataRecord) {
	a.records++
	if rec.Aperture > 0 {
		a.apertures = append(a.apertures, rec.Aperture)
	}
	if rec.ShutterSpeed > 0 {
		a.shutters = append(a.shutters, rec.ShutterSpeed)
	}
	if rec.ISO > 0 {
		a.isos = append(a.isos, float64(rec.ISO))
	}
	if rec.FocalLength > 0 {
		a.focals = append(a.focals, rec.FocalLength)
	}
	if rec.LensModel != "" {
		a.lenses[rec.LensModel]++
	}
	if rec.Aperture > 0 && rec.FocalLength > 0 {
		a.combos[comboKey{rec.Aperture, rec.FocalLength}]++
	}
}

// Count returns how many records were added, including all-absent ones.
func (a *Aggregator) Count() int {
	return a.records
}

// Finalize builds the per-metric distributions. The aggregator stays usable
// afterwards, so callers can keep adding and finalize again.
func (a *Aggregator) Finalize() map[schema.Metric]schema.Distribution {
	return map[schema.Metric]schema.Distribution{
		schema.MetricAperture: {
			Metric:  schema.MetricAperture,
			Kind:    schema.NumericDist,
			Buckets: frequencyBuckets(a.apertures, schema.FormatAperture),
		},
		schema.MetricShutterSpeed: {
			Metric:  schema.MetricShutterSpeed,
			Kind:    schema.NumericDist,
			Buckets: frequencyBuckets(a.shutters, schema.FormatShutterSpeed),
		},
		schema.MetricISO: {
			Metric:  schema.MetricISO,
			Kind:    schema.NumericDist,
			Buckets: frequencyBuckets(a.isos, func(v float64) string { return schema.FormatISO(int(v)) }),
		},
		schema.MetricFocalLength: {
			Metric:  schema.MetricFocalLength,
			Kind:    schema.NumericDist,
			Buckets: bucketFocals(a.focals, schema.MaxFocalBuckets),
		},
		schema.MetricLensModel: {
			Metric:  schema.MetricLensModel,
			Kind:    schema.CategoricalDist,
			Buckets: categoryBuckets(a.lenses),
		},
	}
}

// Summaries computes count, mean, min and max for each numeric metric that
// has at least one value.
func (a *Aggregator) Summaries() map[schema.Metric]schema.Summary {
	out := make(map[schema.Metric]schema.Summary)
	if s, ok := summarize(a.apertures); ok {
		out[schema.MetricAperture] = s
	}
	if s, ok := summarize(a.shutters); ok {
		out[schema.MetricShutterSpeed] = s
	}
	if s, ok := summarize(a.isos); ok {
		out[schema.MetricISO] = s
	}
	if s, ok := summarize(a.focals); ok {
		out[schema.MetricFocalLength] = s
	}
	return out
}

// Combos returns the aperture and focal length pairing distribution. Only
// records carrying both values contribute.
func (a *Aggregator) Combos() schema.Distribution {
	buckets := make([]schema.Bucket, 0, len(a.combos))
	for key, count := range a.combos {
		buckets = append(buckets, schema.Bucket{
			Label: schema.FormatCombo(key.aperture, key.focal),
			Count: count,
			Sort:  key.focal,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})
	return schema.Distribution{
		Metric:  schema.MetricCombo,
		Kind:    schema.CategoricalDist,
		Buckets: buckets,
	}
}

// EquivalentFocal re-buckets the focal lengths scaled by a crop factor,
// giving the full-frame equivalent view.
func (a *Aggregator) EquivalentFocal(cropFactor float64) schema.Distribution {
	scaled := make([]float64, len(a.focals))
	for i, v := range a.focals {
		scaled[i] = v * cropFactor
	}
	return schema.Distribution{
		Metric:  schema.MetricFocalLength,
		Kind:    schema.NumericDist,
		Buckets: bucketFocals(scaled, schema.MaxFocalBuckets),
	}
}

// frequencyBuckets counts exact values and orders them most-frequent first.
// Value ties break toward the smaller value so output stays deterministic.
func frequencyBuckets(values []float64, format func(float64) string) []schema.Bucket {
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	buckets := make([]schema.Bucket, 0, len(counts))
	for v, n := range counts {
		buckets = append(buckets, schema.Bucket{Label: format(v), Count: n, Sort: v})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Sort < buckets[j].Sort
	})
	return buckets
}

// categoryBuckets counts string categories, most-frequent first with name
// ties broken alphabetically.
func categoryBuckets(counts map[string]int) []schema.Bucket {
	buckets := make([]schema.Bucket, 0, len(counts))
	for name, n := range counts {
		buckets = append(buckets, schema.Bucket{Label: name, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})
	return buckets
}

// summarize folds a value slice into basic statistics.
func summarize(values []float64) (schema.Summary, bool) {
	if len(values) == 0 {
		return schema.Summary{}, false
	}
	sum := 0.0
	mn, mx := values[0], values[0]
	for _, v := range values {
		sum += v
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	return schema.Summary{
		Count: len(values),
		Mean:  sum / float64(len(values)),
		Min:   mn,
		Max:   mx,
	}, true
}

// bucketFocals turns focal lengths into display buckets. Up to maxBuckets
// distinct values keep their exact labels; past that, nearby values merge
// into ranges chosen by the tightest relative-gap threshold that still fits
// the budget. Buckets run in ascending value order either way.
func bucketFocals(values []float64, maxBuckets int) []schema.Bucket {
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	uniques := make([]float64, 0, len(counts))
	for v := range counts {
		uniques = append(uniques, v)
	}
	sort.Float64s(uniques)

	if len(uniques) <= maxBuckets {
		buckets := make([]schema.Bucket, 0, len(uniques))
		for _, v := range uniques {
			buckets = append(buckets, schema.Bucket{
				Label: schema.FormatFocalLength(v),
				Count: counts[v],
				Sort:  v,
			})
		}
		return buckets
	}

	// Binary-search the relative gap threshold in [0, 2]. Shrinking the
	// threshold splits groups, so the search homes in on the tightest one
	// that still yields at most maxBuckets groups.
	low, high := 0.0, 2.0
	best := high
	for range 20 {
		mid := (low + high) / 2
		if len(groupFocals(uniques, mid)) <= maxBuckets {
			best = mid
			high = mid
		} else {
			low = mid
		}
	}

	groups := groupFocals(uniques, best)
	buckets := make([]schema.Bucket, 0, len(groups))
	for _, g := range groups {
		total := 0
		for _, v := range g {
			total += counts[v]
		}
		buckets = append(buckets, schema.Bucket{
			Label: schema.FormatFocalRange(g[0], g[len(g)-1]),
			Count: total,
			Sort:  g[0],
		})
	}
	return buckets
}

// groupFocals greedily groups ascending values: a value joins the current
// group while its relative distance from the group's first member stays
// within the threshold.
func groupFocals(sorted []float64, threshold float64) [][]float64 {
	var groups [][]float64
	for _, v := range sorted {
		if n := len(groups); n > 0 {
			anchor := groups[n-1][0]
			if (v-anchor)/anchor <= threshold {
				groups[n-1] = append(groups[n-1], v)
				continue
			}
		}
		groups = append(groups, []float64{v})
	}
	return groups
}
