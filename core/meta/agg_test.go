package meta

import (
	"testing"

	"github.com/huangsam/lightbox/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelsOf(buckets []schema.Bucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Label
	}
	return out
}

func TestAggregatorOrderInsensitive(t *testing.T) {
	records := []schema.MetadataRecord{
		{Path: "a.jpg", Aperture: 2.8, ShutterSpeed: 0.005, ISO: 100, FocalLength: 35, LensModel: "RF35mm F1.8"},
		{Path: "b.jpg", Aperture: 4.0, ShutterSpeed: 1.0, ISO: 3200, FocalLength: 50, LensModel: "RF50mm F1.8 STM"},
		{Path: "c.jpg", Aperture: 2.8, FocalLength: 35},
		{Path: "d.jpg"},
	}

	forward := NewAggregator()
	for _, rec := range records {
		forward.Add(rec)
	}
	backward := NewAggregator()
	for i := len(records) - 1; i >= 0; i-- {
		backward.Add(records[i])
	}

	assert.Equal(t, forward.Finalize(), backward.Finalize())
	assert.Equal(t, forward.Summaries(), backward.Summaries())
	assert.Equal(t, forward.Combos(), backward.Combos())
	assert.Equal(t, forward.Count(), backward.Count())
}

func TestAggregatorAllAbsentRecord(t *testing.T) {
	agg := NewAggregator()
	agg.Add(schema.MetadataRecord{Path: "stripped.jpg"})

	assert.Equal(t, 1, agg.Count(), "an all-absent record still counts as decoded")

	for metric, dist := range agg.Finalize() {
		assert.Empty(t, dist.Buckets, "metric %s should have no buckets", metric)
	}
	assert.Empty(t, agg.Summaries())
	assert.Empty(t, agg.Combos().Buckets)
}

func TestAggregatorDropsNonPositiveFocal(t *testing.T) {
	agg := NewAggregator()
	agg.Add(schema.MetadataRecord{Path: "a.jpg", FocalLength: -1})
	agg.Add(schema.MetadataRecord{Path: "b.jpg"})
	agg.Add(schema.MetadataRecord{Path: "c.jpg", FocalLength: 50})

	dist := agg.Finalize()[schema.MetricFocalLength]
	require.Len(t, dist.Buckets, 1)
	assert.Equal(t, schema.Bucket{Label: "50 mm", Count: 1, Sort: 50}, dist.Buckets[0])
	assert.Equal(t, 3, agg.Count())
}

func TestAggregatorFrequencyOrdering(t *testing.T) {
	agg := NewAggregator()
	agg.Add(schema.MetadataRecord{Path: "a.jpg", ISO: 3200})
	agg.Add(schema.MetadataRecord{Path: "b.jpg", ISO: 100})
	agg.Add(schema.MetadataRecord{Path: "c.jpg", ISO: 100})
	agg.Add(schema.MetadataRecord{Path: "d.jpg", ISO: 6400})

	dist := agg.Finalize()[schema.MetricISO]
	require.Len(t, dist.Buckets, 3)
	assert.Equal(t, "ISO 100", dist.Buckets[0].Label, "most frequent value comes first")
	assert.Equal(t, 2, dist.Buckets[0].Count)
	// Equal counts break toward the smaller value.
	assert.Equal(t, []string{"ISO 100", "ISO 3200", "ISO 6400"}, labelsOf(dist.Buckets))
}

func TestAggregatorSummaries(t *testing.T) {
	agg := NewAggregator()
	agg.Add(schema.MetadataRecord{Path: "a.jpg", Aperture: 2.8})
	agg.Add(schema.MetadataRecord{Path: "b.jpg", Aperture: 4.0})

	summaries := agg.Summaries()
	require.Contains(t, summaries, schema.MetricAperture)
	s := summaries[schema.MetricAperture]
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 3.4, s.Mean, 1e-9)
	assert.InDelta(t, 2.8, s.Min, 1e-9)
	assert.InDelta(t, 4.0, s.Max, 1e-9)

	assert.NotContains(t, summaries, schema.MetricISO, "metrics with no values have no summary")
}

func TestAggregatorCombos(t *testing.T) {
	agg := NewAggregator()
	agg.Add(schema.MetadataRecord{Path: "a.jpg", Aperture: 2.8, FocalLength: 35})
	agg.Add(schema.MetadataRecord{Path: "b.jpg", Aperture: 2.8, FocalLength: 35})
	agg.Add(schema.MetadataRecord{Path: "c.jpg", Aperture: 4.0, FocalLength: 50})
	agg.Add(schema.MetadataRecord{Path: "d.jpg", Aperture: 4.0}) // no focal, no combo

	dist := agg.Combos()
	require.Len(t, dist.Buckets, 2)
	assert.Equal(t, schema.Bucket{Label: "f/2.8 @ 35 mm", Count: 2, Sort: 35}, dist.Buckets[0])
	assert.Equal(t, schema.Bucket{Label: "f/4 @ 50 mm", Count: 1, Sort: 50}, dist.Buckets[1])
}

func TestBucketFocals(t *testing.T) {
	tests := []struct {
		name       string
		values     []float64
		maxBuckets int
		want       []string // expected labels in order
		counts     []int
	}{
		{
			name:       "three tight pairs", // pairs merge, distant values stay apart
			values:     []float64{10, 11, 20, 21, 30, 31},
			maxBuckets: 3,
			want:       []string{"10-11 mm", "20-21 mm", "30-31 mm"},
			counts:     []int{2, 2, 2},
		},
		{
			name:       "close tail pair", // only the near-identical tail pair merges
			values:     []float64{16, 20, 300, 304},
			maxBuckets: 3,
			want:       []string{"16 mm", "20 mm", "300-304 mm"},
			counts:     []int{1, 1, 1},
		},
		{
			name:       "forced single bucket", // budget of one swallows everything
			values:     []float64{10.5, 10.5, 11.2},
			maxBuckets: 1,
			want:       []string{"10.5-11.2 mm"},
			counts:     []int{3},
		},
		{
			name:       "few uniques keep exact labels", // under budget, no grouping at all
			values:     []float64{50.0, 50.0},
			maxBuckets: 25,
			want:       []string{"50 mm"},
			counts:     []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets := bucketFocals(tt.values, tt.maxBuckets)
			require.Equal(t, tt.want, labelsOf(buckets))
			for i, b := range buckets {
				assert.Equal(t, tt.counts[i], b.Count, "bucket %q", b.Label)
			}
		})
	}
}

func TestBucketFocalsRespectsBudget(t *testing.T) {
	// 40 distinct values spread geometrically still fit the default budget.
	values := make([]float64, 0, 40)
	v := 8.0
	for range 40 {
		values = append(values, v)
		v *= 1.12
	}

	buckets := bucketFocals(values, schema.MaxFocalBuckets)
	assert.LessOrEqual(t, len(buckets), schema.MaxFocalBuckets)

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, len(values), total, "grouping must preserve every value")
}

func TestEquivalentFocal(t *testing.T) {
	agg := NewAggregator()
	agg.Add(schema.MetadataRecord{Path: "a.jpg", FocalLength: 50})
	agg.Add(schema.MetadataRecord{Path: "b.jpg", FocalLength: 50})

	dist := agg.EquivalentFocal(1.5)
	require.Len(t, dist.Buckets, 1)
	assert.Equal(t, "75 mm", dist.Buckets[0].Label)
	assert.Equal(t, 2, dist.Buckets[0].Count)
}
