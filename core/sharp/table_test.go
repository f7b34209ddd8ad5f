package sharp

import (
	"testing"

	"github.com/huangsam/lightbox/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreTableLifecycle(t *testing.T) {
	table := NewScoreTable()
	table.Register("b.jpg", 100, 80)
	table.Register("a.jpg", 200, 160)
	table.Register("c.jpg", 300, 240)

	require.Equal(t, 3, table.Len())

	// Results keep registration order, not path order.
	results := table.Results()
	require.Len(t, results, 3)
	assert.Equal(t, "b.jpg", results[0].Path)
	assert.Equal(t, "a.jpg", results[1].Path)
	assert.Equal(t, "c.jpg", results[2].Path)
	for _, r := range results {
		assert.Equal(t, schema.ScorePending, r.State)
	}

	require.NoError(t, table.SetScore("a.jpg", 250.0, schema.AcceptableCategory))

	got, ok := table.Get("a.jpg")
	require.True(t, ok)
	assert.Equal(t, schema.ScoreDone, got.State)
	assert.Equal(t, 250.0, got.Score)
	assert.Equal(t, schema.AcceptableCategory, got.Category)
	assert.Equal(t, 200, got.Width)

	// Entries never scored stay pending, a valid final state after
	// cancellation or skips.
	got, ok = table.Get("b.jpg")
	require.True(t, ok)
	assert.Equal(t, schema.ScorePending, got.State)
}

func TestScoreTableScoresOnce(t *testing.T) {
	table := NewScoreTable()
	table.Register("a.jpg", 10, 10)

	require.NoError(t, table.SetScore("a.jpg", 42.0, schema.BlurryCategory))
	err := table.SetScore("a.jpg", 999.0, schema.SharpCategory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already scored")

	got, _ := table.Get("a.jpg")
	assert.Equal(t, 42.0, got.Score, "a rejected transition must not change the entry")
	assert.Equal(t, schema.BlurryCategory, got.Category)
}

func TestScoreTableUnknownPath(t *testing.T) {
	table := NewScoreTable()
	err := table.SetScore("ghost.jpg", 1.0, schema.BlurryCategory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entry")
}

func TestScoreTableDuplicateRegister(t *testing.T) {
	table := NewScoreTable()
	table.Register("a.jpg", 10, 10)
	table.Register("a.jpg", 999, 999)

	assert.Equal(t, 1, table.Len())
	got, _ := table.Get("a.jpg")
	assert.Equal(t, 10, got.Width, "re-registering must not clobber the entry")
}

func TestScoreTableResultsAreCopies(t *testing.T) {
	table := NewScoreTable()
	table.Register("a.jpg", 10, 10)

	results := table.Results()
	results[0].Score = 123.0

	got, _ := table.Get("a.jpg")
	assert.Zero(t, got.Score, "mutating a snapshot must not touch the table")
}
