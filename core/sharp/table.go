package sharp

import (
	"fmt"
	"sync"

	"github.com/huangsam/lightbox/schema"
)

// ScoreTable tracks every candidate file through the two scan phases. The
// pre-load phase registers entries as pending; the scan phase scores each
// entry exactly once. Entries still pending after the scan are files that
// were skipped or cut off by cancellation, and that is a valid final state.
type ScoreTable struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*schema.SharpnessResult
}

// NewScoreTable returns an empty table.
func NewScoreTable() *ScoreTable {
	return &ScoreTable{entries: make(map[string]*schema.SharpnessResult)}
}

// Register adds a pending entry with the file's header dimensions.
// Registering a path twice is a no-op.
func (t *ScoreTable) Register(path string, width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[path]; ok {
		return
	}
	t.entries[path] = &schema.SharpnessResult{
		Path:   path,
		State:  schema.ScorePending,
		Width:  width,
		Height: height,
	}
	t.order = append(t.order, path)
}

// SetScore transitions one entry from pending to scored. A path that was
// never registered or was already scored is rejected; scored is terminal.
func (t *ScoreTable) SetScore(path string, score float64, category schema.SharpnessCategory) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[path]
	if !ok {
		return fmt.Errorf("score table has no entry for %q", path)
	}
	if entry.State == schema.ScoreDone {
		return fmt.Errorf("entry for %q is already scored", path)
	}
	entry.State = schema.ScoreDone
	entry.Score = score
	entry.Category = category
	return nil
}

// Get returns a copy of one entry.
func (t *ScoreTable) Get(path string) (schema.SharpnessResult, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.entries[path]
	if !ok {
		return schema.SharpnessResult{}, false
	}
	return *entry, true
}

// Len returns how many entries are registered.
func (t *ScoreTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Results snapshots all entries in registration order.
func (t *ScoreTable) Results() []schema.SharpnessResult {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]schema.SharpnessResult, 0, len(t.order))
	for _, path := range t.order {
		out = append(out, *t.entries[path])
	}
	return out
}
