package schema

// EnrichedSharpnessResult adds presentation data to a SharpnessResult.
type EnrichedSharpnessResult struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	SharpnessResult
}

// EnrichedDuplicateGroup adds presentation data to a DuplicateGroup.
type EnrichedDuplicateGroup struct {
	Rank        int   `json:"rank"`
	WastedBytes int64 `json:"wasted_bytes"`
	DuplicateGroup
}

// WastedBytes returns how much space deleting all but one member would free.
func (g DuplicateGroup) WastedBytes() int64 {
	if len(g.Files) < 2 {
		return 0
	}
	return g.Size * int64(len(g.Files)-1)
}

// EnrichSharpnessResults adds rank and category label to a list of results.
func EnrichSharpnessResults(results []SharpnessResult) []EnrichedSharpnessResult {
	output := make([]EnrichedSharpnessResult, len(results))
	for i, r := range results {
		label := UnknownLabel
		if r.State == ScoreDone {
			label = r.Category.Label()
		}
		output[i] = EnrichedSharpnessResult{
			Rank:            i + 1,
			Label:           label,
			SharpnessResult: r,
		}
	}
	return output
}

// EnrichDuplicateGroups adds rank and reclaimable size to a list of groups.
func EnrichDuplicateGroups(groups []DuplicateGroup) []EnrichedDuplicateGroup {
	output := make([]EnrichedDuplicateGroup, len(groups))
	for i, g := range groups {
		output[i] = EnrichedDuplicateGroup{
			Rank:           i + 1,
			WastedBytes:    g.WastedBytes(),
			DuplicateGroup: g,
		}
	}
	return output
}
