package matching

import "sort"

// Rank discards candidates that could not be scored, sorts the rest
// by total score descending and truncates to limit. The sort is
// stable, so equal scores keep the filter stage's ordering.
func Rank(scored []*ScoredCandidate, limit int) []*ScoredCandidate {
	ranked := make([]*ScoredCandidate, 0, len(scored))
	for _, c := range scored {
		if c == nil || c.Profile == nil || c.Scores == nil {
			continue
		}
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Scores.Total > ranked[j].Scores.Total
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	for i, c := range ranked {
		c.Rank = i + 1
	}

	return ranked
}
