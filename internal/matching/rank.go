package matching

import "sort"

// Rank orders matches with breed matches first. Within a group, higher
// recommendation strength wins when both entries carry one, otherwise higher
// popularity. Ties keep input order. The input slice is not modified.
func Rank(matches []Match) []Match {
	out := make([]Match, len(matches))
	copy(out, matches)
	sort.SliceStable(out, func(i, j int) bool {
		return ranksBefore(out[i], out[j])
	})
	return out
}

// Only breed matches carry a strength, so the strength comparison never
// mixes with popularity inside one group.
func ranksBefore(a, b Match) bool {
	if a.BreedMatch != b.BreedMatch {
		return a.BreedMatch
	}
	if a.RecommendationStrength != nil && b.RecommendationStrength != nil &&
		*a.RecommendationStrength != *b.RecommendationStrength {
		return *a.RecommendationStrength > *b.RecommendationStrength
	}
	return a.Product.Popularity > b.Product.Popularity
}
