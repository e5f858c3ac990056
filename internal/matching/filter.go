package matching

import (
	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

// FilterResult is the compatible subset of a candidate list.
type FilterResult struct {
	Matches      []Match
	BreedMatches int
	SizeMatches  int
	// Empty is set when candidates existed but none were compatible.
	Empty bool
	// CatalogEmpty is set when there was nothing to filter at all.
	CatalogEmpty bool
	// SearchMiss is set when the catalog had products but a free-text query
	// left none to filter. It implies Empty and never CatalogEmpty.
	SearchMiss bool
}

// FilterCompatible keeps a candidate iff it carries a recommendation for
// breedID or is suitable for size. Everything else is dropped. Input order
// is preserved.
func FilterCompatible(candidates []Candidate, breedID uuid.UUID, size enums.SizeCategory) FilterResult {
	if len(candidates) == 0 {
		return FilterResult{Matches: []Match{}, Empty: true, CatalogEmpty: true}
	}

	res := FilterResult{Matches: make([]Match, 0, len(candidates))}
	for _, c := range candidates {
		m, ok := evaluate(c, breedID, size)
		if !ok {
			continue
		}
		if m.BreedMatch {
			res.BreedMatches++
		} else {
			res.SizeMatches++
		}
		res.Matches = append(res.Matches, m)
	}
	res.Empty = len(res.Matches) == 0
	return res
}

func evaluate(c Candidate, breedID uuid.UUID, size enums.SizeCategory) (Match, bool) {
	rec, breedMatch := c.RecommendationFor(breedID)
	sizeMatch := c.SizeSuitability.SuitableFor(size)
	if !breedMatch && !sizeMatch {
		return Match{}, false
	}

	m := Match{
		Product:      c,
		IsCompatible: true,
		BreedMatch:   breedMatch,
		SizeMatch:    sizeMatch,
		Reason:       ReasonSize,
	}
	if breedMatch {
		strength := rec.Strength
		m.RecommendationStrength = &strength
		m.Reason = ReasonBreed
	}
	return m, true
}
