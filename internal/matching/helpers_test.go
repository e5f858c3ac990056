package matching

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	beagleID = uuid.MustParse("8b3f1f9e-6c1e-4c53-9d7e-0a0b3b7d1a01")
	pugID    = uuid.MustParse("8b3f1f9e-6c1e-4c53-9d7e-0a0b3b7d1a02")
)

func candidate(name string, popularity int, opts ...func(*Candidate)) Candidate {
	c := Candidate{
		ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Name:       name,
		Price:      decimal.NewFromInt(10),
		Popularity: popularity,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func recommendedFor(breedID uuid.UUID, strength int) func(*Candidate) {
	return func(c *Candidate) {
		c.BreedRecommendations = append(c.BreedRecommendations, BreedRecommendation{BreedID: breedID, Strength: strength})
	}
}

func suitable(s SizeSuitability) func(*Candidate) {
	return func(c *Candidate) { c.SizeSuitability = s }
}

func described(d string) func(*Candidate) {
	return func(c *Candidate) { c.Description = d }
}

func names(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Product.Name
	}
	return out
}
