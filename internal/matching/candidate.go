package matching

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

// BreedRecommendation marks a candidate as curated for one breed.
type BreedRecommendation struct {
	BreedID  uuid.UUID `json:"breed_id"`
	Strength int       `json:"strength"`
}

// SizeSuitability flags the size buckets a product generically fits.
type SizeSuitability struct {
	Small  bool `json:"suitable_for_small"`
	Medium bool `json:"suitable_for_medium"`
	Large  bool `json:"suitable_for_large"`
	Giant  bool `json:"suitable_for_giant"`
}

// SuitableFor reports the flag for size. The catalog has no toy or mini
// flags, so those dogs read the small flag.
func (s SizeSuitability) SuitableFor(size enums.SizeCategory) bool {
	switch size {
	case enums.SizeToy, enums.SizeMini, enums.SizeSmall:
		return s.Small
	case enums.SizeMedium:
		return s.Medium
	case enums.SizeLarge:
		return s.Large
	case enums.SizeGiant:
		return s.Giant
	default:
		return false
	}
}

// Candidate is one catalog row as seen by the matcher. Values are copied out
// of the storage models and never mutated.
type Candidate struct {
	ID                   uuid.UUID             `json:"id"`
	Name                 string                `json:"name"`
	Description          string                `json:"description"`
	Price                decimal.Decimal       `json:"price"`
	Discount             decimal.Decimal       `json:"discount"`
	Rating               float64               `json:"rating"`
	Popularity           int                   `json:"popularity"`
	Vendor               string                `json:"vendor"`
	CategoryID           string                `json:"category_id,omitempty"`
	ImageURL             string                `json:"image_url,omitempty"`
	Tags                 []string              `json:"tags"`
	BreedRecommendations []BreedRecommendation `json:"breed_recommendations"`
	SizeSuitability      SizeSuitability       `json:"size_suitability"`
	CatalogIndex         int                   `json:"-"`
}

// RecommendationFor returns the recommendation for breedID, if any.
func (c Candidate) RecommendationFor(breedID uuid.UUID) (BreedRecommendation, bool) {
	if breedID == uuid.Nil {
		return BreedRecommendation{}, false
	}
	for _, rec := range c.BreedRecommendations {
		if rec.BreedID == breedID {
			return rec, true
		}
	}
	return BreedRecommendation{}, false
}

// Reason explains why a product was kept.
type Reason string

const (
	ReasonBreed Reason = "breed"
	ReasonSize  Reason = "size"
)

// Match is a compatible candidate annotated with the compatibility decision.
type Match struct {
	Product                Candidate `json:"product"`
	IsCompatible           bool      `json:"is_compatible"`
	BreedMatch             bool      `json:"breed_match"`
	SizeMatch              bool      `json:"size_match"`
	RecommendationStrength *int      `json:"recommendation_strength,omitempty"`
	Reason                 Reason    `json:"reason"`
}
