package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawfectfind/pawfectfind-backend/internal/matching"
	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
)

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID                   uuid.UUID                `json:"id"`
	Name                 string                   `json:"name"`
	Description          string                   `json:"description"`
	Price                decimal.Decimal          `json:"price"`
	Discount             decimal.Decimal          `json:"discount"`
	Rating               float64                  `json:"rating"`
	Popularity           int                      `json:"popularity"`
	Vendor               string                   `json:"vendor"`
	CategoryID           *string                  `json:"category_id,omitempty"`
	ImageURL             *string                  `json:"image_url,omitempty"`
	Tags                 []string                 `json:"tags"`
	BreedRecommendations []BreedRecommendationDTO `json:"breed_recommendations,omitempty"`
	SizeSuitability      *SizeSuitabilityDTO      `json:"size_suitability,omitempty"`
	CreatedAt            time.Time                `json:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at"`
}

// BreedRecommendationDTO names a breed the product is curated for.
type BreedRecommendationDTO struct {
	BreedID  uuid.UUID `json:"breed_id"`
	Strength int       `json:"recommendation_strength"`
}

// SizeSuitabilityDTO exposes the size flags of a product.
type SizeSuitabilityDTO struct {
	Small  bool `json:"suitable_for_small"`
	Medium bool `json:"suitable_for_medium"`
	Large  bool `json:"suitable_for_large"`
	Giant  bool `json:"suitable_for_giant"`
}

// NewProductDTO maps a product model into its API shape. Associations are
// included only when they were loaded.
func NewProductDTO(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Discount:    p.Discount,
		Rating:      p.Rating,
		Popularity:  p.Popularity,
		Vendor:      p.Vendor,
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		Tags:        append([]string{}, p.Tags...),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, rec := range p.BreedRecommendations {
		dto.BreedRecommendations = append(dto.BreedRecommendations, BreedRecommendationDTO{
			BreedID:  rec.BreedID,
			Strength: rec.RecommendationStrength,
		})
	}
	if p.SizeSuitability != nil {
		dto.SizeSuitability = &SizeSuitabilityDTO{
			Small:  p.SizeSuitability.SuitableForSmall,
			Medium: p.SizeSuitability.SuitableForMedium,
			Large:  p.SizeSuitability.SuitableForLarge,
			Giant:  p.SizeSuitability.SuitableForGiant,
		}
	}
	return dto
}

// NewProductDTOs maps a slice of product models.
func NewProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, len(rows))
	for i := range rows {
		out[i] = NewProductDTO(&rows[i])
	}
	return out
}

func toCandidate(p *models.Product) matching.Candidate {
	c := matching.Candidate{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Discount:    p.Discount,
		Rating:      p.Rating,
		Popularity:  p.Popularity,
		Vendor:      p.Vendor,
		Tags:        append([]string{}, p.Tags...),
	}
	if p.CategoryID != nil {
		c.CategoryID = *p.CategoryID
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	return c
}

func toSuitability(s *models.ProductSizeSuitability) matching.SizeSuitability {
	return matching.SizeSuitability{
		Small:  s.SuitableForSmall,
		Medium: s.SuitableForMedium,
		Large:  s.SuitableForLarge,
		Giant:  s.SuitableForGiant,
	}
}
