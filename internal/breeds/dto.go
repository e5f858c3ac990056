package breeds

import (
	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

// BreedDTO is the breed payload returned to clients. Size mirrors the first
// size variation, which is the one the classifier uses.
type BreedDTO struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Size           enums.SizeCategory `json:"size,omitempty"`
	SizeVariations []SizeVariationDTO `json:"size_variations"`
}

type SizeVariationDTO struct {
	ID              uuid.UUID            `json:"id"`
	SizeCategory    enums.SizeCategory   `json:"size_category"`
	Characteristics []CharacteristicsDTO `json:"characteristics"`
}

type CharacteristicsDTO struct {
	Gender            enums.Gender `json:"gender"`
	HeightMinCM       float64      `json:"height_min_cm"`
	HeightMaxCM       float64      `json:"height_max_cm"`
	WeightMinKG       float64      `json:"weight_min_kg"`
	WeightMaxKG       float64      `json:"weight_max_kg"`
	EnergyLevel       int          `json:"energy_level"`
	GoodWithChildren  bool         `json:"good_with_children"`
	GoodWithDogs      bool         `json:"good_with_dogs"`
	GoodWithStrangers bool         `json:"good_with_strangers"`
}

// LifeStageDTO is one growth stage of a breed.
type LifeStageDTO struct {
	Stage              enums.LifeStage `json:"stage"`
	StartAgeMonths     int             `json:"start_age_months"`
	EndAgeMonths       int             `json:"end_age_months"`
	MinWeightKG        float64         `json:"min_weight_kg"`
	MaxWeightKG        float64         `json:"max_weight_kg"`
	DailyCaloriesPerKG float64         `json:"daily_calories_per_kg"`
}

// LifeStageInput is the admin payload for one stage.
type LifeStageInput = LifeStageDTO

// NewBreedDTO maps a breed model into its API shape.
func NewBreedDTO(b *models.Breed) BreedDTO {
	dto := BreedDTO{
		ID:             b.ID,
		Name:           b.Name,
		Description:    b.Description,
		SizeVariations: make([]SizeVariationDTO, 0, len(b.SizeVariations)),
	}
	for _, v := range b.SizeVariations {
		variation := SizeVariationDTO{
			ID:              v.ID,
			SizeCategory:    v.SizeCategory,
			Characteristics: make([]CharacteristicsDTO, 0, len(v.Characteristics)),
		}
		for _, c := range v.Characteristics {
			variation.Characteristics = append(variation.Characteristics, CharacteristicsDTO{
				Gender:            c.Gender,
				HeightMinCM:       c.HeightMinCM,
				HeightMaxCM:       c.HeightMaxCM,
				WeightMinKG:       c.WeightMinKG,
				WeightMaxKG:       c.WeightMaxKG,
				EnergyLevel:       c.EnergyLevel,
				GoodWithChildren:  c.GoodWithChildren,
				GoodWithDogs:      c.GoodWithDogs,
				GoodWithStrangers: c.GoodWithStrangers,
			})
		}
		dto.SizeVariations = append(dto.SizeVariations, variation)
	}
	if len(b.SizeVariations) > 0 {
		dto.Size = b.SizeVariations[0].SizeCategory
	}
	return dto
}

func newLifeStageDTOs(rows []models.BreedLifeStage) []LifeStageDTO {
	out := make([]LifeStageDTO, len(rows))
	for i, row := range rows {
		out[i] = LifeStageDTO{
			Stage:              row.StageName,
			StartAgeMonths:     row.StartAgeMonths,
			EndAgeMonths:       row.EndAgeMonths,
			MinWeightKG:        row.MinWeightKG,
			MaxWeightKG:        row.MaxWeightKG,
			DailyCaloriesPerKG: row.DailyCaloriesPerKG,
		}
	}
	return out
}
