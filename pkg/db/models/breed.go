package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

// Breed is immutable reference data maintained by administrators.
type Breed struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string               `gorm:"column:name;not null;uniqueIndex:dog_breeds_name_key"`
	Description    string               `gorm:"column:description;not null;default:''"`
	SizeVariations []BreedSizeVariation `gorm:"foreignKey:BreedID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Breed) TableName() string { return "dog_breeds" }

// BreedSizeVariation registers the size bucket a breed falls into.
type BreedSizeVariation struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BreedID         uuid.UUID              `gorm:"column:breed_id;type:uuid;not null;index"`
	SizeCategory    enums.SizeCategory     `gorm:"column:size_category;not null"`
	Characteristics []BreedCharacteristics `gorm:"foreignKey:SizeVariationID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
}

// BreedCharacteristics holds at most one row per gender for a size variation.
type BreedCharacteristics struct {
	ID                uuid.UUID    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SizeVariationID   uuid.UUID    `gorm:"column:size_variation_id;type:uuid;not null;uniqueIndex:breed_characteristics_variation_gender_key"`
	Gender            enums.Gender `gorm:"column:gender;not null;uniqueIndex:breed_characteristics_variation_gender_key"`
	HeightMinCM       float64      `gorm:"column:height_min_cm;type:numeric(6,2);not null"`
	HeightMaxCM       float64      `gorm:"column:height_max_cm;type:numeric(6,2);not null"`
	WeightMinKG       float64      `gorm:"column:weight_min_kg;type:numeric(6,2);not null"`
	WeightMaxKG       float64      `gorm:"column:weight_max_kg;type:numeric(6,2);not null"`
	EnergyLevel       int          `gorm:"column:energy_level;not null"`
	GoodWithChildren  bool         `gorm:"column:good_with_children;not null;default:false"`
	GoodWithDogs      bool         `gorm:"column:good_with_dogs;not null;default:false"`
	GoodWithStrangers bool         `gorm:"column:good_with_strangers;not null;default:false"`
}

func (BreedCharacteristics) TableName() string { return "breed_characteristics" }

// BreedLifeStage describes one growth stage for a breed.
type BreedLifeStage struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BreedID            uuid.UUID       `gorm:"column:breed_id;type:uuid;not null;index"`
	StageName          enums.LifeStage `gorm:"column:stage_name;not null"`
	StartAgeMonths     int             `gorm:"column:start_age_months;not null"`
	EndAgeMonths       int             `gorm:"column:end_age_months;not null"`
	MinWeightKG        float64         `gorm:"column:min_weight_kg;type:numeric(6,2);not null"`
	MaxWeightKG        float64         `gorm:"column:max_weight_kg;type:numeric(6,2);not null"`
	DailyCaloriesPerKG float64         `gorm:"column:daily_calories_per_kg;type:numeric(6,2);not null"`
}
