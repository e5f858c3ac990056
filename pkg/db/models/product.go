package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is read-only catalog data from the matching engine's point of view.
type Product struct {
	ID                   uuid.UUID                    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string                       `gorm:"column:name;not null"`
	Description          string                       `gorm:"column:description;not null;default:''"`
	Price                decimal.Decimal              `gorm:"column:price;type:numeric(10,2);not null"`
	Discount             decimal.Decimal              `gorm:"column:discount;type:numeric(5,2);not null;default:0"`
	Rating               float64                      `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	Popularity           int                          `gorm:"column:popularity;not null;default:0"`
	Vendor               string                       `gorm:"column:vendor;not null;default:''"`
	CategoryID           *string                      `gorm:"column:category_id"`
	ImageURL             *string                      `gorm:"column:image_url"`
	Tags                 pq.StringArray               `gorm:"column:tags;type:text[];not null;default:'{}'"`
	BreedRecommendations []ProductBreedRecommendation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	SizeSuitability      *ProductSizeSuitability      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time                    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                    `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductBreedRecommendation marks a product as curated for one breed.
type ProductBreedRecommendation struct {
	ID                     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID              uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:product_breed_recommendations_product_breed_key"`
	BreedID                uuid.UUID `gorm:"column:breed_id;type:uuid;not null;uniqueIndex:product_breed_recommendations_product_breed_key"`
	RecommendationStrength int       `gorm:"column:recommendation_strength;not null;default:0"`
}

// ProductSizeSuitability flags the size buckets a product generically fits.
type ProductSizeSuitability struct {
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	SuitableForSmall  bool      `gorm:"column:suitable_for_small;not null;default:false"`
	SuitableForMedium bool      `gorm:"column:suitable_for_medium;not null;default:false"`
	SuitableForLarge  bool      `gorm:"column:suitable_for_large;not null;default:false"`
	SuitableForGiant  bool      `gorm:"column:suitable_for_giant;not null;default:false"`
}

func (ProductSizeSuitability) TableName() string { return "product_size_suitability" }
