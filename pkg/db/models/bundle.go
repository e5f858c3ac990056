package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

// Bundle is a persisted, user-owned product set. TotalPrice and
// DiscountPercentage are always derived from Items.
type Bundle struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	Name               string             `gorm:"column:name;not null"`
	Breed              string             `gorm:"column:breed;not null;default:''"`
	TotalPrice         decimal.Decimal    `gorm:"column:total_price;type:numeric(10,2);not null"`
	DiscountPercentage int                `gorm:"column:discount_percentage;not null;default:0"`
	Status             enums.BundleStatus `gorm:"column:status;not null"`
	Items              []BundleItem       `gorm:"foreignKey:BundleID;constraint:OnDelete:CASCADE"`
	CompletedAt        *time.Time         `gorm:"column:completed_at"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// BundleItem stores the product price captured when it was added.
type BundleItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BundleID  uuid.UUID       `gorm:"column:bundle_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Position  int             `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
