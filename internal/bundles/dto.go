package bundles

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

// QuoteItemInput is one line of a draft bundle as sent by the builder.
type QuoteItemInput struct {
	ProductID uuid.UUID
	Price     float64
}

// CreateInput persists a draft. Prices are read from the catalog.
type CreateInput struct {
	Name       string
	Breed      string
	ProductIDs []uuid.UUID
}

// UpdateInput edits an active bundle. A nil ProductIDs keeps the current items.
type UpdateInput struct {
	Name       *string
	Breed      *string
	ProductIDs []uuid.UUID
}

// BundleDTO is the bundle payload returned to clients.
type BundleDTO struct {
	ID                 uuid.UUID          `json:"id"`
	Name               string             `json:"name"`
	Breed              string             `json:"breed"`
	Status             enums.BundleStatus `json:"status"`
	Items              []ItemDTO          `json:"items"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	DiscountPercentage int                `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal    `json:"discount_amount"`
	TotalPrice         decimal.Decimal    `json:"total_price"`
	CompletedAt        *time.Time         `json:"completed_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// ItemDTO is a bundle line with its snapshot price.
type ItemDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Position  int             `json:"position"`
}

// NewBundleDTO maps a bundle into its API shape. Subtotal and discount amount
// are derived from the stored items.
func NewBundleDTO(b *models.Bundle) BundleDTO {
	dto := BundleDTO{
		ID:                 b.ID,
		Name:               b.Name,
		Breed:              b.Breed,
		Status:             b.Status,
		Items:              make([]ItemDTO, len(b.Items)),
		DiscountPercentage: b.DiscountPercentage,
		TotalPrice:         b.TotalPrice,
		CompletedAt:        b.CompletedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	for i, item := range b.Items {
		dto.Items[i] = ItemDTO{ProductID: item.ProductID, Price: item.Price, Position: item.Position}
	}
	if quote, err := Price(itemsOf(b.Items)); err == nil {
		dto.Subtotal = quote.Subtotal
		dto.DiscountAmount = quote.DiscountAmount
	}
	return dto
}

func itemsOf(rows []models.BundleItem) []Item {
	out := make([]Item, len(rows))
	for i, row := range rows {
		out[i] = Item{ProductID: row.ProductID, Price: row.Price}
	}
	return out
}
