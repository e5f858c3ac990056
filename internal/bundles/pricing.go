package bundles

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
)

// Discount tiers by item count.
const (
	pairDiscountPct   = 10
	tripleDiscountPct = 15
)

var hundred = decimal.NewFromInt(100)

// Item is one priced line of a bundle.
type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
}

// Quote is the priced result for a list of items.
type Quote struct {
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountPercentage int             `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	Total              decimal.Decimal `json:"total"`
}

// StoredTotal is Total rounded to cents, the precision of the bundles table.
func (q Quote) StoredTotal() decimal.Decimal {
	return q.Total.Round(2)
}

// DiscountTier returns the discount percentage for a bundle of count items.
func DiscountTier(count int) int {
	switch {
	case count >= 3:
		return tripleDiscountPct
	case count == 2:
		return pairDiscountPct
	default:
		return 0
	}
}

// NewItem validates a raw price and builds an Item.
func NewItem(productID uuid.UUID, price float64) (Item, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return Item{}, invalidPrice(productID, "price must be a finite number")
	}
	if price < 0 {
		return Item{}, invalidPrice(productID, "price must not be negative")
	}
	return Item{ProductID: productID, Price: decimal.NewFromFloat(price)}, nil
}

// Price computes subtotal, tiered discount, and total for items. The result
// depends only on items. An empty list prices to zero.
func Price(items []Item) (Quote, error) {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.Price.IsNegative() {
			return Quote{}, invalidPrice(item.ProductID, "price must not be negative")
		}
		subtotal = subtotal.Add(item.Price)
	}

	pct := DiscountTier(len(items))
	discount := subtotal.Mul(decimal.NewFromInt(int64(pct))).Div(hundred)
	return Quote{
		Subtotal:           subtotal,
		DiscountPercentage: pct,
		DiscountAmount:     discount,
		Total:              subtotal.Sub(discount),
	}, nil
}

func invalidPrice(productID uuid.UUID, msg string) error {
	return pkgerrors.New(pkgerrors.CodeInvalidBundleState, msg).
		WithDetails(map[string]any{"product_id": productID.String()})
}

// Drift reprices the stored items of bundle and reports whether its stored
// total or discount percentage disagree with the result.
func Drift(bundle *models.Bundle) (Quote, bool, error) {
	quote, err := Price(itemsOf(bundle.Items))
	if err != nil {
		return Quote{}, false, err
	}
	drifted := !bundle.TotalPrice.Equal(quote.StoredTotal()) ||
		bundle.DiscountPercentage != quote.DiscountPercentage
	return quote, drifted, nil
}
