package bundles

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pawfectfind/pawfectfind-backend/pkg/db/models"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
)

func items(prices ...string) []Item {
	out := make([]Item, len(prices))
	for i, p := range prices {
		out[i] = Item{ProductID: uuid.New(), Price: decimal.RequireFromString(p)}
	}
	return out
}

func TestPriceConcreteCases(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		items    []Item
		subtotal string
		pct      int
		discount string
		total    string
	}{
		{"empty", nil, "0", 0, "0", "0"},
		{"single", items("50"), "50", 0, "0", "50"},
		{"pair", items("50", "30"), "80", 10, "8", "72"},
		{"triple", items("50", "30", "20"), "100", 15, "15", "85"},
		{"many", items("10", "10", "10", "10"), "40", 15, "6", "34"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q, err := Price(tc.items)
			if err != nil {
				t.Fatalf("price: %v", err)
			}
			if !q.Subtotal.Equal(decimal.RequireFromString(tc.subtotal)) {
				t.Fatalf("subtotal = %s, want %s", q.Subtotal, tc.subtotal)
			}
			if q.DiscountPercentage != tc.pct {
				t.Fatalf("discount pct = %d, want %d", q.DiscountPercentage, tc.pct)
			}
			if !q.DiscountAmount.Equal(decimal.RequireFromString(tc.discount)) {
				t.Fatalf("discount = %s, want %s", q.DiscountAmount, tc.discount)
			}
			if !q.Total.Equal(decimal.RequireFromString(tc.total)) {
				t.Fatalf("total = %s, want %s", q.Total, tc.total)
			}
		})
	}
}

func TestPriceIsIdempotent(t *testing.T) {
	t.Parallel()

	list := items("50", "30", "20")
	first, err := Price(list)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	second, err := Price(list)
	if err != nil {
		t.Fatalf("price again: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("repeat pricing differs: %s vs %s", a, b)
	}
}

func TestPriceKeepsFractionalCents(t *testing.T) {
	t.Parallel()

	q, err := Price(items("19.99", "5.01", "0.33"))
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if got := q.DiscountAmount.String(); got != "3.7995" {
		t.Fatalf("discount = %s, want 3.7995", got)
	}
	if got := q.StoredTotal().String(); got != "21.53" {
		t.Fatalf("stored total = %s, want 21.53", got)
	}
}

func TestPriceRejectsNegativePrices(t *testing.T) {
	t.Parallel()

	_, err := Price(items("10", "-1"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidBundleState) {
		t.Fatalf("expected invalid bundle state, got %v", err)
	}
}

func TestNewItemValidatesBoundary(t *testing.T) {
	t.Parallel()

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.01} {
		if _, err := NewItem(uuid.New(), bad); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidBundleState) {
			t.Fatalf("price %v: expected invalid bundle state, got %v", bad, err)
		}
	}
	item, err := NewItem(uuid.New(), 12.5)
	if err != nil || !item.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected item %+v err=%v", item, err)
	}
	if _, err := NewItem(uuid.New(), 0); err != nil {
		t.Fatalf("free items are allowed: %v", err)
	}
}

func TestDiscountTierIsMonotone(t *testing.T) {
	t.Parallel()

	prev := DiscountTier(0)
	for n := 1; n <= 10; n++ {
		cur := DiscountTier(n)
		if cur < prev {
			t.Fatalf("tier dropped from %d to %d at %d items", prev, cur, n)
		}
		prev = cur
	}
}

func TestDriftDetectsStaleTotals(t *testing.T) {
	bundle := &models.Bundle{
		TotalPrice: decimal.NewFromInt(50),
		Items: []models.BundleItem{
			{ProductID: uuid.New(), Price: decimal.NewFromInt(30)},
			{ProductID: uuid.New(), Price: decimal.NewFromInt(20)},
		},
	}
	quote, drifted, err := Drift(bundle)
	if err != nil {
		t.Fatalf("Drift: %v", err)
	}
	if !drifted {
		t.Fatal("expected stale total to be reported")
	}
	if quote.DiscountPercentage != 10 || !quote.StoredTotal().Equal(decimal.NewFromInt(45)) {
		t.Fatalf("unexpected quote %+v", quote)
	}

	bundle.TotalPrice = decimal.RequireFromString("45.00")
	bundle.DiscountPercentage = 10
	if _, drifted, err = Drift(bundle); err != nil || drifted {
		t.Fatalf("expected fresh bundle, drifted=%v err=%v", drifted, err)
	}
}
