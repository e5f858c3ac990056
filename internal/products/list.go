package products

import (
	"github.com/shopspring/decimal"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	"github.com/pawfectfind/pawfectfind-backend/pkg/pagination"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	CategoryID string           `json:"category_id,omitempty"`
	PriceMin   *decimal.Decimal `json:"price_min,omitempty"`
	PriceMax   *decimal.Decimal `json:"price_max,omitempty"`
	Vendors    []string         `json:"vendor,omitempty"`
	Query      string           `json:"q,omitempty"`
}

// ListInput captures the inputs needed to filter, sort, and paginate the catalog.
type ListInput struct {
	Filters    ListFilters
	SortBy     enums.ProductSort
	Pagination pagination.Params
}
