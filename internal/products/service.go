package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/pkg/db"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/pagination"
)

// Service exposes catalog browse operations.
type Service interface {
	List(ctx context.Context, input ListInput) (*pagination.Page[ProductDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[ProductDTO], error) {
	filters := input.Filters
	if filters.PriceMin != nil && filters.PriceMax != nil && filters.PriceMin.GreaterThan(*filters.PriceMax) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min cannot exceed price_max")
	}
	sort := input.SortBy
	if sort == "" {
		sort = enums.ProductSortPopular
	}
	if !sort.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort_by").
			WithDetails(map[string]any{"sort_by": string(sort)})
	}
	offset, err := pagination.ParseOffset(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	filters.Vendors = compactVendors(filters.Vendors)

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	rows, err := s.repo.List(ctx, listQuery{
		Filters: filters,
		Sort:    sort,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	rows, more := pagination.Trim(rows, limit)
	page := &pagination.Page[ProductDTO]{Items: NewProductDTOs(rows)}
	if more {
		page.NextCursor = pagination.EncodeOffset(offset + limit)
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := NewProductDTO(product)
	return &dto, nil
}

// ListByIDs returns the products among ids in the order of ids. Unknown ids are skipped.
func (s *service) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := make(map[uuid.UUID]int, len(rows))
	for i := range rows {
		byID[rows[i].ID] = i
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, id := range ids {
		if i, ok := byID[id]; ok {
			out = append(out, NewProductDTO(&rows[i]))
		}
	}
	return out, nil
}

func compactVendors(vendors []string) []string {
	out := make([]string, 0, len(vendors))
	for _, v := range vendors {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
