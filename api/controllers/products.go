package controllers

import (
	"net/http"

	"github.com/pawfectfind/pawfectfind-backend/api/responses"
	"github.com/pawfectfind/pawfectfind-backend/api/validators"
	productsvc "github.com/pawfectfind/pawfectfind-backend/internal/products"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
)

// ProductsList browses the catalog with filters, sorting and cursor pagination.
func ProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := parseProductListInput(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.List(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ProductDetail returns one product with breed recommendations and size suitability.
func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.Get(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func parseProductListInput(r *http.Request) (productsvc.ListInput, error) {
	var input productsvc.ListInput

	params, err := pageParams(r)
	if err != nil {
		return input, err
	}
	priceMin, err := validators.ParseQueryDecimal(r, "price_min")
	if err != nil {
		return input, err
	}
	priceMax, err := validators.ParseQueryDecimal(r, "price_max")
	if err != nil {
		return input, err
	}
	sort, err := enums.ParseProductSort(r.URL.Query().Get("sort_by"))
	if err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort_by")
	}

	q := r.URL.Query()
	input.Filters = productsvc.ListFilters{
		CategoryID: validators.SanitizeString(q.Get("category_id"), 64),
		PriceMin:   priceMin,
		PriceMax:   priceMax,
		Vendors:    validators.QueryList(r, "vendor"),
		Query:      validators.SanitizeString(q.Get("q"), 100),
	}
	input.SortBy = sort
	input.Pagination = params
	return input, nil
}
