package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/api/responses"
	"github.com/pawfectfind/pawfectfind-backend/api/validators"
	"github.com/pawfectfind/pawfectfind-backend/internal/bundles"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
)

type quoteItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Price     float64   `json:"price"`
}

type quoteRequest struct {
	Items []quoteItemRequest `json:"items" validate:"required,dive"`
}

type createBundleRequest struct {
	Name       string      `json:"name" validate:"required"`
	Breed      string      `json:"breed"`
	ProductIDs []uuid.UUID `json:"product_ids" validate:"required,min=1"`
}

type updateBundleRequest struct {
	Name       *string     `json:"name,omitempty"`
	Breed      *string     `json:"breed,omitempty"`
	ProductIDs []uuid.UUID `json:"product_ids,omitempty"`
}

// BundleQuote previews bundle pricing for a draft without persisting it.
func BundleQuote(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items := make([]bundles.QuoteItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, bundles.QuoteItemInput{ProductID: item.ProductID, Price: item.Price})
		}
		quote, err := svc.Quote(ctx, items)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// BundleCreate persists a draft as an active bundle at catalog prices.
func BundleCreate(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle service unavailable"))
			return
		}
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload createBundleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		bundle, err := svc.Create(ctx, userID, bundles.CreateInput{
			Name:       validators.SanitizeString(payload.Name, 120),
			Breed:      validators.SanitizeString(payload.Breed, 100),
			ProductIDs: payload.ProductIDs,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, bundle)
	}
}

// BundleList returns the caller's bundles, newest first.
func BundleList(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle service unavailable"))
			return
		}
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.List(ctx, userID, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// BundleDetail returns one bundle owned by the caller.
func BundleDetail(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle service unavailable"))
			return
		}
		userID, bundleID, err := bundleTarget(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		bundle, err := svc.Get(ctx, userID, bundleID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, bundle)
	}
}

// BundleUpdate edits an active bundle and reprices it.
func BundleUpdate(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle service unavailable"))
			return
		}
		userID, bundleID, err := bundleTarget(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateBundleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		bundle, err := svc.Update(ctx, userID, bundleID, bundles.UpdateInput{
			Name:       payload.Name,
			Breed:      payload.Breed,
			ProductIDs: payload.ProductIDs,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, bundle)
	}
}

// BundleComplete moves an active bundle to completed.
func BundleComplete(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle service unavailable"))
			return
		}
		userID, bundleID, err := bundleTarget(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		bundle, err := svc.Complete(ctx, userID, bundleID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, bundle)
	}
}

// BundleDelete removes a bundle owned by the caller.
func BundleDelete(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle service unavailable"))
			return
		}
		userID, bundleID, err := bundleTarget(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, userID, bundleID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func bundleTarget(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	userID, err := requireUser(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	bundleID, err := validators.ParseUUIDParam(r, "bundleId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, bundleID, nil
}
