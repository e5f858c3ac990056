package controllers

import (
	"net/http"

	"github.com/pawfectfind/pawfectfind-backend/api/middleware"
	"github.com/pawfectfind/pawfectfind-backend/api/responses"
	"github.com/pawfectfind/pawfectfind-backend/api/validators"
	"github.com/pawfectfind/pawfectfind-backend/internal/dogs"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
)

type guestDogResponse struct {
	GuestToken string       `json:"guest_token"`
	Dog        *dogs.DogDTO `json:"dog"`
}

// GuestDogsList returns the temporary dogs behind the guest token. Unknown
// tokens yield an empty list.
func GuestDogsList(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}

		list, err := svc.GuestList(ctx, middleware.GuestToken(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GuestDogCreate stores a temporary dog, issuing a guest token when the
// request carries none. The token is echoed in the response header and body.
func GuestDogCreate(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}
		profile, err := decodeDogProfile(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		token, dog, err := svc.GuestAdd(ctx, middleware.GuestToken(r), profile)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		w.Header().Set(middleware.GuestTokenHeader, token)
		responses.WriteSuccessStatus(w, http.StatusCreated, guestDogResponse{GuestToken: token, Dog: dog})
	}
}

// GuestDogDelete drops one temporary dog.
func GuestDogDelete(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}
		dogID, err := validators.ParseUUIDParam(r, "dogId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.GuestDelete(ctx, middleware.GuestToken(r), dogID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
