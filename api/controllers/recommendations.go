package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/api/responses"
	"github.com/pawfectfind/pawfectfind-backend/api/validators"
	"github.com/pawfectfind/pawfectfind-backend/internal/matching"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
)

// Recommendations ranks compatible products for a breed given by name or id.
// An empty result is a successful response carrying the empty flag.
func Recommendations(svc matching.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "matching service unavailable"))
			return
		}

		breedID, err := validators.ParseQueryUUID(r, "breed_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		weight, err := validators.ParseQueryFloat(r, "weight")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		q := r.URL.Query()
		input := matching.RecommendInput{
			BreedName:  validators.SanitizeString(q.Get("breed"), 100),
			BreedID:    breedID,
			Weight:     weight,
			CategoryID: validators.SanitizeString(q.Get("category_id"), 64),
			Query:      validators.SanitizeString(q.Get("q"), 100),
		}
		if input.BreedName == "" && input.BreedID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "breed or breed_id is required"))
			return
		}

		rec, err := svc.RecommendForBreed(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}
