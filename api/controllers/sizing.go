package controllers

import (
	"net/http"

	"github.com/pawfectfind/pawfectfind-backend/api/responses"
	"github.com/pawfectfind/pawfectfind-backend/api/validators"
	"github.com/pawfectfind/pawfectfind-backend/internal/breeds"
	"github.com/pawfectfind/pawfectfind-backend/internal/sizing"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
)

type classifyRequest struct {
	Breed  string  `json:"breed"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

type classifyResponse struct {
	sizing.Classification
	NoBreedData bool `json:"no_breed_data"`
}

// SizingClassify resolves the size category of a dog. Registered breed data
// wins over weight.
func SizingClassify(svc breeds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "breed service unavailable"))
			return
		}

		var payload classifyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		class, err := svc.Classify(ctx, sizing.Dog{
			Breed:  validators.SanitizeString(payload.Breed, 100),
			Weight: payload.Weight,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, classifyResponse{Classification: class, NoBreedData: class.NoBreedData()})
	}
}
