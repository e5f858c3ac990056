package controllers

import (
	"net/http"
	"strings"

	"github.com/pawfectfind/pawfectfind-backend/api/responses"
	"github.com/pawfectfind/pawfectfind-backend/api/validators"
	"github.com/pawfectfind/pawfectfind-backend/internal/breeds"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
)

// BreedsList returns breeds, optionally filtered by a name search.
func BreedsList(svc breeds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "breed service unavailable"))
			return
		}

		search := validators.SanitizeString(r.URL.Query().Get("q"), 100)
		list, err := svc.List(ctx, search)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// BreedDetail returns a single breed with its size variations.
func BreedDetail(svc breeds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "breed service unavailable"))
			return
		}

		breedID, err := validators.ParseUUIDParam(r, "breedId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		breed, err := svc.Get(ctx, breedID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, breed)
	}
}

// BreedLifeStages returns the life stages of a breed ordered by start age.
func BreedLifeStages(svc breeds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "breed service unavailable"))
			return
		}

		breedID, err := validators.ParseUUIDParam(r, "breedId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		stages, err := svc.ListLifeStages(ctx, breedID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stages)
	}
}

type lifeStageRequest struct {
	Stage              string  `json:"stage" validate:"required"`
	StartAgeMonths     int     `json:"start_age_months" validate:"gte=0"`
	EndAgeMonths       int     `json:"end_age_months" validate:"gt=0"`
	MinWeightKG        float64 `json:"min_weight_kg" validate:"gte=0"`
	MaxWeightKG        float64 `json:"max_weight_kg" validate:"gte=0"`
	DailyCaloriesPerKG float64 `json:"daily_calories_per_kg" validate:"gt=0"`
}

type replaceLifeStagesRequest struct {
	Stages []lifeStageRequest `json:"stages" validate:"required,dive"`
}

func (p replaceLifeStagesRequest) toInput() ([]breeds.LifeStageInput, error) {
	out := make([]breeds.LifeStageInput, 0, len(p.Stages))
	for i, s := range p.Stages {
		stage, err := enums.ParseLifeStage(strings.TrimSpace(s.Stage))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid life stage").
				WithDetails(map[string]any{"index": i, "stage": s.Stage})
		}
		out = append(out, breeds.LifeStageInput{
			Stage:              stage,
			StartAgeMonths:     s.StartAgeMonths,
			EndAgeMonths:       s.EndAgeMonths,
			MinWeightKG:        s.MinWeightKG,
			MaxWeightKG:        s.MaxWeightKG,
			DailyCaloriesPerKG: s.DailyCaloriesPerKG,
		})
	}
	return out, nil
}

// AdminReplaceLifeStages swaps the full life stage table of a breed.
func AdminReplaceLifeStages(svc breeds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "breed service unavailable"))
			return
		}

		breedID, err := validators.ParseUUIDParam(r, "breedId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload replaceLifeStagesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		stages, err := svc.ReplaceLifeStages(ctx, breedID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stages)
	}
}
