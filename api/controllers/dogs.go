package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/api/middleware"
	"github.com/pawfectfind/pawfectfind-backend/api/responses"
	"github.com/pawfectfind/pawfectfind-backend/api/validators"
	"github.com/pawfectfind/pawfectfind-backend/internal/dogs"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
)

// dogRequest carries a dog profile. Field rules live in dogs.Profile.Validate
// so guest and stored dogs share them.
type dogRequest struct {
	Name             string   `json:"name"`
	Breed            string   `json:"breed"`
	Age              float64  `json:"age"`
	Weight           float64  `json:"weight"`
	ActivityLevel    int      `json:"activity_level"`
	Gender           *string  `json:"gender,omitempty"`
	HealthConditions []string `json:"health_conditions,omitempty"`
}

func (p dogRequest) toProfile() (dogs.Profile, error) {
	profile := dogs.Profile{
		Name:             validators.SanitizeString(p.Name, 80),
		Breed:            validators.SanitizeString(p.Breed, 100),
		Age:              p.Age,
		Weight:           p.Weight,
		ActivityLevel:    p.ActivityLevel,
		HealthConditions: p.HealthConditions,
	}
	if p.Gender != nil && strings.TrimSpace(*p.Gender) != "" {
		gender, err := enums.ParseGender(*p.Gender)
		if err != nil {
			return profile, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid gender").
				WithDetails(map[string]string{"gender": "must be one of male female"})
		}
		profile.Gender = &gender
	}
	return profile, nil
}

func decodeDogProfile(r *http.Request) (dogs.Profile, error) {
	var payload dogRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return dogs.Profile{}, err
	}
	return payload.toProfile()
}

// DogsList returns the caller's dogs.
func DogsList(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.List(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// DogCreate stores a new dog profile for the caller.
func DogCreate(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		profile, err := decodeDogProfile(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dog, err := svc.Create(ctx, userID, profile)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dog)
	}
}

// DogDetail returns one dog owned by the caller.
func DogDetail(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}
		userID, dogID, err := dogTarget(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dog, err := svc.Get(ctx, userID, dogID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dog)
	}
}

// DogUpdate replaces the profile of a dog owned by the caller.
func DogUpdate(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}
		userID, dogID, err := dogTarget(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		profile, err := decodeDogProfile(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dog, err := svc.Update(ctx, userID, dogID, profile)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dog)
	}
}

// DogDelete removes a dog owned by the caller.
func DogDelete(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}
		userID, dogID, err := dogTarget(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, userID, dogID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// DogMetrics returns nutrition guidelines for a stored dog.
func DogMetrics(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}
		userID, dogID, err := dogTarget(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		metrics, err := svc.Metrics(ctx, userID, dogID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, metrics)
	}
}

// DogRecommendations ranks products for a stored dog's breed and weight.
func DogRecommendations(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}
		userID, dogID, err := dogTarget(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		q := r.URL.Query()
		rec, err := svc.Recommendations(ctx, userID, dogID, dogs.RecommendationInput{
			CategoryID: validators.SanitizeString(q.Get("category_id"), 64),
			Query:      validators.SanitizeString(q.Get("q"), 100),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}

// DogsReconcile merges the guest dogs behind X-Guest-Token into the caller's account.
func DogsReconcile(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		token := middleware.GuestToken(r)
		if token == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "guest token header required").
				WithDetails(map[string]string{"header": middleware.GuestTokenHeader}))
			return
		}

		result, err := svc.Reconcile(ctx, userID, token)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func dogTarget(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	userID, err := requireUser(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	dogID, err := validators.ParseUUIDParam(r, "dogId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, dogID, nil
}
