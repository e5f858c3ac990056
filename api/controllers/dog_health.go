package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/api/responses"
	"github.com/pawfectfind/pawfectfind-backend/api/validators"
	"github.com/pawfectfind/pawfectfind-backend/internal/dogs"
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
)

type healthRecordRequest struct {
	Date          string   `json:"date"`
	Weight        float64  `json:"weight"`
	Height        *float64 `json:"height,omitempty"`
	ActivityLevel int      `json:"activity_level"`
	Notes         string   `json:"notes"`
	Symptoms      []string `json:"symptoms,omitempty"`
	Medications   []string `json:"medications,omitempty"`
}

func decodeHealthRecord(r *http.Request) (dogs.HealthRecordInput, error) {
	var payload healthRecordRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return dogs.HealthRecordInput{}, err
	}
	return dogs.HealthRecordInput{
		Date:          payload.Date,
		Weight:        payload.Weight,
		Height:        payload.Height,
		ActivityLevel: payload.ActivityLevel,
		Notes:         payload.Notes,
		Symptoms:      payload.Symptoms,
		Medications:   payload.Medications,
	}, nil
}

// DogGrowth compares a stored dog with its breed weight standard. The optional
// gender query parameter overrides the profile's gender.
func DogGrowth(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
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

		var gender *enums.Gender
		if raw := strings.TrimSpace(r.URL.Query().Get("gender")); raw != "" {
			g, err := enums.ParseGender(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid gender").
					WithDetails(map[string]string{"gender": "must be one of male female"}))
				return
			}
			gender = &g
		}

		prediction, err := svc.Growth(ctx, userID, dogID, gender)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, prediction)
	}
}

// DogHealthList returns a dog's health records with the latest readings.
func DogHealthList(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
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

		history, err := svc.HealthHistory(ctx, userID, dogID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

func DogHealthCreate(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
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
		input, err := decodeHealthRecord(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.AddHealthRecord(ctx, userID, dogID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func DogHealthUpdate(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}
		userID, dogID, recordID, err := healthRecordTarget(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, err := decodeHealthRecord(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.UpdateHealthRecord(ctx, userID, dogID, recordID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func DogHealthDelete(svc dogs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dog service unavailable"))
			return
		}
		userID, dogID, recordID, err := healthRecordTarget(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteHealthRecord(ctx, userID, dogID, recordID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func healthRecordTarget(r *http.Request) (userID, dogID, recordID uuid.UUID, err error) {
	userID, dogID, err = dogTarget(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	recordID, err = validators.ParseUUIDParam(r, "recordId")
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, err
	}
	return userID, dogID, recordID, nil
}
