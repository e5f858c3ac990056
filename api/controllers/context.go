package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pawfectfind/pawfectfind-backend/api/middleware"
	"github.com/pawfectfind/pawfectfind-backend/api/validators"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
	"github.com/pawfectfind/pawfectfind-backend/pkg/pagination"
)

func requireUser(r *http.Request) (uuid.UUID, error) {
	userID, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return userID, nil
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}
