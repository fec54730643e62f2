package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/api/middleware"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
)

// currentUserID pulls the authenticated user id out of the request context.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// actorID is the optional variant used for audit trails.
func actorID(r *http.Request) *uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
