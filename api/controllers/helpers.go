package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/api/middleware"
	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
)

// currentUser returns the authenticated user id. Guards run before these
// handlers, so a missing id only happens when a route is mis-wired.
func currentUser(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserUUIDFromContext(r.Context())
	if userID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	return userID, nil
}

func unavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" unavailable")
}
