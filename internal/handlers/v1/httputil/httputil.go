// Package httputil holds the plumbing shared by the v1 handlers: pulling
// the authenticated actor out of the request context and translating
// service errors into HTTP responses.
package httputil

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/cashbook-server/internal/apperr"
	"github.com/carson-networks/cashbook-server/internal/auth"
)

// Actor returns the authenticated user id from the context, or an HTTP
// 401 error when the auth middleware put none there.
func Actor(ctx context.Context) (uuid.UUID, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.NewError(http.StatusUnauthorized, "authentication required")
	}
	return userID, nil
}

// Translate maps a service error onto its HTTP status. Anything outside
// the known taxonomy becomes a 500 with the fallback message, keeping
// internals out of the response.
func Translate(err error, fallback string) error {
	switch {
	case apperr.IsValidation(err):
		return huma.NewError(http.StatusBadRequest, err.Error())
	case apperr.IsPermission(err):
		return huma.NewError(http.StatusForbidden, err.Error())
	case apperr.IsNotFound(err):
		return huma.NewError(http.StatusNotFound, err.Error())
	default:
		return huma.NewError(http.StatusInternalServerError, fallback, err)
	}
}

// ParseUUID parses a path or query parameter as a UUID, reporting a 400
// naming the parameter on failure.
func ParseUUID(name, value string) (uuid.UUID, error) {
	id, err := uuid.FromString(value)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+name, err)
	}
	return id, nil
}
