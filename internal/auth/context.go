package auth

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

type ctxKey struct{}

// CtxKey is the request-context key under which the authenticated user id
// is stored. It is exported so adapter middleware outside this package can
// attach one.
var CtxKey = ctxKey{}

// WithUserID attaches the authenticated user id to the context.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, CtxKey, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(CtxKey).(uuid.UUID)
	return userID, ok
}
