package contexthelpers

import (
	"context"
	"net/http"
)

// AuthenticateContext marks the request as authenticated by the given user.
func AuthenticateContext(r *http.Request, userID string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, isAuthenticatedContextKey, true)
	ctx = context.WithValue(ctx, authenticatedUserIDContextKey, userID)
	return r.WithContext(ctx)
}
