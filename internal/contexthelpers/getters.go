package contexthelpers

import (
	"context"
)

func IsAuthenticated(ctx context.Context) bool {
	isAuthenticated, ok := ctx.Value(isAuthenticatedContextKey).(bool)
	if !ok {
		return false
	}

	return isAuthenticated
}

func AuthenticatedUserID(ctx context.Context) string {
	userID, ok := ctx.Value(authenticatedUserIDContextKey).(string)
	if !ok {
		return ""
	}

	return userID
}
