package utils

import (
	"net/http"

	"retailpro/globals"
)

// GetUserIDFromRequest returns the authenticated user id stashed in the
// request context by middleware.Authenticate, or "".
func GetUserIDFromRequest(r *http.Request) string {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
