package middleware

import (
	"context"
	"net/http"
)

// ContextKey is the type for context keys.
type ContextKey string

// UserIDContextKey is the context key for the authenticated user ID.
const UserIDContextKey ContextKey = "user_id"

// Identity extracts the caller's user ID from the X-User-ID header set by
// the upstream API gateway, which has already authenticated the request.
// Requests without an identity are rejected.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			http.Error(w, "missing user identity", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the authenticated user ID from context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	return userID, ok && userID != ""
}
