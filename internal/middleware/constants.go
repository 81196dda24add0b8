// File: internal/middleware/constants.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

// Context keys for middleware communication
type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserTypeKey  contextKey = "user_type"
	RequestIDKey contextKey = "request_id"
)

const AuthCookieName = "auth_token"

// UserIDFrom returns the authenticated user's ID, or 0.
func UserIDFrom(ctx context.Context) uint {
	id, _ := ctx.Value(UserIDKey).(uint)
	return id
}

func UserTypeFrom(ctx context.Context) string {
	t, _ := ctx.Value(UserTypeKey).(string)
	return t
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// WithUser is used by tests and by the auth middleware.
func WithUser(ctx context.Context, userID uint, userType string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UserTypeKey, userType)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
