// File: internal/middleware/role.go
package middleware

import (
	"log"
	"net/http"

	"github.com/iyunix/go-kanoon/internal/domain"
)

// RequireLawyer must run after the auth middleware.
func RequireLawyer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := UserIDFrom(r.Context())
		if userID == 0 {
			log.Printf("[RoleMiddleware] Forbidden: no user in context for %s", r.URL.Path)
			writeJSONError(w, http.StatusForbidden, "Access denied. Lawyers only.")
			return
		}
		if UserTypeFrom(r.Context()) != string(domain.UserTypeLawyer) {
			log.Printf("[RoleMiddleware] Forbidden: user %d is not a lawyer (%s)", userID, r.URL.Path)
			writeJSONError(w, http.StatusForbidden, "Access denied. Lawyers only.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
