// File: internal/middleware/client_ip.go
package middleware

import (
	"net/http"

	"github.com/iyunix/go-kanoon/internal/ratelimit"
)

// ClientIP resolves the caller address once per request. A nil trust list
// ignores forwarding headers entirely.
func ClientIP(trust *ratelimit.ProxyTrust) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ratelimit.WithClientIP(r.Context(), trust.ClientIP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
