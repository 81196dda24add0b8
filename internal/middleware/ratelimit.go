// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/iyunix/go-kanoon/internal/ratelimit"
)

// Limiter is satisfied by *ratelimit.MemoryRateLimiter.
type Limiter interface {
	Allow(id string) (bool, ratelimit.Info)
	RecordSuccess(id string)
}

// RateLimitMiddleware limits requests per client IP and clears the count
// after a 2xx response.
func RateLimitMiddleware(limiter Limiter, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := ratelimit.GetClientIP(r)
			key := name + ":" + clientIP

			allowed, info := limiter.Allow(key)
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))

			if !allowed {
				log.Printf("[RateLimit] Blocked %s request from %s (banned=%t)", name, clientIP, info.Banned)
				if info.RetryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%.0f", info.RetryAfter.Seconds()))
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success":     false,
					"message":     fmt.Sprintf("Too many attempts. Try again in %d minutes.", int(info.RetryAfter.Minutes())+1),
					"retry_after": int(info.RetryAfter.Seconds()),
				})
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			if rec.status >= 200 && rec.status < 300 {
				limiter.RecordSuccess(key)
			}
		})
	}
}
