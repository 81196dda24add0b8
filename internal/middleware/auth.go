package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/iyunix/go-kanoon/internal/auth"
)

// Mode picks how an unauthenticated request is answered.
type Mode int

const (
	// ModeAPI answers 401 JSON.
	ModeAPI Mode = iota
	// ModePage redirects to /login.
	ModePage
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// TokenFromRequest reads a Bearer header first, then the auth cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(AuthCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// ClearAuthCookie expires the auth cookie.
func ClearAuthCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// NewAuthMiddleware validates the request token and stores the user in the context.
func NewAuthMiddleware(authenticator Authenticator, mode Mode, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				log.Printf("[AuthMiddleware] Missing token for %s", r.URL.Path)
				reject(w, r, mode)
				return
			}

			claims, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				log.Printf("[AuthMiddleware] Invalid token for %s: %v", r.URL.Path, err)
				if mode == ModePage {
					ClearAuthCookie(w, secureCookie)
				}
				reject(w, r, mode)
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.UserType)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, mode Mode) {
	if mode == ModePage {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	writeJSONError(w, http.StatusUnauthorized, "Authentication required")
}
