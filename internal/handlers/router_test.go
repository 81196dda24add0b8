package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-kanoon/internal/domain"
	"github.com/iyunix/go-kanoon/internal/middleware"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do("GET", "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2.0.0", body["version"])
	assert.Equal(t, "ok", body["database"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestPublicPages(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/", "/login", "/register"} {
		rec := env.do("GET", path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "Kanoon Sahayak")
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	}
}

func TestProtectedPage_RedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do("GET", "/dashboard", "", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	req := httptest.NewRequest("GET", "/features/chatbot", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: "garbage"})
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestProtectedPage_WithCookie(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user("Meera", "meera@example.com", domain.UserTypeLawyer)

	for _, path := range []string{"/dashboard", "/features/chatbot", "/features/documents", "/features/lawyers", "/profile"} {
		req := httptest.NewRequest("GET", path, nil)
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "Your practice")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("GET", "/no-such-page", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Not Found")

	rec = env.do("GET", "/api/no-such-endpoint", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])

	rec = env.do("DELETE", "/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "Method Not Allowed")

	rec = env.do("GET", "/api/auth/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest("OPTIONS", "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do("GET", "/static/app.css", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Header().Get("Content-Type"), "text/css"))
}

func TestFrontendLog(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do("POST", "/api/log", "", map[string]string{"level": "error", "message": "boom"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req := httptest.NewRequest("POST", "/api/log", strings.NewReader("{not json"))
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
