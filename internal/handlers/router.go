// File: internal/handlers/router.go
package handlers

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-kanoon/internal/middleware"
	"github.com/iyunix/go-kanoon/internal/ratelimit"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Auth      *AuthHandler
	Chat      *ChatHandler
	Documents *DocumentHandler
	Lawyers   *LawyerHandler
	Health    *HealthHandler
	Log       *LogHandler
	Pages     *PageHandler

	Authenticator middleware.Authenticator
	SecureCookie  bool
	CORSOrigins   []string

	// AuthLimiter guards login and register, ResetLimiter the password reset routes.
	AuthLimiter  middleware.Limiter
	ResetLimiter middleware.Limiter

	// TrustedProxies may set the client address through forwarding headers.
	TrustedProxies *ratelimit.ProxyTrust

	Static fs.FS
}

// NewRouter builds the full HTTP handler: pages, the JSON API and the global
// middleware chain ClientIP, RequestID, Logging, RecoverPanic, CORS.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	apiAuth := middleware.NewAuthMiddleware(cfg.Authenticator, middleware.ModeAPI, cfg.SecureCookie)
	pageAuth := middleware.NewAuthMiddleware(cfg.Authenticator, middleware.ModePage, cfg.SecureCookie)
	authLimit := middleware.RateLimitMiddleware(cfg.AuthLimiter, "auth")
	resetLimit := middleware.RateLimitMiddleware(cfg.ResetLimiter, "password-reset")

	// --- Public Routes ---
	if cfg.Static != nil {
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(cfg.Static))))
	}
	r.HandleFunc("/", cfg.Pages.ShowIndexPage()).Methods("GET")
	r.HandleFunc("/login", cfg.Pages.ShowLoginPage()).Methods("GET")
	r.HandleFunc("/register", cfg.Pages.ShowRegisterPage()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", cfg.Health.Health).Methods("GET")
	api.HandleFunc("/log", cfg.Log.LogFrontendEvent).Methods("POST")
	api.Handle("/auth/register", authLimit(http.HandlerFunc(cfg.Auth.Register))).Methods("POST")
	api.Handle("/auth/login", authLimit(http.HandlerFunc(cfg.Auth.Login))).Methods("POST")
	api.HandleFunc("/auth/logout", cfg.Auth.Logout).Methods("POST")
	api.HandleFunc("/auth/verify", cfg.Auth.Verify).Methods("GET")
	api.Handle("/auth/password-reset/request", resetLimit(http.HandlerFunc(cfg.Auth.RequestPasswordReset))).Methods("POST")
	api.Handle("/auth/password-reset/confirm", resetLimit(http.HandlerFunc(cfg.Auth.ConfirmPasswordReset))).Methods("POST")
	api.HandleFunc("/chatbot/legal-categories", cfg.Chat.LegalCategories).Methods("GET")
	api.HandleFunc("/lawyers/specializations", cfg.Lawyers.Specializations).Methods("GET")
	api.HandleFunc("/lawyers/featured", cfg.Lawyers.Featured).Methods("GET")
	api.HandleFunc("/lawyers/directory", cfg.Lawyers.Directory).Methods("GET")

	// --- Protected API Routes ---
	protected := api.NewRoute().Subrouter()
	protected.Use(apiAuth)
	protected.HandleFunc("/auth/profile", cfg.Auth.GetProfile).Methods("GET")
	protected.HandleFunc("/auth/profile", cfg.Auth.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/auth/change-password", cfg.Auth.ChangePassword).Methods("POST")

	protected.HandleFunc("/chatbot/sessions", cfg.Chat.ListSessions).Methods("GET")
	protected.HandleFunc("/chatbot/sessions", cfg.Chat.CreateSession).Methods("POST")
	protected.HandleFunc("/chatbot/sessions/{id:[0-9]+}/messages", cfg.Chat.GetMessages).Methods("GET")
	protected.HandleFunc("/chatbot/sessions/{id:[0-9]+}", cfg.Chat.DeleteSession).Methods("DELETE")
	protected.HandleFunc("/chatbot/sessions/{id:[0-9]+}/chat", cfg.Chat.SendMessage).Methods("POST")
	protected.HandleFunc("/chatbot/sessions/{id:[0-9]+}/stream", cfg.Chat.StreamMessage).Methods("POST")
	protected.HandleFunc("/chatbot/quick-question", cfg.Chat.QuickQuestion).Methods("POST")
	protected.HandleFunc("/chatbot/analyze", cfg.Chat.Analyze).Methods("POST")

	protected.HandleFunc("/documents", cfg.Documents.List).Methods("GET")
	protected.HandleFunc("/documents/upload", cfg.Documents.Upload).Methods("POST")
	protected.HandleFunc("/documents/{id:[0-9]+}", cfg.Documents.Get).Methods("GET")
	protected.HandleFunc("/documents/{id:[0-9]+}", cfg.Documents.Delete).Methods("DELETE")
	protected.HandleFunc("/documents/{id:[0-9]+}/download", cfg.Documents.Download).Methods("GET")
	protected.HandleFunc("/documents/{id:[0-9]+}/reprocess", cfg.Documents.Reprocess).Methods("POST")
	protected.HandleFunc("/documents/{id:[0-9]+}/report", cfg.Documents.Report).Methods("GET")

	protected.HandleFunc("/lawyers/search", cfg.Lawyers.Search).Methods("GET")
	protected.HandleFunc("/lawyers/profile/{id:[0-9]+}", cfg.Lawyers.Profile).Methods("GET")
	protected.HandleFunc("/lawyers/connect", cfg.Lawyers.Connect).Methods("POST")
	protected.HandleFunc("/lawyers/connections", cfg.Lawyers.Connections).Methods("GET")

	// --- Lawyer-only API Routes ---
	lawyerOnly := api.NewRoute().Subrouter()
	lawyerOnly.Use(apiAuth)
	lawyerOnly.Use(middleware.RequireLawyer)
	lawyerOnly.HandleFunc("/lawyers/connections/{id:[0-9]+}/respond", cfg.Lawyers.Respond).Methods("POST")
	lawyerOnly.HandleFunc("/lawyers/stats", cfg.Lawyers.Stats).Methods("GET")
	lawyerOnly.HandleFunc("/lawyers/connections/export", cfg.Lawyers.ExportConnections).Methods("GET")

	// --- Protected Pages ---
	pages := r.NewRoute().Subrouter()
	pages.Use(pageAuth)
	pages.HandleFunc("/dashboard", cfg.Pages.ShowDashboardPage()).Methods("GET")
	pages.HandleFunc("/features/chatbot", cfg.Pages.ShowChatbotPage()).Methods("GET")
	pages.HandleFunc("/features/documents", cfg.Pages.ShowDocumentsPage()).Methods("GET")
	pages.HandleFunc("/features/lawyers", cfg.Pages.ShowLawyersPage()).Methods("GET")
	pages.HandleFunc("/profile", cfg.Pages.ShowProfilePage()).Methods("GET")

	// --- Custom Error Handlers ---
	r.NotFoundHandler = http.HandlerFunc(cfg.Pages.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(cfg.Pages.MethodNotAllowed)
	api.NotFoundHandler = r.NotFoundHandler
	api.MethodNotAllowedHandler = r.MethodNotAllowedHandler

	var h http.Handler = r
	h = middleware.CORS(cfg.CORSOrigins)(h)
	h = middleware.RecoverPanic(h)
	h = middleware.LoggingMiddleware(h)
	h = middleware.RequestID(h)
	h = middleware.ClientIP(cfg.TrustedProxies)(h)
	return h
}
