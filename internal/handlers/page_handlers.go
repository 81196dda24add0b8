// File: internal/handlers/page_handlers.go
package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/iyunix/go-kanoon/internal/middleware"
)

var pageTemplates = []string{
	"index.html", "login.html", "register.html", "dashboard.html",
	"chatbot.html", "documents.html", "lawyers.html", "profile.html", "error.html",
}

// PageHandler renders the server-side pages. Each page is parsed together
// with layout.html once, at construction.
type PageHandler struct {
	templates map[string]*template.Template
}

func NewPageHandler(files fs.FS) (*PageHandler, error) {
	cache := make(map[string]*template.Template, len(pageTemplates))
	for _, tmpl := range pageTemplates {
		ts, err := template.New(tmpl).ParseFS(files, "templates/layout.html", "templates/"+tmpl)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", tmpl, err)
		}
		cache[tmpl] = ts
	}
	return &PageHandler{templates: cache}, nil
}

// render executes into a buffer so a template error never leaves a half-written page.
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, tmpl string, data map[string]interface{}) {
	addSecurityHeaders(w)

	if data == nil {
		data = make(map[string]interface{})
	}
	data["UserID"] = middleware.UserIDFrom(r.Context())
	data["UserType"] = middleware.UserTypeFrom(r.Context())
	data["IsLawyer"] = middleware.UserTypeFrom(r.Context()) == "lawyer"

	t, ok := h.templates[tmpl]
	if !ok {
		log.Printf("Template %s not found in cache", tmpl)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.Printf("Template render error for %s: %v", tmpl, err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func addSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}

func (h *PageHandler) page(tmpl, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusOK, tmpl, map[string]interface{}{"Title": title})
	}
}

func (h *PageHandler) ShowIndexPage() http.HandlerFunc     { return h.page("index.html", "Home") }
func (h *PageHandler) ShowLoginPage() http.HandlerFunc     { return h.page("login.html", "Login") }
func (h *PageHandler) ShowRegisterPage() http.HandlerFunc  { return h.page("register.html", "Register") }
func (h *PageHandler) ShowDashboardPage() http.HandlerFunc { return h.page("dashboard.html", "Dashboard") }
func (h *PageHandler) ShowChatbotPage() http.HandlerFunc   { return h.page("chatbot.html", "Legal Assistant") }
func (h *PageHandler) ShowDocumentsPage() http.HandlerFunc { return h.page("documents.html", "Documents") }
func (h *PageHandler) ShowLawyersPage() http.HandlerFunc   { return h.page("lawyers.html", "Find a Lawyer") }
func (h *PageHandler) ShowProfilePage() http.HandlerFunc   { return h.page("profile.html", "Profile") }

func (h *PageHandler) ShowErrorPage(w http.ResponseWriter, r *http.Request, status int, message, description string) {
	h.render(w, r, status, "error.html", map[string]interface{}{
		"Title":       message,
		"Code":        status,
		"Message":     message,
		"Description": description,
	})
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
		return
	}
	h.ShowErrorPage(w, r, http.StatusNotFound, "Page Not Found", "The page you are looking for does not exist.")
}

func (h *PageHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h.ShowErrorPage(w, r, http.StatusMethodNotAllowed, "Method Not Allowed", "The requested method is not supported for this page.")
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
