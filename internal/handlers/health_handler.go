// File: internal/handlers/health_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"
)

const Version = "2.0.0"

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	logger Logger
}

func NewHealthHandler(db Pinger, logger Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if h.db == nil {
		dbStatus = "error"
	} else if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("health check database ping failed", "error", err)
		dbStatus = "error"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"message":  "Kanoon legal assistant API is running",
		"version":  Version,
		"database": dbStatus,
	})
}
