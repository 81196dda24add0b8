// File: internal/handlers/lawyer_handler.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/iyunix/go-kanoon/internal/dtos"
	userrepo "github.com/iyunix/go-kanoon/internal/repository/user"
	"github.com/iyunix/go-kanoon/internal/services/lawyers"
)

type LawyerHandler struct {
	lawyers *lawyers.Service
	logger  Logger
}

func NewLawyerHandler(ls *lawyers.Service, logger Logger) *LawyerHandler {
	return &LawyerHandler{lawyers: ls, logger: logger}
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func (h *LawyerHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	q := r.URL.Query()
	result, err := h.lawyers.Search(r.Context(), lawyers.SearchFilter{
		Specialization: q.Get("specialization"),
		Location:       q.Get("location"),
		Page:           queryInt(r, "page"),
		PerPage:        queryInt(r, "per_page"),
	})
	if err != nil {
		h.writeLawyerError(w, "search", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"lawyers":    result.Lawyers,
		"pagination": result.Pagination,
	})
}

func (h *LawyerHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	lawyerID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid lawyer ID")
		return
	}
	profile, err := h.lawyers.Profile(r.Context(), userID, lawyerID)
	if err != nil {
		h.writeLawyerError(w, "profile", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"lawyer":            profile.Lawyer,
		"connection_status": profile.ConnectionStatus,
	})
}

func (h *LawyerHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		LawyerID        uint   `json:"lawyer_id"`
		CaseDescription string `json:"case_description"`
	}
	if err := decodeJSON(w, r, &req); err != nil || req.LawyerID == 0 {
		writeError(w, http.StatusBadRequest, "Lawyer ID is required")
		return
	}

	conn, err := h.lawyers.Connect(r.Context(), userID, req.LawyerID, req.CaseDescription)
	if err != nil {
		h.writeLawyerError(w, "connect", err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]interface{}{
		"message":    "Connection request sent successfully",
		"connection": dtos.ToConnection(*conn),
	})
}

func (h *LawyerHandler) Connections(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	conns, err := h.lawyers.Connections(r.Context(), userID)
	if err != nil {
		h.writeLawyerError(w, "connections", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"connections": dtos.ToConnectionSlice(conns)})
}

func (h *LawyerHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	connID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid connection ID")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	conn, err := h.lawyers.Respond(r.Context(), userID, connID, req.Status)
	if err != nil {
		h.writeLawyerError(w, "respond", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"message":    fmt.Sprintf("Connection %s successfully", conn.ConnectionStatus),
		"connection": dtos.ToConnection(*conn),
	})
}

func (h *LawyerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	stats, err := h.lawyers.Stats(r.Context(), userID)
	if err != nil {
		h.writeLawyerError(w, "stats", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

// ExportConnections downloads the lawyer's requests as CSV.
func (h *LawyerHandler) ExportConnections(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.lawyers.ExportConnectionsCSV(r.Context(), userID, &buf); err != nil {
		h.writeLawyerError(w, "export", err)
		return
	}

	filename := fmt.Sprintf("connections_%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *LawyerHandler) Specializations(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]interface{}{"specializations": h.lawyers.Specializations()})
}

func (h *LawyerHandler) Featured(w http.ResponseWriter, r *http.Request) {
	featured, err := h.lawyers.Featured(r.Context())
	if err != nil {
		h.writeLawyerError(w, "featured", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"lawyers": featured})
}

func (h *LawyerHandler) Directory(w http.ResponseWriter, r *http.Request) {
	result, err := h.lawyers.Directory(r.Context(), queryInt(r, "page"))
	if err != nil {
		h.writeLawyerError(w, "directory", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"lawyers":    result.Lawyers,
		"pagination": result.Pagination,
	})
}

func (h *LawyerHandler) writeLawyerError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, lawyers.ErrSelfConnection):
		writeError(w, http.StatusBadRequest, "Cannot connect with yourself")
	case errors.Is(err, lawyers.ErrInvalidResponse):
		writeError(w, http.StatusBadRequest, `Status must be either "accepted" or "declined"`)
	case errors.Is(err, lawyers.ErrLawyerNotFound):
		writeError(w, http.StatusNotFound, "Lawyer not found")
	case errors.Is(err, lawyers.ErrConnectionNotFound):
		writeError(w, http.StatusNotFound, "Connection not found")
	case errors.Is(err, userrepo.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, lawyers.ErrNotLawyer):
		writeError(w, http.StatusForbidden, "Access denied. Lawyers only.")
	case errors.Is(err, lawyers.ErrConnectionExists):
		writeError(w, http.StatusConflict, "Connection request already exists")
	case errors.Is(err, lawyers.ErrAlreadyResponded):
		writeError(w, http.StatusConflict, "Connection request already answered")
	default:
		h.logger.Error("lawyer request failed", "operation", operation, "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred. Please try again.")
	}
}
