// File: internal/handlers/document_handler.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/iyunix/go-kanoon/internal/render"
	"github.com/iyunix/go-kanoon/internal/services/documents"
)

// multipartOverhead is allowed on top of the file limit for form boundaries and fields.
const multipartOverhead = 1 << 20

type DocumentHandler struct {
	docs          *documents.Service
	maxUploadSize int64
	logger        Logger
}

func NewDocumentHandler(docs *documents.Service, maxUploadSize int64, logger Logger) *DocumentHandler {
	return &DocumentHandler{docs: docs, maxUploadSize: maxUploadSize, logger: logger}
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	docs, err := h.docs.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("list documents failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not retrieve documents")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. Maximum size: %dMB", h.maxUploadSize>>20))
			return
		}
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}

	doc, err := h.docs.Upload(r.Context(), userID, files[0])
	if err != nil {
		h.writeDocumentError(w, "upload", err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]interface{}{
		"message":  "Document uploaded successfully",
		"document": doc,
	})
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}
	doc, err := h.docs.Get(r.Context(), userID, id)
	if err != nil {
		h.writeDocumentError(w, "get", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"document": doc})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}
	if err := h.docs.Delete(r.Context(), userID, id); err != nil {
		h.writeDocumentError(w, "delete", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"message": "Document deleted successfully"})
}

// Download streams the stored file back under its original name.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}
	rc, doc, err := h.docs.Open(r.Context(), userID, id)
	if err != nil {
		h.writeDocumentError(w, "download", err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.OriginalFilename))
	w.Header().Set("Content-Length", strconv.FormatInt(doc.FileSize, 10))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("document download interrupted", "document_id", id, "error", err)
	}
}

func (h *DocumentHandler) Reprocess(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}
	doc, err := h.docs.Reprocess(r.Context(), userID, id)
	if err != nil {
		h.writeDocumentError(w, "reprocess", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"message":  "Document reprocessed",
		"document": doc,
	})
}

// Report serves the analysis as markdown (default) or, with format=html, as a page.
func (h *DocumentHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}
	format := r.URL.Query().Get("format")
	if format != "" && format != "md" && format != "html" {
		writeError(w, http.StatusBadRequest, "format must be md or html")
		return
	}

	md, _, err := h.docs.Report(r.Context(), userID, id)
	if err != nil {
		h.writeDocumentError(w, "report", err)
		return
	}

	if format == "html" {
		body, err := render.ToHTML(md)
		if err != nil {
			h.logger.Error("report render failed", "document_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Could not render report")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, body)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, md)
}

func (h *DocumentHandler) writeDocumentError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, documents.ErrNoFile):
		writeError(w, http.StatusBadRequest, "No file selected")
	case errors.Is(err, documents.ErrFileTypeNotAllowed):
		writeError(w, http.StatusBadRequest, capitalize(err.Error()))
	case errors.Is(err, documents.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, capitalize(err.Error()))
	case errors.Is(err, documents.ErrDocumentNotFound):
		writeError(w, http.StatusNotFound, "Document not found")
	case errors.Is(err, documents.ErrFileMissing):
		writeError(w, http.StatusNotFound, "Document file not found")
	default:
		h.logger.Error("document request failed", "operation", operation, "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred while processing the document")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
