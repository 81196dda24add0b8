// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/iyunix/go-kanoon/internal/catalog"
	"github.com/iyunix/go-kanoon/internal/render"
	"github.com/iyunix/go-kanoon/internal/services/chat"
)

type ChatHandler struct {
	chat    chat.Provider
	catalog *catalog.Catalog
	logger  Logger
}

func NewChatHandler(cs chat.Provider, cat *catalog.Catalog, logger Logger) *ChatHandler {
	return &ChatHandler{chat: cs, catalog: cat, logger: logger}
}

type messageRequest struct {
	Message string `json:"message"`
}

// ListSessions returns the caller's active chat sessions.
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	sessions, err := h.chat.ListSessions(r.Context(), userID)
	if err != nil {
		h.logger.Error("list sessions failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not retrieve chat sessions")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	// An empty body is fine; the title gets a default.
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.chat.CreateSession(r.Context(), userID, req.Title)
	if err != nil {
		h.writeChatError(w, "create session", err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]interface{}{"session": session})
}

func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	session, messages, err := h.chat.GetMessages(r.Context(), userID, sessionID)
	if err != nil {
		h.writeChatError(w, "get messages", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"session":  session,
		"messages": messages,
	})
}

func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	if err := h.chat.DeleteSession(r.Context(), userID, sessionID); err != nil {
		h.writeChatError(w, "delete session", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{"message": "Session deleted successfully"})
}

// SendMessage runs one chat turn. When the model is unavailable both stored
// messages are still returned, with a 503.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}
	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	exchange, err := h.chat.SendMessage(r.Context(), userID, sessionID, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrAIUnavailable) && exchange != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"success":      false,
				"message":      "AI service temporarily unavailable",
				"user_message": exchange.UserMessage,
				"ai_response":  exchange.AssistantMessage,
			})
			return
		}
		h.writeChatError(w, "send message", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"user_message": exchange.UserMessage,
		"ai_response":  exchange.AssistantMessage,
	})
}

// StreamMessage answers over server-sent events. Each model delta is a
// "delta" event; the stored exchange closes the stream as "done".
func (h *ChatHandler) StreamMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}
	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	started := false
	start := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
	}

	exchange, err := h.chat.StreamMessage(r.Context(), userID, sessionID, req.Message, func(delta string) error {
		start()
		if err := writeEvent(w, "delta", map[string]string{"content": delta}); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	if err != nil && !started {
		// Nothing streamed yet; validation and ownership failures get a normal response.
		if !errors.Is(err, chat.ErrAIUnavailable) {
			h.writeChatError(w, "stream message", err)
			return
		}
		start()
	}
	if err != nil {
		h.logger.Warn("chat stream ended with error", "user_id", userID, "session_id", sessionID, "error", err)
		payload := map[string]interface{}{"message": "AI service temporarily unavailable"}
		if exchange != nil {
			payload["user_message"] = exchange.UserMessage
			payload["ai_response"] = exchange.AssistantMessage
		}
		_ = writeEvent(w, "error", payload)
		flusher.Flush()
		return
	}

	start()
	_ = writeEvent(w, "done", map[string]interface{}{
		"user_message": exchange.UserMessage,
		"ai_response":  exchange.AssistantMessage,
	})
	flusher.Flush()
}

func writeEvent(w http.ResponseWriter, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}

// QuickQuestion answers without a session.
func (h *ChatHandler) QuickQuestion(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	answer, err := h.chat.QuickQuestion(r.Context(), req.Question)
	if err != nil {
		h.writeChatError(w, "quick question", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"question":   answer.Question,
		"response":   answer.Response,
		"sources":    answer.Sources,
		"references": answer.References,
	})
}

// Analyze returns a structured analysis, its markdown rendering and that markdown as HTML.
func (h *ChatHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	var req struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	analysis, err := h.chat.AnalyzeQuery(r.Context(), req.Query)
	if err != nil {
		h.writeChatError(w, "analyze", err)
		return
	}

	markdown := chat.FormatAnalysis(analysis)
	html, err := render.ToHTML(markdown)
	if err != nil {
		h.logger.Warn("analysis markdown render failed", "error", err)
	}
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"analysis": analysis,
		"markdown": markdown,
		"html":     html,
	})
}

func (h *ChatHandler) LegalCategories(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]interface{}{"categories": h.catalog.Categories})
}

func (h *ChatHandler) writeChatError(w http.ResponseWriter, operation string, err error) {
	var ce *chat.ChatError
	switch {
	case errors.As(err, &ce) && ce.Type == chat.ErrTypeValidation:
		writeError(w, http.StatusBadRequest, ce.Message)
	case errors.Is(err, chat.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Chat session not found")
	case errors.Is(err, chat.ErrAIUnavailable):
		writeError(w, http.StatusServiceUnavailable, "AI service temporarily unavailable")
	default:
		h.logger.Error("chat request failed", "operation", operation, "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred. Please try again.")
	}
}
