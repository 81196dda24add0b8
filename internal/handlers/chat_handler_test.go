package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-kanoon/internal/domain"
	"github.com/iyunix/go-kanoon/internal/services/chat"
)

func createSession(t *testing.T, env *testEnv, token string) uint {
	t.Helper()
	rec := env.do("POST", "/api/chatbot/sessions", token, map[string]string{"title": "Tenancy dispute"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decode(t, rec)["session"].(map[string]interface{})
	return uint(session["id"].(float64))
}

func TestChatSessions_RequireAuth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do("GET", "/api/chatbot/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", decode(t, rec)["message"])
}

func TestChatSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user("Asha", "asha@example.com", domain.UserTypeUser)
	_, otherToken := env.user("Ravi", "ravi@example.com", domain.UserTypeUser)

	id := createSession(t, env, token)

	rec := env.do("GET", "/api/chatbot/sessions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["sessions"], 1)

	rec = env.do("POST", fmt.Sprintf("/api/chatbot/sessions/%d/chat", id), token, map[string]string{"message": "What is Section 420 IPC?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	reply := body["ai_response"].(map[string]interface{})
	assert.Equal(t, env.llm.reply, reply["content"])
	assert.Equal(t, "What is Section 420 IPC?", body["user_message"].(map[string]interface{})["content"])

	rec = env.do("GET", fmt.Sprintf("/api/chatbot/sessions/%d/messages", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["messages"], 2)

	rec = env.do("GET", fmt.Sprintf("/api/chatbot/sessions/%d/messages", id), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do("DELETE", fmt.Sprintf("/api/chatbot/sessions/%d", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do("GET", "/api/chatbot/sessions", token, nil)
	assert.Empty(t, decode(t, rec)["sessions"])
}

func TestSendMessage_AIUnavailableReturnsBothMessages(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user("Asha", "asha@example.com", domain.UserTypeUser)
	id := createSession(t, env, token)
	env.llm.err = errors.New("upstream down")

	rec := env.do("POST", fmt.Sprintf("/api/chatbot/sessions/%d/chat", id), token, map[string]string{"message": "Explain bail under CrPC"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, chat.ApologyMessage, body["ai_response"].(map[string]interface{})["content"])
	assert.NotNil(t, body["user_message"])
}

func TestSendMessage_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user("Asha", "asha@example.com", domain.UserTypeUser)
	id := createSession(t, env, token)

	rec := env.do("POST", fmt.Sprintf("/api/chatbot/sessions/%d/chat", id), token, map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do("POST", "/api/chatbot/sessions/9999/chat", token, map[string]string{"message": "hello"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStreamMessage_SendsDeltasThenDone(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user("Asha", "asha@example.com", domain.UserTypeUser)
	id := createSession(t, env, token)
	env.llm.deltas = []string{"Section 420 ", "deals with cheating."}

	rec := env.do("POST", fmt.Sprintf("/api/chatbot/sessions/%d/stream", id), token, map[string]string{"message": "What is Section 420?"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	out := rec.Body.String()
	assert.Equal(t, 2, strings.Count(out, "event: delta\n"))
	assert.Contains(t, out, `"content":"Section 420 "`)
	assert.Contains(t, out, "event: done\n")
	assert.Contains(t, out, "Section 420 deals with cheating.")
}

func TestStreamMessage_UnknownSessionIsJSON404(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user("Asha", "asha@example.com", domain.UserTypeUser)

	rec := env.do("POST", "/api/chatbot/sessions/404/stream", token, map[string]string{"message": "hello"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestStreamMessage_FailureSendsErrorEvent(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user("Asha", "asha@example.com", domain.UserTypeUser)
	id := createSession(t, env, token)
	env.llm.streamE = errors.New("stream refused")

	rec := env.do("POST", fmt.Sprintf("/api/chatbot/sessions/%d/stream", id), token, map[string]string{"message": "What is an FIR?"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event: error\n")
	assert.Contains(t, rec.Body.String(), chat.ApologyMessage)
}

func TestQuickQuestion(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user("Asha", "asha@example.com", domain.UserTypeUser)

	rec := env.do("POST", "/api/chatbot/quick-question", token, map[string]string{"question": "Is cheating a crime under IPC?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, env.llm.reply, body["response"])
	assert.Contains(t, body["sources"], "IPC")
}

func TestAnalyze_ReturnsMarkdownAndHTML(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user("Asha", "asha@example.com", domain.UserTypeUser)
	env.llm.json = `{"query_summary":"Cheating","applicable_laws":["IPC Section 420"],"key_principles":["Dishonest inducement"],"practical_implications":"File an FIR","references":[]}`

	rec := env.do("POST", "/api/chatbot/analyze", token, map[string]string{"query": "Someone cheated me"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	analysis := body["analysis"].(map[string]interface{})
	assert.Equal(t, "Cheating", analysis["query_summary"])
	assert.Contains(t, body["markdown"], "IPC Section 420")
	assert.Contains(t, body["html"], "<li>IPC Section 420</li>")
}

func TestLegalCategories_Public(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do("GET", "/api/chatbot/legal-categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["categories"], 5)
}
