package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-kanoon/internal/domain"
)

func TestLawyerConnectionFlow(t *testing.T) {
	env := newTestEnv(t)
	lawyer, lawyerToken := env.user("Adv. Meera", "meera@example.com", domain.UserTypeLawyer)
	client, clientToken := env.user("Asha", "asha@example.com", domain.UserTypeUser)

	rec := env.do("GET", fmt.Sprintf("/api/lawyers/profile/%d", lawyer.ID), clientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "", body["connection_status"])
	assert.NotContains(t, body["lawyer"], "email")

	rec = env.do("POST", "/api/lawyers/connect", clientToken, map[string]interface{}{
		"lawyer_id": lawyer.ID, "case_description": "Landlord refuses to return deposit",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	conn := decode(t, rec)["connection"].(map[string]interface{})
	assert.Equal(t, "pending", conn["connection_status"])
	assert.Equal(t, "Asha", conn["client_name"])
	connID := uint(conn["id"].(float64))

	rec = env.do("POST", "/api/lawyers/connect", clientToken, map[string]interface{}{"lawyer_id": lawyer.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do("POST", "/api/lawyers/connect", lawyerToken, map[string]interface{}{"lawyer_id": lawyer.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do("POST", "/api/lawyers/connect", lawyerToken, map[string]interface{}{"lawyer_id": client.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Clients cannot answer requests.
	rec = env.do("POST", fmt.Sprintf("/api/lawyers/connections/%d/respond", connID), clientToken, map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do("POST", fmt.Sprintf("/api/lawyers/connections/%d/respond", connID), lawyerToken, map[string]string{"status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do("POST", fmt.Sprintf("/api/lawyers/connections/%d/respond", connID), lawyerToken, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "accepted", decode(t, rec)["connection"].(map[string]interface{})["connection_status"])

	rec = env.do("POST", fmt.Sprintf("/api/lawyers/connections/%d/respond", connID), lawyerToken, map[string]string{"status": "declined"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do("GET", "/api/lawyers/connections", clientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["connections"], 1)

	rec = env.do("GET", fmt.Sprintf("/api/lawyers/profile/%d", lawyer.ID), clientToken, nil)
	assert.Equal(t, "accepted", decode(t, rec)["connection_status"])

	rec = env.do("GET", "/api/lawyers/stats", lawyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["total_connections"])
	assert.EqualValues(t, 1, stats["accepted_connections"])
	assert.EqualValues(t, 0, stats["pending_requests"])

	rec = env.do("GET", "/api/lawyers/stats", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do("GET", "/api/lawyers/connections/export", lawyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Client Name,Status,Case Description,Requested At", lines[0])
	assert.Contains(t, lines[1], "Asha,accepted,Landlord refuses to return deposit")
}

func TestLawyerDirectoryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user("Asha", "asha@example.com", domain.UserTypeUser)
	for i := 0; i < 3; i++ {
		env.user(fmt.Sprintf("Lawyer %d", i), fmt.Sprintf("lawyer%d@example.com", i), domain.UserTypeLawyer)
	}

	rec := env.do("GET", "/api/lawyers/search?per_page=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["lawyers"], 2)
	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 3, pagination["total"])
	assert.EqualValues(t, 2, pagination["pages"])

	rec = env.do("GET", "/api/lawyers/search", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do("GET", "/api/lawyers/featured", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	featured := decode(t, rec)["lawyers"].([]interface{})
	require.Len(t, featured, 3)
	assert.EqualValues(t, 0, featured[0].(map[string]interface{})["connection_count"])

	rec = env.do("GET", "/api/lawyers/directory?page=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 12, decode(t, rec)["pagination"].(map[string]interface{})["per_page"])

	rec = env.do("GET", "/api/lawyers/specializations", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["specializations"], 8)
}
