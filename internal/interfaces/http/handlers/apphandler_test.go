package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authrelay/internal/domain/user"
)

func adminToken(t *testing.T, env *testEnv) string {
	t.Helper()
	admin, err := user.NewLocalUser("Admin", "admin@example.com", "hash")
	require.NoError(t, err)
	admin.Role = user.RoleAdmin
	require.NoError(t, env.userRepo.Create(context.Background(), admin))

	token, err := env.jwtService.IssueInteractive(admin)
	require.NoError(t, err)
	return token
}

func getWithToken(env *testEnv, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postJSONWithToken(t *testing.T, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestAppRegister_Idempotent(t *testing.T) {
	env := setupEnv(t)
	token := registerUser(t, env, "alice@example.com")

	w := env.postJSONWithToken(t, "/api/app-register", token, gin.H{
		"app_name":         "crm",
		"app_display_name": "CRM Suite",
		"app_description":  "Customer tooling",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, true, data["is_new"])

	w = env.postJSONWithToken(t, "/api/app-register", token, gin.H{
		"app_name": "crm",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, false, data["is_new"])
	// metadata from the first registration survives
	appData := data["app"].(map[string]any)
	assert.Equal(t, "CRM Suite", appData["display_name"])
}

func TestCreateApp_FindOrCreateKeepsMetadata(t *testing.T) {
	env := setupEnv(t)
	token := registerUser(t, env, "alice@example.com")

	w := env.postJSONWithToken(t, "/api/apps", token, gin.H{
		"app_name":         "crm",
		"app_display_name": "CRM Suite",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	appData := decodeBody(t, w)["data"].(map[string]any)["app"].(map[string]any)
	assert.Equal(t, "CRM Suite", appData["display_name"])

	// The find-or-create variant returns the existing app unchanged
	w = env.postJSONWithToken(t, "/api/apps", token, gin.H{
		"app_name":         "crm",
		"app_display_name": "Renamed",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	appData = decodeBody(t, w)["data"].(map[string]any)["app"].(map[string]any)
	assert.Equal(t, "CRM Suite", appData["display_name"])
}

func TestCreateApp_RequiresAuth(t *testing.T) {
	env := setupEnv(t)

	w := env.postJSON(t, "/api/apps", gin.H{"app_name": "crm"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAppRegister_RequiresAuth(t *testing.T) {
	env := setupEnv(t)

	w := env.postJSON(t, "/api/app-register", gin.H{
		"app_name": "crm",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAppRegister_RejectsBadSlug(t *testing.T) {
	env := setupEnv(t)
	token := registerUser(t, env, "alice@example.com")

	w := env.postJSONWithToken(t, "/api/app-register", token, gin.H{
		"app_name": "Not A Slug!",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListApps_AdminOnly(t *testing.T) {
	env := setupEnv(t)
	userToken := registerUser(t, env, "alice@example.com")

	w := getWithToken(env, "/api/apps", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = getWithToken(env, "/api/apps", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = getWithToken(env, "/api/apps", adminToken(t, env))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListApps_ReportsUserCounts(t *testing.T) {
	env := setupEnv(t)
	registerUser(t, env, "alice@example.com")

	w := env.postJSON(t, "/api/login", gin.H{
		"email":    "alice@example.com",
		"password": "supersecret",
		"app_name": "crm",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = getWithToken(env, "/api/apps", adminToken(t, env))
	require.Equal(t, http.StatusOK, w.Code)

	apps := decodeBody(t, w)["data"].(map[string]any)["apps"].([]any)
	require.Len(t, apps, 1)
	entry := apps[0].(map[string]any)
	assert.Equal(t, "crm", entry["app_name"])
	assert.Equal(t, float64(1), entry["user_count"])
}

func TestListAppUsers(t *testing.T) {
	env := setupEnv(t)
	registerUser(t, env, "alice@example.com")

	w := env.postJSON(t, "/api/login", gin.H{
		"email":    "alice@example.com",
		"password": "supersecret",
		"app_name": "crm",
	})
	require.Equal(t, http.StatusOK, w.Code)

	crm, err := env.ledger.GetByName(context.Background(), "crm")
	require.NoError(t, err)
	require.NotNil(t, crm)

	token := adminToken(t, env)
	w = getWithToken(env, fmt.Sprintf("/api/apps/%d/users", crm.ID), token)
	require.Equal(t, http.StatusOK, w.Code)

	users := decodeBody(t, w)["data"].(map[string]any)["users"].([]any)
	require.Len(t, users, 1)
	row := users[0].(map[string]any)
	assert.Equal(t, "alice@example.com", row["email"])
	assert.Equal(t, float64(1), row["login_count"])

	w = getWithToken(env, "/api/apps/9999/users", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteApp(t *testing.T) {
	env := setupEnv(t)
	token := adminToken(t, env)

	w := env.postJSONWithToken(t, "/api/app-register", token, gin.H{"app_name": "legacy"})
	require.Equal(t, http.StatusCreated, w.Code)

	legacy, err := env.ledger.GetByName(context.Background(), "legacy")
	require.NoError(t, err)
	require.NotNil(t, legacy)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/apps/%d", legacy.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	gone, err := env.ledger.GetByName(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
