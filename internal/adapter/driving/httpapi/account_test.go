package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerline/peerline/internal/adapter/driven/identity"
	"github.com/peerline/peerline/internal/adapter/driven/persistence/memory"
	"github.com/peerline/peerline/internal/adapter/driving/httpapi"
	"github.com/peerline/peerline/internal/core/port"
	"github.com/peerline/peerline/internal/core/service"
)

type testEnv struct {
	server *httptest.Server
}

func newTestEnv(t *testing.T, authEnabled bool) *testEnv {
	t.Helper()

	users := memory.NewUserRepository()
	tokens := identity.NewTokenService("test-secret", time.Hour)

	var verifier port.TokenVerifier
	if authEnabled {
		verifier = tokens
	}

	registry := service.NewConnectionRegistry()
	rooms := service.NewRoomTable(registry)
	router := service.NewSignalingRouter(registry, rooms)
	dispatcher := service.NewEventDispatcher(registry, rooms, router)

	accounts := service.NewAccountService(users, tokens)
	invites := service.NewInviteService(users, dropNotifier{})

	h := httpapi.NewHandler(accounts, invites, dispatcher, verifier, nil, []string{"*"})
	srv := httptest.NewServer(h.NewRouter())
	t.Cleanup(srv.Close)

	return &testEnv{server: srv}
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func (e *testEnv) register(t *testing.T, name, email, password string) map[string]any {
	t.Helper()
	resp := e.postJSON(t, "/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody(t, resp)
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t, false)

	body := env.register(t, "Alice", "alice@example.com", "s3cret")
	assert.Equal(t, true, body["success"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "Alice", user["name"])
	assert.NotContains(t, user, "password_hash")

	t.Run("duplicate email", func(t *testing.T) {
		resp := env.postJSON(t, "/register", map[string]string{
			"name":     "Alice2",
			"email":    "alice@example.com",
			"password": "pw",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, false, body["success"])
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := env.postJSON(t, "/register", map[string]string{"name": "NoEmail"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	env.register(t, "Alice", "alice@example.com", "s3cret")

	t.Run("success", func(t *testing.T) {
		resp := env.postJSON(t, "/login", map[string]string{
			"email":    "alice@example.com",
			"password": "s3cret",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := env.postJSON(t, "/login", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestProfileEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	body := env.register(t, "Alice", "alice@example.com", "pw")
	id := body["user"].(map[string]any)["id"].(string)

	resp, err := http.Get(env.server.URL + "/profile/" + id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)
	assert.Equal(t, "Alice", got["user"].(map[string]any)["name"])

	t.Run("unknown id", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/profile/%s", env.server.URL, "b3b5c8f2-0000-0000-0000-000000000000"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("malformed id", func(t *testing.T) {
		resp, err := http.Get(env.server.URL + "/profile/42")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestInviteEndpoint(t *testing.T) {
	t.Run("auth disabled", func(t *testing.T) {
		env := newTestEnv(t, false)
		resp := env.postJSON(t, "/calls/invite", map[string]string{
			"callee_id": "b3b5c8f2-0000-0000-0000-000000000000",
			"room_id":   "call-1",
		})
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("auth enabled requires token", func(t *testing.T) {
		env := newTestEnv(t, true)
		resp := env.postJSON(t, "/calls/invite", map[string]string{
			"callee_id": "b3b5c8f2-0000-0000-0000-000000000000",
			"room_id":   "call-1",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestICEEndpoint(t *testing.T) {
	env := newTestEnv(t, false)

	resp, err := http.Get(env.server.URL + "/ice")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body, "iceServers")
}
