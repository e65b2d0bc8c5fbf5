package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/andrasnagy-data/legacyusers/internal/components/users"
	"github.com/andrasnagy-data/legacyusers/internal/shared/config"
	"github.com/andrasnagy-data/legacyusers/internal/shared/password"
)

func newTestServer(t *testing.T, prefix string) *httptest.Server {
	t.Helper()

	hash, err := password.Hash("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	dir, err := users.NewDirectory([]users.Record{{
		Username:     "alice",
		PasswordHash: hash,
		Profile:      map[string]json.RawMessage{"email": json.RawMessage(`"alice@example.com"`)},
	}})
	require.NoError(t, err)

	cfg := &config.Config{Environment: "test", PathPrefix: prefix, AllowedOrigins: []string{"*"}}
	router := NewRouter(params{
		Config:        cfg,
		Logger:        zerolog.Nop(),
		HealthHandler: NewHealthHandler(NewHealthSrvc(nil, dir)),
		UsersRouter:   users.NewRouter(users.NewService(dir, zerolog.Nop())),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_AliceScenario(t *testing.T) {
	srv := newTestServer(t, "/migration")
	base := srv.URL + "/migration/api/users/"

	assert.Equal(t, http.StatusOK, do(t, http.MethodHead, base+"alice/", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodHead, base+"bob/", "").StatusCode)

	resp := do(t, http.MethodGet, base+"alice/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var details map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&details))
	assert.NotContains(t, details, "passwordHash")
	assert.Equal(t, "alice", details["username"])

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodGet, base+"bob/", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, http.MethodPost, base+"alice/", `{"password":"secret123"}`).StatusCode)
	assert.Equal(t, http.StatusForbidden, do(t, http.MethodPost, base+"alice/", `{"password":"wrong"}`).StatusCode)
	assert.Equal(t, http.StatusForbidden, do(t, http.MethodPost, base+"bob/", `{"password":"secret123"}`).StatusCode)
}

func TestServer_RootIsNotFound(t *testing.T) {
	srv := newTestServer(t, "/migration")

	resp := do(t, http.MethodGet, srv.URL+"/", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Not Found", string(body))
}

func TestServer_UnknownPathIsNotFound(t *testing.T) {
	srv := newTestServer(t, "/migration")

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/api/users/alice/", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/migration/other", "").StatusCode)
}

func TestServer_CustomPrefix(t *testing.T) {
	srv := newTestServer(t, "/legacy")

	assert.Equal(t, http.StatusOK, do(t, http.MethodHead, srv.URL+"/legacy/api/users/alice/", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodHead, srv.URL+"/migration/api/users/alice/", "").StatusCode)
}

func TestServer_RequestIDHeader(t *testing.T) {
	srv := newTestServer(t, "/migration")

	resp := do(t, http.MethodHead, srv.URL+"/migration/api/users/alice/", "")
	assert.NotEmpty(t, resp.Header.Get("Request-Id"))
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, "/migration")

	resp := do(t, http.MethodGet, srv.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "serving", health.Status)
	assert.Equal(t, 1, health.Users)
	assert.False(t, health.Database)
}
