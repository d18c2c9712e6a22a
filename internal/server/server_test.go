package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Jeremy-Bosire/PovertyLine/internal/config"
	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
)

// testPassword satisfies the password policy (length, upper, lower, digit,
// special character).
const testPassword = "Password123!"

// newTestServer builds a full server against a throwaway SQLite database.
// Tests drive requests straight through the router, no socket involved.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			ListenAddr:  ":0",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			URL:    filepath.Join(t.TempDir(), "povertyline-test.sqlite"),
		},
		Redis: config.RedisConfig{Address: "localhost:6379"},
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			AccessTTL:  time.Hour,
			RefreshTTL: 24 * time.Hour,
		},
		Worker:  config.WorkerConfig{ExpirySweepSchedule: "0 * * * *"},
		Logging: config.LoggingConfig{Level: "error", Format: "console"},
	}

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := srv.db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return srv
}

// doJSON performs a request against the router, optionally with a bearer
// token and a JSON body, and returns the recorded response.
func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

// parseBody unmarshals a JSON response body into a generic map.
func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// errorMessage extracts the error envelope from a response.
func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	msg, _ := parseBody(t, w)["error"].(string)
	return msg
}

// registerAccount creates an account through the public register endpoint and
// returns its access token and user ID. The email is derived from the
// username.
func registerAccount(t *testing.T, s *Server, username, role string) (token, userID string) {
	t.Helper()

	w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", username, w.Body.String())

	body := parseBody(t, w)
	token, _ = body["access_token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]interface{})
	require.NotNil(t, user)
	userID, _ = user["id"].(string)
	require.NotEmpty(t, userID)

	return token, userID
}

// insertResource writes a resource directly to the database so tests control
// status and dates without walking the review workflow first. Zero fields get
// sensible defaults.
func insertResource(t *testing.T, s *Server, resource *models.Resource) *models.Resource {
	t.Helper()

	if resource.Title == "" {
		resource.Title = "Community Food Bank"
	}
	if resource.Description == "" {
		resource.Description = "Weekly food parcels for families in need"
	}
	if resource.Category == "" {
		resource.Category = models.CategoryFood
	}
	if resource.ProviderName == "" {
		resource.ProviderName = "Community Food Bank"
	}
	if resource.Status == "" {
		resource.Status = models.ResourceStatusActive
	}

	require.NoError(t, s.db.Create(resource).Error)
	return resource
}

// insertApplication writes an application directly to the database. Tests use
// this to stage review queues without walking the apply workflow.
func insertApplication(t *testing.T, s *Server, application *models.ResourceApplication) *models.ResourceApplication {
	t.Helper()

	if application.Status == "" {
		application.Status = models.ApplicationStatusSubmitted
	}
	if application.NeedLevel == "" {
		application.NeedLevel = models.NeedLevelMedium
	}
	if application.Status == models.ApplicationStatusSubmitted && application.SubmittedAt == nil {
		now := time.Now().UTC()
		application.SubmittedAt = &now
	}

	require.NoError(t, s.db.Create(application).Error)
	return application
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", parseBody(t, w)["status"])
}

func TestPageParamsClamping(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := registerAccount(t, s, "pageadmin", "admin")

	cases := []struct {
		name        string
		query       string
		wantPage    float64
		wantPerPage float64
	}{
		{"defaults", "", 1, 20},
		{"explicit", "?page=3&per_page=50", 3, 50},
		{"zero page", "?page=0", 1, 20},
		{"negative page", "?page=-2", 1, 20},
		{"per_page above cap", "?per_page=500", 1, 100},
		{"per_page zero", "?per_page=0", 1, 20},
		{"garbage values", "?page=abc&per_page=xyz", 1, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodGet, "/api/admin/users"+tc.query, adminToken, nil)
			require.Equal(t, http.StatusOK, w.Code)

			body := parseBody(t, w)
			require.Equal(t, tc.wantPage, body["page"])
			require.Equal(t, tc.wantPerPage, body["per_page"])
		})
	}
}

func TestTotalPagesRounding(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := registerAccount(t, s, "pagesadmin", "admin")

	// 5 accounts total (4 users + 1 admin), 2 per page -> 3 pages
	for _, name := range []string{"pa", "pb", "pc", "pd"} {
		registerAccount(t, s, name, "user")
	}

	w := doJSON(t, s, http.MethodGet, "/api/admin/users?per_page=2", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	require.Equal(t, float64(5), body["total"])
	require.Equal(t, float64(3), body["pages"])
}
