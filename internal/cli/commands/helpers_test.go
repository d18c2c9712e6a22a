package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/auth"
	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/session"
)

// mockTokenStore is an in-memory auth.TokenStore for tests.
type mockTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{tokens: make(map[string]string)}
}

func (m *mockTokenStore) SaveToken(serverURL, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[serverURL] = token
	return nil
}

func (m *mockTokenStore) LoadToken(serverURL string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[serverURL]
	if !ok {
		return "", auth.ErrNoToken
	}
	return token, nil
}

func (m *mockTokenStore) DeleteToken(serverURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, serverURL)
	return nil
}

func (m *mockTokenStore) stored(serverURL string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[serverURL]
}

// testUser builds the wire shape of an account with the given role.
func testUser(role string) map[string]interface{} {
	return map[string]interface{}{
		"id":                  "a1b2c3d4",
		"username":            "casey",
		"email":               "casey@example.com",
		"role":                role,
		"verification_status": "verified",
		"is_active":           true,
	}
}

// apiServer fakes the HTTP API. It always serves /api/auth/me for the given
// token and user; extra routes come from the caller.
func apiServer(t *testing.T, token string, user map[string]interface{}, extra map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error": "Invalid or expired token"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"user": user})
	})
	for pattern, handler := range extra {
		mux.HandleFunc(pattern, handler)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestStore wires a session store to srv. A non-empty token is seeded
// into the token store first, as if a previous login had saved it.
func newTestStore(t *testing.T, srv *httptest.Server, token string) (*session.Store, *mockTokenStore) {
	t.Helper()

	tokens := newMockTokenStore()
	if token != "" {
		if err := tokens.SaveToken(srv.URL, token); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}
	}
	return session.New(srv.URL, srv.Client(), tokens), tokens
}

func decodeBody(r *http.Request, out interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func jsonResponse(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}
