package commands

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
)

func TestRunLogoutClearsToken(t *testing.T) {
	srv := apiServer(t, "tok", testUser("user"), map[string]http.HandlerFunc{
		"/api/auth/logout": func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(t, w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
		},
	})
	store, tokens := newTestStore(t, srv, "tok")

	var out bytes.Buffer
	if err := runLogout(store, &out); err != nil {
		t.Fatalf("runLogout failed: %v", err)
	}

	if !strings.Contains(out.String(), "✓ Logged out") {
		t.Errorf("output missing confirmation:\n%s", out.String())
	}
	if tokens.stored(srv.URL) != "" {
		t.Error("token should be gone from the store")
	}
}

func TestRunLogoutServerErrorStillClears(t *testing.T) {
	srv := apiServer(t, "tok", testUser("user"), map[string]http.HandlerFunc{
		"/api/auth/logout": func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(t, w, http.StatusInternalServerError, map[string]string{"error": "boom"})
		},
	})
	store, tokens := newTestStore(t, srv, "tok")

	var out bytes.Buffer
	if err := runLogout(store, &out); err != nil {
		t.Fatalf("logout must succeed locally even when the server fails: %v", err)
	}
	if tokens.stored(srv.URL) != "" {
		t.Error("token should be gone from the store despite the server error")
	}
}
