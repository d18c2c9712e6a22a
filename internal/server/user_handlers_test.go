package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
)

func TestListUsers(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := registerAccount(t, s, "useradmin", "admin")
	userToken, _ := registerAccount(t, s, "regular", "user")
	registerAccount(t, s, "services", "provider")

	t.Run("AdminOnly", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/users", userToken, nil)
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, "Unauthorized access", errorMessage(t, w))
	})

	t.Run("All", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/users", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := parseBody(t, w)
		require.Equal(t, float64(3), body["total"])
		require.Equal(t, float64(1), body["pages"])
		require.Len(t, body["users"], 3)
	})

	t.Run("RoleFilter", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/users?role=provider", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := parseBody(t, w)
		require.Equal(t, float64(1), body["total"])

		users := body["users"].([]interface{})
		require.Equal(t, "services", users[0].(map[string]interface{})["username"])
	})
}

func TestGetUser(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := registerAccount(t, s, "getadmin", "admin")
	selfToken, selfID := registerAccount(t, s, "myself", "user")
	otherToken, _ := registerAccount(t, s, "someoneelse", "user")

	t.Run("Self", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/users/"+selfID, selfToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		user := parseBody(t, w)["user"].(map[string]interface{})
		require.Equal(t, "myself", user["username"])
	})

	t.Run("Admin", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/users/"+selfID, adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("OtherUserForbidden", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/users/"+selfID, otherToken, nil)
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, "Unauthorized access", errorMessage(t, w))
	})

	t.Run("NotFound", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/users/missing", adminToken, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "User not found", errorMessage(t, w))
	})
}

func TestUpdateUser(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := registerAccount(t, s, "updateadmin", "admin")
	selfToken, selfID := registerAccount(t, s, "changeling", "user")
	otherToken, _ := registerAccount(t, s, "meddler", "user")

	t.Run("SelfRename", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPut, "/api/users/"+selfID, selfToken, map[string]interface{}{
			"username": "changeling2",
			"email":    "changeling2@example.com",
		})
		require.Equal(t, http.StatusOK, w.Code)

		body := parseBody(t, w)
		require.Equal(t, "User updated successfully", body["message"])

		user := body["user"].(map[string]interface{})
		require.Equal(t, "changeling2", user["username"])
		require.Equal(t, "changeling2@example.com", user["email"])
	})

	t.Run("SelfCannotEscalate", func(t *testing.T) {
		// Privileged fields from a non-admin are silently dropped, matching
		// what the web client expects
		w := doJSON(t, s, http.MethodPut, "/api/users/"+selfID, selfToken, map[string]interface{}{
			"role":                "admin",
			"is_active":           false,
			"verification_status": "verified",
		})
		require.Equal(t, http.StatusOK, w.Code)

		user := parseBody(t, w)["user"].(map[string]interface{})
		require.Equal(t, "user", user["role"])
		require.Equal(t, true, user["is_active"])
		require.Equal(t, "unverified", user["verification_status"])
	})

	t.Run("AdminSetsPrivilegedFields", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPut, "/api/users/"+selfID, adminToken, map[string]interface{}{
			"role":                "provider",
			"verification_status": "verified",
		})
		require.Equal(t, http.StatusOK, w.Code)

		user := parseBody(t, w)["user"].(map[string]interface{})
		require.Equal(t, "provider", user["role"])
		require.Equal(t, "verified", user["verification_status"])
	})

	t.Run("AdminInvalidRole", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPut, "/api/users/"+selfID, adminToken, map[string]interface{}{
			"role": "emperor",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Invalid role", errorMessage(t, w))
	})

	t.Run("OtherUserForbidden", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPut, "/api/users/"+selfID, otherToken, map[string]interface{}{
			"username": "stolen",
		})
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, "Unauthorized access", errorMessage(t, w))
	})
}

func TestDeleteUser(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := registerAccount(t, s, "deleteadmin", "admin")
	userToken, userID := registerAccount(t, s, "ephemeral", "user")

	t.Run("NonAdminForbidden", func(t *testing.T) {
		w := doJSON(t, s, http.MethodDelete, "/api/users/"+userID, userToken, nil)
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, "Unauthorized access", errorMessage(t, w))
	})

	t.Run("AdminDeletes", func(t *testing.T) {
		w := doJSON(t, s, http.MethodDelete, "/api/users/"+userID, adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "User deleted successfully", parseBody(t, w)["message"])

		var count int64
		require.NoError(t, s.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error)
		require.Zero(t, count)

		// The deleted account's token dies with it
		w = doJSON(t, s, http.MethodGet, "/api/auth/me", userToken, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "User not found", errorMessage(t, w))
	})

	t.Run("NotFound", func(t *testing.T) {
		w := doJSON(t, s, http.MethodDelete, "/api/users/"+userID, adminToken, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "User not found", errorMessage(t, w))
	})
}
