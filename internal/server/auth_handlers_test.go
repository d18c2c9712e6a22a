package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
)

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	t.Run("Success", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
			"username": "amara",
			"email":    "amara@example.com",
			"password": testPassword,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		body := parseBody(t, w)
		require.Equal(t, "User registered successfully", body["message"])
		require.NotEmpty(t, body["access_token"])
		require.NotEmpty(t, body["refresh_token"])

		user := body["user"].(map[string]interface{})
		require.Equal(t, "amara", user["username"])
		require.Equal(t, "user", user["role"])
		require.Equal(t, "unverified", user["verification_status"])
		require.Equal(t, true, user["is_active"])

		// Password material never leaves the server
		require.NotContains(t, user, "password_hash")
	})

	t.Run("ProviderRole", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
			"username": "shelterorg",
			"email":    "shelterorg@example.com",
			"password": testPassword,
			"role":     "provider",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		user := parseBody(t, w)["user"].(map[string]interface{})
		require.Equal(t, "provider", user["role"])
	})

	t.Run("UnknownRoleFallsBackToUser", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
			"username": "sneaky",
			"email":    "sneaky@example.com",
			"password": testPassword,
			"role":     "superuser",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		user := parseBody(t, w)["user"].(map[string]interface{})
		require.Equal(t, "user", user["role"])
	})

	t.Run("MissingFields", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
			"username": "incomplete",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Missing required fields", errorMessage(t, w))
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
			"username": "bademail",
			"email":    "not-an-email",
			"password": testPassword,
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Invalid email format", errorMessage(t, w))
	})

	t.Run("WeakPassword", func(t *testing.T) {
		cases := []struct {
			password string
			message  string
		}{
			{"Sh0rt!", "Password must be at least 8 characters long"},
			{"alllower123!", "Password must contain at least one uppercase letter"},
			{"ALLUPPER123!", "Password must contain at least one lowercase letter"},
			{"NoDigits!!", "Password must contain at least one digit"},
			{"NoSpecial123", "Password must contain at least one special character"},
		}

		for _, tc := range cases {
			w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
				"username": "weakpw",
				"email":    "weakpw@example.com",
				"password": tc.password,
			})
			require.Equal(t, http.StatusBadRequest, w.Code, "password %q", tc.password)
			require.Equal(t, tc.message, errorMessage(t, w))
		}
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
			"username": "amara",
			"email":    "amara2@example.com",
			"password": testPassword,
		})
		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, "Username or email already exists", errorMessage(t, w))
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
			"username": "amara-other",
			"email":    "amara@example.com",
			"password": testPassword,
		})
		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, "Username or email already exists", errorMessage(t, w))
	})

	t.Run("InvalidBody", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", "not an object")
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Invalid request body", errorMessage(t, w))
	})
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	registerAccount(t, s, "kioni", "user")

	t.Run("ByUsername", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
			"username": "kioni",
			"password": testPassword,
		})
		require.Equal(t, http.StatusOK, w.Code)

		body := parseBody(t, w)
		require.Equal(t, "Login successful", body["message"])
		require.NotEmpty(t, body["access_token"])
		require.NotEmpty(t, body["refresh_token"])
	})

	t.Run("ByEmail", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
			"username": "kioni@example.com",
			"password": testPassword,
		})
		require.Equal(t, http.StatusOK, w.Code)

		user := parseBody(t, w)["user"].(map[string]interface{})
		require.Equal(t, "kioni", user["username"])
	})

	t.Run("WrongPassword", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
			"username": "kioni",
			"password": "Wrong123!",
		})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "Invalid username or password", errorMessage(t, w))
	})

	t.Run("UnknownUser", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
			"username": "nobody",
			"password": testPassword,
		})
		// Same message as a wrong password so logins cannot probe usernames
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "Invalid username or password", errorMessage(t, w))
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
			"username": "kioni",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Missing username or password", errorMessage(t, w))
	})

	t.Run("DisabledAccount", func(t *testing.T) {
		registerAccount(t, s, "dormant", "user")
		require.NoError(t, s.db.Model(&models.User{}).
			Where("username = ?", "dormant").
			Update("is_active", false).Error)

		w := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
			"username": "dormant",
			"password": testPassword,
		})
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, "Account is disabled", errorMessage(t, w))
	})
}

func TestGetCurrentUser(t *testing.T) {
	s := newTestServer(t)
	token, userID := registerAccount(t, s, "selfcheck", "provider")

	w := doJSON(t, s, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	user := parseBody(t, w)["user"].(map[string]interface{})
	require.Equal(t, userID, user["id"])
	require.Equal(t, "selfcheck", user["username"])
	require.Equal(t, "provider", user["role"])
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	token, _ := registerAccount(t, s, "leaver", "user")

	w := doJSON(t, s, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Logout successful", parseBody(t, w)["message"])

	// Tokens are stateless so the access token still works afterwards; the
	// client is responsible for discarding it.
	w = doJSON(t, s, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshToken(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": "refresher",
		"email":    "refresher@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := parseBody(t, w)
	accessToken := body["access_token"].(string)
	refreshToken := body["refresh_token"].(string)

	t.Run("Success", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/refresh", refreshToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		newAccess, _ := parseBody(t, w)["access_token"].(string)
		require.NotEmpty(t, newAccess)

		// The fresh access token must be usable
		w = doJSON(t, s, http.MethodGet, "/api/auth/me", newAccess, nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("AccessTokenRejected", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/refresh", accessToken, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "Invalid or expired token", errorMessage(t, w))
	})

	t.Run("MissingToken", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/auth/refresh", "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "Missing refresh token", errorMessage(t, w))
	})

	t.Run("DisabledAccountRejected", func(t *testing.T) {
		require.NoError(t, s.db.Model(&models.User{}).
			Where("username = ?", "refresher").
			Update("is_active", false).Error)
		t.Cleanup(func() {
			require.NoError(t, s.db.Model(&models.User{}).
				Where("username = ?", "refresher").
				Update("is_active", true).Error)
		})

		w := doJSON(t, s, http.MethodPost, "/api/auth/refresh", refreshToken, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "User not found or inactive", errorMessage(t, w))
	})
}
