package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
)

func TestAdminDashboard(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := registerAccount(t, s, "dashadmin", "admin")
	_, userID := registerAccount(t, s, "dashuser", "user")
	_, providerID := registerAccount(t, s, "dashprovider", "provider")

	require.NoError(t, s.db.Create(&models.Profile{UserID: userID}).Error)

	active := insertResource(t, s, &models.Resource{
		Title:      "Active Program",
		ProviderID: providerID,
		Status:     models.ResourceStatusActive,
	})
	insertResource(t, s, &models.Resource{
		Title:      "Queued Program",
		ProviderID: providerID,
		Status:     models.ResourceStatusPending,
	})

	insertApplication(t, s, &models.ResourceApplication{
		UserID:     userID,
		ResourceID: active.ID,
		Status:     models.ApplicationStatusSubmitted,
	})
	insertApplication(t, s, &models.ResourceApplication{
		UserID:     userID,
		ResourceID: active.ID,
		Status:     models.ApplicationStatusApproved,
	})

	w := doJSON(t, s, http.MethodGet, "/api/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)

	summary := body["summary"].(map[string]interface{})
	require.Equal(t, float64(3), summary["users"])
	require.Equal(t, float64(1), summary["profiles"])
	require.Equal(t, float64(2), summary["resources"])
	require.Equal(t, float64(2), summary["applications"])
	require.Equal(t, float64(1), summary["pending_resources"])
	require.Equal(t, float64(1), summary["pending_applications"])

	// All three accounts registered just now, so the trend has a single
	// bucket for today
	trends := body["trends"].(map[string]interface{})
	registrations := trends["user_registrations"].([]interface{})
	require.Len(t, registrations, 1)
	today := registrations[0].(map[string]interface{})
	require.Equal(t, time.Now().UTC().Format("2006-01-02"), today["date"])
	require.Equal(t, float64(3), today["count"])

	distributions := body["distributions"].(map[string]interface{})
	require.NotEmpty(t, distributions["resource_categories"])
	require.Len(t, distributions["user_roles"], 3)

	recent := body["recent_activity"].(map[string]interface{})
	require.Len(t, recent["users"], 3)
	require.Len(t, recent["resources"], 2)
	require.Len(t, recent["applications"], 2)
}

func TestAdminListUsers(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := registerAccount(t, s, "listadmin", "admin")
	registerAccount(t, s, "walkin", "user")
	registerAccount(t, s, "helporg", "provider")
	_, verifiedID := registerAccount(t, s, "checked", "user")

	require.NoError(t, s.db.Model(&models.User{}).
		Where("id = ?", verifiedID).
		Update("verification_status", models.VerificationVerified).Error)

	t.Run("All", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/admin/users", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, float64(4), parseBody(t, w)["total"])
	})

	t.Run("RoleFilter", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/admin/users?role=provider", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := parseBody(t, w)
		require.Equal(t, float64(1), body["total"])

		users := body["users"].([]interface{})
		require.Equal(t, "helporg", users[0].(map[string]interface{})["username"])
	})

	t.Run("StatusFilter", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/admin/users?status=verified", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := parseBody(t, w)
		require.Equal(t, float64(1), body["total"])

		users := body["users"].([]interface{})
		require.Equal(t, "checked", users[0].(map[string]interface{})["username"])
	})

	t.Run("Search", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/admin/users?search=WALK", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, float64(1), parseBody(t, w)["total"])
	})

	t.Run("UnknownFilterValuesIgnored", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/admin/users?role=wizard&status=maybe", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, float64(4), parseBody(t, w)["total"])
	})
}

func TestAdminVerifyUser(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := registerAccount(t, s, "verifier", "admin")
	_, targetID := registerAccount(t, s, "verifyme", "provider")

	t.Run("Success", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPut, "/api/admin/users/"+targetID+"/verify", adminToken, map[string]interface{}{
			"status": "verified",
		})
		require.Equal(t, http.StatusOK, w.Code)

		body := parseBody(t, w)
		require.Equal(t, "User verification status updated", body["message"])

		user := body["user"].(map[string]interface{})
		require.Equal(t, "verified", user["verification_status"])
	})

	t.Run("Rejection", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPut, "/api/admin/users/"+targetID+"/verify", adminToken, map[string]interface{}{
			"status": "rejected",
		})
		require.Equal(t, http.StatusOK, w.Code)

		user := parseBody(t, w)["user"].(map[string]interface{})
		require.Equal(t, "rejected", user["verification_status"])
	})

	t.Run("MissingStatus", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPut, "/api/admin/users/"+targetID+"/verify", adminToken, map[string]interface{}{})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Status is required", errorMessage(t, w))
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPut, "/api/admin/users/"+targetID+"/verify", adminToken, map[string]interface{}{
			"status": "golden",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Invalid verification status", errorMessage(t, w))
	})

	t.Run("UserNotFound", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPut, "/api/admin/users/missing/verify", adminToken, map[string]interface{}{
			"status": "verified",
		})
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "User not found", errorMessage(t, w))
	})
}

func TestAdminPendingResources(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := registerAccount(t, s, "queueadmin", "admin")
	_, submitterID := registerAccount(t, s, "queueorg", "provider")

	// Explicit creation times pin the expected order
	older := time.Now().UTC().Add(-2 * time.Hour)
	newer := time.Now().UTC().Add(-1 * time.Hour)

	second := insertResource(t, s, &models.Resource{
		BaseModel:  models.BaseModel{CreatedAt: newer},
		Title:      "Second In Queue",
		ProviderID: submitterID,
		Status:     models.ResourceStatusPending,
	})
	first := insertResource(t, s, &models.Resource{
		BaseModel:  models.BaseModel{CreatedAt: older},
		Title:      "First In Queue",
		ProviderID: submitterID,
		Status:     models.ResourceStatusPending,
	})
	insertResource(t, s, &models.Resource{
		Title:      "Already Live",
		ProviderID: submitterID,
		Status:     models.ResourceStatusActive,
	})

	w := doJSON(t, s, http.MethodGet, "/api/admin/resources/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	require.Equal(t, float64(2), body["total"])

	resources := body["resources"].([]interface{})
	require.Len(t, resources, 2)
	require.Equal(t, first.ID, resources[0].(map[string]interface{})["id"])
	require.Equal(t, second.ID, resources[1].(map[string]interface{})["id"])
}

func TestAdminApproveResource(t *testing.T) {
	s := newTestServer(t)
	adminToken, adminID := registerAccount(t, s, "approver", "admin")
	_, submitterID := registerAccount(t, s, "hopefulorg", "provider")

	t.Run("Approve", func(t *testing.T) {
		pending := insertResource(t, s, &models.Resource{
			Title:      "Fresh Submission",
			ProviderID: submitterID,
			Status:     models.ResourceStatusPending,
		})

		w := doJSON(t, s, http.MethodPut, "/api/admin/resources/"+pending.ID+"/approve", adminToken, map[string]interface{}{
			"status": "active",
		})
		require.Equal(t, http.StatusOK, w.Code)

		body := parseBody(t, w)
		require.Equal(t, "Resource active", body["message"])

		resource := body["resource"].(map[string]interface{})
		require.Equal(t, "active", resource["status"])
		require.NotNil(t, resource["verification_date"])
		require.Equal(t, adminID, resource["verified_by"])
	})

	t.Run("Decline", func(t *testing.T) {
		pending := insertResource(t, s, &models.Resource{
			Title:      "Not Good Enough",
			ProviderID: submitterID,
			Status:     models.ResourceStatusPending,
		})

		w := doJSON(t, s, http.MethodPut, "/api/admin/resources/"+pending.ID+"/approve", adminToken, map[string]interface{}{
			"status": "inactive",
		})
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "Resource inactive", parseBody(t, w)["message"])
	})

	t.Run("NotPending", func(t *testing.T) {
		live := insertResource(t, s, &models.Resource{
			Title:      "Already Decided",
			ProviderID: submitterID,
			Status:     models.ResourceStatusActive,
		})

		w := doJSON(t, s, http.MethodPut, "/api/admin/resources/"+live.ID+"/approve", adminToken, map[string]interface{}{
			"status": "inactive",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Resource is not pending approval", errorMessage(t, w))
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		pending := insertResource(t, s, &models.Resource{
			Title:      "Queued A",
			ProviderID: submitterID,
			Status:     models.ResourceStatusPending,
		})

		w := doJSON(t, s, http.MethodPut, "/api/admin/resources/"+pending.ID+"/approve", adminToken, map[string]interface{}{
			"status": "wonderful",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Invalid status", errorMessage(t, w))
	})

	t.Run("ValidButNotADecision", func(t *testing.T) {
		pending := insertResource(t, s, &models.Resource{
			Title:      "Queued B",
			ProviderID: submitterID,
			Status:     models.ResourceStatusPending,
		})

		// "draft" parses as a resource status but is not a review decision
		w := doJSON(t, s, http.MethodPut, "/api/admin/resources/"+pending.ID+"/approve", adminToken, map[string]interface{}{
			"status": "draft",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Invalid status for approval", errorMessage(t, w))
	})

	t.Run("MissingStatus", func(t *testing.T) {
		pending := insertResource(t, s, &models.Resource{
			Title:      "Queued C",
			ProviderID: submitterID,
			Status:     models.ResourceStatusPending,
		})

		w := doJSON(t, s, http.MethodPut, "/api/admin/resources/"+pending.ID+"/approve", adminToken, map[string]interface{}{})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Status is required", errorMessage(t, w))
	})
}

func TestAdminPendingApplications(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := registerAccount(t, s, "reviewqueue", "admin")
	_, userID := registerAccount(t, s, "queueduser", "user")
	_, popularorgID := registerAccount(t, s, "popularorg", "provider")

	resource := insertResource(t, s, &models.Resource{
		Title:      "Popular Program",
		ProviderID: popularorgID,
		Status:     models.ResourceStatusActive,
	})

	older := time.Now().UTC().Add(-3 * time.Hour)
	newer := time.Now().UTC().Add(-1 * time.Hour)

	second := insertApplication(t, s, &models.ResourceApplication{
		UserID:      userID,
		ResourceID:  resource.ID,
		Status:      models.ApplicationStatusSubmitted,
		SubmittedAt: &newer,
	})
	first := insertApplication(t, s, &models.ResourceApplication{
		UserID:      userID,
		ResourceID:  resource.ID,
		Status:      models.ApplicationStatusSubmitted,
		SubmittedAt: &older,
	})
	insertApplication(t, s, &models.ResourceApplication{
		UserID:     userID,
		ResourceID: resource.ID,
		Status:     models.ApplicationStatusApproved,
	})

	w := doJSON(t, s, http.MethodGet, "/api/admin/applications/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	require.Equal(t, float64(2), body["total"])

	applications := body["applications"].([]interface{})
	require.Len(t, applications, 2)
	require.Equal(t, first.ID, applications[0].(map[string]interface{})["id"])
	require.Equal(t, second.ID, applications[1].(map[string]interface{})["id"])
}

func TestAdminReviewApplication(t *testing.T) {
	s := newTestServer(t)
	adminToken, adminID := registerAccount(t, s, "caseworker", "admin")
	_, userID := registerAccount(t, s, "casesubject", "user")
	_, caseorgID := registerAccount(t, s, "caseorg", "provider")

	resource := insertResource(t, s, &models.Resource{
		Title:      "Review Target Program",
		ProviderID: caseorgID,
		Status:     models.ResourceStatusActive,
	})

	newSubmitted := func(t *testing.T) *models.ResourceApplication {
		return insertApplication(t, s, &models.ResourceApplication{
			UserID:     userID,
			ResourceID: resource.ID,
			Status:     models.ApplicationStatusSubmitted,
		})
	}

	t.Run("Approve", func(t *testing.T) {
		application := newSubmitted(t)

		w := doJSON(t, s, http.MethodPut, "/api/admin/applications/"+application.ID+"/review", adminToken, map[string]interface{}{
			"status":      "approved",
			"reason":      "Meets all criteria",
			"admin_notes": "Fast-tracked",
		})
		require.Equal(t, http.StatusOK, w.Code)

		body := parseBody(t, w)
		require.Equal(t, "Application approved", body["message"])

		reviewed := body["application"].(map[string]interface{})
		require.Equal(t, "approved", reviewed["status"])
		require.Equal(t, adminID, reviewed["reviewed_by"])
		require.Equal(t, "Meets all criteria", reviewed["decision_reason"])
		require.Equal(t, "Fast-tracked", reviewed["admin_notes"])
		require.NotNil(t, reviewed["reviewed_at"])
	})

	t.Run("Waitlist", func(t *testing.T) {
		application := newSubmitted(t)

		w := doJSON(t, s, http.MethodPut, "/api/admin/applications/"+application.ID+"/review", adminToken, map[string]interface{}{
			"status": "waitlisted",
		})
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "Application waitlisted", parseBody(t, w)["message"])
	})

	t.Run("AlreadyReviewed", func(t *testing.T) {
		application := newSubmitted(t)

		w := doJSON(t, s, http.MethodPut, "/api/admin/applications/"+application.ID+"/review", adminToken, map[string]interface{}{
			"status": "rejected",
		})
		require.Equal(t, http.StatusOK, w.Code)

		// Second decision on the same application must fail
		w = doJSON(t, s, http.MethodPut, "/api/admin/applications/"+application.ID+"/review", adminToken, map[string]interface{}{
			"status": "approved",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Application is not pending review", errorMessage(t, w))
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		application := newSubmitted(t)

		w := doJSON(t, s, http.MethodPut, "/api/admin/applications/"+application.ID+"/review", adminToken, map[string]interface{}{
			"status": "fantastic",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Invalid status", errorMessage(t, w))
	})

	t.Run("ValidButNotADecision", func(t *testing.T) {
		application := newSubmitted(t)

		// "withdrawn" is a real application status but not a review outcome
		w := doJSON(t, s, http.MethodPut, "/api/admin/applications/"+application.ID+"/review", adminToken, map[string]interface{}{
			"status": "withdrawn",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Invalid status for review", errorMessage(t, w))
	})

	t.Run("NotFound", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPut, "/api/admin/applications/missing/review", adminToken, map[string]interface{}{
			"status": "approved",
		})
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "Application not found", errorMessage(t, w))
	})
}
