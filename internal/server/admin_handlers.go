package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
)

// @Summary Admin dashboard
// @Description Summary counts, registration trend, distributions and recent
// activity for the admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/dashboard [get]
func (s *Server) adminDashboard(c *gin.Context) {
	var (
		userCount               int64
		profileCount            int64
		resourceCount           int64
		applicationCount        int64
		pendingResourceCount    int64
		pendingApplicationCount int64
	)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&userCount, s.db.Model(&models.User{})},
		{&profileCount, s.db.Model(&models.Profile{})},
		{&resourceCount, s.db.Model(&models.Resource{})},
		{&applicationCount, s.db.Model(&models.ResourceApplication{})},
		{&pendingResourceCount, s.db.Model(&models.Resource{}).Where("status = ?", models.ResourceStatusPending)},
		{&pendingApplicationCount, s.db.Model(&models.ResourceApplication{}).Where("status = ?", models.ApplicationStatusSubmitted)},
	}
	for _, item := range counts {
		if err := item.query.Count(item.dest).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to build dashboard summary")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	sevenDaysAgo := time.Now().UTC().AddDate(0, 0, -7)
	userTrend, err := creationTrend(s.db, &models.User{}, sevenDaysAgo, false)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build registration trend")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var categories []categoryCount
	if err := s.db.Model(&models.Resource{}).
		Select("category, COUNT(id) AS count").
		Group("category").Order("count DESC").
		Scan(&categories).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to build category distribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var roles []roleCount
	if err := s.db.Model(&models.User{}).
		Select("role, COUNT(id) AS count").
		Group("role").Order("count DESC").
		Scan(&roles).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to build role distribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var recentUsers []models.User
	var recentResources []models.Resource
	var recentApplications []models.ResourceApplication
	recents := []struct {
		dest  interface{}
		query *gorm.DB
	}{
		{&recentUsers, s.db.Order("created_at DESC").Limit(5)},
		{&recentResources, s.db.Order("created_at DESC").Limit(5)},
		{&recentApplications, s.db.Order("created_at DESC").Limit(5)},
	}
	for _, item := range recents {
		if err := item.query.Find(item.dest).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to load recent activity")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": gin.H{
			"users":                userCount,
			"profiles":             profileCount,
			"resources":            resourceCount,
			"applications":         applicationCount,
			"pending_resources":    pendingResourceCount,
			"pending_applications": pendingApplicationCount,
		},
		"trends": gin.H{
			"user_registrations": userTrend,
		},
		"distributions": gin.H{
			"resource_categories": categories,
			"user_roles":          roles,
		},
		"recent_activity": gin.H{
			"users":        recentUsers,
			"resources":    recentResources,
			"applications": recentApplications,
		},
	})
}

// @Summary List users (admin)
// @Description Paginated user list with role, verification status and search
// filters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Param role query string false "Filter by role"
// @Param status query string false "Filter by verification status"
// @Param search query string false "Search username or email"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/users [get]
func (s *Server) adminListUsers(c *gin.Context) {
	page, perPage := pageParams(c)

	query := s.db.Model(&models.User{})

	// Unknown filter values are ignored rather than erroring
	if role := c.Query("role"); role != "" {
		if parsed, err := models.ParseRole(role); err == nil {
			query = query.Where("role = ?", parsed)
		}
	}
	if status := c.Query("status"); status != "" {
		if parsed, err := models.ParseVerificationStatus(status); err == nil {
			query = query.Where("verification_status = ?", parsed)
		}
	}
	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		query = query.Where("LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var users []models.User
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&users).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":    users,
		"total":    total,
		"pages":    totalPages(total, perPage),
		"page":     page,
		"per_page": perPage,
	})
}

// @Summary Verify user
// @Description Update a user's verification status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body object true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/users/{id}/verify [put]
func (s *Server) adminVerifyUser(c *gin.Context) {
	var user models.User
	if err := models.FindByID(s.db, c.Param("id"), &user); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req struct {
		Status *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	status, err := models.ParseVerificationStatus(*req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification status"})
		return
	}

	user.VerificationStatus = status
	if err := s.db.Save(&user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update verification status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("status", string(status)).
		Msg("User verification status updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "User verification status updated",
		"user":    user,
	})
}

// @Summary Pending resources
// @Description Resources awaiting approval, oldest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/resources/pending [get]
func (s *Server) adminPendingResources(c *gin.Context) {
	page, perPage := pageParams(c)

	query := s.db.Model(&models.Resource{}).Where("status = ?", models.ResourceStatusPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count pending resources")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var resources []models.Resource
	if err := query.Order("created_at").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&resources).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list pending resources")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resources": resources,
		"total":     total,
		"pages":     totalPages(total, perPage),
		"page":      page,
		"per_page":  perPage,
	})
}

// @Summary Approve resource
// @Description Approve or reject a pending resource. The decision stamps the
// verification date and reviewer.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Param request body object true "New status (active or inactive)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/resources/{id}/approve [put]
func (s *Server) adminApproveResource(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var resource models.Resource
	if err := models.FindByID(s.db, c.Param("id"), &resource); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load resource")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if resource.Status != models.ResourceStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Resource is not pending approval"})
		return
	}

	var req struct {
		Status *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	status, err := models.ParseResourceStatus(*req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	// An approval decision is binary: publish or decline
	if status != models.ResourceStatusActive && status != models.ResourceStatusInactive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status for approval"})
		return
	}

	now := time.Now().UTC()
	resource.Status = status
	resource.VerificationDate = &now
	resource.VerifiedBy = sessionData.UserID

	if err := s.db.Save(&resource).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update resource status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.logger.Info().
		Str("resource_id", resource.ID).
		Str("status", string(status)).
		Str("reviewed_by", sessionData.UserID).
		Msg("Resource approval decision recorded")

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Resource %s", status),
		"resource": resource,
	})
}

// @Summary Pending applications
// @Description Applications awaiting review, oldest submission first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/applications/pending [get]
func (s *Server) adminPendingApplications(c *gin.Context) {
	page, perPage := pageParams(c)

	query := s.db.Model(&models.ResourceApplication{}).Where("status = ?", models.ApplicationStatusSubmitted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count pending applications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var applications []models.ResourceApplication
	if err := query.Order("submitted_at").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&applications).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list pending applications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        total,
		"pages":        totalPages(total, perPage),
		"page":         page,
		"per_page":     perPage,
	})
}

// @Summary Review application
// @Description Record a review decision on a submitted application
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body object true "Decision"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/applications/{id}/review [put]
func (s *Server) adminReviewApplication(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var application models.ResourceApplication
	if err := models.FindByID(s.db, c.Param("id"), &application); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load application")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if application.Status != models.ApplicationStatusSubmitted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Application is not pending review"})
		return
	}

	var req struct {
		Status     *string `json:"status"`
		Reason     string  `json:"reason"`
		AdminNotes string  `json:"admin_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	status, err := models.ParseApplicationStatus(*req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	switch status {
	case models.ApplicationStatusApproved,
		models.ApplicationStatusRejected,
		models.ApplicationStatusWaitlisted,
		models.ApplicationStatusUnderReview:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status for review"})
		return
	}

	application.Review(sessionData.UserID, status, req.Reason, req.AdminNotes, time.Now().UTC())

	if err := s.db.Save(&application).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to record review decision")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.logger.Info().
		Str("application_id", application.ID).
		Str("status", string(status)).
		Str("reviewed_by", sessionData.UserID).
		Msg("Application review recorded")

	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("Application %s", status),
		"application": application,
	})
}
