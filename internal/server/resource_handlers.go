package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Jeremy-Bosire/PovertyLine/internal/auth"
	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
	"github.com/Jeremy-Bosire/PovertyLine/internal/validate"
)

// ResourceRequest carries resource fields for create and partial update.
type ResourceRequest struct {
	Title               *string         `json:"title"`
	Description         *string         `json:"description"`
	Category            *string         `json:"category"`
	ProviderName        *string         `json:"provider_name"`
	ProviderContact     json.RawMessage `json:"provider_contact"`
	Location            json.RawMessage `json:"location"`
	EligibilityCriteria json.RawMessage `json:"eligibility_criteria"`
	ApplicationProcess  *string         `json:"application_process"`
	RequiredDocuments   json.RawMessage `json:"required_documents"`
	Capacity            *int            `json:"capacity"`
	Availability        json.RawMessage `json:"availability"`
	StartDate           *string         `json:"start_date"` // YYYY-MM-DD
	EndDate             *string         `json:"end_date"`   // YYYY-MM-DD
	Status              *string         `json:"status"`     // admin only
}

// ApplyRequest carries the application form a user submits for a resource.
type ApplyRequest struct {
	ApplicationData json.RawMessage `json:"application_data"`
	Notes           string          `json:"notes"`
	Reason          string          `json:"reason"`
	NeedLevel       *string         `json:"need_level"`
}

func parseDateField(value, name string) (*time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("Invalid %s format, expected YYYY-MM-DD", name)
	}
	return &parsed, nil
}

// applyResourceRequest copies the fields present in the request onto the
// resource. Status handling stays with the callers because create and update
// gate it differently.
func applyResourceRequest(resource *models.Resource, req *ResourceRequest) error {
	if req.Title != nil {
		resource.Title = validate.Sanitize(*req.Title)
	}
	if req.Description != nil {
		resource.Description = validate.Sanitize(*req.Description)
	}
	if req.Category != nil {
		category, err := models.ParseResourceCategory(*req.Category)
		if err != nil {
			return fmt.Errorf("Invalid resource category")
		}
		resource.Category = category
	}
	if req.ProviderName != nil {
		resource.ProviderName = validate.Sanitize(*req.ProviderName)
	}
	if req.ProviderContact != nil {
		resource.ProviderContact = datatypes.JSON(req.ProviderContact)
	}
	if req.Location != nil {
		resource.Location = datatypes.JSON(req.Location)
	}
	if req.EligibilityCriteria != nil {
		resource.EligibilityCriteria = datatypes.JSON(req.EligibilityCriteria)
	}
	if req.ApplicationProcess != nil {
		resource.ApplicationProcess = validate.Sanitize(*req.ApplicationProcess)
	}
	if req.RequiredDocuments != nil {
		resource.RequiredDocuments = datatypes.JSON(req.RequiredDocuments)
	}
	if req.Capacity != nil {
		resource.Capacity = *req.Capacity
	}
	if req.Availability != nil {
		resource.Availability = datatypes.JSON(req.Availability)
	}
	if req.StartDate != nil {
		start, err := parseDateField(*req.StartDate, "start_date")
		if err != nil {
			return err
		}
		resource.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDateField(*req.EndDate, "end_date")
		if err != nil {
			return err
		}
		resource.EndDate = end
	}

	return nil
}

// @Summary List resources
// @Description List active resources within their date window, with category
// and free-text search filters
// @Tags resources
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Param category query string false "Filter by category"
// @Param search query string false "Search in title, description and provider name"
// @Success 200 {object} map[string]interface{}
// @Router /api/resources [get]
func (s *Server) listResources(c *gin.Context) {
	page, perPage := pageParams(c)

	query := s.db.Model(&models.Resource{}).Where("status = ?", models.ResourceStatusActive)

	if category := c.Query("category"); category != "" {
		// Unknown categories are ignored rather than erroring
		if parsed, err := models.ParseResourceCategory(category); err == nil {
			query = query.Where("category = ?", parsed)
		}
	}

	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(provider_name) LIKE LOWER(?)",
			term, term, term,
		)
	}

	// Only show resources inside their availability window
	today := time.Now().UTC().Truncate(24 * time.Hour)
	query = query.Where(
		"(start_date IS NULL OR start_date <= ?) AND (end_date IS NULL OR end_date >= ?)",
		today, today,
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count resources")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var resources []models.Resource
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&resources).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list resources")
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

// @Summary Get resource
// @Description Get a resource. Active resources are public; anything else
// requires a valid bearer token.
// @Tags resources
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/resources/{id} [get]
func (s *Server) getResource(c *gin.Context) {
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

	// Non-active resources are only visible to authenticated users
	if resource.Status != models.ResourceStatusActive {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
			return
		}
		if _, err := auth.ValidateToken(token, auth.TokenTypeAccess); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"resource": resource})
}

// @Summary Create resource
// @Description Create a resource (provider or admin). Provider submissions
// start in pending status; admins may set the status directly.
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ResourceRequest true "Resource fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/resources [post]
func (s *Server) createResource(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	if sessionData.Role != models.RoleProvider && sessionData.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
		return
	}

	var req ResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	if req.Title == nil || req.Description == nil || req.Category == nil || req.ProviderName == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	resource := models.Resource{
		ProviderID: sessionData.UserID,
	}

	if err := applyResourceRequest(&resource, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Providers submit into the review queue. Admin submissions may carry a
	// status and count as already verified.
	resource.Status = models.ResourceStatusPending
	if sessionData.Role == models.RoleAdmin && req.Status != nil {
		status, err := models.ParseResourceStatus(*req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource status"})
			return
		}
		now := time.Now().UTC()
		resource.Status = status
		resource.VerificationDate = &now
		resource.VerifiedBy = sessionData.UserID
	}

	if err := s.db.Create(&resource).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create resource")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.logger.Info().
		Str("resource_id", resource.ID).
		Str("provider_id", sessionData.UserID).
		Str("status", string(resource.Status)).
		Msg("Resource created")

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Resource created successfully",
		"resource": resource,
	})
}

// @Summary Update resource
// @Description Update a resource (owner or admin). Non-admin edits of an
// active resource send it back to pending review.
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Param request body ResourceRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/resources/{id} [put]
func (s *Server) updateResource(c *gin.Context) {
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

	isOwner := resource.ProviderID == sessionData.UserID
	isAdmin := sessionData.Role == models.RoleAdmin

	if !isOwner && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
		return
	}

	var req ResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	if err := applyResourceRequest(&resource, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if isAdmin {
		if req.Status != nil {
			status, err := models.ParseResourceStatus(*req.Status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource status"})
				return
			}
			resource.Status = status

			// Activation counts as verification
			if status == models.ResourceStatusActive {
				now := time.Now().UTC()
				resource.VerificationDate = &now
				resource.VerifiedBy = sessionData.UserID
			}
		}
	} else if resource.Status == models.ResourceStatusActive {
		// Owner edits of a live resource go back through review
		resource.Status = models.ResourceStatusPending
	}

	if err := s.db.Save(&resource).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update resource")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Resource updated successfully",
		"resource": resource,
	})
}

// @Summary Apply for resource
// @Description Submit an application for an active resource. A user can hold
// at most one live application per resource.
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Param request body ApplyRequest true "Application form"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/resources/{id}/apply [post]
func (s *Server) applyToResource(c *gin.Context) {
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

	if resource.Status != models.ResourceStatusActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot apply for inactive resource"})
		return
	}

	// One live application per user and resource
	var existing models.ResourceApplication
	err := s.db.Where("user_id = ? AND resource_id = ? AND status IN ?",
		sessionData.UserID, resource.ID, models.ActiveApplicationStatuses).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "You already have an active application for this resource",
			"application_id": existing.ID,
			"status":         existing.Status,
		})
		return
	}
	if err != gorm.ErrRecordNotFound {
		s.logger.Error().Err(err).Msg("Failed to check existing applications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	needLevel := models.NeedLevelMedium
	if req.NeedLevel != nil {
		parsed, err := models.ParseNeedLevel(*req.NeedLevel)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid need level"})
			return
		}
		needLevel = parsed
	}

	now := time.Now().UTC()
	application := models.ResourceApplication{
		UserID:     sessionData.UserID,
		ResourceID: resource.ID,
		NeedLevel:  needLevel,
		Reason:     validate.Sanitize(req.Reason),
		Notes:      validate.Sanitize(req.Notes),
	}
	if req.ApplicationData != nil {
		application.ApplicationData = datatypes.JSON(req.ApplicationData)
	}
	application.Submit(now)

	if err := s.db.Create(&application).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create application")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.logger.Info().
		Str("application_id", application.ID).
		Str("resource_id", resource.ID).
		Str("user_id", sessionData.UserID).
		Msg("Application submitted")

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application submitted successfully",
		"application": application,
	})
}

// @Summary Get application
// @Description Get an application (applicant, resource provider, or admin)
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/resources/applications/{id} [get]
func (s *Server) getApplication(c *gin.Context) {
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

	// Load the resource separately so the response shape stays flat
	var resource models.Resource
	if err := models.FindByID(s.db, application.ResourceID, &resource); err != nil {
		s.logger.Error().Err(err).Msg("Failed to load resource for application")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	isApplicant := application.UserID == sessionData.UserID
	isProvider := resource.ProviderID == sessionData.UserID
	isAdmin := sessionData.Role == models.RoleAdmin

	if !isApplicant && !isProvider && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": application})
}
