package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
	"github.com/Jeremy-Bosire/PovertyLine/internal/validate"
)

// ProfileRequest carries profile fields for create and partial update.
// Pointer and RawMessage fields distinguish "absent" from "set to empty".
type ProfileRequest struct {
	FirstName           *string         `json:"first_name"`
	LastName            *string         `json:"last_name"`
	DateOfBirth         *string         `json:"date_of_birth"` // YYYY-MM-DD
	Gender              *string         `json:"gender"`
	PhoneNumber         *string         `json:"phone_number"`
	Address             json.RawMessage `json:"address"`
	LocationCoordinates json.RawMessage `json:"location_coordinates"`
	EducationLevel      *string         `json:"education_level"`
	EducationHistory    json.RawMessage `json:"education_history"`
	EmploymentStatus    *string         `json:"employment_status"`
	EmploymentHistory   json.RawMessage `json:"employment_history"`
	Skills              json.RawMessage `json:"skills"`
	HealthInformation   json.RawMessage `json:"health_information"`
	IncomeLevel         *float64        `json:"income_level"`
	HouseholdSize       *int            `json:"household_size"`
	Dependents          *int            `json:"dependents"`
	Needs               json.RawMessage `json:"needs"`
	PrivacySettings     json.RawMessage `json:"privacy_settings"`
}

// applyProfileRequest copies the fields present in the request onto the
// profile, sanitizing free text and parsing enums and dates.
func applyProfileRequest(profile *models.Profile, req *ProfileRequest) error {
	if req.FirstName != nil {
		profile.FirstName = validate.Sanitize(*req.FirstName)
	}
	if req.LastName != nil {
		profile.LastName = validate.Sanitize(*req.LastName)
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return fmt.Errorf("Invalid date_of_birth format, expected YYYY-MM-DD")
		}
		profile.DateOfBirth = &dob
	}
	if req.Gender != nil {
		profile.Gender = validate.Sanitize(*req.Gender)
	}
	if req.PhoneNumber != nil {
		profile.PhoneNumber = validate.Sanitize(*req.PhoneNumber)
	}
	if req.Address != nil {
		profile.Address = datatypes.JSON(req.Address)
	}
	if req.LocationCoordinates != nil {
		profile.LocationCoordinates = datatypes.JSON(req.LocationCoordinates)
	}
	if req.EducationLevel != nil {
		level, err := models.ParseEducationLevel(*req.EducationLevel)
		if err != nil {
			return fmt.Errorf("Invalid education level")
		}
		profile.EducationLevel = level
	}
	if req.EducationHistory != nil {
		profile.EducationHistory = datatypes.JSON(req.EducationHistory)
	}
	if req.EmploymentStatus != nil {
		status, err := models.ParseEmploymentStatus(*req.EmploymentStatus)
		if err != nil {
			return fmt.Errorf("Invalid employment status")
		}
		profile.EmploymentStatus = status
	}
	if req.EmploymentHistory != nil {
		profile.EmploymentHistory = datatypes.JSON(req.EmploymentHistory)
	}
	if req.Skills != nil {
		profile.Skills = datatypes.JSON(req.Skills)
	}
	if req.HealthInformation != nil {
		profile.HealthInformation = datatypes.JSON(req.HealthInformation)
	}
	if req.IncomeLevel != nil {
		profile.IncomeLevel = *req.IncomeLevel
	}
	if req.HouseholdSize != nil {
		profile.HouseholdSize = *req.HouseholdSize
	}
	if req.Dependents != nil {
		profile.Dependents = *req.Dependents
	}
	if req.Needs != nil {
		profile.Needs = datatypes.JSON(req.Needs)
	}
	if req.PrivacySettings != nil {
		profile.PrivacySettings = datatypes.JSON(req.PrivacySettings)
	}

	return nil
}

// @Summary Create profile
// @Description Create the authenticated user's profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/profiles [post]
func (s *Server) createProfile(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	// One profile per user
	var existing models.Profile
	err := s.db.Where("user_id = ?", sessionData.UserID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already has a profile"})
		return
	}
	if err != gorm.ErrRecordNotFound {
		s.logger.Error().Err(err).Msg("Failed to check existing profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	if req.PhoneNumber != nil && !validate.Phone(*req.PhoneNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number format"})
		return
	}

	profile := models.Profile{
		UserID:           sessionData.UserID,
		EducationLevel:   models.EducationNone,
		EmploymentStatus: models.EmploymentUnemployed,
		HouseholdSize:    1,
	}

	if err := applyProfileRequest(&profile, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile.CalculateCompletion()

	if err := s.db.Create(&profile).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.logger.Info().
		Str("profile_id", profile.ID).
		Str("user_id", sessionData.UserID).
		Int("completion", profile.CompletionPercentage).
		Msg("Profile created")

	c.JSON(http.StatusCreated, gin.H{
		"message": "Profile created successfully",
		"profile": profile,
	})
}

// @Summary Get my profile
// @Description Get the authenticated user's profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/profiles/me [get]
func (s *Server) getMyProfile(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var profile models.Profile
	if err := s.db.Where("user_id = ?", sessionData.UserID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// @Summary Update my profile
// @Description Update the authenticated user's profile and recompute completion
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/profiles/me [put]
func (s *Server) updateMyProfile(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var profile models.Profile
	if err := s.db.Where("user_id = ?", sessionData.UserID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found, create one first"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	if req.PhoneNumber != nil && !validate.Phone(*req.PhoneNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number format"})
		return
	}

	if err := applyProfileRequest(&profile, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile.CalculateCompletion()

	if err := s.db.Save(&profile).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// @Summary Get profile
// @Description Get a profile by ID (owner or admin)
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/profiles/{id} [get]
func (s *Server) getProfile(c *gin.Context) {
	profileID := c.Param("id")
	sessionData, _ := GetSessionData(c)

	var profile models.Profile
	if err := models.FindByID(s.db, profileID, &profile); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to load profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if profile.UserID != sessionData.UserID && sessionData.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
