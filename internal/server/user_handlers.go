package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
	"github.com/Jeremy-Bosire/PovertyLine/internal/validate"
)

// UpdateUserRequest carries a partial account update. Pointer fields
// distinguish "absent" from "set to zero value".
type UpdateUserRequest struct {
	Username           *string `json:"username"`
	Email              *string `json:"email"`
	Role               *string `json:"role"`
	IsActive           *bool   `json:"is_active"`
	VerificationStatus *string `json:"verification_status"`
}

// @Summary List users
// @Description List user accounts with optional role filter (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page (max 100)"
// @Param role query string false "Filter by role"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/users [get]
func (s *Server) listUsers(c *gin.Context) {
	sessionData, _ := GetSessionData(c)
	if sessionData == nil || sessionData.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
		return
	}

	page, perPage := pageParams(c)

	query := s.db.Model(&models.User{})

	// Unknown role values are ignored rather than erroring, matching the
	// behavior web clients already rely on
	if roleFilter := c.Query("role"); roleFilter != "" {
		if role, err := models.ParseRole(roleFilter); err == nil {
			query = query.Where("role = ?", role)
		}
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

// @Summary Get user
// @Description Get a user account (self or admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/users/{id} [get]
func (s *Server) getUser(c *gin.Context) {
	userID := c.Param("id")
	sessionData, _ := GetSessionData(c)

	if sessionData == nil || (sessionData.Role != models.RoleAdmin && sessionData.UserID != userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
		return
	}

	var user models.User
	if err := models.FindByID(s.db, userID, &user); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// @Summary Update user
// @Description Update an account. Users may change their own username and
// email; role, active flag and verification status require admin.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/users/{id} [put]
func (s *Server) updateUser(c *gin.Context) {
	userID := c.Param("id")
	sessionData, _ := GetSessionData(c)

	if sessionData == nil || (sessionData.Role != models.RoleAdmin && sessionData.UserID != userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
		return
	}

	var user models.User
	if err := models.FindByID(s.db, userID, &user); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	if req.Username != nil {
		user.Username = validate.Sanitize(*req.Username)
	}
	if req.Email != nil {
		user.Email = validate.Sanitize(*req.Email)
	}

	// Admin-only fields
	if sessionData.Role == models.RoleAdmin {
		if req.Role != nil {
			role, err := models.ParseRole(*req.Role)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
				return
			}
			user.Role = role
		}

		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}

		if req.VerificationStatus != nil {
			status, err := models.ParseVerificationStatus(*req.VerificationStatus)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification status"})
				return
			}
			user.VerificationStatus = status
		}
	}

	if err := s.db.Save(&user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("updated_by", sessionData.UserID).
		Msg("User updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

// @Summary Delete user
// @Description Delete a user account (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/users/{id} [delete]
func (s *Server) deleteUser(c *gin.Context) {
	userID := c.Param("id")
	sessionData, _ := GetSessionData(c)

	if sessionData == nil || sessionData.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
		return
	}

	var user models.User
	if err := models.FindByID(s.db, userID, &user); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := s.db.Delete(&user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("deleted_by", sessionData.UserID).
		Msg("User deleted")

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
