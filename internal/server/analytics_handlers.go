package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
)

type trendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type roleCount struct {
	Role  models.Role `json:"role"`
	Count int64       `json:"count"`
}

type categoryCount struct {
	Category models.ResourceCategory `json:"category"`
	Count    int64                   `json:"count"`
}

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type completionBucket struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

// periodRange maps a trend period to its start time and bucket granularity.
func periodRange(period string, now time.Time) (since time.Time, monthly bool, err error) {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7), false, nil
	case "month":
		return now.AddDate(0, 0, -30), false, nil
	case "year":
		return now.AddDate(0, 0, -365), true, nil
	default:
		return time.Time{}, false, fmt.Errorf("invalid period %q", period)
	}
}

// creationTrend buckets row creation times by calendar day, or by month start
// when monthly is set. Bucketing happens here rather than in SQL so the same
// query works on SQLite and Postgres.
func creationTrend(db *gorm.DB, model interface{}, since time.Time, monthly bool) ([]trendPoint, error) {
	var stamps []time.Time
	if err := db.Model(model).
		Where("created_at >= ?", since).
		Order("created_at").
		Pluck("created_at", &stamps).Error; err != nil {
		return nil, err
	}

	points := []trendPoint{}
	for _, ts := range stamps {
		key := ts.UTC().Format("2006-01-02")
		if monthly {
			key = ts.UTC().Format("2006-01") + "-01"
		}
		// Stamps arrive sorted, so equal keys are adjacent
		if n := len(points); n > 0 && points[n-1].Date == key {
			points[n-1].Count++
			continue
		}
		points = append(points, trendPoint{Date: key, Count: 1})
	}

	return points, nil
}

// @Summary User analytics
// @Description Registration trend plus role, verification and profile
// completion distributions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param period query string false "Trend period: week, month or year" default(week)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/analytics/users [get]
func (s *Server) adminUserAnalytics(c *gin.Context) {
	period := c.DefaultQuery("period", "week")

	since, monthly, err := periodRange(period, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period"})
		return
	}

	registrations, err := creationTrend(s.db, &models.User{}, since, monthly)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build registration trend")
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

	var verification []statusCount
	if err := s.db.Model(&models.User{}).
		Select("verification_status AS status, COUNT(id) AS count").
		Group("verification_status").Order("count DESC").
		Scan(&verification).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to build verification distribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Decade buckets over completion percentage: 0-9%, 10-19%, ... 100-109%
	// (the last bucket only ever holds exactly 100)
	var rawBuckets []struct {
		RangeStart int64
		Count      int64
	}
	if err := s.db.Model(&models.Profile{}).
		Select("(completion_percentage / 10) * 10 AS range_start, COUNT(id) AS count").
		Group("range_start").Order("range_start").
		Scan(&rawBuckets).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to build completion distribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	completion := make([]completionBucket, 0, len(rawBuckets))
	for _, bucket := range rawBuckets {
		completion = append(completion, completionBucket{
			Range: fmt.Sprintf("%d-%d%%", bucket.RangeStart, bucket.RangeStart+9),
			Count: bucket.Count,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"trends": gin.H{
			"registrations": registrations,
		},
		"distributions": gin.H{
			"roles":               roles,
			"verification_status": verification,
			"profile_completion":  completion,
		},
	})
}

// @Summary Resource analytics
// @Description Resource creation trend plus category, status and application
// status distributions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param period query string false "Trend period: week, month or year" default(week)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/analytics/resources [get]
func (s *Server) adminResourceAnalytics(c *gin.Context) {
	period := c.DefaultQuery("period", "week")

	since, monthly, err := periodRange(period, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period"})
		return
	}

	creations, err := creationTrend(s.db, &models.Resource{}, since, monthly)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build creation trend")
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

	var statuses []statusCount
	if err := s.db.Model(&models.Resource{}).
		Select("status, COUNT(id) AS count").
		Group("status").Order("count DESC").
		Scan(&statuses).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to build status distribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var applicationStatuses []statusCount
	if err := s.db.Model(&models.ResourceApplication{}).
		Select("status, COUNT(id) AS count").
		Group("status").Order("count DESC").
		Scan(&applicationStatuses).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to build application status distribution")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trends": gin.H{
			"creations": creations,
		},
		"distributions": gin.H{
			"categories":           categories,
			"statuses":             statuses,
			"application_statuses": applicationStatuses,
		},
	})
}
