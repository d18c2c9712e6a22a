package server

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Bosire/PovertyLine/internal/anonymize"
	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
)

var userExportColumns = []string{
	"id", "username", "email", "role", "verification_status", "is_active",
	"created_at", "updated_at",
}

var resourceExportColumns = []string{
	"id", "title", "category", "provider_id", "provider_name", "status",
	"capacity", "start_date", "end_date", "verification_date", "created_at",
}

// exportRows flattens models into generic rows through their JSON encoding,
// so exports see exactly the fields the API exposes.
func exportRows(records interface{}) ([]map[string]interface{}, error) {
	encoded, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export records: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(encoded, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode export records: %w", err)
	}

	return rows, nil
}

func csvCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		// JSON numbers decode as float64; render integers without a fraction
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func writeCSV(c *gin.Context, filename string, columns []string, rows []map[string]interface{}) error {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(columns); err != nil {
		return err
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, column := range columns {
			record[i] = csvCell(row[column])
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func (s *Server) respondExport(c *gin.Context, records interface{}, rules []anonymize.Rule, filename string, columns []string) {
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid export format"})
		return
	}

	rows, err := exportRows(records)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to prepare export rows")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if c.Query("anonymize") == "true" {
		rewritten := anonymize.Apply(rows, rules)
		s.logger.Info().
			Int("rows", len(rows)).
			Int("rewritten", rewritten).
			Str("export", filename).
			Msg("Export anonymized")
	}

	if format == "csv" {
		if err := writeCSV(c, filename, columns, rows); err != nil {
			s.logger.Error().Err(err).Msg("Failed to write CSV export")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      rows,
		"count":     len(rows),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// @Summary Export users
// @Description Export all users as JSON or CSV, optionally anonymized
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param format query string false "Export format: json or csv" default(json)
// @Param anonymize query bool false "Mask identifying fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/export/users [get]
func (s *Server) adminExportUsers(c *gin.Context) {
	var users []models.User
	if err := s.db.Order("created_at").Find(&users).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to load users for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.respondExport(c, users, anonymize.UserRules, "users.csv", userExportColumns)
}

// @Summary Export resources
// @Description Export all resources as JSON or CSV, optionally anonymized
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param format query string false "Export format: json or csv" default(json)
// @Param anonymize query bool false "Mask identifying fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/export/resources [get]
func (s *Server) adminExportResources(c *gin.Context) {
	var resources []models.Resource
	if err := s.db.Order("created_at").Find(&resources).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to load resources for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.respondExport(c, resources, anonymize.ResourceRules, "resources.csv", resourceExportColumns)
}
