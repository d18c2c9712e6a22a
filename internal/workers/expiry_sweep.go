package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
	"github.com/Jeremy-Bosire/PovertyLine/internal/tasks"
)

// HandleResourceExpirySweep expires active resources whose end date has
// passed, then enqueues a per-resource application sweep for each one so open
// applications don't linger against a dead resource.
func HandleResourceExpirySweep(ctx context.Context, t *asynq.Task, client *asynq.Client, db *gorm.DB, logger zerolog.Logger) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	var expiredIDs []string
	if err := db.WithContext(ctx).Model(&models.Resource{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", models.ResourceStatusActive, today).
		Pluck("id", &expiredIDs).Error; err != nil {
		return fmt.Errorf("failed to find expired resources: %w", err)
	}

	if len(expiredIDs) == 0 {
		logger.Debug().Msg("No resources past their end date")
		return nil
	}

	result := db.WithContext(ctx).Model(&models.Resource{}).
		Where("id IN ?", expiredIDs).
		Update("status", models.ResourceStatusExpired)
	if result.Error != nil {
		return fmt.Errorf("failed to expire resources: %w", result.Error)
	}

	logger.Info().
		Int64("expired", result.RowsAffected).
		Msg("Expired resources past their end date")

	// Chain an application sweep per expired resource. A failed enqueue only
	// delays cleanup until the next sweep, so log and keep going.
	for _, resourceID := range expiredIDs {
		task, err := tasks.NewApplicationExpirySweepTask(resourceID)
		if err != nil {
			logger.Error().Err(err).
				Str("resource_id", resourceID).
				Msg("Failed to create application sweep task")
			continue
		}

		if _, err := client.Enqueue(task, asynq.Queue("low")); err != nil {
			logger.Error().Err(err).
				Str("resource_id", resourceID).
				Msg("Failed to enqueue application sweep task")
		}
	}

	return nil
}

// HandleApplicationExpirySweep expires the draft and submitted applications
// of one expired resource. Applications that already carry a review decision
// keep their status.
func HandleApplicationExpirySweep(ctx context.Context, t *asynq.Task, db *gorm.DB, logger zerolog.Logger) error {
	payload, err := tasks.ParseTaskPayload(t)
	if err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}
	if payload.ResourceID == "" {
		return fmt.Errorf("application sweep task missing resource id")
	}

	result := db.WithContext(ctx).Model(&models.ResourceApplication{}).
		Where("resource_id = ? AND status IN ?", payload.ResourceID, []models.ApplicationStatus{
			models.ApplicationStatusDraft,
			models.ApplicationStatusSubmitted,
		}).
		Update("status", models.ApplicationStatusExpired)
	if result.Error != nil {
		return fmt.Errorf("failed to expire applications: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		logger.Info().
			Str("resource_id", payload.ResourceID).
			Int64("expired", result.RowsAffected).
			Msg("Expired open applications for expired resource")
	}

	return nil
}
