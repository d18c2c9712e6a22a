package workers

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Jeremy-Bosire/PovertyLine/internal/tasks"
)

// StartSweepScheduler enqueues a resource expiry sweep on the configured cron
// schedule. It runs one sweep immediately on startup so a worker that was
// down over a window boundary catches up right away.
func StartSweepScheduler(client *asynq.Client, schedule string, logger zerolog.Logger) {
	next := nextSweepTime(schedule, time.Now())
	if next == nil {
		logger.Error().
			Str("schedule", schedule).
			Msg("Invalid sweep schedule, expiry sweeps disabled")
		return
	}

	enqueueExpirySweep(client, logger)

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		if now.Before(*next) {
			continue
		}

		enqueueExpirySweep(client, logger)
		next = nextSweepTime(schedule, now)
	}
}

func enqueueExpirySweep(client *asynq.Client, logger zerolog.Logger) {
	task, err := tasks.NewResourceExpirySweepTask()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create expiry sweep task")
		return
	}

	if _, err := client.Enqueue(task, asynq.Timeout(10*time.Minute)); err != nil {
		logger.Error().Err(err).Msg("Failed to enqueue expiry sweep task")
		return
	}

	logger.Info().Msg("Expiry sweep task enqueued")
}

// nextSweepTime calculates the next sweep time from a cron schedule
// (standard 5-field format: minute hour day-of-month month day-of-week).
func nextSweepTime(cronExpr string, from time.Time) *time.Time {
	if cronExpr == "" {
		return nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return nil
	}

	next := schedule.Next(from)
	return &next
}
