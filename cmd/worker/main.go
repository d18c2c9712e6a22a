package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/Jeremy-Bosire/PovertyLine/internal/config"
	"github.com/Jeremy-Bosire/PovertyLine/internal/logger"
	"github.com/Jeremy-Bosire/PovertyLine/internal/server"
	"github.com/Jeremy-Bosire/PovertyLine/internal/tasks"
	"github.com/Jeremy-Bosire/PovertyLine/internal/workers"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.For("worker")

	log.Info().Str("version", version).Msg("Starting PovertyLine worker")

	// server.New owns the migrations; sharing its database setup means a
	// sweep never runs against an outdated schema.
	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	db := srv.GetDB()

	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	// Handlers use the client to chain follow-up tasks.
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	asynqServer := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
		Logger: &asynqLogger{log: log},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeResourceExpirySweep, func(ctx context.Context, t *asynq.Task) error {
		return workers.HandleResourceExpirySweep(ctx, t, asynqClient, db, log)
	})
	mux.HandleFunc(tasks.TypeApplicationExpirySweep, func(ctx context.Context, t *asynq.Task) error {
		return workers.HandleApplicationExpirySweep(ctx, t, db, log)
	})

	// Enqueues an expiry sweep whenever the configured cron schedule fires.
	go workers.StartSweepScheduler(asynqClient, cfg.Worker.ExpirySweepSchedule, log)

	go func() {
		if err := asynqServer.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("Asynq worker server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down, waiting for in-flight sweeps...")
	asynqServer.Shutdown()
	log.Info().Msg("Worker stopped")
}

// asynqLogger adapts zerolog to asynq's logging interface.
type asynqLogger struct {
	log zerolog.Logger
}

func (l *asynqLogger) Debug(args ...interface{}) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
