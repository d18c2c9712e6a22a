package main

import (
	"log"
	"net/http"
	"os"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"

	"github.com/Jeremy-Bosire/PovertyLine/internal/config"
)

// Serves the Asynqmon dashboard for inspecting sweep queues during development.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	h := asynqmon.New(asynqmon.Options{
		RootPath:     "/asynqmon",
		RedisConnOpt: asynq.RedisClientOpt{Addr: cfg.Redis.Address},
	})

	addr := ":" + envOr("ASYNQMON_PORT", "8090")
	log.Printf("Asynqmon listening on %s (redis %s)", addr, cfg.Redis.Address)
	log.Fatal(http.ListenAndServe(addr, h))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
