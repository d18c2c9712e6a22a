package main

import (
	"fmt"
	"os"

	"github.com/Jeremy-Bosire/PovertyLine/internal/config"
	"github.com/Jeremy-Bosire/PovertyLine/internal/logger"
	"github.com/Jeremy-Bosire/PovertyLine/internal/server"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.For("api")

	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().
		Str("version", version).
		Str("addr", cfg.Server.ListenAddr).
		Str("database", cfg.Database.Driver).
		Msg("Starting PovertyLine API")

	// Blocks until shutdown completes.
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
