package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Jeremy-Bosire/PovertyLine/internal/config"
	"github.com/Jeremy-Bosire/PovertyLine/internal/logger"
	"github.com/Jeremy-Bosire/PovertyLine/internal/seeds"
	"github.com/Jeremy-Bosire/PovertyLine/internal/server"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	unseed := flag.Bool("unseed", false, "remove seeded development data instead of inserting it")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.For("seed")

	// Going through server.New reuses its migrations, so seeding always
	// targets an up-to-date schema.
	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	db := srv.GetDB()

	if *unseed {
		if err := seeds.Unseed(db, log); err != nil {
			log.Fatal().Err(err).Msg("Unseed failed")
		}
		log.Info().Msg("Development data removed")
		return
	}

	if err := seeds.Seed(db, log); err != nil {
		log.Fatal().Err(err).Msg("Seed failed")
	}
	log.Info().Msg("Development data loaded")
}
