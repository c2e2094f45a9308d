package main

import (
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/vkazmin/huddle/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	srv, err := NewServer(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("server setup failed")
	}

	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server run error")
	}
}
