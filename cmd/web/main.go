package main

import (
	"context"
	"os"

	"github.com/indirizzi-api/internal/app"
	"github.com/indirizzi-api/internal/config"
	"github.com/indirizzi-api/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.Env, cfg.LogLevel)

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Bool("libpostal", cfg.UseLibpostal).
		Str("overpass_url", cfg.OverpassURL).
		Msg("starting address normalization service")

	if cfg.APIKey == config.DefaultAPIKey {
		logger.Warn().Msg("API_KEY is the default value, set a real key outside development")
	}

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise service")
	}

	if err := a.Server().Start(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
