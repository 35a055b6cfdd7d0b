// Package app wires configuration, the lookup table and the pipeline
// collaborators into a runnable server. Both binaries share it.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/indirizzi-api/internal/capdata"
	"github.com/indirizzi-api/internal/config"
	"github.com/indirizzi-api/internal/db"
	"github.com/indirizzi-api/internal/normalize"
	"github.com/indirizzi-api/internal/osm"
	"github.com/indirizzi-api/internal/parser"
	"github.com/indirizzi-api/internal/symspell"
	"github.com/indirizzi-api/internal/telemetry"
	"github.com/indirizzi-api/internal/validation"
	"github.com/indirizzi-api/internal/web"
)

// App holds the long-lived service components
type App struct {
	Config   *config.Config
	Table    *capdata.Table
	Service  *normalize.Service
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

// New loads the lookup table and assembles the pipeline. It only fails when
// neither Postgres nor the CSV file yields a usable table.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	table, err := LoadTable(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewBusinessMetrics(reg, "indirizzi")

	opts := []normalize.Option{
		normalize.WithMetrics(metrics),
		normalize.WithLogger(logger),
	}
	if cfg.CitySpellcheck {
		spell := symspell.DefaultConfig()
		if d := cfg.CitySpellcheckMaxDistance; d > 0 && d <= 3 {
			spell.MaxEditDistance = d
		}
		speller := symspell.NewCitySpeller(table, spell)
		stats := speller.Stats()
		logger.Info().Int("terms", stats.TermCount).Int("deletes", stats.DeleteCount).Msg("comune spellcheck enabled")
		opts = append(opts, normalize.WithCitySpeller(speller))
	}

	svc := normalize.NewService(
		NewParser(cfg.UseLibpostal, logger),
		validation.NewPostcodeValidator(table),
		NewStreetChecker(cfg, logger),
		opts...,
	)

	return &App{
		Config:   cfg,
		Table:    table,
		Service:  svc,
		Registry: reg,
		Logger:   logger,
	}, nil
}

// Server builds the HTTP server around the pipeline
func (a *App) Server() *web.Server {
	return web.NewServer(
		web.ConfigFrom(a.Config),
		a.Service,
		web.WithLogger(a.Logger),
		web.WithMetrics(web.NewMetrics(a.Registry)),
	)
}

// LoadTable reads the lookup table from Postgres when CAP_DATABASE_URL is
// set, falling back to the CSV file on any database error.
func LoadTable(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*capdata.Table, error) {
	if cfg.CAPDatabaseURL != "" {
		table, err := loadFromDatabase(ctx, cfg.CAPDatabaseURL)
		if err == nil {
			logger.Info().Int("postcodes", table.Len()).Msg("lookup table loaded from database")
			return table, nil
		}
		logger.Warn().Err(err).Msg("lookup table database unavailable, falling back to CSV")
	}

	table, err := capdata.LoadCSV(cfg.CAPDataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load lookup table: %w", err)
	}
	if table.Len() == 0 {
		logger.Warn().Str("path", cfg.CAPDataPath).Msg("lookup table is empty, every postcode check will fail")
	} else {
		logger.Info().Str("path", cfg.CAPDataPath).Int("postcodes", table.Len()).Msg("lookup table loaded")
	}
	return table, nil
}

func loadFromDatabase(ctx context.Context, url string) (*capdata.Table, error) {
	conn, err := db.NewConnection(ctx, url)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return capdata.LoadPostgres(ctx, conn.DB)
}

// NewParser returns the fallback chain, with libpostal as primary when it is
// enabled and compiled in.
func NewParser(useLibpostal bool, logger zerolog.Logger) *parser.Chain {
	if !useLibpostal {
		return parser.NewChain(nil, logger)
	}
	lp, err := parser.NewLibpostal()
	if err != nil {
		if errors.Is(err, parser.ErrUnavailable) {
			logger.Info().Msg("libpostal not available, using regex parser")
		} else {
			logger.Warn().Err(err).Msg("libpostal failed to initialise, using regex parser")
		}
		return parser.NewChain(nil, logger)
	}
	return parser.NewChain(lp, logger)
}

// NewStreetChecker returns the Overpass client for the configured endpoint
func NewStreetChecker(cfg *config.Config, logger zerolog.Logger) *osm.Client {
	return osm.NewClient(cfg.OverpassURL,
		osm.WithTimeout(cfg.OverpassTimeout),
		osm.WithQueryTimeout(cfg.OverpassQueryTimeout),
		osm.WithLogger(logger),
	)
}
