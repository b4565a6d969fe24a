package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonathan/geo-prospector/internal/config"
	"github.com/jonathan/geo-prospector/internal/credentials"
	"github.com/jonathan/geo-prospector/internal/db"
	"github.com/jonathan/geo-prospector/internal/events"
	"github.com/jonathan/geo-prospector/internal/logging"
	"github.com/jonathan/geo-prospector/internal/places"
	"github.com/jonathan/geo-prospector/internal/prospect"
	"github.com/jonathan/geo-prospector/internal/storage"
)

// store is what the orchestrator and credential resolver need from Postgres.
type store interface {
	prospect.Store
	credentials.StatusStore
}

// app holds the wired components for one command invocation.
type app struct {
	cfg          *config.Config
	logger       *slog.Logger
	orchestrator *prospect.Orchestrator
	closers      []func() error
}

// loadApp loads configuration, connects to Postgres and wires the
// orchestrator. requireDB makes a missing DATABASE_URL an error; otherwise a
// missing URL leaves credential status unrecorded.
func loadApp(ctx context.Context, requireDB bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if requireDB {
		if err := cfg.RequireDatabase(); err != nil {
			return nil, err
		}
	}
	logger := logging.New(cfg.Log.Level)
	a := &app{cfg: cfg, logger: logger}

	var st store
	if cfg.Database.URL != "" {
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { database.Close(); return nil })
		if err := database.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		st = database
	}

	deps, err := buildDeps(cfg, st, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	if c, ok := deps.Publisher.(io.Closer); ok {
		a.closers = append(a.closers, c.Close)
	}
	a.orchestrator = prospect.NewOrchestrator(deps, prospectOptions(cfg))
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", "error", err)
		}
	}
	a.closers = nil
}

// buildDeps wires the orchestrator collaborators. st may be nil.
func buildDeps(cfg *config.Config, st store, logger *slog.Logger) (prospect.Deps, error) {
	var statusStore credentials.StatusStore
	if st != nil {
		statusStore = st
	}
	resolver := credentials.NewResolver(cfg.Places.APIKeyEnv, cfg.Places.SecretName, statusStore, logger)
	validator := prospect.NewValidator(resolver, placesFactory(cfg.Places), cfg.Places.ProbeRadiusM, logger)

	deps := prospect.Deps{
		Validator: validator,
		Logger:    logger,
	}
	if st != nil {
		deps.Store = st
	}
	if cfg.Kafka.Enabled() {
		deps.Publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	}
	if cfg.Archive.Enabled() {
		archive, err := storage.NewMinioArchive(storage.Options{
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			Region:    cfg.Archive.Region,
			UseSSL:    cfg.Archive.UseSSL,
		}, logger)
		if err != nil {
			return prospect.Deps{}, fmt.Errorf("failed to create run archive: %w", err)
		}
		deps.Archiver = archive
	}
	return deps, nil
}

// openDatabase loads configuration and connects to the required database.
func openDatabase(ctx context.Context) (*config.Config, *db.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return nil, nil, err
	}
	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	return cfg, database, nil
}

func placesFactory(pc config.PlacesConfig) prospect.PlacesFactory {
	opts := places.Options{
		BaseURL:  pc.BaseURL,
		Language: pc.Language,
		Timeout:  pc.Timeout,
	}
	return func(apiKey string) prospect.PlacesAPI {
		return places.NewClient(apiKey, opts)
	}
}

func prospectOptions(cfg *config.Config) prospect.Options {
	return prospect.Options{
		DefaultCities:     cfg.Prospect.DefaultCities,
		DefaultCategories: cfg.Prospect.DefaultCategories,
		DefaultMaxResults: cfg.Prospect.DefaultMaxResults,
		MaxResultsLimit:   cfg.Prospect.MaxResultsLimit,
		SearchRadiusM:     cfg.Places.SearchRadiusM,
		WriteDelay:        cfg.Prospect.WriteDelay,
		Workers:           cfg.Prospect.Workers,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
