package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"daily-meal-planner/internal/app"
	"daily-meal-planner/internal/config"
	"daily-meal-planner/internal/database"
	"daily-meal-planner/internal/food"
	"daily-meal-planner/internal/logging"
	"daily-meal-planner/internal/metrics"
	"daily-meal-planner/internal/planner"
	"daily-meal-planner/internal/report"
)

// env is what every command starts from: configuration, a logger and the
// database.
type env struct {
	cfg    *config.Config
	logger zerolog.Logger
	db     *database.DB
}

func newEnv() (*env, error) {
	if err := config.LoadDotEnv(os.Getenv("MEAL_PLANNER_ENV_FILE")); err != nil {
		return nil, err
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger := logging.New(level, os.Stderr)

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

// source picks the catalog: the configured YAML file, then the database when
// it holds any items, then the built-in catalog. With watch set a file
// source is reloaded on change; the returned closer stops the watcher.
func (e *env) source(ctx context.Context, watch bool) (food.Source, func() error, error) {
	noop := func() error { return nil }

	if path := e.cfg.CatalogPath; path != "" {
		if !watch {
			return food.NewFileSource(path), noop, nil
		}
		ws, err := food.NewWatchedSource(ctx, path, e.logger)
		if err != nil {
			return nil, nil, err
		}
		return ws, ws.Close, nil
	}

	repo := food.NewRepository(e.db.SQL)
	n, err := repo.Count(ctx)
	if err != nil {
		return nil, nil, err
	}
	if n > 0 {
		e.logger.Debug().Int("items", n).Msg("using catalog from database")
		return repo, noop, nil
	}
	return food.NewFileSource(""), noop, nil
}

func (e *env) defaultTargets() planner.Targets {
	return planner.Targets{
		CarbRatio:    e.cfg.CarbRatio,
		ProteinRatio: e.cfg.ProteinRatio,
		FatRatio:     e.cfg.FatRatio,
	}
}

func (e *env) newApp(source food.Source, formatter report.Formatter, labels report.Labels) *app.App {
	return app.NewApp(source, formatter, e.logger,
		app.WithDefaultTargets(e.defaultTargets()),
		app.WithLabels(labels),
		app.WithRunRecorder(metrics.NewStore(e.db.SQL)),
	)
}
