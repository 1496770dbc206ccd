package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daily-meal-planner/internal/app"
	"daily-meal-planner/internal/config"
	"daily-meal-planner/internal/database"
	"daily-meal-planner/internal/food"
	"daily-meal-planner/internal/logging"
	"daily-meal-planner/internal/metrics"
	"daily-meal-planner/internal/planner"
	"daily-meal-planner/internal/report"
	"daily-meal-planner/internal/telegram"
)

func main() {
	// 1. Load Configuration
	if err := config.LoadDotEnv(os.Getenv("MEAL_PLANNER_ENV_FILE")); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load env file: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(level, os.Stderr)

	if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
		logger.Fatal().Msg("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Infrastructure
	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	var source food.Source = food.NewFileSource("")
	if cfg.CatalogPath != "" {
		ws, err := food.NewWatchedSource(ctx, cfg.CatalogPath, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load catalog")
		}
		defer ws.Close()
		source = ws
	} else if n, err := food.NewRepository(db.SQL).Count(ctx); err == nil && n > 0 {
		source = food.NewRepository(db.SQL)
	}

	metricsStore := metrics.NewStore(db.SQL)

	// 3. Initialize Services
	text, err := report.NewTextFormatter(cfg.Locale)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid report locale")
	}
	mealPlanner := app.NewApp(source, text, logger,
		app.WithDefaultTargets(planner.Targets{CarbRatio: cfg.CarbRatio, ProteinRatio: cfg.ProteinRatio, FatRatio: cfg.FatRatio}),
		app.WithLabels(text.Labels),
		app.WithRunRecorder(metricsStore),
	)

	// 4. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, mealPlanner, metricsStore, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize Telegram Bot")
	}

	// 5. Start Server with Graceful Shutdown
	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Port).Msg("telegram bot server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server exiting")
}
