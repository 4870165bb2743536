package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/aipulse/aipulse/internal/api"
	"github.com/aipulse/aipulse/internal/auth"
	"github.com/aipulse/aipulse/internal/config"
	"github.com/aipulse/aipulse/internal/consensus"
	"github.com/aipulse/aipulse/internal/database"
	"github.com/aipulse/aipulse/internal/logging"
	"github.com/aipulse/aipulse/internal/metrics"
	"github.com/aipulse/aipulse/internal/scheduler"
	"github.com/aipulse/aipulse/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting aipulse")

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.Database.URL

	logger.Info("connecting to database")
	db, err := database.Connect(context.Background(), dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database connected")

	// Run pending migrations (non-fatal to allow app to start even if migrations fail)
	if err := database.RunMigrations(db, "./migrations", logger); err != nil {
		logger.Warn("failed to run migrations, continuing anyway", "error", err)
	}

	articleRepo := database.NewArticleRepository(db)
	forecastRepo := database.NewForecastRepository(db)

	// Curated scenarios: external file when configured, built-ins otherwise
	var library *consensus.CuratedScenarioLibrary
	if cfg.Forecast.ScenarioFile != "" {
		library, err = consensus.LoadScenarioLibrary(cfg.Forecast.ScenarioFile)
		if err != nil {
			logger.Error("failed to load scenario library", "file", cfg.Forecast.ScenarioFile, "error", err)
			os.Exit(1)
		}
		logger.Info("loaded scenario library", "file", cfg.Forecast.ScenarioFile, "version", library.Version)
	} else {
		library = consensus.DefaultScenarioLibrary()
	}

	collector, err := metrics.NewHTTPCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	forecastCollector, err := metrics.NewForecastCollector(collector)
	if err != nil {
		logger.Error("failed to init forecast metrics", "error", err)
		os.Exit(1)
	}

	params := consensus.DefaultParams()
	params.MaxCategories = cfg.Forecast.MaxCategories
	params.MaxIndex = cfg.Forecast.MaxIndex
	params.NarrowSpreadThreshold = cfg.Forecast.NarrowSpreadThreshold
	params.WideSpreadThreshold = cfg.Forecast.WideSpreadThreshold
	params.MinCountForNarrowBand = cfg.Forecast.MinCountForNarrowBand
	params.MinCountForStatisticalOutliers = cfg.Forecast.MinCountForStatisticalOutliers

	engine := consensus.NewEngine(articleRepo, library, params, logger, forecastCollector)

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.HealthCheck(r.Context(), db); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", collector.Handler())

	authConfig := auth.LoadConfigFromEnv()
	logger.Info("auth configured", "jwt_secret_set", authConfig.JWTSecret != "change-this-secret")

	logger.Info("setting up REST API")
	api.SetupRoutes(mux, engine, articleRepo, forecastRepo, authConfig, logger)

	// Snapshot precompute loop
	forecastScheduler := scheduler.NewForecastScheduler(
		engine,
		forecastRepo,
		cfg.Forecast.Topics,
		cfg.Forecast.Timeframes,
		cfg.Forecast.ScheduleInterval,
		logger,
	)
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	go forecastScheduler.Start(schedulerCtx)

	srv := server.New(cfg.Server, logger, collector.InstrumentHandler(mux))

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("aipulse started successfully")
	logger.Info("API available", "url", fmt.Sprintf("http://localhost:%s", cfg.Server.Port))

	waitForSignal(logger)

	logger.Info("shutting down")
	forecastScheduler.Stop()
	cancelScheduler()
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

func waitForSignal(logger *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	logger.Info("received signal", "signal", sig.String())
	signal.Stop(c)
	close(c)
}
