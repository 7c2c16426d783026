// Package main is the entry point for the EcoSense service HTTP server.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sebasr/ecosense-service/internal/advisory"
	"github.com/sebasr/ecosense-service/internal/alert"
	"github.com/sebasr/ecosense-service/internal/cache"
	"github.com/sebasr/ecosense-service/internal/config"
	"github.com/sebasr/ecosense-service/internal/forecast"
	"github.com/sebasr/ecosense-service/internal/logging"
	"github.com/sebasr/ecosense-service/internal/publisher"
	"github.com/sebasr/ecosense-service/internal/server"
	"github.com/sebasr/ecosense-service/internal/simulation"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the process environment still applies
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, logCloser, err := logging.New(cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		_ = logCloser.Close()
		os.Exit(1)
	}
	_ = logCloser.Close()
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	profile := simulation.DefaultProfile()
	if cfg.Simulation.ProfileFile != "" {
		p, err := simulation.LoadProfile(cfg.Simulation.ProfileFile)
		if err != nil {
			return err
		}
		profile = p
		logger.Info("loaded channel profile", "path", cfg.Simulation.ProfileFile)
	}

	engine := simulation.NewEngine(profile, simulation.NewRandomSource(cfg.Simulation.Seed), time.Now)
	history := simulation.NewHistory(cfg.Simulation.HistorySize)
	runner := simulation.NewRunner(cfg.Simulation.StationName, engine, history, cfg.Simulation.Interval, logger)

	var closers []io.Closer

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled() {
		rc, err := cache.NewRedisCache(ctx, cache.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			ReadingTTL:  3 * cfg.Simulation.Interval,
			DialTimeout: 5 * time.Second,
		})
		if err != nil {
			// Redis is optional; run without it rather than refuse to start
			logger.Warn("redis unavailable, continuing without cache", "addr", cfg.Redis.Addr, "error", err)
		} else {
			redisCache = rc
			closers = append(closers, rc)
			runner.AddSink(rc)
			logger.Info("redis cache enabled", "addr", cfg.Redis.Addr)
		}
	}

	if cfg.Kafka.Enabled() {
		kp := publisher.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, runner.Station(), logger)
		closers = append(closers, kp)
		runner.AddSink(kp)
		logger.Info("kafka publisher enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	if cfg.Alert.Enabled() {
		runner.AddSink(alert.NewThresholdSink(cfg.Simulation.StationName, cfg.Alert.AQIThreshold, alert.NewConsoleNotifier(logger)))
	}

	var advisor advisory.Service
	if cfg.Advisory.AdvisoryLive() {
		gemini, err := advisory.NewGeminiService(ctx, cfg.Advisory.APIKey, cfg.Advisory.Model, cfg.Advisory.Timeout, logger)
		if err != nil {
			return err
		}
		advisor = gemini
		if redisCache != nil {
			advisor = advisory.NewCachedService(gemini, redisCache, cfg.Advisory.CacheTTL, logger)
		}
		logger.Info("advisory service enabled", "model", cfg.Advisory.Model)
	} else {
		advisor = advisory.NewFallbackService(cfg.Advisory.FallbackDelay)
		logger.Info("no advisory API key configured, using offline fallback")
	}

	forecastSeed := cfg.Simulation.Seed
	if forecastSeed != 0 {
		forecastSeed++
	}
	forecaster := forecast.NewForecaster(simulation.NewRandomSource(forecastSeed), advisor, cfg.Advisory.Timeout, logger)

	router := server.New(&server.Dependencies{
		Config:     cfg,
		Runner:     runner,
		Forecaster: forecaster,
		Registry:   forecast.NewRegistry(cfg.Forecast.Retention),
		Logger:     logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Analysis long-polls may hold a response for up to 30s
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	runnerCtx, cancelRunner := context.WithCancel(ctx)
	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		runner.Run(runnerCtx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Server.Port, "station", cfg.Simulation.StationName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}

	cancelRunner()
	<-runnerDone

	if err := forecaster.Drain(shutdownCtx); err != nil {
		logger.Warn("pending advisories abandoned", "error", err)
	}

	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Error("error closing resource", "error", err)
		}
	}

	logger.Info("server stopped")
	return runErr
}
