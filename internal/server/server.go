// Package server provides HTTP server setup and configuration.
package server

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sebasr/ecosense-service/internal/auth"
	"github.com/sebasr/ecosense-service/internal/config"
	"github.com/sebasr/ecosense-service/internal/forecast"
	"github.com/sebasr/ecosense-service/internal/handlers"
	"github.com/sebasr/ecosense-service/internal/middleware"
	"github.com/sebasr/ecosense-service/internal/simulation"
)

// Dependencies holds all dependencies needed to create a server
type Dependencies struct {
	Config     *config.Config
	Runner     *simulation.Runner
	Forecaster *forecast.Forecaster
	Registry   *forecast.Registry
	Logger     *slog.Logger // Optional: slog.Default() when nil
}

// New creates a new Gin router with all routes configured
func New(deps *Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Use gin.New() instead of gin.Default() to have explicit control over middleware
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Encoding", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Location", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger, "/api/v1/health", "/metrics"))
	router.Use(middleware.Metrics())
	router.Use(middleware.NewRateLimitMiddleware())
	router.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithDecompressFn(gzip.DefaultDecompressHandle),
		gzip.WithExcludedPaths([]string{"/metrics"}),
	))

	// Operator auth is only enforced when a signing secret is configured
	authMiddleware := middleware.NewAuthMiddleware(nil)
	if deps.Config.Auth.Enabled() {
		authMiddleware = middleware.NewAuthMiddleware(auth.NewJWTService(deps.Config.Auth.JWTSecret, deps.Config.Auth.TokenTTL))
	}
	forecastRateLimiter := middleware.NewForecastRateLimitMiddleware()

	engine := deps.Runner.Engine()
	readingsHandler := handlers.NewReadingsHandler(engine, deps.Runner.History(), deps.Runner)
	forecastHandler := handlers.NewForecastHandler(deps.Forecaster, deps.Registry, engine)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.NewHealthHandler(deps.Forecaster.AdvisorySource()))
		v1.GET("/station", readingsHandler.Station)

		readings := v1.Group("/readings")
		{
			readings.GET("/current", readingsHandler.Current)
			readings.GET("/history", readingsHandler.History)
		}

		aqiGroup := v1.Group("/aqi")
		{
			aqiGroup.GET("/levels", handlers.AQILevels)
			aqiGroup.GET("/classify", handlers.ClassifyAQI)
		}

		// Forecast routes (protected when auth is enabled, creation rate limited harder)
		forecasts := v1.Group("/forecasts")
		forecasts.Use(authMiddleware.Required())
		{
			forecasts.POST("", forecastRateLimiter, forecastHandler.Create)
			forecasts.GET("/:id", forecastHandler.Get)
			forecasts.GET("/:id/analysis", forecastHandler.Analysis)
		}
	}

	return router
}
