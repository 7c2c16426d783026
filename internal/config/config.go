// Package config provides configuration management for the EcoSense service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Validation errors
var (
	ErrInvalidInterval    = errors.New("SIMULATION_INTERVAL must be positive")
	ErrInvalidHistorySize = errors.New("SIMULATION_HISTORY_SIZE must be positive")
	ErrInvalidRetention   = errors.New("FORECAST_RETENTION must be positive")
	ErrInvalidTokenTTL    = errors.New("AUTH_TOKEN_TTL must be positive when AUTH_JWT_SECRET is set")
	ErrMissingTopic       = errors.New("KAFKA_READINGS_TOPIC is required when KAFKA_BROKERS is set")
	ErrInvalidThreshold   = errors.New("ALERT_AQI_THRESHOLD must not be negative")
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Advisory   AdvisoryConfig
	Forecast   ForecastConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Auth       AuthConfig
	Alert      AlertConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
}

// SimulationConfig holds the telemetry engine configuration
type SimulationConfig struct {
	StationName string
	Interval    time.Duration
	HistorySize int
	Seed        uint64 // 0 picks a random seed
	ProfileFile string // optional YAML channel profile
}

// AdvisoryConfig holds the advisory service configuration
type AdvisoryConfig struct {
	APIKey        string // empty selects the offline fallback
	Model         string
	Timeout       time.Duration
	FallbackDelay time.Duration
	CacheTTL      time.Duration
}

// ForecastConfig holds forecast registry configuration
type ForecastConfig struct {
	Retention int
}

// RedisConfig holds the optional Redis connection
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds the optional Kafka reading sink
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// AuthConfig holds operator authentication configuration
type AuthConfig struct {
	JWTSecret string // empty disables authentication on forecast routes
	TokenTTL  time.Duration
}

// AlertConfig holds the pollution alert notifier configuration
type AlertConfig struct {
	AQIThreshold int // 0 disables alerts
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
	Path  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Simulation: SimulationConfig{
			StationName: getEnv("SIMULATION_STATION_NAME", "ecosense-sim-01"),
			Interval:    getEnvAsDuration("SIMULATION_INTERVAL", "2s"),
			HistorySize: getEnvAsInt("SIMULATION_HISTORY_SIZE", 30),
			Seed:        getEnvAsUint64("SIMULATION_SEED", 0),
			ProfileFile: os.Getenv("SIMULATION_PROFILE_FILE"),
		},
		Advisory: AdvisoryConfig{
			APIKey:        advisoryAPIKey(),
			Model:         getEnv("ADVISORY_MODEL", "gemini-2.5-flash"),
			Timeout:       getEnvAsDuration("ADVISORY_TIMEOUT", "15s"),
			FallbackDelay: getEnvAsDuration("ADVISORY_FALLBACK_DELAY", "1500ms"),
			CacheTTL:      getEnvAsDuration("ADVISORY_CACHE_TTL", "10m"),
		},
		Forecast: ForecastConfig{
			Retention: getEnvAsInt("FORECAST_RETENTION", 50),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: GetSecret(EnvRedisPassword, ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvAsList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_READINGS_TOPIC", "ecosense.readings"),
		},
		Auth: AuthConfig{
			JWTSecret: GetSecret(EnvJWTSecret, ""),
			TokenTTL:  getEnvAsDuration("AUTH_TOKEN_TTL", "24h"),
		},
		Alert: AlertConfig{
			AQIThreshold: getEnvAsInt("ALERT_AQI_THRESHOLD", 151),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Path:  os.Getenv("LOG_PATH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.Simulation.Interval <= 0 {
		return ErrInvalidInterval
	}
	if c.Simulation.HistorySize <= 0 {
		return ErrInvalidHistorySize
	}
	if c.Forecast.Retention <= 0 {
		return ErrInvalidRetention
	}
	if c.Auth.JWTSecret != "" && c.Auth.TokenTTL <= 0 {
		return ErrInvalidTokenTTL
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return ErrMissingTopic
	}
	if c.Alert.AQIThreshold < 0 {
		return ErrInvalidThreshold
	}
	if c.Simulation.ProfileFile != "" {
		if _, err := os.Stat(c.Simulation.ProfileFile); err != nil {
			return fmt.Errorf("SIMULATION_PROFILE_FILE: %w", err)
		}
	}
	return nil
}

// AdvisoryLive reports whether a credential for the hosted model is present
func (a AdvisoryConfig) AdvisoryLive() bool {
	return a.APIKey != ""
}

// Enabled reports whether operator authentication is configured
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// Enabled reports whether the Redis cache is configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Enabled reports whether the Kafka sink is configured
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Enabled reports whether pollution alerts are raised
func (a AlertConfig) Enabled() bool {
	return a.AQIThreshold > 0
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsUint64 gets an environment variable as an unsigned integer or returns a default value
func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration or returns a default value
func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		defaultDuration, _ := time.ParseDuration(defaultValue)
		return defaultDuration
	}
	return value
}

// getEnvAsList splits a comma-separated environment variable, dropping empty items
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
