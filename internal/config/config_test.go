package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

var configEnvKeys = []string{
	"PORT",
	"SIMULATION_STATION_NAME", "SIMULATION_INTERVAL", "SIMULATION_HISTORY_SIZE", "SIMULATION_SEED", "SIMULATION_PROFILE_FILE",
	"GEMINI_API_KEY", "GEMINI_API_KEY_FILE", "API_KEY", "API_KEY_FILE",
	"ADVISORY_MODEL", "ADVISORY_TIMEOUT", "ADVISORY_FALLBACK_DELAY", "ADVISORY_CACHE_TTL",
	"FORECAST_RETENTION",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_PASSWORD_FILE", "REDIS_DB",
	"KAFKA_BROKERS", "KAFKA_READINGS_TOPIC",
	"AUTH_JWT_SECRET", "AUTH_JWT_SECRET_FILE", "AUTH_TOKEN_TTL",
	"ALERT_AQI_THRESHOLD",
	"LOG_LEVEL", "LOG_PATH",
}

// cleanEnv blanks every variable Load reads; empty values count as unset
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		Server: ServerConfig{Port: "8080"},
		Simulation: SimulationConfig{
			StationName: "ecosense-sim-01",
			Interval:    2 * time.Second,
			HistorySize: 30,
		},
		Advisory: AdvisoryConfig{
			Model:         "gemini-2.5-flash",
			Timeout:       15 * time.Second,
			FallbackDelay: 1500 * time.Millisecond,
			CacheTTL:      10 * time.Minute,
		},
		Forecast: ForecastConfig{Retention: 50},
		Kafka:    KafkaConfig{Topic: "ecosense.readings"},
		Auth:     AuthConfig{TokenTTL: 24 * time.Hour},
		Alert:    AlertConfig{AQIThreshold: 151},
		Log:      LogConfig{Level: "info"},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
	if cfg.Advisory.AdvisoryLive() || cfg.Auth.Enabled() || cfg.Redis.Enabled() || cfg.Kafka.Enabled() {
		t.Error("optional integrations should be disabled by default")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	cleanEnv(t)
	env := map[string]string{
		"PORT":                    "9090",
		"SIMULATION_INTERVAL":     "500ms",
		"SIMULATION_HISTORY_SIZE": "60",
		"SIMULATION_SEED":         "42",
		"GEMINI_API_KEY":          "AIza-test",
		"ADVISORY_FALLBACK_DELAY": "0s",
		"FORECAST_RETENTION":      "5",
		"REDIS_ADDR":              "localhost:6379",
		"REDIS_DB":                "2",
		"KAFKA_BROKERS":           "kafka-1:9092, kafka-2:9092,",
		"AUTH_JWT_SECRET":         "operator-secret",
		"AUTH_TOKEN_TTL":          "1h",
		"ALERT_AQI_THRESHOLD":     "0",
		"LOG_LEVEL":               "debug",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Simulation.Interval != 500*time.Millisecond {
		t.Errorf("Simulation.Interval = %v, want 500ms", cfg.Simulation.Interval)
	}
	if cfg.Simulation.HistorySize != 60 || cfg.Simulation.Seed != 42 {
		t.Errorf("Simulation = %+v", cfg.Simulation)
	}
	if !cfg.Advisory.AdvisoryLive() || cfg.Advisory.FallbackDelay != 0 {
		t.Errorf("Advisory = %+v", cfg.Advisory)
	}
	if cfg.Forecast.Retention != 5 {
		t.Errorf("Forecast.Retention = %d, want 5", cfg.Forecast.Retention)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if want := []string{"kafka-1:9092", "kafka-2:9092"}; !reflect.DeepEqual(cfg.Kafka.Brokers, want) {
		t.Errorf("Kafka.Brokers = %v, want %v", cfg.Kafka.Brokers, want)
	}
	if !cfg.Auth.Enabled() || cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("Auth = %+v", cfg.Auth)
	}
	if cfg.Alert.Enabled() {
		t.Errorf("Alert = %+v, want disabled", cfg.Alert)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	cleanEnv(t)
	t.Setenv("SIMULATION_INTERVAL", "fast")
	t.Setenv("SIMULATION_HISTORY_SIZE", "many")
	t.Setenv("SIMULATION_SEED", "-3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Simulation.Interval != 2*time.Second {
		t.Errorf("Simulation.Interval = %v, want 2s", cfg.Simulation.Interval)
	}
	if cfg.Simulation.HistorySize != 30 {
		t.Errorf("Simulation.HistorySize = %d, want 30", cfg.Simulation.HistorySize)
	}
	if cfg.Simulation.Seed != 0 {
		t.Errorf("Simulation.Seed = %d, want 0", cfg.Simulation.Seed)
	}
}

func TestLoad_APIKeyFallsBackToLegacyName(t *testing.T) {
	cleanEnv(t)
	t.Setenv("API_KEY", "legacy")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Advisory.APIKey != "legacy" {
		t.Errorf("Advisory.APIKey = %q, want legacy", cfg.Advisory.APIKey)
	}
}

func TestLoad_SecretFromFile(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "jwt")
	if err := os.WriteFile(path, []byte("from-file\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	t.Setenv("AUTH_JWT_SECRET_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Auth.JWTSecret != "from-file" {
		t.Errorf("Auth.JWTSecret = %q, want from-file", cfg.Auth.JWTSecret)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Simulation: SimulationConfig{Interval: time.Second, HistorySize: 30},
			Forecast:   ForecastConfig{Retention: 10},
			Kafka:      KafkaConfig{Topic: "ecosense.readings"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero interval", mutate: func(c *Config) { c.Simulation.Interval = 0 }, wantErr: ErrInvalidInterval},
		{name: "negative history", mutate: func(c *Config) { c.Simulation.HistorySize = -1 }, wantErr: ErrInvalidHistorySize},
		{name: "zero retention", mutate: func(c *Config) { c.Forecast.Retention = 0 }, wantErr: ErrInvalidRetention},
		{
			name:    "auth without ttl",
			mutate:  func(c *Config) { c.Auth = AuthConfig{JWTSecret: "s"} },
			wantErr: ErrInvalidTokenTTL,
		},
		{
			name:    "kafka without topic",
			mutate:  func(c *Config) { c.Kafka = KafkaConfig{Brokers: []string{"k:9092"}} },
			wantErr: ErrMissingTopic,
		},
		{
			name:    "negative alert threshold",
			mutate:  func(c *Config) { c.Alert.AQIThreshold = -1 },
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "missing profile file",
			mutate:  func(c *Config) { c.Simulation.ProfileFile = "/nonexistent/profile.yaml" },
			wantErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
