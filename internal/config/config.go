package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"nigraan/internal/models"

	"gopkg.in/yaml.v3"
)

// Config captures everything needed to boot the telemetry backend.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Sensors   SensorsConfig   `yaml:"sensors"`
	Auth      AuthConfig      `yaml:"auth"`
	Influx    InfluxConfig    `yaml:"influx"`
}

// ServerConfig controls the HTTP/WebSocket listener.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	GracefulTimeout time.Duration `yaml:"graceful_timeout"`
}

// TelemetryConfig controls the generation loop and history retention.
type TelemetryConfig struct {
	TickInterval    time.Duration `yaml:"tick_interval"`
	HistoryCapacity int           `yaml:"history_capacity"`
	HistoryMargin   int           `yaml:"history_margin"`
	SampleEvery     int           `yaml:"sample_every"`
}

// SensorsConfig holds the per-sensor simulation parameters keyed by type.
type SensorsConfig map[models.SensorType]models.SensorConfig

// AuthConfig controls realtime token issuance.
type AuthConfig struct {
	Secret      string        `yaml:"secret"`
	TokenExpiry time.Duration `yaml:"token_expiry"`
}

// InfluxConfig configures the best-effort durable alert sink.
type InfluxConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
}

// Load initialises Config from an optional YAML file plus environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("NIGRAAN_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			GracefulTimeout: 10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			TickInterval:    time.Second,
			HistoryCapacity: 200,
			HistoryMargin:   20,
			SampleEvery:     1,
		},
		Sensors: DefaultSensors(),
		Auth: AuthConfig{
			TokenExpiry: 24 * time.Hour,
		},
		Influx: InfluxConfig{
			Enabled: false,
			Org:     "nigraan",
			Bucket:  "safety_alerts",
		},
	}
}

// DefaultSensors returns the built-in simulation parameters for the three
// machine sensors.
func DefaultSensors() SensorsConfig {
	return SensorsConfig{
		models.SensorVibration: {
			Min: 0, Max: 10, SafeMax: 7,
			BaseValue: 3.5, NormalVariation: 1.5,
			Unit: "mm/s",
		},
		models.SensorTemperature: {
			Min: 0, Max: 120, SafeMax: 80,
			BaseValue: 55, NormalVariation: 10,
			Unit: "°C",
		},
		models.SensorCurrent: {
			Min: 0, Max: 50, SafeMax: 30,
			BaseValue: 15, NormalVariation: 5,
			Unit: "A",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NIGRAAN_ADDR"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("NIGRAAN_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("NIGRAAN_TICK_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.Telemetry.TickInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("NIGRAAN_HISTORY_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Telemetry.HistoryCapacity = n
		}
	}
	if v := os.Getenv("NIGRAAN_AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("NIGRAAN_INFLUX_URL"); v != "" {
		cfg.Influx.URL = v
		cfg.Influx.Enabled = true
	}
	if v := os.Getenv("NIGRAAN_INFLUX_TOKEN"); v != "" {
		cfg.Influx.Token = v
	}
	if v := os.Getenv("NIGRAAN_INFLUX_ORG"); v != "" {
		cfg.Influx.Org = v
	}
	if v := os.Getenv("NIGRAAN_INFLUX_BUCKET"); v != "" {
		cfg.Influx.Bucket = v
	}

	// Per-sensor threshold ceiling overrides, e.g. NIGRAAN_SAFE_MAX_TEMPERATURE=85
	for _, t := range models.AllSensorTypes() {
		key := "NIGRAAN_SAFE_MAX_" + strings.ToUpper(string(t))
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				sc := cfg.Sensors[t]
				sc.SafeMax = f
				cfg.Sensors[t] = sc
			}
		}
	}
}

func validate(cfg *Config) error {
	if cfg.Telemetry.TickInterval <= 0 {
		return fmt.Errorf("telemetry.tick_interval must be positive, got %v", cfg.Telemetry.TickInterval)
	}
	if cfg.Telemetry.HistoryCapacity <= 0 {
		return fmt.Errorf("telemetry.history_capacity must be positive, got %d", cfg.Telemetry.HistoryCapacity)
	}
	if cfg.Telemetry.HistoryMargin < 0 {
		return fmt.Errorf("telemetry.history_margin must not be negative, got %d", cfg.Telemetry.HistoryMargin)
	}
	if cfg.Telemetry.SampleEvery < 1 {
		cfg.Telemetry.SampleEvery = 1
	}
	for t, sc := range cfg.Sensors {
		if !t.Valid() {
			return fmt.Errorf("sensors: unknown sensor type %q", t)
		}
		if sc.Min >= sc.Max {
			return fmt.Errorf("sensors.%s: min %v must be below max %v", t, sc.Min, sc.Max)
		}
	}
	return nil
}
