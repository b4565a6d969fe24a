// Package config provides configuration loading and validation for geo-prospector.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// PathEnv names the environment variable holding the config file path.
const PathEnv = "GEO_PROSPECTOR_CONFIG"

// Config is the full process configuration. Values come from defaults, then an
// optional YAML file, then environment overrides.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Places   PlacesConfig   `yaml:"places"`
	Prospect ProspectConfig `yaml:"prospect"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         int           `yaml:"port" validate:"min=1,max=65535"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"min=0"`
}

// DatabaseConfig holds the Postgres connection URL.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// PlacesConfig configures the Google Places client and credential lookup.
type PlacesConfig struct {
	APIKeyEnv     string        `yaml:"api_key_env" validate:"required"`
	SecretName    string        `yaml:"secret_name" validate:"required"`
	BaseURL       string        `yaml:"base_url" validate:"omitempty,url"`
	Language      string        `yaml:"language"`
	Timeout       time.Duration `yaml:"timeout" validate:"min=0"`
	SearchRadiusM int           `yaml:"search_radius_m" validate:"min=1,max=50000"`
	ProbeRadiusM  int           `yaml:"probe_radius_m" validate:"min=1,max=50000"`
}

// ProspectConfig configures the orchestrator.
type ProspectConfig struct {
	DefaultCities     []string      `yaml:"default_cities" validate:"min=1,dive,required"`
	DefaultCategories []string      `yaml:"default_categories" validate:"min=1,dive,required"`
	DefaultMaxResults int           `yaml:"default_max_results" validate:"min=1"`
	MaxResultsLimit   int           `yaml:"max_results_limit" validate:"min=1,gtefield=DefaultMaxResults"`
	WriteDelay        time.Duration `yaml:"write_delay" validate:"min=0"`
	Workers           int           `yaml:"workers" validate:"min=1,max=16"`
}

// KafkaConfig enables discovery events when both fields are set.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic" validate:"required_with=Brokers"`
}

// Enabled reports whether events should be published.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Topic != ""
}

// ArchiveConfig enables run-summary archiving to S3-compatible storage.
type ArchiveConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key" validate:"required_with=Endpoint"`
	SecretKey string `yaml:"secret_key" validate:"required_with=Endpoint"`
	Bucket    string `yaml:"bucket" validate:"required_with=Endpoint"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether summaries should be archived.
func (a ArchiveConfig) Enabled() bool {
	return a.Endpoint != "" && a.Bucket != ""
}

// AuthConfig enables bearer-token auth on the HTTP surface when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" validate:"omitempty,min=16"`
	Issuer    string `yaml:"issuer"`
}

// Enabled reports whether requests must carry a bearer token.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			WriteTimeout: 300 * time.Second,
		},
		Places: PlacesConfig{
			APIKeyEnv:     "GOOGLE_PLACES_API_KEY",
			SecretName:    "google_places_api_key",
			Language:      "fr",
			Timeout:       10 * time.Second,
			SearchRadiusM: 25000,
			ProbeRadiusM:  1000,
		},
		Prospect: ProspectConfig{
			DefaultCities:     []string{"Montréal"},
			DefaultCategories: []string{"restaurant", "dentiste", "plombier"},
			DefaultMaxResults: 100,
			MaxResultsLimit:   1000,
			WriteDelay:        50 * time.Millisecond,
			Workers:           1,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration. path may be empty, in which case PathEnv is
// consulted; a missing file is an error only when a path was given.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Decoding into the populated struct keeps defaults for absent keys.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PLACES_API_KEY_ENV"); v != "" {
		c.Places.APIKeyEnv = v
	}
	if v := os.Getenv("PLACES_BASE_URL"); v != "" {
		c.Places.BaseURL = v
	}
	if v := os.Getenv("PROSPECT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Prospect.Workers = n
		}
	}
	if v := os.Getenv("PROSPECT_WRITE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Prospect.WriteDelay = d
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		c.Archive.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Archive.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Archive.SecretKey = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		c.Archive.UseSSL = v == "true"
	}
	if v := os.Getenv("ARCHIVE_BUCKET"); v != "" {
		c.Archive.Bucket = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// RequireDatabase returns an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
