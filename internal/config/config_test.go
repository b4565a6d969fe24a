package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads so host settings do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		PathEnv, "DATABASE_URL", "PORT", "LOG_LEVEL", "PLACES_API_KEY_ENV", "PLACES_BASE_URL",
		"PROSPECT_WORKERS", "PROSPECT_WRITE_DELAY", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_USE_SSL",
		"ARCHIVE_BUCKET", "JWT_SECRET",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "GOOGLE_PLACES_API_KEY", cfg.Places.APIKeyEnv)
	assert.Equal(t, 25000, cfg.Places.SearchRadiusM)
	assert.Equal(t, 100, cfg.Prospect.DefaultMaxResults)
	assert.Equal(t, 50*time.Millisecond, cfg.Prospect.WriteDelay)
	assert.Equal(t, 1, cfg.Prospect.Workers)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Archive.Enabled())
	assert.False(t, cfg.Auth.Enabled())
}

func TestLoad_YAMLFileMergesOverDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
prospect:
  default_cities: [Laval, Gatineau]
  write_delay: 100ms
  workers: 4
kafka:
  brokers: [localhost:9092]
  topic: prospects
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"Laval", "Gatineau"}, cfg.Prospect.DefaultCities)
	assert.Equal(t, 100*time.Millisecond, cfg.Prospect.WriteDelay)
	assert.Equal(t, 4, cfg.Prospect.Workers)
	// Untouched keys keep their defaults.
	assert.Equal(t, []string{"restaurant", "dentiste", "plombier"}, cfg.Prospect.DefaultCategories)
	assert.True(t, cfg.Kafka.Enabled())
}

func TestLoad_PathFromEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  port: 7070\n")
	t.Setenv(PathEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  port: 9090\ndatabase:\n  url: postgres://file\n")
	t.Setenv("PORT", "8181")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("KAFKA_TOPIC", "t")
	t.Setenv("PROSPECT_WRITE_DELAY", "5ms")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "postgres://env", cfg.Database.URL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Millisecond, cfg.Prospect.WriteDelay)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server: [unterminated")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "Port"},
		{"no workers", func(c *Config) { c.Prospect.Workers = 0 }, "Workers"},
		{"empty default cities", func(c *Config) { c.Prospect.DefaultCities = nil }, "DefaultCities"},
		{"limit below default", func(c *Config) { c.Prospect.MaxResultsLimit = 10 }, "MaxResultsLimit"},
		{"topic required with brokers", func(c *Config) { c.Kafka.Brokers = []string{"x:1"} }, "Topic"},
		{"archive keys required", func(c *Config) { c.Archive.Endpoint = "localhost:9000" }, "AccessKey"},
		{"short jwt secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "JWTSecret"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"bad base url", func(c *Config) { c.Places.BaseURL = "not a url" }, "BaseURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequireDatabase(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.RequireDatabase())
	cfg.Database.URL = "postgres://x"
	assert.NoError(t, cfg.RequireDatabase())
}
