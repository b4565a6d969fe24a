package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonathan/geo-prospector/internal/server"
	"github.com/jonathan/geo-prospector/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv clears variables a local .env could set so commands see only
// what the test provides.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEO_PROSPECTOR_CONFIG", "DATABASE_URL", "PLACES_API_KEY_ENV", "PLACES_BASE_URL",
		"GOOGLE_PLACES_API_KEY", "KAFKA_BROKERS", "KAFKA_TOPIC", "MINIO_ENDPOINT",
		"ARCHIVE_BUCKET", "JWT_SECRET",
	} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTestAPICommand_Valid(t *testing.T) {
	isolateEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"place_id":"p1","name":"Chez Paul"}]}`))
	}))
	defer srv.Close()
	t.Setenv("GOOGLE_PLACES_API_KEY", "test-key")
	t.Setenv("PLACES_BASE_URL", srv.URL)

	out, err := execute(t, "test-api")
	require.NoError(t, err)

	var result types.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Valid)
}

func TestTestAPICommand_MissingKey(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "test-api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MissingCredential")

	var result types.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Valid)
	assert.Equal(t, types.KindMissingCredential, result.Kind)
	assert.NotEmpty(t, result.Remediation)
}

func TestCommands_RequireDatabase(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"run", []string{"run", "--city", "Montréal"}},
		{"migrate", []string{"migrate"}},
		{"list", []string{"list", "--sector", "dentiste"}},
		{"status", []string{"status"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)

			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DATABASE_URL")
		})
	}
}

func TestTokenCommand(t *testing.T) {
	isolateEnv(t)
	const secret = "0123456789abcdef-test-secret"
	t.Setenv("JWT_SECRET", secret)

	out, err := execute(t, "token", "--subject", "ops")
	require.NoError(t, err)

	subject, err := server.NewJWTService(secret, "").ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", subject)
}

func TestTokenCommand_NoSecret(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "token", "--subject", "ops")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
