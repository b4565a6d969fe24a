// Package credentials resolves the Places API key from the environment and
// records its configuration and validation status in the secrets table.
package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jonathan/geo-prospector/internal/db"
	"github.com/jonathan/geo-prospector/internal/logging"
	"github.com/jonathan/geo-prospector/internal/types"
)

// statusWriteTimeout bounds each best-effort status write.
const statusWriteTimeout = 3 * time.Second

// StatusStore persists credential status rows.
type StatusStore interface {
	UpsertSecretStatus(ctx context.Context, s db.SecretStatus) error
}

// Resolver reads the API key and records its status. A nil store disables
// status writes.
type Resolver struct {
	envKey     string
	secretName string
	store      StatusStore
	logger     *slog.Logger
	lookupEnv  func(string) (string, bool)
	now        func() time.Time
}

// NewResolver creates a Resolver reading envKey and recording under secretName.
func NewResolver(envKey, secretName string, store StatusStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		envKey:     envKey,
		secretName: secretName,
		store:      store,
		logger:     logging.OrDefault(logger).With("component", "credentials"),
		lookupEnv:  os.LookupEnv,
		now:        time.Now,
	}
}

// EnvKey returns the environment variable the key is read from.
func (r *Resolver) EnvKey() string {
	return r.envKey
}

// APIKey returns the configured key. A missing or blank value returns false.
// On success the "configured" status is recorded best-effort.
func (r *Resolver) APIKey(ctx context.Context) (string, bool) {
	val, ok := r.lookupEnv(r.envKey)
	val = strings.TrimSpace(val)
	if !ok || val == "" {
		r.logger.Warn("API key not configured", "env", r.envKey)
		return "", false
	}

	r.record(ctx, db.SecretStatus{Name: r.secretName, Status: db.SecretConfigured})
	return val, true
}

// MarkValidated records a successful validation probe.
func (r *Resolver) MarkValidated(ctx context.Context, resultCount int) {
	now := r.now().UTC()
	r.record(ctx, db.SecretStatus{
		Name:            r.secretName,
		Status:          db.SecretValidated,
		LastValidatedAt: &now,
		Details:         map[string]any{"result_count": resultCount},
	})
}

// MarkInvalid records a failed validation probe.
func (r *Resolver) MarkInvalid(ctx context.Context, kind types.ErrorKind, message string) {
	r.record(ctx, db.SecretStatus{
		Name:      r.secretName,
		Status:    db.SecretInvalid,
		LastError: fmt.Sprintf("%s: %s", kind, message),
		Details:   map[string]any{"error_type": string(kind)},
	})
}

// record writes a status row without letting any failure reach the caller.
func (r *Resolver) record(ctx context.Context, s db.SecretStatus) {
	if r.store == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("secret status write panicked", "status", s.Status, "panic", p)
		}
	}()

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()

	if err := r.store.UpsertSecretStatus(wctx, s); err != nil {
		r.logger.Warn("failed to record secret status", "status", s.Status, "error", err)
	}
}
