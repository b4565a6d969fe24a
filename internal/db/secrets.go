package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Secret status values stored in api_secrets.status.
const (
	SecretConfigured = "configured"
	SecretValidated  = "validated"
	SecretInvalid    = "invalid"
)

// SecretStatus is one row of the api_secrets table.
type SecretStatus struct {
	Name            string         `json:"name"`
	Status          string         `json:"status"`
	LastError       string         `json:"last_error,omitempty"`
	LastValidatedAt *time.Time     `json:"last_validated_at,omitempty"`
	Details         map[string]any `json:"details,omitempty"`
}

// UpsertSecretStatus records the configuration or validation status of a
// named credential. The secret value itself is never stored.
func (db *DB) UpsertSecretStatus(ctx context.Context, s SecretStatus) error {
	var details []byte
	if s.Details != nil {
		b, err := json.Marshal(s.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal secret details: %w", err)
		}
		details = b
	}
	var lastError *string
	if s.LastError != "" {
		lastError = &s.LastError
	}

	query, args, err := psql.Insert("api_secrets").
		Columns("name", "status", "last_error", "last_validated_at", "details", "updated_at").
		Values(s.Name, s.Status, lastError, s.LastValidatedAt, details, time.Now().UTC()).
		Suffix(`ON CONFLICT (name) DO UPDATE SET
			status = EXCLUDED.status,
			last_error = EXCLUDED.last_error,
			last_validated_at = COALESCE(EXCLUDED.last_validated_at, api_secrets.last_validated_at),
			details = COALESCE(EXCLUDED.details, api_secrets.details),
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build secret upsert: %w", err)
	}

	if _, err := db.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert secret status %s: %w", s.Name, err)
	}
	return nil
}

// GetSecretStatus returns the stored status for a credential, or nil.
func (db *DB) GetSecretStatus(ctx context.Context, name string) (*SecretStatus, error) {
	query, args, err := psql.Select("name", "status", "COALESCE(last_error, '')", "last_validated_at", "details").
		From("api_secrets").
		Where("name = ?", name).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build secret lookup: %w", err)
	}

	var s SecretStatus
	var details []byte
	err = db.pool.QueryRow(ctx, query, args...).Scan(&s.Name, &s.Status, &s.LastError, &s.LastValidatedAt, &details)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get secret status %s: %w", name, err)
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &s.Details); err != nil {
			return nil, fmt.Errorf("failed to decode secret details: %w", err)
		}
	}
	return &s, nil
}
