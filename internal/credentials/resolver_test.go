package credentials

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/geo-prospector/internal/db"
	"github.com/jonathan/geo-prospector/internal/logging"
	"github.com/jonathan/geo-prospector/internal/types"
)

type fakeStore struct {
	writes []db.SecretStatus
	err    error
	panics bool
}

func (f *fakeStore) UpsertSecretStatus(_ context.Context, s db.SecretStatus) error {
	if f.panics {
		panic("boom")
	}
	f.writes = append(f.writes, s)
	return f.err
}

func newTestResolver(store StatusStore, env map[string]string) (*Resolver, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewResolver("PLACES_KEY", "places_key", store, logging.NewWithWriter(&buf, "debug"))
	r.lookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	r.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return r, &buf
}

func TestAPIKey_Missing(t *testing.T) {
	store := &fakeStore{}
	r, _ := newTestResolver(store, map[string]string{})

	key, ok := r.APIKey(context.Background())
	assert.False(t, ok)
	assert.Empty(t, key)
	assert.Empty(t, store.writes)
}

func TestAPIKey_Blank(t *testing.T) {
	store := &fakeStore{}
	r, _ := newTestResolver(store, map[string]string{"PLACES_KEY": "   "})

	_, ok := r.APIKey(context.Background())
	assert.False(t, ok)
	assert.Empty(t, store.writes)
}

func TestAPIKey_PresentRecordsConfigured(t *testing.T) {
	store := &fakeStore{}
	r, _ := newTestResolver(store, map[string]string{"PLACES_KEY": " abc123 "})

	key, ok := r.APIKey(context.Background())
	require.True(t, ok)
	assert.Equal(t, "abc123", key)
	require.Len(t, store.writes, 1)
	assert.Equal(t, "places_key", store.writes[0].Name)
	assert.Equal(t, db.SecretConfigured, store.writes[0].Status)
}

func TestAPIKey_StoreFailureDoesNotFailRead(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	r, logs := newTestResolver(store, map[string]string{"PLACES_KEY": "abc"})

	key, ok := r.APIKey(context.Background())
	require.True(t, ok)
	assert.Equal(t, "abc", key)
	assert.Contains(t, logs.String(), "failed to record secret status")
}

func TestAPIKey_StorePanicIsContained(t *testing.T) {
	store := &fakeStore{panics: true}
	r, logs := newTestResolver(store, map[string]string{"PLACES_KEY": "abc"})

	assert.NotPanics(t, func() {
		_, ok := r.APIKey(context.Background())
		assert.True(t, ok)
	})
	assert.Contains(t, logs.String(), "panicked")
}

func TestAPIKey_NilStore(t *testing.T) {
	r, _ := newTestResolver(nil, map[string]string{"PLACES_KEY": "abc"})
	_, ok := r.APIKey(context.Background())
	assert.True(t, ok)
}

func TestMarkValidated(t *testing.T) {
	store := &fakeStore{}
	r, _ := newTestResolver(store, nil)

	r.MarkValidated(context.Background(), 7)

	require.Len(t, store.writes, 1)
	w := store.writes[0]
	assert.Equal(t, db.SecretValidated, w.Status)
	require.NotNil(t, w.LastValidatedAt)
	assert.Equal(t, 2026, w.LastValidatedAt.Year())
	assert.Equal(t, 7, w.Details["result_count"])
}

func TestMarkInvalid(t *testing.T) {
	store := &fakeStore{}
	r, _ := newTestResolver(store, nil)

	r.MarkInvalid(context.Background(), types.KindPermissionDenied, "API not enabled")

	require.Len(t, store.writes, 1)
	assert.Equal(t, db.SecretInvalid, store.writes[0].Status)
	assert.Equal(t, "PermissionDenied: API not enabled", store.writes[0].LastError)
}

func TestRecord_UsesUncancelledContext(t *testing.T) {
	store := &fakeStore{}
	r, _ := newTestResolver(store, map[string]string{"PLACES_KEY": "abc"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := r.APIKey(ctx)
	assert.True(t, ok)
	assert.Len(t, store.writes, 1)
}
