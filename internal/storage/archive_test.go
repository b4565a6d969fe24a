package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/geo-prospector/internal/types"
)

type putCall struct {
	bucket      string
	key         string
	body        []byte
	contentType string
}

type mockStore struct {
	exists      bool
	existsErr   error
	existsCalls int
	makeCalls   int
	makeRegion  string
	puts        []putCall
	putErr      error
}

func (m *mockStore) BucketExists(context.Context, string) (bool, error) {
	m.existsCalls++
	return m.exists, m.existsErr
}

func (m *mockStore) MakeBucket(_ context.Context, _ string, opts minio.MakeBucketOptions) error {
	m.makeCalls++
	m.makeRegion = opts.Region
	m.exists = true
	return nil
}

func (m *mockStore) PutObject(_ context.Context, bucket, key string, r io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if m.putErr != nil {
		return minio.UploadInfo{}, m.putErr
	}
	body, _ := io.ReadAll(r)
	m.puts = append(m.puts, putCall{bucket: bucket, key: key, body: body, contentType: opts.ContentType})
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: int64(len(body))}, nil
}

func testSummary() *types.RunSummary {
	return &types.RunSummary{
		Success:        true,
		RunID:          "8d3c1f0e-run",
		StartedAt:      time.Date(2026, 2, 7, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)),
		TotalProcessed: 3,
	}
}

func TestObjectKey(t *testing.T) {
	// 23:30 EST is the next day in UTC.
	assert.Equal(t, "runs/2026/02/08/8d3c1f0e-run.json", ObjectKey(testSummary()))
}

func TestArchiveSummary_CreatesBucketOnce(t *testing.T) {
	store := &mockStore{}
	a := NewArchive(store, "prospect-runs", "us-east-1", nil)

	require.NoError(t, a.ArchiveSummary(context.Background(), testSummary()))
	require.NoError(t, a.ArchiveSummary(context.Background(), testSummary()))

	assert.Equal(t, 1, store.makeCalls)
	assert.Equal(t, 1, store.existsCalls)
	assert.Equal(t, "us-east-1", store.makeRegion)
	require.Len(t, store.puts, 2)

	put := store.puts[0]
	assert.Equal(t, "prospect-runs", put.bucket)
	assert.Equal(t, "runs/2026/02/08/8d3c1f0e-run.json", put.key)
	assert.Equal(t, "application/json", put.contentType)

	var got types.RunSummary
	require.NoError(t, json.Unmarshal(put.body, &got))
	assert.Equal(t, 3, got.TotalProcessed)
}

func TestArchiveSummary_ExistingBucket(t *testing.T) {
	store := &mockStore{exists: true}
	a := NewArchive(store, "b", "", nil)

	require.NoError(t, a.ArchiveSummary(context.Background(), testSummary()))
	assert.Zero(t, store.makeCalls)
}

func TestArchiveSummary_BucketCheckRetried(t *testing.T) {
	store := &mockStore{existsErr: errors.New("unreachable")}
	a := NewArchive(store, "b", "", nil)

	require.Error(t, a.ArchiveSummary(context.Background(), testSummary()))
	assert.Empty(t, store.puts)

	store.existsErr = nil
	store.exists = true
	require.NoError(t, a.ArchiveSummary(context.Background(), testSummary()))
	assert.Equal(t, 2, store.existsCalls)
	assert.Len(t, store.puts, 1)
}

func TestArchiveSummary_PutError(t *testing.T) {
	store := &mockStore{exists: true, putErr: errors.New("access denied")}
	a := NewArchive(store, "b", "", nil)

	err := a.ArchiveSummary(context.Background(), testSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runs/2026/02/08")
	assert.ErrorIs(t, err, store.putErr)
}
