// Package storage archives run summaries to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jonathan/geo-prospector/internal/logging"
	"github.com/jonathan/geo-prospector/internal/types"
)

// ObjectStore is the subset of *minio.Client used by the archive.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Options configures the MinIO connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Archive writes one JSON object per completed run.
type Archive struct {
	client ObjectStore
	bucket string
	region string
	logger *slog.Logger

	mu          sync.Mutex
	bucketReady bool
}

// NewMinioArchive connects to an S3-compatible endpoint.
func NewMinioArchive(opts Options, logger *slog.Logger) (*Archive, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return NewArchive(client, opts.Bucket, opts.Region, logger), nil
}

// NewArchive wraps an existing object store client.
func NewArchive(client ObjectStore, bucket, region string, logger *slog.Logger) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		region: region,
		logger: logging.OrDefault(logger).With("component", "archive"),
	}
}

// ObjectKey returns the object name of a summary: runs/YYYY/MM/DD/<run_id>.json.
func ObjectKey(s *types.RunSummary) string {
	t := s.StartedAt.UTC()
	return fmt.Sprintf("runs/%04d/%02d/%02d/%s.json", t.Year(), t.Month(), t.Day(), s.RunID)
}

// ArchiveSummary stores s, creating the bucket on first use.
func (a *Archive) ArchiveSummary(ctx context.Context, s *types.RunSummary) error {
	if err := a.ensureBucket(ctx); err != nil {
		return err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	key := ObjectKey(s)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to store summary %s: %w", key, err)
	}

	a.logger.Info("archived run summary", "bucket", a.bucket, "key", key)
	return nil
}

// ensureBucket creates the bucket on first success. Failures are retried on
// the next call.
func (a *Archive) ensureBucket(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.bucketReady {
		return nil
	}
	if err := a.createBucket(ctx); err != nil {
		return err
	}
	a.bucketReady = true
	return nil
}

func (a *Archive) createBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	a.logger.Info("created archive bucket", "bucket", a.bucket)
	return nil
}
