package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ecofest/accreditation-api/internal/config"
	"github.com/ecofest/accreditation-api/internal/logger"
)

// MinioStore keeps blobs in a MinIO (or any S3-compatible) bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	log    *log.Logger
}

// NewMinioStore connects to the configured MinIO endpoint and ensures the
// bucket exists.
func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.Storage.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.MinioAccessKey, cfg.Storage.MinioSecretKey, ""),
		Secure: cfg.Storage.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Storage.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Storage.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Storage.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Storage.MinioBucket, err)
		}
	}

	log := logger.Service("minio_store")
	log.Info("MinIO store ready", "endpoint", cfg.Storage.MinioEndpoint, "bucket", cfg.Storage.MinioBucket)

	return &MinioStore{
		client: client,
		bucket: cfg.Storage.MinioBucket,
		log:    log,
	}, nil
}

// Write stores data at path. Object PUTs are atomic on the server side, so
// racing writers on the same key leave exactly one complete object.
func (s *MinioStore) Write(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", path, err)
	}

	s.log.Debug("Blob written", "path", path, "size", len(data))
	return nil
}

// Read returns the stored bytes for path.
func (s *MinioStore) Read(ctx context.Context, path string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", path, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", path, err)
	}

	return data, nil
}

// URLFor returns a presigned URL for a stored path, valid for 24 hours.
func (s *MinioStore) URLFor(ctx context.Context, path string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, path, 24*time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", path, err)
	}
	return u.String(), nil
}
