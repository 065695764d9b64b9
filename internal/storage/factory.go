package storage

import (
	"context"
	"fmt"

	"github.com/ecofest/accreditation-api/internal/config"
	"github.com/ecofest/accreditation-api/internal/storage/blob"
)

// BackendType represents the type of blob storage backend
type BackendType string

const (
	// BackendLocal stores blobs on the local filesystem
	BackendLocal BackendType = "local"
	// BackendMinio stores blobs in a MinIO / S3-compatible bucket
	BackendMinio BackendType = "minio"
)

// GetSupportedBackends returns a list of supported blob backends
func GetSupportedBackends() []BackendType {
	return []BackendType{
		BackendLocal,
		BackendMinio,
	}
}

// ValidateBackend validates if a backend type is supported
func ValidateBackend(backend string) (BackendType, error) {
	bt := BackendType(backend)

	for _, supported := range GetSupportedBackends() {
		if bt == supported {
			return bt, nil
		}
	}

	return "", fmt.Errorf("unsupported storage backend: %s. Supported backends: %v", backend, GetSupportedBackends())
}

// NewBlobStore creates the blob store selected by the configuration.
func NewBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	backend, err := ValidateBackend(cfg.Storage.Backend)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendMinio:
		return blob.NewMinioStore(ctx, cfg)
	default:
		return blob.NewLocalStore(cfg.Storage.LocalDir, cfg.Site.URL+"/media")
	}
}
