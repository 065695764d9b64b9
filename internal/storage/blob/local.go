package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ecofest/accreditation-api/internal/logger"
)

// LocalStore keeps blobs on the local filesystem under a single root
// directory, mirroring the storage keys as relative paths.
type LocalStore struct {
	root    string
	baseURL string
	log     *log.Logger
}

// NewLocalStore creates a filesystem-backed store rooted at dir. baseURL is
// prepended when building external URLs (typically the site URL plus a
// /media prefix).
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStore{
		root:    dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.Service("local_store"),
	}, nil
}

// Write stores data at path. The write goes through a temp file plus rename
// so a concurrent reader, or a second writer racing on the same key, never
// observes a partially written object.
func (s *LocalStore) Write(ctx context.Context, path string, data []byte, contentType string) error {
	full := filepath.Join(s.root, filepath.FromSlash(path))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), full); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}

	s.log.Debug("Blob written", "path", path, "size", len(data))
	return nil
}

// Read returns the stored bytes for path.
func (s *LocalStore) Read(ctx context.Context, path string) ([]byte, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return data, nil
}

// URLFor returns the external URL for a stored path.
func (s *LocalStore) URLFor(ctx context.Context, path string) (string, error) {
	if s.baseURL == "" {
		return "/" + path, nil
	}
	return s.baseURL + "/" + path, nil
}
