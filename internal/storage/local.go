package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrS3NotConfigured is returned when S3 operations are attempted
// without proper configuration.
var ErrS3NotConfigured = errors.New("S3 storage is not configured")

// DefaultBaseDir is used when no base directory is configured.
var DefaultBaseDir = filepath.Join(os.TempDir(), "shorts")

// LocalStorage implements the Storage interface using local disk.
// Workspaces are created under a single base directory. S3 uploads are
// not supported unless wrapped with S3Storage.
type LocalStorage struct {
	baseDir string
}

var _ Storage = (*LocalStorage)(nil)

// NewLocalStorage creates a new LocalStorage instance.
// If baseDir is empty, DefaultBaseDir is used.
// The directory is created if it doesn't exist.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}

	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}

	return &LocalStorage{baseDir: baseDir}, nil
}

// BaseDir returns the directory workspaces are created in.
func (s *LocalStorage) BaseDir() string {
	return s.baseDir
}

// NewWorkspace creates a uniquely named workspace under the base directory.
func (s *LocalStorage) NewWorkspace(ctx context.Context) (*Workspace, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	return newWorkspace(s.baseDir)
}

// UploadToS3 is not supported by LocalStorage and returns ErrS3NotConfigured.
func (s *LocalStorage) UploadToS3(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", ErrS3NotConfigured
}
