// Package storage provides per-request workspaces on local disk and optional
// S3 publishing of rendered videos.
package storage

import (
	"context"
	"io"
)

// Storage creates isolated workspaces and publishes finished files.
type Storage interface {
	// NewWorkspace creates a fresh, empty workspace directory.
	// The caller must Release it.
	NewWorkspace(ctx context.Context) (*Workspace, error)

	// UploadToS3 uploads data to S3 and returns the public URL.
	// Returns ErrS3NotConfigured if S3 is not configured.
	UploadToS3(ctx context.Context, key string, data io.Reader) (url string, err error)
}
