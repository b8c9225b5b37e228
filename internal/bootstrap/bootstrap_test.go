package bootstrap

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/shorts-api/internal/config"
	"github.com/maauso/shorts-api/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewDependencies_Local(t *testing.T) {
	cfg := &config.Config{
		TempDir:         filepath.Join(t.TempDir(), "shorts"),
		WorkspaceMaxAge: time.Hour,
		FFmpegPath:      "ffmpeg",
		OutputFPS:       30,
	}

	deps, err := NewDependencies(context.Background(), cfg, testLogger())
	require.NoError(t, err)

	assert.NotNil(t, deps.Renderer)
	assert.NotNil(t, deps.Janitor)
	assert.IsType(t, &storage.LocalStorage{}, deps.Storage)
	assert.DirExists(t, cfg.TempDir)

	removed, err := deps.Janitor.Sweep(time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestNewDependencies_S3(t *testing.T) {
	cfg := &config.Config{
		TempDir:            t.TempDir(),
		S3Bucket:           "bucket",
		S3Region:           "us-east-1",
		S3Endpoint:         "http://localhost:4566",
		AWSAccessKeyID:     "key",
		AWSSecretAccessKey: "secret",
	}

	deps, err := NewDependencies(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &storage.S3Storage{}, deps.Storage)
}
