// Package bootstrap provides dependency initialization for the shorts API.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maauso/shorts-api/internal/config"
	"github.com/maauso/shorts-api/internal/media"
	"github.com/maauso/shorts-api/internal/render"
	"github.com/maauso/shorts-api/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Renderer *render.Renderer
	Storage  storage.Storage
	Janitor  *storage.Janitor
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, baseDir, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	builder := media.NewClipBuilder(media.NewFFprobe(0))
	compositor := media.NewFFmpegCompositor(cfg.FFmpegPath,
		media.WithCodecs(cfg.VideoCodec, cfg.AudioCodec),
		media.WithLogger(logger),
	)
	renderer := render.NewRenderer(builder, compositor, logger, render.WithFPS(cfg.OutputFPS))

	return &Dependencies{
		Renderer: renderer,
		Storage:  store,
		Janitor:  storage.NewJanitor(baseDir, cfg.WorkspaceMaxAge, logger),
	}, nil
}

// initStorage creates the appropriate storage backend based on configuration
// and returns it with its workspace base directory.
func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, string, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(ctx, cfg.TempDir, s3Cfg)
		if err != nil {
			return nil, "", fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, s3Store.BaseDir(), nil
	}

	localStore, err := storage.NewLocalStorage(cfg.TempDir)
	if err != nil {
		return nil, "", fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("temp_dir", localStore.BaseDir()),
	)
	return localStore, localStore.BaseDir(), nil
}
