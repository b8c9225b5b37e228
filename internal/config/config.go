// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrInvalidUploadLimit is returned when MAX_UPLOAD_BYTES is not positive.
	ErrInvalidUploadLimit = errors.New("config: MAX_UPLOAD_BYTES must be positive")
	// ErrInvalidFPS is returned when OUTPUT_FPS is not positive.
	ErrInvalidFPS = errors.New("config: OUTPUT_FPS must be positive")
)

// DefaultMaxUploadBytes is the per-request upload ceiling (16 MiB).
const DefaultMaxUploadBytes = 16 << 20

// Config holds all configuration for the application.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	// Server settings
	Port           int   `env:"PORT, default=8080" json:"port"`
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES, default=16777216" json:"max_upload_bytes"`

	// Storage settings
	TempDir         string        `env:"TEMP_DIR, default=/tmp/shorts" json:"temp_dir"`
	WorkspaceMaxAge time.Duration `env:"WORKSPACE_MAX_AGE, default=1h" json:"workspace_max_age"`
	JanitorSchedule string        `env:"JANITOR_SCHEDULE, default=@every 10m" json:"janitor_schedule"`

	// Rendering settings
	FFmpegPath string `env:"FFMPEG_PATH, default=ffmpeg" json:"ffmpeg_path"`
	OutputFPS  int    `env:"OUTPUT_FPS, default=30" json:"output_fps"`
	VideoCodec string `env:"VIDEO_CODEC, default=libx264" json:"video_codec"`
	AudioCodec string `env:"AUDIO_CODEC, default=aac" json:"audio_codec"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory, if present, is loaded first; it never
// overrides variables that are already set.
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is like Load but reads the dotenv file at path.
func LoadFrom(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}

	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that numeric settings are usable.
func (c *Config) Validate() error {
	if c.MaxUploadBytes <= 0 {
		return ErrInvalidUploadLimit
	}
	if c.OutputFPS <= 0 {
		return ErrInvalidFPS
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, MaxUploadBytes: %d, TempDir: %s, WorkspaceMaxAge: %s, OutputFPS: %d, VideoCodec: %s, AudioCodec: %s, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.MaxUploadBytes,
		c.TempDir,
		c.WorkspaceMaxAge,
		c.OutputFPS,
		c.VideoCodec,
		c.AudioCodec,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
