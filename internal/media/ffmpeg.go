package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// Compile-time check that FFmpegCompositor implements Compositor.
var _ Compositor = (*FFmpegCompositor)(nil)

// FFmpegCompositor implements Compositor using the ffmpeg CLI.
type FFmpegCompositor struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
	videoCodec string
	audioCodec string
	logger     *slog.Logger
}

// CompositorOption configures an FFmpegCompositor.
type CompositorOption func(*FFmpegCompositor)

// WithCodecs overrides the output video and audio encoders.
// Empty values keep the defaults.
func WithCodecs(video, audio string) CompositorOption {
	return func(c *FFmpegCompositor) {
		if video != "" {
			c.videoCodec = video
		}
		if audio != "" {
			c.audioCodec = audio
		}
	}
}

// WithLogger sets the logger used for encode diagnostics.
func WithLogger(logger *slog.Logger) CompositorOption {
	return func(c *FFmpegCompositor) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewFFmpegCompositor creates a new FFmpegCompositor.
// If ffmpegPath is empty, it defaults to "ffmpeg" (found via PATH).
func NewFFmpegCompositor(ffmpegPath string, opts ...CompositorOption) *FFmpegCompositor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	c := &FFmpegCompositor{
		ffmpegPath: ffmpegPath,
		videoCodec: "libx264",
		audioCodec: "aac",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose concatenates the timeline segments and encodes them to output at
// the timeline frame rate.
func (c *FFmpegCompositor) Compose(ctx context.Context, timeline Timeline, output string) error {
	if err := timeline.Validate(); err != nil {
		return err
	}

	args := c.composeArgs(timeline, output)

	start := time.Now()
	c.logger.Debug("encoding timeline",
		slog.Int("clips", len(timeline.Clips)),
		slog.Float64("duration_sec", timeline.Duration()),
		slog.String("output", output),
	)

	if err := c.runFFmpeg(ctx, args); err != nil {
		return err
	}

	c.logger.Debug("timeline encoded",
		slog.String("output", output),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// composeArgs builds the full ffmpeg command line for a timeline.
func (c *FFmpegCompositor) composeArgs(timeline Timeline, output string) []string {
	args := []string{
		"-y", // Overwrite output file without asking
		"-hide_banner",
		"-loglevel", "error",
	}

	for _, clip := range timeline.Clips {
		args = append(args, inputArgs(clip, timeline.FPS)...)
	}

	args = append(args,
		"-filter_complex", FilterGraph(timeline),
		"-map", "[vout]",
		"-map", "[aout]",
		"-r", fmt.Sprint(timeline.FPS), // Output frame rate
		"-c:v", c.videoCodec,
		"-pix_fmt", "yuv420p", // Pixel format for compatibility
		"-c:a", c.audioCodec,
		"-movflags", "+faststart",
		output,
	)
	return args
}

// inputArgs returns the decoder options and -i flag for one clip. Images are
// read as a single frame looped for the clip duration.
func inputArgs(clip Clip, fps int) []string {
	if clip.Kind == KindImage {
		return []string{
			"-f", "image2",
			"-pattern_type", "none",
			"-loop", "1",
			"-framerate", fmt.Sprint(fps),
			"-t", seconds(clip.Duration),
			"-i", clip.Source,
		}
	}
	return []string{
		"-t", seconds(clip.Duration),
		"-i", clip.Source,
	}
}

// runFFmpeg executes ffmpeg with the given arguments and returns an error
// containing stderr output if the command fails.
func (c *FFmpegCompositor) runFFmpeg(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check if context was cancelled
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}
