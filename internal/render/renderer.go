package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/maauso/shorts-api/internal/media"
)

// Static errors for rendering.
var (
	// ErrInvalidJob is returned when render parameters are out of range.
	ErrInvalidJob = errors.New("invalid render parameters")
	// ErrNoClips is returned when the input directory yields no usable clips.
	ErrNoClips = errors.New("no valid media files to render")
)

// ClipBuilder creates a clip for a staged file. A nil clip means the file
// is skipped.
type ClipBuilder interface {
	Build(ctx context.Context, path string, duration float64) (*media.Clip, error)
}

// Result describes a finished render.
type Result struct {
	// OutputPath is where the encoded video was written.
	OutputPath string
	// Clips is the number of clips on the timeline.
	Clips int
	// Transitions is the number of clips that received a transition.
	Transitions int
	// Duration is the timeline length in seconds.
	Duration float64
	// Elapsed is the wall time spent rendering.
	Elapsed time.Duration
}

// Renderer orchestrates clip building, transitions and encoding.
type Renderer struct {
	builder    ClipBuilder
	compositor media.Compositor
	fps        int
	logger     *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFPS sets the output frame rate. Non-positive values are ignored.
func WithFPS(fps int) Option {
	return func(r *Renderer) {
		if fps > 0 {
			r.fps = fps
		}
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(builder ClipBuilder, compositor media.Compositor, logger *slog.Logger, opts ...Option) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		builder:    builder,
		compositor: compositor,
		fps:        media.DefaultFPS,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render builds a timeline from the media in inputDir and encodes it to
// outputPath.
//
// The workflow:
//  1. List inputDir, keep allowed files, sort by filename
//  2. Build a clip per file, skipping unsupported ones
//  3. Apply job.Transition to every clip but the first
//  4. Concatenate and encode at the configured frame rate
func (r *Renderer) Render(ctx context.Context, inputDir, outputPath string, job Job) (*Result, error) {
	start := time.Now()

	if err := job.Validate(); err != nil {
		return nil, err
	}

	files, err := ListMedia(inputDir)
	if err != nil {
		return nil, err
	}

	clips := make([]media.Clip, 0, len(files))
	for _, f := range files {
		clip, err := r.builder.Build(ctx, f.Path, job.ClipDuration)
		if err != nil {
			return nil, fmt.Errorf("build clip %s: %w", f.Name(), err)
		}
		if clip == nil {
			continue
		}
		clips = append(clips, *clip)
	}

	if len(clips) == 0 {
		return nil, ErrNoClips
	}

	timeline, transitions := BuildTimeline(clips, job, r.fps)

	r.logger.Info("rendering timeline",
		slog.Int("clips", len(timeline.Clips)),
		slog.Int("transitions", transitions),
		slog.String("transition", job.Transition.String()),
		slog.Float64("clip_duration", job.ClipDuration),
		slog.Float64("transition_duration", job.TransitionDuration),
		slog.Float64("duration_sec", timeline.Duration()),
	)

	if err := r.compositor.Compose(ctx, timeline, outputPath); err != nil {
		return nil, fmt.Errorf("compose timeline: %w", err)
	}

	result := &Result{
		OutputPath:  outputPath,
		Clips:       len(timeline.Clips),
		Transitions: transitions,
		Duration:    timeline.Duration(),
		Elapsed:     time.Since(start),
	}

	r.logger.Info("render completed",
		slog.String("output", outputPath),
		slog.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}

// BuildTimeline applies the job transition to every clip after the first and
// returns the timeline together with the number of transitions applied.
func BuildTimeline(clips []media.Clip, job Job, fps int) (media.Timeline, int) {
	out := make([]media.Clip, len(clips))
	transitions := 0
	for i, c := range clips {
		if i > 0 && job.Transition != media.TransitionNone {
			c = media.ApplyTransition(c, job.Transition, job.TransitionDuration)
			transitions++
		}
		out[i] = c
	}
	return media.NewTimeline(out, fps), transitions
}

// ListMedia returns the allowed files in dir sorted by filename.
// Subdirectories are ignored.
func ListMedia(dir string) ([]media.MediaFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !media.IsAllowed(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	files := make([]media.MediaFile, 0, len(names))
	for _, name := range names {
		files = append(files, media.NewMediaFile(filepath.Join(dir, name)))
	}
	return files, nil
}
