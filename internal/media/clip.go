package media

import (
	"context"
	"errors"
	"fmt"
)

// Output frame geometry for vertical shorts (9:16).
const (
	FrameWidth  = 1080
	FrameHeight = 1920
)

// Static errors for clip construction.
var (
	// ErrInvalidDuration is returned when duration is not positive.
	ErrInvalidDuration = errors.New("invalid duration: must be positive")
	// ErrProberRequired is returned when a video clip is built without a prober.
	ErrProberRequired = errors.New("video clips require a media prober")
)

// Anchor is the horizontal placement of a clip on the output canvas.
type Anchor int

const (
	// AnchorCenter centers the clip horizontally.
	AnchorCenter Anchor = iota
	// AnchorLeft pins the clip to the left edge.
	AnchorLeft
	// AnchorRight pins the clip to the right edge.
	AnchorRight
)

// String returns the lowercase name of the anchor.
func (a Anchor) String() string {
	switch a {
	case AnchorLeft:
		return "left"
	case AnchorRight:
		return "right"
	default:
		return "center"
	}
}

// Clip describes one decoded source plus the transforms chained onto it.
// Clips are values: every transform returns a modified copy.
type Clip struct {
	// Source is the path of the decoded file.
	Source string
	// Kind is the media kind of Source.
	Kind MediaKind
	// Duration is how many seconds of the source are shown.
	Duration float64
	// Width and Height are the output frame size of the clip.
	Width  int
	Height int
	// Delay is the black lead-in, in seconds, before the clip appears.
	Delay float64
	// FadeIn is the length of the crossfade from black, starting at Delay.
	FadeIn float64
	// Anchor is the horizontal position of the clip on the canvas.
	Anchor Anchor
	// HasAudio reports whether the source carries an audio stream.
	HasAudio bool
}

// Length returns the time the clip occupies on the timeline.
func (c Clip) Length() float64 {
	return c.Delay + c.Duration
}

// ProbeResult holds the stream metadata needed to build a clip.
type ProbeResult struct {
	Duration float64
	Width    int
	Height   int
	HasAudio bool
}

// Prober reads media metadata.
type Prober interface {
	Probe(ctx context.Context, path string) (ProbeResult, error)
}

// ClipBuilder turns staged files into normalised clips.
type ClipBuilder struct {
	prober Prober
}

// NewClipBuilder creates a ClipBuilder that probes videos with prober.
func NewClipBuilder(prober Prober) *ClipBuilder {
	return &ClipBuilder{prober: prober}
}

// Build creates a clip for path lasting at most duration seconds.
// Images are held for exactly duration. Videos longer than duration are
// truncated; shorter ones play in full without looping. Files with an
// unsupported extension yield a nil clip and no error.
func (b *ClipBuilder) Build(ctx context.Context, path string, duration float64) (*Clip, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: got %.2f", ErrInvalidDuration, duration)
	}

	kind := KindOf(path)
	clip := Clip{Source: path, Kind: kind}

	switch kind {
	case KindImage:
		clip.Duration = duration
	case KindVideo:
		if b.prober == nil {
			return nil, ErrProberRequired
		}
		info, err := b.prober.Probe(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("probe %s: %w", path, err)
		}
		clip.Duration = duration
		// Containers without a duration header are capped by -t at encode time.
		if info.Duration > 0 && info.Duration < duration {
			clip.Duration = info.Duration
		}
		clip.HasAudio = info.HasAudio
	default:
		return nil, nil
	}

	clip = normalize(clip)
	return &clip, nil
}

// normalize fixes the frame size to 1080x1920. The compositor scales the
// source to height 1920 and center-crops it to width 1080.
func normalize(c Clip) Clip {
	c.Width = FrameWidth
	c.Height = FrameHeight
	c.Anchor = AnchorCenter
	return c
}
