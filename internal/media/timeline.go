package media

import (
	"context"
	"errors"
	"fmt"
)

// DefaultFPS is the output frame rate of rendered timelines.
const DefaultFPS = 30

// Static errors for timeline validation.
var (
	// ErrEmptyTimeline is returned when a timeline has no clips to compose.
	ErrEmptyTimeline = errors.New("timeline has no clips")
	// ErrFrameSizeMismatch is returned when a clip is not 1080x1920.
	ErrFrameSizeMismatch = errors.New("clip frame size mismatch")
	// ErrInvalidFPS is returned when the frame rate is not positive.
	ErrInvalidFPS = errors.New("invalid frame rate: must be positive")
)

// Timeline is the ordered sequence of clips that forms one output video.
type Timeline struct {
	Clips []Clip
	FPS   int
}

// NewTimeline creates a timeline over clips. A non-positive fps falls back
// to DefaultFPS.
func NewTimeline(clips []Clip, fps int) Timeline {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return Timeline{Clips: clips, FPS: fps}
}

// Duration returns the total length of the timeline in seconds.
func (t Timeline) Duration() float64 {
	var total float64
	for _, c := range t.Clips {
		total += c.Length()
	}
	return total
}

// Validate checks the timeline can be composed.
func (t Timeline) Validate() error {
	if len(t.Clips) == 0 {
		return ErrEmptyTimeline
	}
	if t.FPS <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidFPS, t.FPS)
	}
	for i, c := range t.Clips {
		if c.Width != FrameWidth || c.Height != FrameHeight {
			return fmt.Errorf("%w: clip %d is %dx%d", ErrFrameSizeMismatch, i, c.Width, c.Height)
		}
		if c.Duration <= 0 {
			return fmt.Errorf("%w: clip %d", ErrInvalidDuration, i)
		}
	}
	return nil
}

// Compositor concatenates a timeline and encodes it to a file.
type Compositor interface {
	Compose(ctx context.Context, timeline Timeline, output string) error
}
