package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Static errors for probing.
var (
	// ErrFFprobeExecution is returned when ffprobe command fails.
	ErrFFprobeExecution = errors.New("ffprobe execution failed")
	// ErrNoVideoStream is returned when a file has no decodable video stream.
	ErrNoVideoStream = errors.New("no video stream found")
)

const defaultProbeTimeout = 30 * time.Second

// Compile-time check that FFprobe implements Prober.
var _ Prober = (*FFprobe)(nil)

// FFprobe implements Prober with ffprobe through ffmpeg-go.
type FFprobe struct {
	timeout time.Duration
}

// NewFFprobe creates a prober. A non-positive timeout uses 30s.
func NewFFprobe(timeout time.Duration) *FFprobe {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &FFprobe{timeout: timeout}
}

// Probe returns the duration, frame size and audio presence of path.
// The timeout is shortened to the context deadline when one is set.
func (p *FFprobe) Probe(ctx context.Context, path string) (ProbeResult, error) {
	if err := ctx.Err(); err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe cancelled: %w", err)
	}

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	raw, err := ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{"v": "error"})
	if err != nil {
		if ctx.Err() != nil {
			return ProbeResult{}, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return ProbeResult{}, fmt.Errorf("%w: %w", ErrFFprobeExecution, err)
	}

	return parseProbe(raw)
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// parseProbe decodes ffprobe's JSON output. The container duration is
// preferred; the video stream duration is the fallback.
func parseProbe(raw string) (ProbeResult, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return ProbeResult{}, fmt.Errorf("decode ffprobe output: %w", err)
	}

	var (
		result ProbeResult
		video  *probeStream
	)
	for i := range out.Streams {
		s := &out.Streams[i]
		switch s.CodecType {
		case "video":
			if video == nil {
				video = s
			}
		case "audio":
			result.HasAudio = true
		}
	}
	if video == nil {
		return ProbeResult{}, ErrNoVideoStream
	}

	result.Width = video.Width
	result.Height = video.Height
	result.Duration = parseSeconds(out.Format.Duration)
	if result.Duration == 0 {
		result.Duration = parseSeconds(video.Duration)
	}
	return result, nil
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
