package media

import (
	"fmt"
	"strings"
)

// Audio format every segment is converted to before concatenation.
const (
	audioSampleRate    = 44100
	audioChannelLayout = "stereo"
)

// FilterChain builds one linear chain of a filtergraph, e.g.
// "[0:v]scale=-2:1920,setsar=1[v0]".
type FilterChain struct {
	inputs  []string
	filters []string
	outputs []string
}

// NewFilterChain starts a chain reading from the given pad labels.
func NewFilterChain(inputs ...string) *FilterChain {
	return &FilterChain{inputs: inputs}
}

// Add appends a filter with its options joined by ':'.
func (fc *FilterChain) Add(name string, opts ...string) *FilterChain {
	if len(opts) == 0 {
		fc.filters = append(fc.filters, name)
		return fc
	}
	fc.filters = append(fc.filters, name+"="+strings.Join(opts, ":"))
	return fc
}

// Output sets the labels the chain writes to.
func (fc *FilterChain) Output(labels ...string) *FilterChain {
	fc.outputs = labels
	return fc
}

// String renders the chain in filtergraph syntax.
func (fc *FilterChain) String() string {
	var b strings.Builder
	for _, in := range fc.inputs {
		b.WriteString("[" + in + "]")
	}
	b.WriteString(strings.Join(fc.filters, ","))
	for _, out := range fc.outputs {
		b.WriteString("[" + out + "]")
	}
	return b.String()
}

// seconds formats a duration for ffmpeg options.
func seconds(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

// anchorX is the pad x offset that places the clip at its anchor.
func anchorX(a Anchor) string {
	switch a {
	case AnchorLeft:
		return "0"
	case AnchorRight:
		return "ow-iw"
	default:
		return "(ow-iw)/2"
	}
}

// videoChain normalises input idx to the clip's frame size and applies its
// delay and fade. The source is scaled to the frame height and center-cropped
// to the frame width; narrower sources are padded with black at the anchor.
func videoChain(idx int, c Clip, fps int) *FilterChain {
	fc := NewFilterChain(fmt.Sprintf("%d:v", idx)).
		Add("scale", "-2", fmt.Sprint(c.Height)).
		Add("crop", fmt.Sprintf("'min(iw,%d)'", c.Width), fmt.Sprint(c.Height)).
		Add("pad", fmt.Sprint(c.Width), fmt.Sprint(c.Height), anchorX(c.Anchor), "0", "black").
		Add("setsar", "1").
		Add("fps", fmt.Sprint(fps)).
		Add("format", "yuv420p").
		Add("trim", "duration="+seconds(c.Duration)).
		Add("setpts", "PTS-STARTPTS")
	if c.Delay > 0 {
		fc.Add("tpad", "start_duration="+seconds(c.Delay), "color=black")
	}
	if c.FadeIn > 0 {
		fc.Add("fade", "t=in", "st="+seconds(c.Delay), "d="+seconds(c.FadeIn))
	}
	return fc.Output(fmt.Sprintf("v%d", idx))
}

// audioChain produces exactly c.Length() seconds of audio for input idx.
// Clips without audio get silence so every concat segment has both streams.
func audioChain(idx int, c Clip) *FilterChain {
	out := fmt.Sprintf("a%d", idx)
	if !c.HasAudio {
		return NewFilterChain().
			Add("anullsrc", fmt.Sprintf("r=%d", audioSampleRate), "cl="+audioChannelLayout).
			Add("atrim", "duration="+seconds(c.Length())).
			Output(out)
	}

	fc := NewFilterChain(fmt.Sprintf("%d:a", idx)).
		Add("aformat", fmt.Sprintf("sample_rates=%d", audioSampleRate), "channel_layouts="+audioChannelLayout).
		Add("atrim", "duration="+seconds(c.Duration)).
		Add("asetpts", "PTS-STARTPTS")
	if c.Delay > 0 {
		fc.Add("adelay", fmt.Sprintf("delays=%d", int(c.Delay*1000)), "all=1")
	}
	return fc.
		Add("apad", "whole_dur="+seconds(c.Length())).
		Add("atrim", "duration="+seconds(c.Length())).
		Output(out)
}

// FilterGraph renders the filter_complex for a timeline. Segments are
// concatenated back to back; the result is exposed as [vout] and [aout].
func FilterGraph(t Timeline) string {
	chains := make([]string, 0, 2*len(t.Clips)+1)
	concatInputs := make([]string, 0, 2*len(t.Clips))
	for i, c := range t.Clips {
		chains = append(chains, videoChain(i, c, t.FPS).String(), audioChain(i, c).String())
		concatInputs = append(concatInputs, fmt.Sprintf("v%d", i), fmt.Sprintf("a%d", i))
	}
	concat := NewFilterChain(concatInputs...).
		Add("concat", fmt.Sprintf("n=%d", len(t.Clips)), "v=1", "a=1").
		Output("vout", "aout")
	chains = append(chains, concat.String())
	return strings.Join(chains, ";")
}
