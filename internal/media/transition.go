package media

import "strings"

// TransitionKind is the effect applied where one clip follows another.
type TransitionKind int

const (
	// TransitionNone leaves the clip unchanged.
	TransitionNone TransitionKind = iota
	// TransitionFade crossfades the clip in from the start.
	TransitionFade
	// TransitionFadeBlack holds black for the transition duration, then fades in.
	TransitionFadeBlack
	// TransitionSlideLeft anchors the clip right, delays it and fades it in.
	TransitionSlideLeft
	// TransitionSlideRight anchors the clip left, delays it and fades it in.
	TransitionSlideRight
)

// DefaultTransition is used when a request does not name one.
const DefaultTransition = TransitionFade

var transitionNames = map[string]TransitionKind{
	"fade":        TransitionFade,
	"fade_black":  TransitionFadeBlack,
	"slide_left":  TransitionSlideLeft,
	"slide_right": TransitionSlideRight,
}

// ParseTransition maps a form value to a TransitionKind.
// Unrecognised names map to TransitionNone.
func ParseTransition(name string) TransitionKind {
	kind, ok := transitionNames[strings.TrimSpace(name)]
	if !ok {
		return TransitionNone
	}
	return kind
}

// String returns the wire name of the transition.
func (k TransitionKind) String() string {
	switch k {
	case TransitionFade:
		return "fade"
	case TransitionFadeBlack:
		return "fade_black"
	case TransitionSlideLeft:
		return "slide_left"
	case TransitionSlideRight:
		return "slide_right"
	default:
		return "none"
	}
}

// ApplyTransition returns a copy of clip carrying the transition. The slide
// variants only change the anchor; there is no positional animation.
func ApplyTransition(clip Clip, kind TransitionKind, duration float64) Clip {
	switch kind {
	case TransitionFade:
		clip.FadeIn = duration
	case TransitionFadeBlack:
		clip.Delay = duration
		clip.FadeIn = duration
	case TransitionSlideLeft:
		clip.Anchor = AnchorRight
		clip.Delay = duration
		clip.FadeIn = duration
	case TransitionSlideRight:
		clip.Anchor = AnchorLeft
		clip.Delay = duration
		clip.FadeIn = duration
	case TransitionNone:
	}
	return clip
}
