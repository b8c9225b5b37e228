// Package render provides the timeline renderer that turns a directory of
// staged media into one vertical video.
package render

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/maauso/shorts-api/internal/media"
)

// Default render parameters.
const (
	DefaultClipDuration       = 5.0
	DefaultTransitionDuration = 1.0
)

var validate = validator.New()

// Job is the parameter set for one render request.
type Job struct {
	// ClipDuration is how long each clip is shown, in seconds.
	ClipDuration float64 `validate:"gt=0,lte=600"`
	// TransitionDuration is the length of each transition, in seconds.
	TransitionDuration float64 `validate:"gte=0,lte=60"`
	// Transition is applied to every clip after the first.
	Transition media.TransitionKind
	// PushToS3 uploads the result instead of returning it inline.
	PushToS3 bool
}

// DefaultJob returns a Job with 5s clips and 1s fades.
func DefaultJob() Job {
	return Job{
		ClipDuration:       DefaultClipDuration,
		TransitionDuration: DefaultTransitionDuration,
		Transition:         media.DefaultTransition,
	}
}

// Validate checks the numeric ranges of the job.
func (j Job) Validate() error {
	if err := validate.Struct(j); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	return nil
}
