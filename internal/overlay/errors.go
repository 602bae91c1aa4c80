package overlay

import "errors"

// ErrNoSamples is returned when a video is requested for an empty sample set.
var ErrNoSamples = errors.New("no dive samples to render")

// ProfileError reports input that cannot produce a meaningful profile graph.
type ProfileError struct {
	Reason string
}

func (e *ProfileError) Error() string {
	return "cannot compile profile graph: " + e.Reason
}
