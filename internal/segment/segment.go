// Package segment narrows a dive's sample sequence to the window covered by a
// video clip, keeping one anchor sample on each side of the window.
package segment

import (
	"fmt"

	"scubaoverlay/pkg/divelog"
)

// Result is the outcome of Extract. Start and End are the window bounds after
// clamping to the dive; Warnings describes any clamping that took place.
type Result struct {
	Samples  []divelog.DiveSample
	Start    int
	End      int
	Warnings []string
}

// Extract selects the samples needed to render [start, end] seconds of dive
// time. Sample times are preserved, not rebased to the window start.
//
// A window starting at or after the dive duration is an OutOfBoundsError. A
// window reaching past either end of the dive is clamped with a warning.
func Extract(data divelog.DiveData, start, end int) (Result, error) {
	samples := data.Samples
	if len(samples) == 0 {
		return Result{}, &EmptySegmentError{Start: start, End: end, SampleCount: 0}
	}

	duration := samples[len(samples)-1].Time
	if start >= duration {
		return Result{}, &OutOfBoundsError{Start: start, End: end, DiveDuration: duration}
	}

	res := Result{Start: start, End: end}
	if end > duration {
		res.Warnings = append(res.Warnings, fmt.Sprintf("segment extends beyond dive end (%ds > %ds); trimmed to dive duration", end, duration))
		res.End = duration
	}
	if start < 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("segment starts before dive begins (%ds < 0s); start adjusted to 0s", start))
		res.Start = 0
	}

	for i, s := range samples {
		if s.Time >= res.Start {
			if i > 0 {
				res.Samples = append(res.Samples, samples[i-1])
			}
			break
		}
	}
	for _, s := range samples {
		if s.Time >= res.Start && s.Time <= res.End {
			res.Samples = append(res.Samples, s)
		}
	}
	for _, s := range samples {
		if s.Time > res.End {
			res.Samples = append(res.Samples, s)
			break
		}
	}

	if len(res.Samples) == 0 {
		return Result{}, &EmptySegmentError{Start: res.Start, End: res.End, SampleCount: len(samples)}
	}
	return res, nil
}
