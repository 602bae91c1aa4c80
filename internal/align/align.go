// Package align matches a video clip's creation time to a dive's time window.
//
// Cameras and dive computers often disagree by whole-hour timezone offsets, so
// the matcher searches a bounded set of hour corrections rather than trusting
// either clock.
package align

import (
	"math"
	"time"
)

// MaxOffsetHours bounds the timezone search in both directions.
const MaxOffsetHours = 10

// Offsets returns the candidate hour corrections in search order:
// 0, +1, -1, +2, -2, ... +max, -max.
func Offsets(max int) []int {
	if max < 0 {
		max = 0
	}
	out := make([]int, 0, 2*max+1)
	out = append(out, 0)
	for h := 1; h <= max; h++ {
		out = append(out, h, -h)
	}
	return out
}

// DetectOffset returns the first hour correction that places videoTime within
// [diveStart, diveEnd] inclusive. ok is false when no correction within
// MaxOffsetHours fits.
func DetectOffset(videoTime, diveStart, diveEnd time.Time) (offset int, ok bool) {
	for _, h := range Offsets(MaxOffsetHours) {
		adjusted := videoTime.Add(time.Duration(h) * time.Hour)
		if !adjusted.Before(diveStart) && !adjusted.After(diveEnd) {
			return h, true
		}
	}
	return 0, false
}

// Window is a span of dive time covered by a video clip, in seconds from the
// dive start.
type Window struct {
	OffsetHours int
	Start       int
	End         int
	Duration    int
}

// SegmentWindow converts a matched video into dive-relative seconds. The start
// may be negative when the clip begins before the logged dive.
func SegmentWindow(videoStart time.Time, videoDuration float64, offsetHours int, diveStart time.Time) Window {
	adjusted := videoStart.Add(time.Duration(offsetHours) * time.Hour)
	start := int(adjusted.Sub(diveStart) / time.Second)
	duration := int(math.Trunc(videoDuration))
	return Window{
		OffsetHours: offsetHours,
		Start:       start,
		End:         start + duration,
		Duration:    duration,
	}
}

// Match runs DetectOffset and SegmentWindow together, returning an OffsetError
// carrying full diagnostics when no correction fits.
func Match(videoStart time.Time, videoDuration float64, diveStart, diveEnd time.Time) (Window, error) {
	offset, ok := DetectOffset(videoStart, diveStart, diveEnd)
	if !ok {
		return Window{}, &OffsetError{
			VideoTime:     videoStart,
			VideoDuration: videoDuration,
			DiveStart:     diveStart,
			DiveEnd:       diveEnd,
			MaxOffset:     MaxOffsetHours,
		}
	}
	return SegmentWindow(videoStart, videoDuration, offset, diveStart), nil
}
