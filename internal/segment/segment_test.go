package segment

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"scubaoverlay/pkg/divelog"
)

func diveAt(times ...int) divelog.DiveData {
	samples := make([]divelog.DiveSample, len(times))
	for i, t := range times {
		samples[i] = divelog.DiveSample{Time: t, Depth: float64(i)}
	}
	return divelog.DiveData{Samples: samples}
}

func sampleTimes(samples []divelog.DiveSample) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = s.Time
	}
	return out
}

func TestExtractBoundaryInclusion(t *testing.T) {
	res, err := Extract(diveAt(0, 50, 100, 150, 200, 250), 100, 200)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if diff := cmp.Diff([]int{50, 100, 150, 200, 250}, sampleTimes(res.Samples)); diff != "" {
		t.Fatalf("segment mismatch (-want +got):\n%s", diff)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
}

func TestExtractWindowBetweenSamples(t *testing.T) {
	res, err := Extract(diveAt(0, 60, 120, 180), 70, 100)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if diff := cmp.Diff([]int{60, 120}, sampleTimes(res.Samples)); diff != "" {
		t.Fatalf("segment mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractClampsWithWarnings(t *testing.T) {
	res, err := Extract(diveAt(0, 50, 100, 150), -30, 400)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Start != 0 || res.End != 150 {
		t.Fatalf("clamped window = [%d, %d], want [0, 150]", res.Start, res.End)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", res.Warnings)
	}
	if diff := cmp.Diff([]int{0, 50, 100, 150}, sampleTimes(res.Samples)); diff != "" {
		t.Fatalf("segment mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractOutOfBounds(t *testing.T) {
	_, err := Extract(diveAt(0, 600, 1200), 5000, 5100)
	var oob *OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("err = %T %v, want *OutOfBoundsError", err, err)
	}
	if oob.DiveDuration != 1200 || oob.Start != 5000 || oob.End != 5100 {
		t.Fatalf("unexpected error fields: %+v", oob)
	}
	if !strings.Contains(oob.Details(), "Valid range: 0s to 1200s") {
		t.Fatalf("details missing valid range:\n%s", oob.Details())
	}
}

func TestExtractStartAtDuration(t *testing.T) {
	_, err := Extract(diveAt(0, 100), 100, 150)
	var oob *OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("err = %v, want out of bounds", err)
	}
}

func TestExtractEmptyDive(t *testing.T) {
	_, err := Extract(divelog.DiveData{}, 0, 10)
	var empty *EmptySegmentError
	if !errors.As(err, &empty) || empty.SampleCount != 0 {
		t.Fatalf("err = %v, want EmptySegmentError", err)
	}
}
