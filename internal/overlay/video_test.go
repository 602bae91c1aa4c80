package overlay

import (
	"context"
	"errors"
	"image"
	"testing"

	"scubaoverlay/pkg/divelog"
)

type fakeSource struct {
	empty bool
	times []int
}

func (f *fakeSource) Size() (int, int) { return 4, 4 }
func (f *fakeSource) Empty() bool      { return f.empty }
func (f *fakeSource) Frame(t int) *image.RGBA {
	f.times = append(f.times, t)
	return image.NewRGBA(image.Rect(0, 0, 4, 4))
}

type fakeWriter struct {
	frames   int
	closes   int
	failAt   int
	closeErr error
}

func (w *fakeWriter) WriteFrame(*image.RGBA) error {
	if w.failAt > 0 && w.frames+1 == w.failAt {
		return errors.New("pipe closed")
	}
	w.frames++
	return nil
}

func (w *fakeWriter) Close() error {
	w.closes++
	return w.closeErr
}

func TestGenerateVideo(t *testing.T) {
	src := &fakeSource{}
	w := &fakeWriter{}
	var progress []Progress
	err := GenerateVideo(context.Background(), src, w, VideoOptions{
		Seconds:    5,
		FPS:        3,
		TimeOffset: 100,
		OnProgress: func(p Progress) { progress = append(progress, p) },
	})
	if err != nil {
		t.Fatalf("GenerateVideo: %v", err)
	}
	if w.frames != 15 {
		t.Fatalf("frames = %d, want 15", w.frames)
	}
	if w.closes != 1 {
		t.Fatalf("closes = %d, want 1", w.closes)
	}
	wantTimes := []int{100, 101, 102, 103, 104}
	if len(src.times) != len(wantTimes) {
		t.Fatalf("rendered times = %v", src.times)
	}
	for i := range wantTimes {
		if src.times[i] != wantTimes[i] {
			t.Fatalf("rendered times = %v, want %v", src.times, wantTimes)
		}
	}
	if len(progress) != 5 || progress[4] != (Progress{Done: 5, Total: 5}) {
		t.Fatalf("progress = %+v", progress)
	}
}

func TestGenerateVideoProgressCadence(t *testing.T) {
	var progress []Progress
	err := GenerateVideo(context.Background(), &fakeSource{}, &fakeWriter{}, VideoOptions{
		Seconds:    100,
		FPS:        1,
		OnProgress: func(p Progress) { progress = append(progress, p) },
	})
	if err != nil {
		t.Fatalf("GenerateVideo: %v", err)
	}
	if len(progress) != 10 {
		t.Fatalf("progress calls = %d, want 10", len(progress))
	}
	if got := progress[4].String(); got != "Progress: 50.0% (50/100 sec)" {
		t.Fatalf("progress line = %q", got)
	}
}

func TestGenerateVideoClosesOnEveryPath(t *testing.T) {
	w := &fakeWriter{}
	err := GenerateVideo(context.Background(), &fakeSource{empty: true}, w, VideoOptions{Seconds: 5, FPS: 1})
	if !errors.Is(err, ErrNoSamples) || w.closes != 1 {
		t.Fatalf("empty source: err = %v, closes = %d", err, w.closes)
	}

	w = &fakeWriter{failAt: 4}
	err = GenerateVideo(context.Background(), &fakeSource{}, w, VideoOptions{Seconds: 5, FPS: 2})
	if err == nil || w.closes != 1 || w.frames != 3 {
		t.Fatalf("write failure: err = %v, closes = %d, frames = %d", err, w.closes, w.frames)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w = &fakeWriter{}
	err = GenerateVideo(ctx, &fakeSource{}, w, VideoOptions{Seconds: 5, FPS: 1})
	if !errors.Is(err, context.Canceled) || w.closes != 1 || w.frames != 0 {
		t.Fatalf("canceled: err = %v, closes = %d", err, w.closes)
	}

	w = &fakeWriter{closeErr: errors.New("encoder exited 1")}
	err = GenerateVideo(context.Background(), &fakeSource{}, w, VideoOptions{Seconds: 1, FPS: 1})
	if err == nil || w.closes != 1 {
		t.Fatalf("close failure should surface: err = %v", err)
	}
}

func TestTotalSeconds(t *testing.T) {
	samples := []divelog.DiveSample{{Time: 0}, {Time: 120}}
	if got := TotalSeconds(samples, 30); got != 30 {
		t.Fatalf("explicit = %d", got)
	}
	if got := TotalSeconds(samples, 0); got != 121 {
		t.Fatalf("derived = %d, want 121", got)
	}
	if got := TotalSeconds(nil, 0); got != 0 {
		t.Fatalf("empty = %d", got)
	}
}
