package overlay

import (
	"context"
	"errors"
	"fmt"
	"image"

	"scubaoverlay/pkg/divelog"
)

// FrameSource renders the overlay at a whole second of dive time.
type FrameSource interface {
	Size() (width, height int)
	Empty() bool
	Frame(diveTime int) *image.RGBA
}

// FrameWriter consumes raw frames. Close flushes and finishes the output.
type FrameWriter interface {
	WriteFrame(frame *image.RGBA) error
	Close() error
}

// Progress is reported about ten times over a video.
type Progress struct {
	Done  int // seconds rendered
	Total int
}

func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Done) / float64(p.Total) * 100
}

func (p Progress) String() string {
	return fmt.Sprintf("Progress: %.1f%% (%d/%d sec)", p.Percent(), p.Done, p.Total)
}

// VideoOptions controls the render loop.
type VideoOptions struct {
	Seconds    int // output length
	FPS        int
	TimeOffset int // dive time of the first output second
	OnProgress func(Progress)
}

// TotalSeconds returns explicit when set, else one past the last sample.
func TotalSeconds(samples []divelog.DiveSample, explicit int) int {
	if explicit > 0 {
		return explicit
	}
	if len(samples) == 0 {
		return 0
	}
	return samples[len(samples)-1].Time + 1
}

// GenerateVideo renders one frame per output second and writes it FPS times.
// w is closed exactly once on every path; a close failure is reported when
// rendering itself succeeded.
func GenerateVideo(ctx context.Context, src FrameSource, w FrameWriter, opts VideoOptions) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("finish video: %w", cerr)
		}
	}()

	if src.Empty() {
		return ErrNoSamples
	}
	if opts.FPS <= 0 {
		return errors.New("fps must be positive")
	}
	if opts.Seconds <= 0 {
		return errors.New("video duration must be positive")
	}

	step := opts.Seconds / 10
	if step < 1 {
		step = 1
	}
	for sec := 0; sec < opts.Seconds; sec++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame := src.Frame(sec + opts.TimeOffset)
		for i := 0; i < opts.FPS; i++ {
			if err := w.WriteFrame(frame); err != nil {
				return fmt.Errorf("write frame at %ds: %w", sec, err)
			}
		}
		done := sec + 1
		if opts.OnProgress != nil && (done%step == 0 || done == opts.Seconds) {
			opts.OnProgress(Progress{Done: done, Total: opts.Seconds})
		}
	}
	return nil
}
