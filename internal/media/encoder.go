package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"sync"
)

// Codec settings are fixed; overlays are always H.264 in yuv420p.
const (
	VideoCodec  = "libx264"
	PixelFormat = "yuv420p"
)

// Encoder consumes rendered frames in presentation order.
type Encoder interface {
	WriteFrame(frame *image.RGBA) error
	Close() error
}

// EncodeOptions configures a raw-frame encode.
type EncodeOptions struct {
	Output string
	Width  int
	Height int
	FPS    int
	Preset string
	CRF    int
}

func (o EncodeOptions) validate() error {
	switch {
	case o.Output == "":
		return errors.New("encoder: output path is required")
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("encoder: invalid frame size %dx%d", o.Width, o.Height)
	case o.FPS <= 0:
		return fmt.Errorf("encoder: invalid fps %d", o.FPS)
	}
	return nil
}

// EncodeArgs builds the ffmpeg arguments that read RGBA frames from stdin.
func EncodeArgs(opts EncodeOptions) []string {
	args := []string{
		"-y",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-r", strconv.Itoa(opts.FPS),
		"-i", "-",
		"-an",
		// yuv420p needs even dimensions.
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", VideoCodec,
		"-pix_fmt", PixelFormat,
	}
	if opts.Preset != "" {
		args = append(args, "-preset", opts.Preset)
	}
	if opts.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(opts.CRF))
	}
	args = append(args, "-movflags", "+faststart", opts.Output)
	return args
}

// FFmpegEncoder streams frames into an ffmpeg process over stdin.
type FFmpegEncoder struct {
	opts   EncodeOptions
	stdin  *io.PipeWriter
	done   chan error
	frames int

	closeOnce sync.Once
	closeErr  error
}

var _ Encoder = (*FFmpegEncoder)(nil)

// StartEncoder launches ffmpeg. The caller must Close the encoder on every
// path, including when no frame was written.
func StartEncoder(ctx context.Context, runner Runner, ffmpeg string, opts EncodeOptions) (*FFmpegEncoder, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if runner == nil {
		runner = CmdRunner{}
	}
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}

	pr, pw := io.Pipe()
	enc := &FFmpegEncoder{opts: opts, stdin: pw, done: make(chan error, 1)}
	args := EncodeArgs(opts)
	go func() {
		result, err := runner.Run(ctx, ffmpeg, args, RunOptions{Stdin: pr})
		if err != nil {
			if tail := stderrTail(result.Stderr, 5); tail != "" {
				err = fmt.Errorf("ffmpeg: %w: %s", err, tail)
			} else {
				err = fmt.Errorf("ffmpeg: %w", err)
			}
		}
		// Unblock any writer still waiting on a process that has exited.
		pr.CloseWithError(errEncoderExited)
		enc.done <- err
	}()
	return enc, nil
}

var errEncoderExited = errors.New("encoder exited")

// WriteFrame sends one frame. The frame must match the configured size.
func (e *FFmpegEncoder) WriteFrame(frame *image.RGBA) error {
	b := frame.Bounds()
	if b.Dx() != e.opts.Width || b.Dy() != e.opts.Height {
		return fmt.Errorf("encoder: frame is %dx%d, want %dx%d", b.Dx(), b.Dy(), e.opts.Width, e.opts.Height)
	}
	if _, err := e.stdin.Write(framePixels(frame)); err != nil {
		return fmt.Errorf("encoder: write frame %d: %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Frames reports how many frames were written.
func (e *FFmpegEncoder) Frames() int {
	return e.frames
}

// Close flushes stdin and waits for ffmpeg to finish. It is safe to call more
// than once; later calls return the first result.
func (e *FFmpegEncoder) Close() error {
	e.closeOnce.Do(func() {
		e.stdin.Close()
		e.closeErr = <-e.done
	})
	return e.closeErr
}

// framePixels returns tightly packed RGBA rows.
func framePixels(frame *image.RGBA) []byte {
	b := frame.Bounds()
	rowLen := b.Dx() * 4
	if frame.Stride == rowLen && b.Min == (image.Point{}) {
		return frame.Pix[:rowLen*b.Dy()]
	}
	var buf bytes.Buffer
	buf.Grow(rowLen * b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := frame.PixOffset(b.Min.X, y)
		buf.Write(frame.Pix[off : off+rowLen])
	}
	return buf.Bytes()
}
