package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MergeOptions describes compositing an overlay clip onto footage.
type MergeOptions struct {
	Video   string
	Overlay string
	Output  string
	X       int
	Y       int
	// ChromaColor, when set, keys that color out of the overlay first.
	ChromaColor string
	Similarity  float64
	Blend       float64
}

// MergeArgs builds the ffmpeg arguments for Merge. Audio from the footage is
// copied unchanged.
func MergeArgs(opts MergeOptions) []string {
	var filter string
	if opts.ChromaColor != "" {
		similarity := opts.Similarity
		if similarity <= 0 {
			similarity = 0.3
		}
		filter = fmt.Sprintf("[1:v]colorkey=%s:%g:%g[ov];[0:v][ov] overlay=%d:%d",
			ffmpegColor(opts.ChromaColor), similarity, opts.Blend, opts.X, opts.Y)
	} else {
		filter = fmt.Sprintf("[0:v][1:v] overlay=%d:%d", opts.X, opts.Y)
	}
	return []string{
		"-y",
		"-i", opts.Video,
		"-i", opts.Overlay,
		"-filter_complex", filter,
		"-c:a", "copy",
		opts.Output,
	}
}

// Merge composites the overlay onto the video with ffmpeg.
func Merge(ctx context.Context, runner Runner, ffmpeg string, opts MergeOptions) error {
	if opts.Video == "" || opts.Overlay == "" || opts.Output == "" {
		return errors.New("merge: video, overlay and output paths are required")
	}
	if runner == nil {
		runner = CmdRunner{}
	}
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	result, err := runner.Run(ctx, ffmpeg, MergeArgs(opts), RunOptions{})
	if err != nil {
		if tail := stderrTail(result.Stderr, 5); tail != "" {
			return fmt.Errorf("merge overlay: %w: %s", err, tail)
		}
		return fmt.Errorf("merge overlay: %w", err)
	}
	return nil
}

// ffmpegColor turns "#00FF00" into "0x00FF00".
func ffmpegColor(c string) string {
	c = strings.TrimSpace(c)
	if strings.HasPrefix(c, "#") {
		return "0x" + strings.ToUpper(c[1:])
	}
	return c
}
