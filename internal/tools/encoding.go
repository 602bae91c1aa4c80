package tools

import (
	"context"
	"os/exec"
)

// EncoderCheck reports whether ffmpeg can produce the overlay track.
type EncoderCheck struct {
	Codec     string `json:"codec"`
	Available bool   `json:"available"`
}

// CheckEncoder encodes a single synthetic RGBA frame with codec and reports
// whether ffmpeg accepted it.
func CheckEncoder(ctx context.Context, ffmpegPath, codec string) EncoderCheck {
	return EncoderCheck{Codec: codec, Available: testEncoder(ctx, ffmpegPath, codec)}
}

func testEncoder(ctx context.Context, ffmpegPath, codec string) bool {
	args := []string{
		"-hide_banner",
		"-f", "lavfi",
		"-i", "color=black:s=64x64:d=1:r=1,format=rgba",
		"-c:v", codec,
		"-pix_fmt", "yuv420p",
		"-frames:v", "1",
		"-f", "null",
		"-",
	}
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	return cmd.Run() == nil
}
