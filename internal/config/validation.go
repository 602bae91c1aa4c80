package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// x264Presets lists the presets libx264 accepts.
var x264Presets = []string{
	"ultrafast", "superfast", "veryfast", "faster", "fast",
	"medium", "slow", "slower", "veryslow", "placebo",
}

var videoExtensions = []string{".mp4", ".mov", ".mkv", ".m4v"}

// ValidateStrict runs all strict validations against the config and returns
// structured results. baseDir resolves relative font directories.
func (c Config) ValidateStrict(baseDir string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateVideo()...)
	results = append(results, c.validateFontDirs(baseDir)...)
	results = append(results, c.validateOutput()...)
	results = append(results, c.validateMerge()...)
	return results
}

func (c Config) validateVideo() []ValidationResult {
	var results []ValidationResult
	v := c.Video
	if v.FPS < 1 || v.FPS > 120 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("video.fps must be between 1 and 120, got %d", v.FPS),
		})
	}
	if v.CRF < 0 || v.CRF > 51 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("video.crf must be between 0 and 51, got %d", v.CRF),
		})
	}
	if !slices.Contains(x264Presets, v.Preset) {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("video.preset %q is not a libx264 preset (%s)", v.Preset, strings.Join(x264Presets, ", ")),
		})
	}
	if v.Codec != "" && v.Codec != VideoCodec {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("video.codec %q is ignored; overlays are always encoded with %s", v.Codec, VideoCodec),
		})
	}
	if v.Width <= 0 || v.Height <= 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("video.width and video.height must be positive, got %dx%d", v.Width, v.Height),
		})
	}
	return results
}

func (c Config) validateFontDirs(baseDir string) []ValidationResult {
	var results []ValidationResult
	for _, dir := range c.FontDirs(baseDir) {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("font directory %q not found", dir),
			})
		}
	}
	return results
}

func (c Config) validateOutput() []ValidationResult {
	ext := strings.ToLower(filepath.Ext(c.Output.Video))
	if slices.Contains(videoExtensions, ext) {
		return nil
	}
	return []ValidationResult{{
		Level:   "warning",
		Message: fmt.Sprintf("output.video %q does not use a common video extension (%s)", c.Output.Video, strings.Join(videoExtensions, ", ")),
	}}
}

func (c Config) validateMerge() []ValidationResult {
	var results []ValidationResult
	if c.Merge.Similarity <= 0 || c.Merge.Similarity > 1 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("merge.similarity must be in (0, 1], got %g", c.Merge.Similarity),
		})
	}
	if c.Merge.Blend < 0 || c.Merge.Blend > 1 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("merge.blend must be in [0, 1], got %g", c.Merge.Blend),
		})
	}
	return results
}

// HasErrors reports whether any result is an error.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}
