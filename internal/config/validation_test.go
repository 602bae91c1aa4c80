package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func levels(results []ValidationResult) (errs, warnings []string) {
	for _, r := range results {
		if r.Level == "error" {
			errs = append(errs, r.Message)
		} else {
			warnings = append(warnings, r.Message)
		}
	}
	return errs, warnings
}

func TestValidateStrict_Defaults(t *testing.T) {
	results := Default().ValidateStrict(t.TempDir())
	if len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
	if HasErrors(results) {
		t.Fatal("HasErrors on clean config")
	}
}

func TestValidateStrict_Video(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"fps zero", func(c *Config) { c.Video.FPS = 0 }, "video.fps"},
		{"fps too high", func(c *Config) { c.Video.FPS = 240 }, "video.fps"},
		{"crf", func(c *Config) { c.Video.CRF = 60 }, "video.crf"},
		{"preset", func(c *Config) { c.Video.Preset = "turbo" }, "video.preset"},
		{"size", func(c *Config) { c.Video.Width = 0 }, "video.width"},
		{"similarity", func(c *Config) { c.Merge.Similarity = 2 }, "merge.similarity"},
		{"blend", func(c *Config) { c.Merge.Blend = -1 }, "merge.blend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			errs, _ := levels(cfg.ValidateStrict(t.TempDir()))
			if len(errs) != 1 || !strings.Contains(errs[0], tt.want) {
				t.Fatalf("errors = %v, want one mentioning %q", errs, tt.want)
			}
		})
	}
}

func TestValidateStrict_Warnings(t *testing.T) {
	cfg := Default()
	cfg.Video.Codec = "libx265"
	cfg.Fonts.Dirs = []string{"missing-fonts"}
	cfg.Output.Video = "overlay.gif"

	results := cfg.ValidateStrict(t.TempDir())
	errs, warnings := levels(results)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", warnings)
	}
	if HasErrors(results) {
		t.Fatal("warnings must not count as errors")
	}
}

func TestValidateStrict_FontDirPresent(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "fonts", "x.ttf"), "x")
	cfg := Default()
	cfg.Fonts.Dirs = []string{"fonts"}
	if results := cfg.ValidateStrict(base); len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}
