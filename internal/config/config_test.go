package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPartialAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
video:
  fps: 25
fonts:
  dirs: [fonts]
  fallbacks: [DejaVu Sans]
output:
  video: dive.mov
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Video.FPS != 25 {
		t.Fatalf("fps = %d, want 25", cfg.Video.FPS)
	}
	if cfg.Video.Preset != "medium" || cfg.Video.CRF != 18 || cfg.Video.Codec != VideoCodec {
		t.Fatalf("video defaults not applied: %+v", cfg.Video)
	}
	if diff := cmp.Diff([]string{"DejaVu Sans"}, cfg.Fonts.Fallbacks); diff != "" {
		t.Fatalf("fallbacks mismatch (-want +got):\n%s", diff)
	}
	if cfg.Output.Video != "dive.mov" {
		t.Fatalf("output = %q", cfg.Output.Video)
	}
	if cfg.Video.Width != 480 || cfg.Video.Height != 280 {
		t.Fatalf("frame size = %dx%d", cfg.Video.Width, cfg.Video.Height)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "video: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestMarshalLoadsBack(t *testing.T) {
	cfg := Default()
	cfg.Video.FPS = 30
	cfg.Fonts.Dirs = []string{"/opt/fonts"}
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, string(data))
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestFontDirs(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "abs")
	cfg := Config{Fonts: FontsConfig{Dirs: []string{"fonts", "", abs, "fonts", "  "}}}
	got := cfg.FontDirs(base)
	want := []string{filepath.Join(base, "fonts"), abs}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FontDirs mismatch (-want +got):\n%s", diff)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := resolveExternalPath(base, "~/Fonts"); got != filepath.Join(home, "Fonts") {
		t.Fatalf("home expansion = %q", got)
	}
}
