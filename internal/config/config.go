package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Video encoding constants. The overlay track is always H.264 in yuv420p.
const (
	VideoCodec  = "libx264"
	PixelFormat = "yuv420p"
)

// Config captures tool-wide settings read from ~/.scubaoverlay/config.yaml.
type Config struct {
	Version int          `yaml:"version"`
	Video   VideoConfig  `yaml:"video"`
	Fonts   FontsConfig  `yaml:"fonts"`
	Output  OutputConfig `yaml:"output"`
	Merge   MergeConfig  `yaml:"merge"`
}

// VideoConfig holds encoder settings and the frame size used when a
// template sets none.
type VideoConfig struct {
	FPS    int    `yaml:"fps"`
	Preset string `yaml:"preset"`
	CRF    int    `yaml:"crf"`
	Codec  string `yaml:"codec,omitempty"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// FontsConfig extends font discovery. Dirs are searched before the system
// font directories; relative entries resolve against the config file.
type FontsConfig struct {
	Dirs      []string `yaml:"dirs,omitempty"`
	Fallbacks []string `yaml:"fallbacks,omitempty"`
}

// OutputConfig names default output files.
type OutputConfig struct {
	Video string `yaml:"video"`
}

// MergeConfig holds defaults for compositing an overlay onto footage.
type MergeConfig struct {
	X          int     `yaml:"x"`
	Y          int     `yaml:"y"`
	Similarity float64 `yaml:"similarity"`
	Blend      float64 `yaml:"blend"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Video: VideoConfig{
			FPS:    10,
			Preset: "medium",
			CRF:    18,
			Codec:  VideoCodec,
			Width:  480,
			Height: 280,
		},
		Fonts: FontsConfig{
			Fallbacks: []string{"Arial", "Arial Bold", "Helvetica", "DejaVu Sans"},
		},
		Output: OutputConfig{
			Video: "output_overlay.mp4",
		},
		Merge: MergeConfig{
			Similarity: 0.3,
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = defaults.Video.FPS
	}
	if c.Video.Preset == "" {
		c.Video.Preset = defaults.Video.Preset
	}
	if c.Video.CRF == 0 {
		c.Video.CRF = defaults.Video.CRF
	}
	if c.Video.Codec == "" {
		c.Video.Codec = defaults.Video.Codec
	}
	if c.Video.Width == 0 {
		c.Video.Width = defaults.Video.Width
	}
	if c.Video.Height == 0 {
		c.Video.Height = defaults.Video.Height
	}
	if c.Fonts.Fallbacks == nil {
		c.Fonts.Fallbacks = defaults.Fonts.Fallbacks
	}
	if c.Output.Video == "" {
		c.Output.Video = defaults.Output.Video
	}
	if c.Merge.Similarity == 0 {
		c.Merge.Similarity = defaults.Merge.Similarity
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}
