package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"scubaoverlay/internal/config"
	"scubaoverlay/internal/template"
)

// Input is everything that determines the frames of one overlay render.
// Log and Template hold content hashes so renaming a file does not force a
// re-render but editing it does.
type Input struct {
	Log        string         `json:"log"`
	Template   string         `json:"template"`
	Kind       string         `json:"kind"`
	Units      template.Units `json:"units"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	FPS        int            `json:"fps"`
	Seconds    int            `json:"seconds"`
	TimeOffset int            `json:"time_offset"`
	Fonts      []string       `json:"fonts"`
}

// GlobalConfigHash returns a deterministic hash of the encoder settings.
func GlobalConfigHash(cfg config.Config) string {
	return hashJSON(cfg.Video)
}

// InputHash returns a deterministic hash of in.
func InputHash(in Input) string {
	return hashJSON(in)
}

// FileHash returns the sha256 of the file's contents.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

func hashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Should never happen with known struct types.
		return fmt.Sprintf("sha256:error-%v", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", sum)
}
