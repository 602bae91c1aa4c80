// Package state remembers what each overlay output was rendered from so an
// unchanged render can be skipped.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// OutputState tracks the render inputs and result for a single output file.
type OutputState struct {
	InputHash  string    `json:"input_hash"`
	RenderedAt time.Time `json:"rendered_at"`
	Frames     int       `json:"frames"`
	Bytes      int64     `json:"bytes"`
}

// RenderState is keyed by absolute output path.
type RenderState struct {
	GlobalConfigHash string                 `json:"global_config_hash"`
	Outputs          map[string]OutputState `json:"outputs"`
}

// Load reads render state from the given path. A missing or corrupt file
// returns an empty state without error.
func Load(path string) (*RenderState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return emptyState(), nil
	}

	var rs RenderState
	if err := json.Unmarshal(data, &rs); err != nil {
		return emptyState(), nil
	}

	if rs.Outputs == nil {
		rs.Outputs = map[string]OutputState{}
	}
	return &rs, nil
}

// Save writes the render state atomically to the given path.
func (rs *RenderState) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// Record stores the result of a finished render. A changed global hash
// invalidates every other entry.
func (rs *RenderState) Record(output, globalHash, inputHash string, frames int, bytes int64, at time.Time) {
	if rs.GlobalConfigHash != globalHash {
		rs.GlobalConfigHash = globalHash
		rs.Outputs = map[string]OutputState{}
	}
	rs.Outputs[output] = OutputState{InputHash: inputHash, RenderedAt: at, Frames: frames, Bytes: bytes}
}

func emptyState() *RenderState {
	return &RenderState{
		Outputs: map[string]OutputState{},
	}
}
