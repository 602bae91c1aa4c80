package tools

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Lookup resolves a binary ID (ffmpeg or ffprobe) to an executable path. The
// binary's environment variable wins over PATH.
func Lookup(id string) (string, error) {
	path, _, err := lookup(id)
	return path, err
}

func lookup(id string) (string, Source, error) {
	bin, ok := binarySpec(id)
	if !ok {
		return "", SourceUnknown, fmt.Errorf("unknown tool %q", id)
	}
	if bin.EnvVar != "" {
		if p := strings.TrimSpace(os.Getenv(bin.EnvVar)); p != "" {
			if _, err := os.Stat(p); err != nil {
				return "", SourceEnv, fmt.Errorf("%s=%s: %w", bin.EnvVar, p, err)
			}
			return p, SourceEnv, nil
		}
	}
	path, err := exec.LookPath(bin.Executable)
	if err != nil {
		return "", SourceUnknown, fmt.Errorf("%s not found in PATH", bin.Executable)
	}
	return path, SourceSystem, nil
}
