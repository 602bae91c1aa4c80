package config

import (
	"os"
	"path/filepath"
	"strings"
)

// resolveExternalPath interprets a path written in the config file. "~"
// expands to the home directory and relative paths resolve against baseDir.
func resolveExternalPath(baseDir, path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

// FontDirs returns the configured font directories resolved against baseDir,
// normally the directory holding the config file. Blank and duplicate
// entries are dropped.
func (c Config) FontDirs(baseDir string) []string {
	seen := make(map[string]bool, len(c.Fonts.Dirs))
	var dirs []string
	for _, d := range c.Fonts.Dirs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		resolved := resolveExternalPath(baseDir, d)
		if seen[resolved] {
			continue
		}
		seen[resolved] = true
		dirs = append(dirs, resolved)
	}
	return dirs
}
