package tools

import (
	"runtime"
	"sort"
)

var toolDefinitions = map[string]ToolDefinition{
	"ffmpeg": {
		Name:           "ffmpeg",
		MinimumVersion: "4.0",
		Binaries: []BinarySpec{
			{ID: "ffmpeg", Executable: executableName("ffmpeg"), VersionSwitch: "-version", EnvVar: "SCUBAOVERLAY_FFMPEG"},
			{ID: "ffprobe", Executable: executableName("ffprobe"), VersionSwitch: "-version", EnvVar: "SCUBAOVERLAY_FFPROBE"},
		},
	},
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

// KnownTools returns the list of required tool names.
func KnownTools() []string {
	names := make([]string, 0, len(toolDefinitions))
	for name := range toolDefinitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definition returns the tool definition for the provided name.
func Definition(name string) (ToolDefinition, bool) {
	def, ok := toolDefinitions[name]
	return def, ok
}

func binarySpec(id string) (BinarySpec, bool) {
	for _, def := range toolDefinitions {
		for _, bin := range def.Binaries {
			if bin.ID == id {
				return bin, true
			}
		}
	}
	return BinarySpec{}, false
}
