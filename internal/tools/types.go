package tools

type Source string

const (
	SourceUnknown Source = ""
	SourceEnv     Source = "env"
	SourceSystem  Source = "system"
)

// Status captures the resolved state for a required tool.
type Status struct {
	Tool      string            `json:"tool"`
	Version   string            `json:"version,omitempty"`
	Minimum   string            `json:"minimum,omitempty"`
	Source    Source            `json:"source"`
	Path      string            `json:"path,omitempty"`
	Paths     map[string]string `json:"paths,omitempty"`
	Satisfied bool              `json:"satisfied"`
	Error     string            `json:"error,omitempty"`
	Notes     []string          `json:"notes,omitempty"`
	Hints     []string          `json:"hints,omitempty"`
}

// BinarySpec describes an executable belonging to a tool.
type BinarySpec struct {
	ID            string
	Executable    string
	VersionSwitch string
	// EnvVar, when set in the environment, points at the executable.
	EnvVar string
}

// ToolDefinition contains metadata required to locate a tool.
type ToolDefinition struct {
	Name           string
	MinimumVersion string
	Binaries       []BinarySpec
}
