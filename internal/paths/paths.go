package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the location of the global directory.
const HomeEnv = "SCUBAOVERLAY_HOME"

const globalDirName = ".scubaoverlay"

// Default preview image names, one per overlay layout.
const (
	PanelPreviewFile   = "test_template.png"
	ProfilePreviewFile = "test_profile_template.png"
)

// Paths captures canonical locations of the tool's global state.
type Paths struct {
	Root       string
	ConfigFile string
	LogsDir    string
	FontsDir   string
	// StateFile records what each overlay output was rendered from.
	StateFile string
}

// Resolve determines the global directory from the optional --home flag,
// then $SCUBAOVERLAY_HOME, then ~/.scubaoverlay. configFlag, when set,
// replaces the default config file location.
func Resolve(homeFlag, configFlag string) (Paths, error) {
	root, err := globalRoot(homeFlag)
	if err != nil {
		return Paths{}, err
	}
	p := newPaths(root)
	if configFlag != "" {
		abs, err := filepath.Abs(configFlag)
		if err != nil {
			return Paths{}, fmt.Errorf("resolve config path: %w", err)
		}
		p.ConfigFile = abs
	}
	return p, nil
}

func newPaths(root string) Paths {
	return Paths{
		Root:       root,
		ConfigFile: filepath.Join(root, "config.yaml"),
		LogsDir:    filepath.Join(root, "logs"),
		FontsDir:   filepath.Join(root, "fonts"),
		StateFile:  filepath.Join(root, "render_state.json"),
	}
}

func globalRoot(flag string) (string, error) {
	if flag == "" {
		flag = os.Getenv(HomeEnv)
	}
	if flag != "" {
		root, err := filepath.Abs(flag)
		if err != nil {
			return "", fmt.Errorf("resolve global dir: %w", err)
		}
		return root, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}
	return filepath.Join(home, globalDirName), nil
}

// ConfigDir is the directory relative config entries resolve against.
func (p Paths) ConfigDir() string {
	return filepath.Dir(p.ConfigFile)
}

// EnsureDirs creates the global directory and its logs directory.
func (p Paths) EnsureDirs() error {
	for _, dir := range []string{p.Root, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GlobalDir returns the user-level directory (~/.scubaoverlay, or
// $SCUBAOVERLAY_HOME). It creates the directory if it does not exist.
func GlobalDir() (string, error) {
	dir, err := globalRoot("")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create global dir: %w", err)
	}
	return dir, nil
}

// GlobalLogsDir returns the global logs directory (~/.scubaoverlay/logs).
// It creates the directory if it does not exist.
func GlobalLogsDir() (string, error) {
	global, err := GlobalDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(global, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create global logs dir: %w", err)
	}
	return dir, nil
}

// PreviewFile returns the default preview image name for a layout.
func PreviewFile(profile bool) string {
	if profile {
		return ProfilePreviewFile
	}
	return PanelPreviewFile
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
