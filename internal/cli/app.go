package cli

import (
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scubaoverlay/internal/config"
	"scubaoverlay/internal/fonts"
	"scubaoverlay/internal/logx"
	"scubaoverlay/internal/media"
	"scubaoverlay/internal/paths"
)

// app is the per-invocation state shared by commands: resolved paths, the
// loaded config and a run log.
type app struct {
	paths   paths.Paths
	cfg     config.Config
	log     *zap.SugaredLogger
	logFile *logx.File
	runID   string

	// runner executes ffmpeg and ffprobe; tests replace it.
	runner media.Runner
}

// testRunner, when set, is used instead of real processes.
var testRunner media.Runner

func newApp(cmd *cobra.Command) (*app, error) {
	pp, err := paths.Resolve(homeDir, configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := pp.EnsureDirs(); err != nil {
		return nil, err
	}

	a := &app{paths: pp, cfg: cfg, runID: uuid.NewString(), runner: testRunner}
	opts := logx.Options{Debug: verbose, RunID: a.runID}
	if verbose {
		opts.Console = cmd.ErrOrStderr()
	}
	logger, file, err := logx.New(pp.LogsDir, opts)
	if err != nil {
		return nil, err
	}
	a.log, a.logFile = logger, file
	a.log.Infow("start", "command", cmd.CommandPath(), "config", pp.ConfigFile)
	return a, nil
}

func (a *app) Close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// fontDirs lists font search directories in priority order: configured
// dirs, the global fonts dir, then the platform's system dirs.
func (a *app) fontDirs() []string {
	dirs := a.cfg.FontDirs(a.paths.ConfigDir())
	dirs = append(dirs, a.paths.FontsDir)
	home, _ := os.UserHomeDir()
	return append(dirs, fonts.SystemDirs(runtime.GOOS, home)...)
}

func (a *app) fontLibrary() *fonts.Library {
	return fonts.NewLibrary(a.fontDirs()...)
}

func (a *app) fontCache() *fonts.Cache {
	return fonts.NewCache(a.fontLibrary(), a.cfg.Fonts.Fallbacks)
}

func (a *app) prober(ffprobe string) media.Prober {
	return media.Prober{Runner: a.runner, FFprobe: ffprobe}
}
