package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options tunes a run log.
type Options struct {
	// Debug lowers the level to debug.
	Debug bool
	// Console, when set, also receives human-readable output.
	Console io.Writer
	// RunID tags every entry as run_id.
	RunID string
}

// File is the open log file behind a logger.
type File struct {
	Path   string
	file   *os.File
	logger *zap.Logger
}

// Close flushes buffered entries and closes the file.
func (f *File) Close() error {
	_ = f.logger.Sync()
	return f.file.Close()
}

// New creates a logger that writes JSON entries to a timestamped file inside
// dir. The returned File should be closed when logging is no longer needed.
func New(dir string, opts Options) (*zap.SugaredLogger, *File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405") + ".log"
	filePath := filepath.Join(dir, filename)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	fileEnc := zap.NewProductionEncoderConfig()
	fileEnc.EncodeTime = zapcore.ISO8601TimeEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), zapcore.AddSync(file), level),
	}
	if opts.Console != nil {
		consoleEnc := zap.NewDevelopmentEncoderConfig()
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEnc), zapcore.AddSync(opts.Console), level))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if opts.RunID != "" {
		logger = logger.With(zap.String("run_id", opts.RunID))
	}
	return logger.Sugar(), &File{Path: filePath, file: file, logger: logger}, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
