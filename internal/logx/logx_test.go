package logx

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONWithRunID(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log, file, err := New(dir, Options{RunID: "run-123"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Infow("parsed dive log", "samples", 42)
	log.Debugw("hidden")
	if err := file.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if filepath.Dir(file.Path) != dir || !strings.HasSuffix(file.Path, ".log") {
		t.Fatalf("unexpected log path %s", file.Path)
	}
	data, err := os.ReadFile(file.Path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 entry at info level, got %d:\n%s", len(lines), data)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("entry is not JSON: %v", err)
	}
	if entry["msg"] != "parsed dive log" || entry["run_id"] != "run-123" || entry["samples"] != float64(42) {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewDebugTeesToConsole(t *testing.T) {
	var console bytes.Buffer
	log, file, err := New(t.TempDir(), Options{Debug: true, Console: &console})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debugw("cursor reset", "time", 10)
	if err := file.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !strings.Contains(console.String(), "cursor reset") {
		t.Fatalf("console output missing entry: %q", console.String())
	}
}

func TestNop(t *testing.T) {
	Nop().Infow("discarded")
}
