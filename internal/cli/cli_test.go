package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"scubaoverlay/internal/media"
	"scubaoverlay/internal/segment"
)

const diveLog = `<divelog program='subsurface' version='3'>
<dives>
<dive number='1' date='2024-04-06' time='10:30:00' duration='4:00 min'>
  <cylinder size='11.1 l' description='AL80' />
  <divecomputer model='Shearwater Perdix'>
  <sample time='0:00 min' depth='0.0 m' temp='24.0 C' pressure0='200.0 bar' />
  <sample time='1:00 min' depth='15.0 m' ndl='45:00 min' />
  <sample time='2:00 min' depth='20.0 m' pressure0='180.5 bar' />
  <sample time='3:00 min' depth='6.0 m' />
  <sample time='4:00 min' depth='0.0 m' />
  </divecomputer>
</dive>
</dives>
</divelog>`

const panelTemplate = `
width: 64
height: 32
background_color: "#000000"
items:
  - type: text
    text: "D"
    position: {x: 2, y: 2}
  - field: depth
    data_position: {x: 20, y: 2}
    precision: 1
`

const profileTemplate = `
width: 80
height: 40
background_color: "#000000"
graph:
  position: {x: 4, y: 4}
  width: 72
  height: 32
  line: {color: "#0000FF", thickness: 2}
  indicator: {color: "#FF0000", size: 2}
`

// fakeRunner stands in for ffmpeg and ffprobe. Encodes drain stdin and
// write a placeholder output so the render can stat it.
type fakeRunner struct {
	mu         sync.Mutex
	probeJSON  string
	stdinBytes int
	calls      [][]string
}

func (f *fakeRunner) Run(_ context.Context, command string, args []string, opts media.RunOptions) (media.RunResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{filepath.Base(command)}, args...))
	f.mu.Unlock()

	if strings.Contains(filepath.Base(command), "ffprobe") {
		return media.RunResult{Stdout: []byte(f.probeJSON)}, nil
	}
	if opts.Stdin != nil {
		n, err := io.Copy(io.Discard, opts.Stdin)
		if err != nil {
			return media.RunResult{}, err
		}
		f.mu.Lock()
		f.stdinBytes += int(n)
		f.mu.Unlock()
	}
	out := args[len(args)-1]
	if err := os.WriteFile(out, []byte("video"), 0o644); err != nil {
		return media.RunResult{}, err
	}
	return media.RunResult{}, nil
}

func (f *fakeRunner) lastCall() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

type fixture struct {
	home   string
	dir    string
	runner *fakeRunner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	fx := &fixture{home: filepath.Join(dir, "home"), dir: dir, runner: &fakeRunner{}}

	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		p := fx.write(t, tool, "")
		t.Setenv("SCUBAOVERLAY_"+strings.ToUpper(tool), p)
	}
	testRunner = fx.runner
	t.Cleanup(func() { testRunner = nil })
	return fx
}

func (fx *fixture) write(t *testing.T, name, contents string) string {
	t.Helper()
	p := filepath.Join(fx.dir, name)
	if err := os.WriteFile(p, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func (fx *fixture) path(name string) string {
	return filepath.Join(fx.dir, name)
}

// run executes the root command with --home set to the fixture.
func (fx *fixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--home", fx.home}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestTemplateChoice(t *testing.T) {
	tests := []struct {
		name        string
		panel       string
		profile     string
		wantPath    string
		wantProfile bool
		wantErr     bool
	}{
		{name: "panel", panel: "a.yaml", wantPath: "a.yaml"},
		{name: "profile", profile: "b.yaml", wantPath: "b.yaml", wantProfile: true},
		{name: "neither", wantErr: true},
		{name: "both", panel: "a.yaml", profile: "b.yaml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, profile, err := templateChoice(tt.panel, tt.profile)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", path)
				}
				return
			}
			if err != nil {
				t.Fatalf("templateChoice: %v", err)
			}
			if path != tt.wantPath || profile != tt.wantProfile {
				t.Fatalf("got (%q, %v), want (%q, %v)", path, profile, tt.wantPath, tt.wantProfile)
			}
		})
	}
}

func TestRenderPanelFullDive(t *testing.T) {
	fx := newFixture(t)
	logPath := fx.write(t, "dive.ssrf", diveLog)
	tpl := fx.write(t, "panel.yaml", panelTemplate)
	out := fx.path("out/overlay.mp4")

	stdout, _, err := fx.run(t, "render", "--no-progress", "--log", logPath, "--template", tpl, "--output", out, "--fps", "2")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(stdout, "Overlay video saved to: "+out) {
		t.Fatalf("missing summary:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Duration: 241s (fps=2, 482 frames)") {
		t.Fatalf("unexpected duration line:\n%s", stdout)
	}
	if want := 482 * 64 * 32 * 4; fx.runner.stdinBytes != want {
		t.Fatalf("encoder received %d bytes, want %d", fx.runner.stdinBytes, want)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output not written: %v", err)
	}
}

func TestRenderSkipsUpToDateOutput(t *testing.T) {
	fx := newFixture(t)
	logPath := fx.write(t, "dive.ssrf", diveLog)
	tpl := fx.write(t, "panel.yaml", panelTemplate)
	out := fx.path("overlay.mp4")
	args := []string{"render", "--no-progress", "--log", logPath, "--template", tpl, "--output", out, "--fps", "1"}

	if _, _, err := fx.run(t, args...); err != nil {
		t.Fatalf("first render: %v", err)
	}
	first := fx.runner.stdinBytes

	stdout, _, err := fx.run(t, args...)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !strings.Contains(stdout, "up to date") {
		t.Fatalf("expected skip message:\n%s", stdout)
	}
	if fx.runner.stdinBytes != first {
		t.Fatalf("unchanged render should not encode again")
	}

	if _, _, err := fx.run(t, append(args, "--force")...); err != nil {
		t.Fatalf("forced render: %v", err)
	}
	if fx.runner.stdinBytes != 2*first {
		t.Fatalf("--force should encode again: got %d bytes, want %d", fx.runner.stdinBytes, 2*first)
	}

	fx.write(t, "panel.yaml", strings.Replace(panelTemplate, `text: "D"`, `text: "DEPTH"`, 1))
	stdout, _, err = fx.run(t, args...)
	if err != nil {
		t.Fatalf("render after template edit: %v", err)
	}
	if strings.Contains(stdout, "up to date") || fx.runner.stdinBytes != 3*first {
		t.Fatalf("template edit should trigger a render:\n%s", stdout)
	}
}

func TestRenderProfileSegmentJSON(t *testing.T) {
	fx := newFixture(t)
	logPath := fx.write(t, "dive.ssrf", diveLog)
	tpl := fx.write(t, "profile.yaml", profileTemplate)
	out := fx.path("profile.mp4")

	stdout, _, err := fx.run(t, "render", "--json", "--log", logPath, "--profile-template", tpl,
		"--output", out, "--fps", "1", "--start", "60", "--duration", "30")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var res struct {
		Kind       string `json:"kind"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		Seconds    int    `json:"seconds"`
		Frames     int    `json:"frames"`
		TimeOffset int    `json:"time_offset"`
		Segment    struct {
			Start   int `json:"start"`
			End     int `json:"end"`
			Samples int `json:"samples"`
		} `json:"segment"`
	}
	if err := json.Unmarshal([]byte(stdout), &res); err != nil {
		t.Fatalf("decode JSON: %v\n%s", err, stdout)
	}
	if res.Kind != "profile" || res.Width != 80 || res.Height != 40 {
		t.Fatalf("unexpected layout: %+v", res)
	}
	if res.Seconds != 30 || res.Frames != 30 || res.TimeOffset != 60 {
		t.Fatalf("unexpected timing: %+v", res)
	}
	if res.Segment.Start != 60 || res.Segment.End != 90 {
		t.Fatalf("unexpected segment: %+v", res.Segment)
	}
}

func TestRenderFlagValidation(t *testing.T) {
	fx := newFixture(t)
	logPath := fx.write(t, "dive.ssrf", diveLog)
	tpl := fx.write(t, "panel.yaml", panelTemplate)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "start without duration", args: []string{"--start", "10"}, want: "--duration is required"},
		{name: "start with match", args: []string{"--start", "10", "--duration", "5", "--match-video", "x.mp4"}, want: "cannot be used together"},
		{name: "negative duration", args: []string{"--duration", "-5"}, want: "must be positive"},
		{name: "bad units", args: []string{"--units", "furlongs"}, want: "furlongs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", "--no-progress", "--log", logPath, "--template", tpl}, tt.args...)
			_, _, err := fx.run(t, args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRenderSegmentOutOfBounds(t *testing.T) {
	fx := newFixture(t)
	logPath := fx.write(t, "dive.ssrf", diveLog)
	tpl := fx.write(t, "panel.yaml", panelTemplate)

	_, _, err := fx.run(t, "render", "--no-progress", "--log", logPath, "--template", tpl,
		"--output", fx.path("o.mp4"), "--start", "5000", "--duration", "10")
	var oob *segment.OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("expected OutOfBoundsError, got %v", err)
	}
	if fx.runner.lastCall() != nil {
		t.Fatalf("encoder should not start: %v", fx.runner.lastCall())
	}
}

func TestMatchDetectsOffset(t *testing.T) {
	fx := newFixture(t)
	logPath := fx.write(t, "dive.ssrf", diveLog)
	video := fx.write(t, "clip.mp4", "")
	// Camera clock runs three hours ahead of the dive computer.
	fx.runner.probeJSON = `{"format":{"duration":"90.0","tags":{"creation_time":"2024-04-06T13:31:00.000000Z"}},"streams":[]}`

	stdout, _, err := fx.run(t, "match", "--log", logPath, "--video", video)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	for _, want := range []string{
		"Detected timezone offset: -3 hours",
		"Segment: 60s to 150s from dive start",
		"Render with: --start 60 --duration 90",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestMergeCommand(t *testing.T) {
	fx := newFixture(t)
	video := fx.write(t, "dive.mp4", "")
	ov := fx.write(t, "overlay.mp4", "")
	out := fx.path("merged.mp4")

	stdout, _, err := fx.run(t, "merge", "--no-progress", "--video", video, "--overlay", ov, "--output", out,
		"--x", "20", "--chroma", "#0f0")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !strings.Contains(stdout, "Merged video saved to: "+out) {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
	args := strings.Join(fx.runner.lastCall(), " ")
	if !strings.Contains(args, "colorkey=") || !strings.Contains(args, "overlay=20:") {
		t.Fatalf("unexpected ffmpeg args: %s", args)
	}
}

func TestMergeMissingInput(t *testing.T) {
	fx := newFixture(t)
	ov := fx.write(t, "overlay.mp4", "")

	_, _, err := fx.run(t, "merge", "--no-progress", "--video", fx.path("missing.mp4"), "--overlay", ov, "--output", fx.path("m.mp4"))
	var readErr *media.VideoReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected VideoReadError, got %v", err)
	}
}

func TestMergeRejectsSimilarity(t *testing.T) {
	fx := newFixture(t)
	video := fx.write(t, "dive.mp4", "")
	ov := fx.write(t, "overlay.mp4", "")

	_, _, err := fx.run(t, "merge", "--video", video, "--overlay", ov, "--output", fx.path("m.mp4"), "--similarity", "1.5")
	if err == nil || !strings.Contains(err.Error(), "similarity") {
		t.Fatalf("expected similarity error, got %v", err)
	}
}

func TestPreviewWritesPNG(t *testing.T) {
	fx := newFixture(t)
	tpl := fx.write(t, "panel.yaml", panelTemplate)
	out := fx.path("preview.png")

	if _, _, err := fx.run(t, "preview", "--template", tpl, "--output", out); err != nil {
		t.Fatalf("preview: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open preview: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("preview size = %v, want 64x32", b)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	fx := newFixture(t)

	stdout, _, err := fx.run(t, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(stdout, "config.yaml") {
		t.Fatalf("unexpected output: %s", stdout)
	}
	if _, _, err := fx.run(t, "config", "init"); err == nil {
		t.Fatal("second init without --force should fail")
	}
	if _, _, err := fx.run(t, "config", "init", "--force"); err != nil {
		t.Fatalf("config init --force: %v", err)
	}

	stdout, _, err = fx.run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(stdout, "fps:") {
		t.Fatalf("config show missing video settings:\n%s", stdout)
	}
}
