package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"scubaoverlay/internal/align"
	"scubaoverlay/internal/overlay"
	"scubaoverlay/internal/segment"
	"scubaoverlay/internal/tools"
	"scubaoverlay/internal/tui"
	"scubaoverlay/pkg/divelog"
)

// stageReporter receives pipeline events. The TUI and the plain printer both
// implement it.
type stageReporter interface {
	Stage(key, status, detail string)
	Progress(p overlay.Progress)
}

// plainReporter prints one line per finished stage and every progress tick.
type plainReporter struct {
	out io.Writer
}

func (r plainReporter) Stage(key, status, detail string) {
	switch status {
	case "pending", "parsing", "matching", "compiling", "encoding":
		return
	}
	if detail == "" {
		fmt.Fprintf(r.out, "%-8s %s\n", key, status)
		return
	}
	fmt.Fprintf(r.out, "%-8s %-8s %s\n", key, status, detail)
}

func (r plainReporter) Progress(p overlay.Progress) {
	fmt.Fprintln(r.out, p.String())
}

type nopReporter struct{}

func (nopReporter) Stage(string, string, string) {}
func (nopReporter) Progress(overlay.Progress)    {}

// window selects which part of the dive a render covers.
type window struct {
	// Match is the alignment result when the window came from a video.
	Match *matchInfo `json:"match,omitempty"`
	// Start and End are dive seconds as requested, before clamping.
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Duration int      `json:"duration"`
	Samples  int      `json:"samples"`
	Warnings []string `json:"warnings,omitempty"`

	samples []divelog.DiveSample
}

type matchInfo struct {
	Video        string  `json:"video"`
	VideoStart   string  `json:"video_start"`
	VideoSeconds float64 `json:"video_seconds"`
	Source       string  `json:"source"`
	OffsetHours  int     `json:"offset_hours"`
}

type windowRequest struct {
	matchVideo string
	start      int
	duration   int
	manual     bool
}

func (r windowRequest) active() bool {
	return r.matchVideo != "" || r.manual
}

// parseLog runs the parse stage.
func (a *app) parseLog(path string, rep stageReporter) (divelog.DiveData, error) {
	rep.Stage(tui.StageParse, "parsing", filepath.Base(path))
	data, err := divelog.ParseFile(path)
	if err != nil {
		return divelog.DiveData{}, a.fail(rep, tui.StageParse, err)
	}
	if len(data.Samples) == 0 {
		return divelog.DiveData{}, a.fail(rep, tui.StageParse, divelog.ErrNoDiveData)
	}
	a.log.Infow("parsed dive log", "path", path, "format", data.Format, "samples", len(data.Samples),
		"start", data.StartTime, "duration", data.Duration())
	rep.Stage(tui.StageParse, "done", fmt.Sprintf("%d samples, %s, %ds", len(data.Samples), data.Format, data.Duration()))
	return data, nil
}

// selectWindow runs the segment stage. It returns nil when the whole dive is
// rendered.
func (a *app) selectWindow(ctx context.Context, data divelog.DiveData, req windowRequest, rep stageReporter) (*window, error) {
	if !req.active() {
		rep.Stage(tui.StageSegment, "skipped", "full dive")
		return nil, nil
	}

	w := &window{Start: req.start, Duration: req.duration}
	if req.matchVideo != "" {
		rep.Stage(tui.StageSegment, "matching", filepath.Base(req.matchVideo))
		info, win, err := a.matchVideo(ctx, data, req.matchVideo)
		if err != nil {
			return nil, a.fail(rep, tui.StageSegment, err)
		}
		w.Match = info
		w.Start, w.Duration = win.Start, win.Duration
	}
	w.End = w.Start + w.Duration

	res, err := segment.Extract(data, w.Start, w.End)
	if err != nil {
		return nil, a.fail(rep, tui.StageSegment, err)
	}
	w.samples = res.Samples
	w.Samples = len(res.Samples)
	w.Warnings = res.Warnings
	for _, warn := range res.Warnings {
		a.log.Warnw("segment clamped", "warning", warn)
	}

	status := "done"
	if w.Match != nil {
		status = "matched"
	}
	if len(res.Warnings) > 0 {
		status = "clamped"
	}
	rep.Stage(tui.StageSegment, status, fmt.Sprintf("%ds-%ds, %d samples", res.Start, res.End, len(res.Samples)))
	return w, nil
}

// matchVideo probes a clip and aligns it with the dive.
func (a *app) matchVideo(ctx context.Context, data divelog.DiveData, video string) (*matchInfo, align.Window, error) {
	ffprobe, err := tools.Lookup("ffprobe")
	if err != nil {
		return nil, align.Window{}, err
	}
	meta, err := a.prober(ffprobe).Probe(ctx, video)
	if err != nil {
		return nil, align.Window{}, err
	}
	a.log.Infow("probed video", "path", video, "start", meta.StartTime, "duration", meta.DurationSeconds, "source", meta.Source)

	win, err := align.Match(meta.StartTime, meta.DurationSeconds, data.StartTime, data.EndTime)
	if err != nil {
		return nil, align.Window{}, err
	}
	a.log.Infow("aligned video", "offset_hours", win.OffsetHours, "start", win.Start, "end", win.End)
	return &matchInfo{
		Video:        video,
		VideoStart:   meta.StartTime.Format(time.RFC3339),
		VideoSeconds: meta.DurationSeconds,
		Source:       string(meta.Source),
		OffsetHours:  win.OffsetHours,
	}, win, nil
}

// fail marks a stage as failed and logs err.
func (a *app) fail(rep stageReporter, stage string, err error) error {
	rep.Stage(stage, "error", firstLine(err.Error()))
	a.log.Errorw("stage failed", "stage", stage, "error", err)
	return err
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

var errTemplateChoice = errors.New("exactly one of --template or --profile-template is required")

// templateChoice resolves the two template flags into a path and layout.
func templateChoice(panel, profile string) (string, bool, error) {
	switch {
	case panel != "" && profile != "":
		return "", false, fmt.Errorf("%w; generate overlays separately and composite them in your video editor", errTemplateChoice)
	case profile != "":
		return profile, true, nil
	case panel != "":
		return panel, false, nil
	}
	return "", false, errTemplateChoice
}
