package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"scubaoverlay/internal/media"
	"scubaoverlay/internal/overlay"
	"scubaoverlay/internal/paths"
	"scubaoverlay/internal/state"
	"scubaoverlay/internal/template"
	"scubaoverlay/internal/tools"
	"scubaoverlay/internal/tui"
)

var (
	renderLog             string
	renderTemplate        string
	renderProfileTemplate string
	renderOutput          string
	renderDuration        int
	renderStart           int
	renderMatchVideo      string
	renderFPS             int
	renderUnits           string
	renderForce           bool
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a dive log into an overlay video",
		Long: `Render a dive log into an overlay video.

By default the whole dive is rendered. Use --start with --duration to render
part of it, or --match-video to render exactly the span covered by a clip.
Profile overlays always draw the full dive; the marker follows the segment.
An output that is up to date with its inputs is not rendered again unless
--force is given.`,
		RunE: runRender,
	}

	cmd.Flags().StringVar(&renderLog, "log", "", "Dive log file (.ssrf or .xml)")
	cmd.Flags().StringVar(&renderTemplate, "template", "", "Field panel template (YAML)")
	cmd.Flags().StringVar(&renderProfileTemplate, "profile-template", "", "Profile graph template (YAML)")
	cmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output video file (default from config)")
	cmd.Flags().IntVar(&renderDuration, "duration", 0, "Seconds to render; segment length when used with --start")
	cmd.Flags().IntVar(&renderStart, "start", 0, "Segment start in seconds from dive start (requires --duration)")
	cmd.Flags().StringVar(&renderMatchVideo, "match-video", "", "Video clip to align with the dive")
	cmd.Flags().IntVar(&renderFPS, "fps", 0, "Frames per second (default from config)")
	cmd.Flags().StringVar(&renderUnits, "units", "", "Override display units: metric or imperial")
	cmd.Flags().BoolVar(&renderForce, "force", false, "Render even when the output is up to date")
	_ = cmd.MarkFlagRequired("log")

	return cmd
}

// renderRequest is a fully validated render invocation.
type renderRequest struct {
	log      string
	template string
	profile  bool
	output   string
	duration int
	fps      int
	units    template.Units
	window   windowRequest
	force    bool
}

// renderResult is printed as the summary, or as JSON with --json.
type renderResult struct {
	RunID      string  `json:"run_id"`
	Output     string  `json:"output"`
	Kind       string  `json:"kind"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Seconds    int     `json:"seconds"`
	FPS        int     `json:"fps"`
	Frames     int     `json:"frames"`
	TimeOffset int     `json:"time_offset"`
	Bytes      int64   `json:"bytes"`
	Size       string  `json:"size"`
	Window     *window `json:"segment,omitempty"`
	Skipped    bool    `json:"skipped,omitempty"`
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := buildRenderRequest(cmd, a)
	if err != nil {
		return err
	}
	a.log.Infow("render", "log", req.log, "template", req.template, "profile", req.profile,
		"output", req.output, "fps", req.fps, "duration", req.duration)

	outWriter := cmd.OutOrStdout()
	mode := tui.DetectMode(outWriter, noProgress, outputJSON)

	var res renderResult
	switch mode {
	case tui.ModeTUI:
		model := tui.NewPipelineModel(filepath.Base(req.log)+" → "+req.output, tui.Stages)
		err = tui.RunWithWork(ctx, outWriter, model, func(ctx context.Context, send func(tea.Msg)) error {
			var werr error
			res, werr = a.render(ctx, req, tui.NewPipelineReporter(send))
			return werr
		})
	case tui.ModeJSON:
		res, err = a.render(ctx, req, nopReporter{})
	default:
		res, err = a.render(ctx, req, plainReporter{out: outWriter})
	}
	if err != nil {
		return err
	}

	if mode == tui.ModeJSON {
		return writeJSON(cmd, res)
	}
	printRenderSummary(cmd, res)
	return nil
}

func buildRenderRequest(cmd *cobra.Command, a *app) (renderRequest, error) {
	tplPath, profile, err := templateChoice(renderTemplate, renderProfileTemplate)
	if err != nil {
		return renderRequest{}, err
	}
	manual := cmd.Flags().Changed("start")
	if manual && renderDuration <= 0 {
		return renderRequest{}, errors.New("--duration is required when using --start")
	}
	if manual && renderMatchVideo != "" {
		return renderRequest{}, errors.New("--start and --match-video cannot be used together")
	}
	if renderDuration < 0 {
		return renderRequest{}, fmt.Errorf("--duration must be positive, got %d", renderDuration)
	}
	units, err := overlay.UnitSystem(renderUnits)
	if err != nil {
		return renderRequest{}, err
	}

	req := renderRequest{
		log:      renderLog,
		template: tplPath,
		profile:  profile,
		output:   renderOutput,
		duration: renderDuration,
		fps:      renderFPS,
		units:    units,
		force:    renderForce,
		window: windowRequest{
			matchVideo: renderMatchVideo,
			start:      renderStart,
			duration:   renderDuration,
			manual:     manual,
		},
	}
	if req.output == "" {
		req.output = a.cfg.Output.Video
	}
	if req.fps <= 0 {
		req.fps = a.cfg.Video.FPS
	}
	return req, nil
}

// render runs the whole pipeline: parse, segment, compile and encode.
func (a *app) render(ctx context.Context, req renderRequest, rep stageReporter) (renderResult, error) {
	data, err := a.parseLog(req.log, rep)
	if err != nil {
		return renderResult{}, err
	}

	win, err := a.selectWindow(ctx, data, req.window, rep)
	if err != nil {
		return renderResult{}, err
	}

	rep.Stage(tui.StageCompile, "compiling", filepath.Base(req.template))
	tpl, err := template.Load(req.template)
	if err != nil {
		return renderResult{}, a.fail(rep, tui.StageCompile, err)
	}
	width, height := tpl.FrameSize(a.cfg.Video.Width, a.cfg.Video.Height)
	opts := overlay.Options{Units: req.units, Fonts: a.fontCache()}

	res := renderResult{RunID: a.runID, Output: req.output, Width: width, Height: height, FPS: req.fps, Window: win}
	samples := data.Samples
	if win != nil {
		samples = win.samples
		res.Seconds = win.Duration
		res.TimeOffset = win.Start
	} else {
		res.Seconds = overlay.TotalSeconds(data.Samples, req.duration)
	}

	res.Kind = string(template.KindPanel)
	if req.profile {
		res.Kind = string(template.KindProfile)
	}

	rs, err := a.loadRenderState(req, res)
	if err != nil {
		a.log.Warnw("render state unavailable", "error", err)
	} else if d := rs.decide(req.force); d.Action == state.ActionSkip {
		res.Skipped = true
		res.Frames = d.Prior.Frames
		res.Bytes = d.Prior.Bytes
		res.Size = humanize.Bytes(uint64(d.Prior.Bytes))
		a.log.Infow("render skipped", "output", req.output, "reason", d.Reason)
		rep.Stage(tui.StageCompile, "skipped", d.Reason)
		rep.Stage(tui.StageEncode, "skipped", d.Reason)
		return res, nil
	} else {
		a.log.Infow("render needed", "output", req.output, "reason", d.Reason)
	}

	var src overlay.FrameSource
	if req.profile {
		profile, err := overlay.CompileProfile(tpl, data.Samples, width, height, overlay.TotalSeconds(data.Samples, 0), opts)
		if err != nil {
			return renderResult{}, a.fail(rep, tui.StageCompile, err)
		}
		src = profile
	} else {
		panel, err := overlay.CompilePanel(tpl, width, height, opts)
		if err != nil {
			return renderResult{}, a.fail(rep, tui.StageCompile, err)
		}
		src = panel.Track(samples)
	}
	a.log.Infow("compiled template", "kind", res.Kind, "width", width, "height", height)
	rep.Stage(tui.StageCompile, "done", fmt.Sprintf("%s %dx%d", res.Kind, width, height))

	rep.Stage(tui.StageEncode, "encoding", fmt.Sprintf("%ds at %d fps", res.Seconds, res.FPS))
	frames, err := a.encode(ctx, src, req.output, res, rep)
	if err != nil {
		return renderResult{}, a.fail(rep, tui.StageEncode, err)
	}
	res.Frames = frames

	if info, err := os.Stat(req.output); err == nil {
		res.Bytes = info.Size()
		res.Size = humanize.Bytes(uint64(info.Size()))
	}
	a.log.Infow("render complete", "output", req.output, "frames", frames, "bytes", res.Bytes)
	if rs != nil {
		a.saveRenderState(rs, frames, res.Bytes)
	}
	rep.Stage(tui.StageEncode, "complete", fmt.Sprintf("%s frames, %s", humanize.Comma(int64(frames)), res.Size))
	return res, nil
}

func (a *app) encode(ctx context.Context, src overlay.FrameSource, output string, res renderResult, rep stageReporter) (int, error) {
	ffmpeg, err := tools.Lookup("ffmpeg")
	if err != nil {
		return 0, err
	}
	if err := paths.EnsureParentDir(output); err != nil {
		return 0, err
	}
	enc, err := media.StartEncoder(ctx, a.runner, ffmpeg, media.EncodeOptions{
		Output: output,
		Width:  res.Width,
		Height: res.Height,
		FPS:    res.FPS,
		Preset: a.cfg.Video.Preset,
		CRF:    a.cfg.Video.CRF,
	})
	if err != nil {
		return 0, err
	}
	err = overlay.GenerateVideo(ctx, src, enc, overlay.VideoOptions{
		Seconds:    res.Seconds,
		FPS:        res.FPS,
		TimeOffset: res.TimeOffset,
		OnProgress: func(p overlay.Progress) {
			a.log.Debugw("progress", "done", p.Done, "total", p.Total)
			rep.Progress(p)
		},
	})
	return enc.Frames(), err
}

func printRenderSummary(cmd *cobra.Command, res renderResult) {
	out := cmd.OutOrStdout()
	if res.Skipped {
		fmt.Fprintf(out, "Overlay video is up to date: %s (use --force to render again)\n", res.Output)
		return
	}
	fmt.Fprintf(out, "Overlay video saved to: %s\n", res.Output)
	fmt.Fprintf(out, " - Layout: %s %dx%d\n", res.Kind, res.Width, res.Height)
	fmt.Fprintf(out, " - Duration: %ds (fps=%d, %s frames)\n", res.Seconds, res.FPS, humanize.Comma(int64(res.Frames)))
	if res.Window != nil {
		fmt.Fprintf(out, " - Segment: %ds to %ds of the dive\n", res.Window.Start, res.Window.End)
		if m := res.Window.Match; m != nil {
			fmt.Fprintf(out, " - Matched %s with timezone offset %+dh\n", filepath.Base(m.Video), m.OffsetHours)
		}
		for _, w := range res.Window.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
	}
	if res.Size != "" {
		fmt.Fprintf(out, " - Size: %s\n", res.Size)
	}
}
