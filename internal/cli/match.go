package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"scubaoverlay/internal/segment"
)

var (
	matchLog   string
	matchVideo string
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Show how a video clip lines up with a dive log",
		RunE:  runMatch,
	}

	cmd.Flags().StringVar(&matchLog, "log", "", "Dive log file (.ssrf or .xml)")
	cmd.Flags().StringVar(&matchVideo, "video", "", "Video clip to align")
	_ = cmd.MarkFlagRequired("log")
	_ = cmd.MarkFlagRequired("video")

	return cmd
}

type matchReport struct {
	RunID     string     `json:"run_id"`
	Log       string     `json:"log"`
	DiveStart string     `json:"dive_start"`
	DiveEnd   string     `json:"dive_end"`
	Match     *matchInfo `json:"match"`
	Start     int        `json:"start"`
	End       int        `json:"end"`
	Duration  int        `json:"duration"`
	Samples   int        `json:"samples"`
	Warnings  []string   `json:"warnings,omitempty"`
}

func runMatch(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rep := nopReporter{}
	data, err := a.parseLog(matchLog, rep)
	if err != nil {
		return err
	}
	info, win, err := a.matchVideo(cmd.Context(), data, matchVideo)
	if err != nil {
		return err
	}

	report := matchReport{
		RunID:     a.runID,
		Log:       matchLog,
		DiveStart: data.StartTime.Format("2006-01-02 15:04:05 MST"),
		DiveEnd:   data.EndTime.Format("2006-01-02 15:04:05 MST"),
		Match:     info,
		Start:     win.Start,
		End:       win.End,
		Duration:  win.Duration,
	}
	// The samples a render would use; a failure here is reported but the
	// alignment itself still stands.
	res, segErr := segment.Extract(data, win.Start, win.End)
	if segErr == nil {
		report.Samples = len(res.Samples)
		report.Warnings = res.Warnings
	}

	if outputJSON {
		if err := writeJSON(cmd, report); err != nil {
			return err
		}
		return segErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Video: %s\n", info.Video)
	fmt.Fprintf(out, "   Creation time: %s (%s)\n", info.VideoStart, info.Source)
	fmt.Fprintf(out, "   Duration: %.1fs\n", info.VideoSeconds)
	fmt.Fprintf(out, "Dive: %s to %s\n", report.DiveStart, report.DiveEnd)
	fmt.Fprintf(out, "Detected timezone offset: %+d hours\n", info.OffsetHours)
	fmt.Fprintf(out, "Segment: %ds to %ds from dive start\n", win.Start, win.End)
	if segErr == nil {
		fmt.Fprintf(out, "Samples: %d\n", report.Samples)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	fmt.Fprintf(out, "Render with: --start %d --duration %d\n", win.Start, win.Duration)
	return segErr
}
