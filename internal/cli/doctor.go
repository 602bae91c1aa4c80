package cli

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"scubaoverlay/internal/config"
	"scubaoverlay/internal/media"
	"scubaoverlay/internal/paths"
	"scubaoverlay/internal/tools"
	"scubaoverlay/internal/tui"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check ffmpeg, configuration and fonts",
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string   `json:"name"`
	Status  string   `json:"status"` // "ok", "warning", "error"
	Summary string   `json:"summary"`
	Hints   []string `json:"hints,omitempty"`
}

type doctorReport struct {
	RunID  string         `json:"run_id"`
	Home   string         `json:"home"`
	Checks []healthCheck  `json:"checks"`
	Tools  []tools.Status `json:"tools"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(homeDir, configPath)
	if err != nil {
		return err
	}
	// Config problems are a finding here, not a reason to stop.
	cfg, cfgErr := config.Load(pp.ConfigFile)

	a, err := newApp(cmd)
	if err != nil && cfgErr == nil {
		return err
	}
	if a != nil {
		defer a.Close()
	}

	statuses := tools.Detect(cmd.Context())
	report := doctorReport{Home: pp.Root, Tools: statuses}
	if a != nil {
		report.RunID = a.runID
		for _, st := range statuses {
			a.log.Infow("tool", "tool", st.Tool, "source", st.Source, "version", st.Version,
				"satisfied", st.Satisfied, "error", st.Error)
		}
	}

	report.Checks = append(report.Checks, checkTools(statuses))
	report.Checks = append(report.Checks, checkEncoder(cmd, statuses))
	report.Checks = append(report.Checks, checkConfig(pp, cfg, cfgErr))
	if a != nil {
		report.Checks = append(report.Checks, checkFonts(a))
	}

	if outputJSON {
		return writeJSON(cmd, report)
	}
	printDoctorReport(cmd, report)
	return nil
}

func checkTools(statuses []tools.Status) healthCheck {
	var satisfied int
	var info, hints []string
	for _, st := range statuses {
		if st.Satisfied {
			satisfied++
			info = append(info, st.Tool+" "+st.Version)
			continue
		}
		info = append(info, fmt.Sprintf("%s: %s", st.Tool, st.Error))
		hints = append(hints, st.Hints...)
	}
	if satisfied == len(statuses) {
		return healthCheck{Name: "Tools", Status: "ok", Summary: joinComma(info)}
	}
	return healthCheck{Name: "Tools", Status: "error", Summary: joinComma(info), Hints: hints}
}

// checkEncoder confirms ffmpeg can produce the overlay codec. It is skipped
// when ffmpeg itself is missing.
func checkEncoder(cmd *cobra.Command, statuses []tools.Status) healthCheck {
	var ffmpeg string
	for _, st := range statuses {
		if st.Satisfied {
			ffmpeg = st.Paths["ffmpeg"]
		}
	}
	if ffmpeg == "" {
		return healthCheck{Name: "Encoder", Status: "warning", Summary: "skipped; ffmpeg unavailable"}
	}
	check := tools.CheckEncoder(cmd.Context(), ffmpeg, media.VideoCodec)
	if !check.Available {
		return healthCheck{
			Name:    "Encoder",
			Status:  "error",
			Summary: fmt.Sprintf("%s cannot encode test frames", check.Codec),
			Hints:   []string{"install an ffmpeg build with libx264 enabled"},
		}
	}
	return healthCheck{Name: "Encoder", Status: "ok", Summary: check.Codec + "/" + media.PixelFormat}
}

func checkConfig(pp paths.Paths, cfg config.Config, cfgErr error) healthCheck {
	if cfgErr != nil {
		return healthCheck{Name: "Config", Status: "error", Summary: cfgErr.Error()}
	}

	validations := cfg.ValidateStrict(pp.ConfigDir())
	var warnings, errs []string
	for _, v := range validations {
		switch v.Level {
		case "warning":
			warnings = append(warnings, v.Message)
		case "error":
			errs = append(errs, v.Message)
		}
	}

	summary := fmt.Sprintf("%d fps, crf %d, preset %s", cfg.Video.FPS, cfg.Video.CRF, cfg.Video.Preset)
	switch {
	case len(errs) > 0:
		return healthCheck{Name: "Config", Status: "error", Summary: fmt.Sprintf("%s; %d errors", summary, len(errs)), Hints: append(errs, warnings...)}
	case len(warnings) > 0:
		return healthCheck{Name: "Config", Status: "warning", Summary: fmt.Sprintf("%s; %d warnings", summary, len(warnings)), Hints: warnings}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: summary}
}

func checkFonts(a *app) healthCheck {
	lib := a.fontLibrary()
	n := len(lib.Entries())
	if n == 0 {
		return healthCheck{
			Name:    "Fonts",
			Status:  "warning",
			Summary: "no fonts found; text will use the built-in Go font",
			Hints:   []string{"add a directory to fonts.dirs or copy fonts into " + a.paths.FontsDir},
		}
	}
	var resolved []string
	for _, name := range a.cfg.Fonts.Fallbacks {
		if _, ok := lib.Find(name); ok {
			resolved = append(resolved, name)
		}
	}
	summary := fmt.Sprintf("%d faces", n)
	if len(resolved) == 0 {
		return healthCheck{Name: "Fonts", Status: "warning", Summary: summary + "; no fallback font resolves"}
	}
	return healthCheck{Name: "Fonts", Status: "ok", Summary: summary + "; fallback " + resolved[0]}
}

func printDoctorReport(cmd *cobra.Command, report doctorReport) {
	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("HEALTH:")+" "+report.Home)

	for _, c := range report.Checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = green.Render("OK")
		case "warning":
			statusStr = yellow.Render("WARN")
		case "error":
			statusStr = red.Render("ERROR")
		}
		fmt.Fprintf(out, "  %-10s %s    %s\n", c.Name+":", statusStr, c.Summary)
		for _, h := range c.Hints {
			fmt.Fprintf(out, "               - %s\n", h)
		}
	}

	fmt.Fprintln(out)
	printStatusTable(cmd, report.Tools)
}

func printStatusTable(cmd *cobra.Command, statuses []tools.Status) {
	if len(statuses) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "(no tool statuses)")
		return
	}

	rows := make([]tools.Status, len(statuses))
	copy(rows, statuses)
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Tool < rows[j].Tool
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-10s %-8s %-12s %-7s %s\n", "Tool", "Source", "Version", "OK", "Path")
	for _, st := range rows {
		ok := "no"
		if st.Satisfied {
			ok = "yes"
		}
		path := st.Path
		if path == "" {
			path = "(missing)"
		}
		fmt.Fprintf(out, "%-10s %-8s %-12s %-7s %s\n", st.Tool, tui.NonEmptyOrDash(string(st.Source)), tui.NonEmptyOrDash(st.Version), ok, path)
	}
}

func joinComma(items []string) string {
	if len(items) == 0 {
		return ""
	}
	result := items[0]
	for _, item := range items[1:] {
		result += ", " + item
	}
	return result
}
