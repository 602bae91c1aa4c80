package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"scubaoverlay/internal/media"
	"scubaoverlay/internal/overlay"
	"scubaoverlay/internal/paths"
	"scubaoverlay/internal/tools"
	"scubaoverlay/internal/tui"
)

var (
	mergeVideo      string
	mergeOverlay    string
	mergeOutput     string
	mergeX          int
	mergeY          int
	mergeChroma     string
	mergeSimilarity float64
	mergeBlend      float64
)

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Composite an overlay video onto dive footage",
		RunE:  runMerge,
	}

	cmd.Flags().StringVar(&mergeVideo, "video", "", "Dive footage")
	cmd.Flags().StringVar(&mergeOverlay, "overlay", "", "Overlay video produced by render")
	cmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Composited output file")
	cmd.Flags().IntVar(&mergeX, "x", 0, "Overlay left offset in pixels (default from config)")
	cmd.Flags().IntVar(&mergeY, "y", 0, "Overlay top offset in pixels (default from config)")
	cmd.Flags().StringVar(&mergeChroma, "chroma", "", "Key this color out of the overlay, e.g. #00FF00")
	cmd.Flags().Float64Var(&mergeSimilarity, "similarity", 0, "Chroma key similarity (default from config)")
	cmd.Flags().Float64Var(&mergeBlend, "blend", 0, "Chroma key blend (default from config)")
	_ = cmd.MarkFlagRequired("video")
	_ = cmd.MarkFlagRequired("overlay")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runMerge(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := mergeOptions(cmd, a)
	if err != nil {
		return err
	}
	for _, p := range []string{opts.Video, opts.Overlay} {
		ok, err := paths.FileExists(p)
		if err != nil {
			return err
		}
		if !ok {
			return &media.VideoReadError{Path: p, Reason: "file does not exist; check the file path"}
		}
	}
	ffmpeg, err := tools.Lookup("ffmpeg")
	if err != nil {
		return err
	}
	if err := paths.EnsureParentDir(opts.Output); err != nil {
		return err
	}

	a.log.Infow("merge", "video", opts.Video, "overlay", opts.Overlay, "output", opts.Output,
		"x", opts.X, "y", opts.Y, "chroma", opts.ChromaColor)

	var status *tui.StatusWriter
	if tui.DetectMode(cmd.ErrOrStderr(), noProgress, outputJSON) == tui.ModeTUI {
		status = tui.NewStatusWriter(cmd.ErrOrStderr())
		status.Update("Compositing overlay with ffmpeg")
	}
	err = media.Merge(cmd.Context(), a.runner, ffmpeg, opts)
	if status != nil {
		if err != nil {
			status.Stop()
		} else {
			status.Finish("Composited overlay")
		}
	}
	if err != nil {
		a.log.Errorw("merge failed", "error", err)
		return err
	}

	if outputJSON {
		return writeJSON(cmd, map[string]any{"run_id": a.runID, "output": opts.Output})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Merged video saved to: %s\n", opts.Output)
	return nil
}

// mergeOptions applies config defaults beneath the flags the user set.
func mergeOptions(cmd *cobra.Command, a *app) (media.MergeOptions, error) {
	opts := media.MergeOptions{
		Video:      mergeVideo,
		Overlay:    mergeOverlay,
		Output:     mergeOutput,
		X:          a.cfg.Merge.X,
		Y:          a.cfg.Merge.Y,
		Similarity: a.cfg.Merge.Similarity,
		Blend:      a.cfg.Merge.Blend,
	}
	flags := cmd.Flags()
	if flags.Changed("x") {
		opts.X = mergeX
	}
	if flags.Changed("y") {
		opts.Y = mergeY
	}
	if flags.Changed("similarity") {
		opts.Similarity = mergeSimilarity
	}
	if flags.Changed("blend") {
		opts.Blend = mergeBlend
	}
	if mergeChroma != "" {
		c, err := overlay.ParseColor(mergeChroma)
		if err != nil {
			return media.MergeOptions{}, fmt.Errorf("--chroma: %w", err)
		}
		opts.ChromaColor = fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	if opts.Similarity <= 0 || opts.Similarity > 1 {
		return media.MergeOptions{}, fmt.Errorf("similarity must be in (0, 1], got %g", opts.Similarity)
	}
	if opts.Blend < 0 || opts.Blend > 1 {
		return media.MergeOptions{}, fmt.Errorf("blend must be in [0, 1], got %g", opts.Blend)
	}
	return opts, nil
}
