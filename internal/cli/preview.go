package cli

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"scubaoverlay/internal/overlay"
	"scubaoverlay/internal/paths"
	"scubaoverlay/internal/template"
)

var (
	previewTemplate        string
	previewProfileTemplate string
	previewOutput          string
	previewUnits           string
)

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a template with sample data to a PNG",
		RunE:  runPreview,
	}

	cmd.Flags().StringVar(&previewTemplate, "template", "", "Field panel template (YAML)")
	cmd.Flags().StringVar(&previewProfileTemplate, "profile-template", "", "Profile graph template (YAML)")
	cmd.Flags().StringVarP(&previewOutput, "output", "o", "", "PNG file (default test_template.png or test_profile_template.png)")
	cmd.Flags().StringVar(&previewUnits, "units", "", "Override display units: metric or imperial")

	return cmd
}

func runPreview(cmd *cobra.Command, _ []string) error {
	tplPath, profile, err := templateChoice(previewTemplate, previewProfileTemplate)
	if err != nil {
		return err
	}
	units, err := overlay.UnitSystem(previewUnits)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	output := previewOutput
	if output == "" {
		output = paths.PreviewFile(profile)
	}

	tpl, err := template.Load(tplPath)
	if err != nil {
		return err
	}
	img, err := previewImage(tpl, profile, overlay.Options{Units: units, Fonts: a.fontCache()})
	if err != nil {
		return err
	}
	if err := writePNG(output, img); err != nil {
		return err
	}
	a.log.Infow("preview written", "template", tplPath, "output", output)

	if outputJSON {
		b := img.Bounds()
		return writeJSON(cmd, map[string]any{
			"run_id": a.runID,
			"output": output,
			"width":  b.Dx(),
			"height": b.Dy(),
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Preview image saved as %s\n", output)
	return nil
}

// previewImage renders tpl against the built-in sample dive at
// overlay.PreviewTime.
func previewImage(tpl *template.Template, profile bool, opts overlay.Options) (*image.RGBA, error) {
	if profile {
		w, h := tpl.FrameSize(overlay.PreviewProfileWidth, overlay.PreviewProfileHeight)
		p, err := overlay.CompileProfile(tpl, overlay.SyntheticDive(), w, h, overlay.SyntheticDuration, opts)
		if err != nil {
			return nil, err
		}
		return p.Frame(overlay.PreviewTime), nil
	}
	w, h := tpl.FrameSize(overlay.PreviewPanelWidth, overlay.PreviewPanelHeight)
	p, err := overlay.CompilePanel(tpl, w, h, opts)
	if err != nil {
		return nil, err
	}
	return p.Render(overlay.PreviewSample()), nil
}

func writePNG(path string, img image.Image) error {
	if err := paths.EnsureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
