package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"scubaoverlay/internal/fonts"
)

// commonFonts are the names templates most often ask for.
var commonFonts = []string{
	"Arial", "Arial Bold", "Helvetica", "Helvetica Bold",
	"DejaVu Sans", "DejaVu Sans Bold", "Liberation Sans", "Roboto", "Courier New",
}

func newFontsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "Inspect the fonts available to templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List discovered font families and styles",
		RunE:  runFontsList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "find NAME",
		Short: "Resolve a font name the way templates do",
		Args:  cobra.ExactArgs(1),
		RunE:  runFontsFind,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "test-common",
		Short: "Check which commonly used font names resolve",
		RunE:  runFontsTestCommon,
	})
	return cmd
}

type fontFamily struct {
	Family string   `json:"family"`
	Styles []string `json:"styles"`
}

func runFontsList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	lib := a.fontLibrary()
	families := sortedFamilies(lib.Families())
	a.log.Infow("fonts list", "dirs", lib.Dirs(), "families", len(families))

	if outputJSON {
		return writeJSON(cmd, families)
	}

	out := cmd.OutOrStdout()
	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	fmt.Fprintln(out, bold.Render("SEARCHED:")+" "+strings.Join(lib.Dirs(), ", "))
	if len(families) == 0 {
		fmt.Fprintln(out, "(no fonts found)")
		return nil
	}
	for _, f := range families {
		fmt.Fprintf(out, "%s: %s\n", f.Family, strings.Join(f.Styles, ", "))
	}
	fmt.Fprintf(out, "\n%d families\n", len(families))
	return nil
}

func sortedFamilies(m map[string][]string) []fontFamily {
	out := make([]fontFamily, 0, len(m))
	for family, styles := range m {
		s := append([]string(nil), styles...)
		sort.Strings(s)
		out = append(out, fontFamily{Family: family, Styles: s})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Family) < strings.ToLower(out[j].Family)
	})
	return out
}

type fontMatch struct {
	Name    string `json:"name"`
	Found   bool   `json:"found"`
	Family  string `json:"family,omitempty"`
	Style   string `json:"style,omitempty"`
	Path    string `json:"path,omitempty"`
	Builtin bool   `json:"builtin,omitempty"`
}

// resolveFont reports both the direct lookup and what a template would
// actually draw with after fallbacks.
func resolveFont(lib *fonts.Library, cache *fonts.Cache, name string) fontMatch {
	m := fontMatch{Name: name}
	if e, ok := lib.Find(name); ok {
		m.Found = true
		m.Family, m.Style, m.Path = e.Family, e.Style, e.Path
		return m
	}
	face := cache.Face(fonts.Spec{Name: name, Size: 12})
	m.Family, m.Style, m.Path, m.Builtin = face.Family, face.Style, face.Path, face.Builtin
	return m
}

func runFontsFind(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	lib := a.fontLibrary()
	m := resolveFont(lib, fonts.NewCache(lib, a.cfg.Fonts.Fallbacks), args[0])
	if outputJSON {
		return writeJSON(cmd, m)
	}
	printFontMatch(cmd, m)
	return nil
}

func runFontsTestCommon(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	lib := a.fontLibrary()
	cache := fonts.NewCache(lib, a.cfg.Fonts.Fallbacks)
	matches := make([]fontMatch, 0, len(commonFonts))
	for _, name := range commonFonts {
		matches = append(matches, resolveFont(lib, cache, name))
	}
	if outputJSON {
		return writeJSON(cmd, matches)
	}
	for _, m := range matches {
		printFontMatch(cmd, m)
	}
	return nil
}

func printFontMatch(cmd *cobra.Command, m fontMatch) {
	out := cmd.OutOrStdout()
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)

	switch {
	case m.Found:
		fmt.Fprintf(out, "%-18s %s  %s (%s)\n", m.Name, green.Render("FOUND"), entryLabel(m.Family, m.Style), m.Path)
	case m.Builtin:
		fmt.Fprintf(out, "%-18s %s  built-in Go font\n", m.Name, yellow.Render("MISS "))
	default:
		fmt.Fprintf(out, "%-18s %s  falls back to %s (%s)\n", m.Name, yellow.Render("MISS "), entryLabel(m.Family, m.Style), m.Path)
	}
}

func entryLabel(family, style string) string {
	return fonts.Entry{Family: family, Style: style}.Name()
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
