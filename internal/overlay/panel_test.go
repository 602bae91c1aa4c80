package overlay

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"scubaoverlay/internal/fonts"
	"scubaoverlay/internal/template"
	"scubaoverlay/pkg/divelog"
)

// testFonts resolves every request to the built-in face.
func testFonts(t *testing.T) *fonts.Cache {
	t.Helper()
	return fonts.NewCache(fonts.NewLibrary(t.TempDir()), []string{})
}

func mustParse(t *testing.T, doc string) *template.Template {
	t.Helper()
	tpl, err := template.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	return tpl
}

const panelDoc = `
width: 480
height: 280
background_color: "#102030"
units:
  temperature: F
items:
  - type: text
    text: "DIVE"
    position: {x: 200, y: 5}
  - field: depth
    label: Depth
    label_position: {x: 10, y: 10}
    data_position: {x: 10, y: 40}
    unit: m
    precision: 1
  - field: time
    data_position: {x: 10, y: 80}
  - field: ndl
    data_position: {x: 10, y: 120}
    fallback: "--"
  - compute: "EAN{fractionO2:02%}"
    data_position: {x: 10, y: 160}
  - field: "pressure[1]"
    data_position: {x: 10, y: 200}
    unit: bar
    precision: 0
  - field: temperature
    data_position: {x: 200, y: 40}
    precision: 1
  - field: tts
    label: "No value position"
  - label: "No source"
    data_position: {x: 0, y: 0}
`

func TestPanelTexts(t *testing.T) {
	tpl := mustParse(t, panelDoc)
	panel, err := CompilePanel(tpl, 480, 280, Options{
		Units: template.Units{Depth: "ft"},
		Fonts: testFonts(t),
	})
	if err != nil {
		t.Fatalf("CompilePanel: %v", err)
	}
	s := divelog.DiveSample{
		Time:        125,
		Depth:       30,
		FractionO2:  divelog.Float(0.32),
		Temperature: divelog.Float(22),
		Pressure:    []*float64{divelog.Float(200)},
	}
	got := panel.Texts(s)
	want := []string{"98.4 ft", "2:05", "--", "EAN32", "N/A bar", "71.6"}
	if len(got) != len(want) {
		t.Fatalf("Texts = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Texts[%d] = %q, want %q (all %q)", i, got[i], want[i], got)
		}
	}
}

func TestPanelRenderDrawsOverBackground(t *testing.T) {
	tpl := mustParse(t, panelDoc)
	panel, err := CompilePanel(tpl, 480, 280, Options{Fonts: testFonts(t)})
	if err != nil {
		t.Fatalf("CompilePanel: %v", err)
	}
	bg := panel.Background()
	want := color.RGBA{0x10, 0x20, 0x30, 0xff}
	if got := bg.RGBAAt(479, 279); got != want {
		t.Fatalf("background corner = %v, want %v", got, want)
	}

	frame := panel.Render(divelog.DiveSample{Time: 60, Depth: 10})
	if frame.Bounds() != image.Rect(0, 0, 480, 280) {
		t.Fatalf("frame bounds = %v", frame.Bounds())
	}
	changed := 0
	for i := range frame.Pix {
		if frame.Pix[i] != bg.Pix[i] {
			changed++
		}
	}
	if changed == 0 {
		t.Fatalf("render drew nothing over the background")
	}
	if again := panel.Background(); again.RGBAAt(12, 45) != bg.RGBAAt(12, 45) {
		t.Fatalf("render modified the static background")
	}
}

func TestPanelBackgroundImage(t *testing.T) {
	dir := t.TempDir()
	fg := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for i := 0; i < len(fg.Pix); i += 4 {
		fg.Pix[i], fg.Pix[i+3] = 0xff, 0xff
	}
	f, err := os.Create(filepath.Join(dir, "bg.png"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, fg); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	tpl := &template.Template{BackgroundImage: "bg.png", Dir: dir}
	panel, err := CompilePanel(tpl, 100, 100, Options{Fonts: testFonts(t)})
	if err != nil {
		t.Fatalf("CompilePanel: %v", err)
	}
	bg := panel.Background()
	if got := bg.RGBAAt(50, 5); got != (color.RGBA{0, 0xff, 0, 0xff}) {
		t.Fatalf("letterbox padding = %v, want chroma green", got)
	}
	if got := bg.RGBAAt(50, 50); got.R < 0xf0 || got.G > 0x10 {
		t.Fatalf("letterboxed image center = %v, want red", got)
	}
}

func TestPanelMissingBackgroundImageFallsBack(t *testing.T) {
	tpl := &template.Template{BackgroundImage: "missing.png", BackgroundColor: "#0000FF", Dir: t.TempDir()}
	panel, err := CompilePanel(tpl, 20, 20, Options{Fonts: testFonts(t)})
	if err != nil {
		t.Fatalf("CompilePanel: %v", err)
	}
	if got := panel.Background().RGBAAt(10, 10); got != (color.RGBA{0, 0, 0xff, 0xff}) {
		t.Fatalf("fallback background = %v", got)
	}
}

func TestPanelRejectsUnknownItemType(t *testing.T) {
	tpl := mustParse(t, "items:\n  - type: gauge\n")
	if _, err := CompilePanel(tpl, 10, 10, Options{Fonts: testFonts(t)}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestPanelTrack(t *testing.T) {
	tpl := mustParse(t, panelDoc)
	panel, err := CompilePanel(tpl, 480, 280, Options{Fonts: testFonts(t)})
	if err != nil {
		t.Fatalf("CompilePanel: %v", err)
	}
	empty := panel.Track(nil)
	if !empty.Empty() {
		t.Fatalf("track over no samples should be empty")
	}
	if got := empty.Frame(10).RGBAAt(0, 0); got != (color.RGBA{0x10, 0x20, 0x30, 0xff}) {
		t.Fatalf("empty frame = %v, want background", got)
	}
	track := panel.Track([]divelog.DiveSample{{Time: 0}, {Time: 10, Depth: 5}})
	if w, h := track.Size(); w != 480 || h != 280 {
		t.Fatalf("Size = %dx%d", w, h)
	}
}
