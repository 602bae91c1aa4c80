package overlay

import (
	"image"
	"image/color"
	_ "image/jpeg" // background images
	_ "image/png"
	"os"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"scubaoverlay/internal/fonts"
	"scubaoverlay/internal/template"
)

// letterboxTolerance is the largest aspect ratio difference that is
// stretched instead of letterboxed.
const letterboxTolerance = 0.01

// solid returns a w×h image filled with c.
func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// cloneRGBA copies src into a fresh image.
func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := &image.RGBA{
		Pix:    make([]byte, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(dst.Pix, src.Pix)
	return dst
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// letterbox composites fg over a w×h canvas of chroma. A foreground whose
// aspect ratio differs from the frame is scaled to fit and centered.
func letterbox(fg image.Image, w, h int, chroma color.Color) *image.RGBA {
	canvas := solid(w, h, chroma)
	b := fg.Bounds()
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(canvas, canvas.Bounds(), fg, b.Min, draw.Over)
		return canvas
	}
	fgRatio := float64(b.Dx()) / float64(b.Dy())
	frameRatio := float64(w) / float64(h)
	target := canvas.Bounds()
	switch {
	case abs(fgRatio-frameRatio) < letterboxTolerance:
	case fgRatio > frameRatio:
		nh := int(float64(w) / fgRatio)
		pad := (h - nh) / 2
		target = image.Rect(0, pad, w, pad+nh)
	default:
		nw := int(float64(h) * fgRatio)
		pad := (w - nw) / 2
		target = image.Rect(pad, 0, pad+nw, h)
	}
	draw.CatmullRom.Scale(canvas, target, fg, b, draw.Over, nil)
	return canvas
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// panelBackground builds the static canvas of a field panel. An unreadable
// background image degrades to the solid background color.
func panelBackground(tpl *template.Template, w, h int) *image.RGBA {
	if tpl.BackgroundImage != "" {
		fg, err := loadImage(tpl.ResolvePath(tpl.BackgroundImage))
		if err == nil {
			return letterbox(fg, w, h, colorOr(tpl.ChromaColor, DefaultChromaColor))
		}
	}
	return solid(w, h, colorOr(tpl.BackgroundColor, DefaultPanelBackground))
}

// textStyle is a resolved face and color.
type textStyle struct {
	face  *fonts.Face
	color color.NRGBA
}

func resolveStyle(cache *fonts.Cache, spec template.FontSpec, fallbackColor string) textStyle {
	return textStyle{
		face:  cache.Face(fonts.Spec{Name: spec.Name, Path: spec.Path, Size: spec.Size}),
		color: colorOr(spec.Color, fallbackColor),
	}
}

// drawText places s with its top-left corner at (x, y).
func drawText(dc *gg.Context, st textStyle, s string, x, y float64) {
	if s == "" {
		return
	}
	dc.SetFontFace(st.face)
	dc.SetColor(st.color)
	dc.DrawString(s, x, y+ascent(st.face))
}

// drawTextAnchored places s relative to (x, y) the way gg anchors do: ax
// and ay are fractions of the text's width and height.
func drawTextAnchored(dc *gg.Context, st textStyle, s string, x, y, ax, ay float64) {
	if s == "" {
		return
	}
	dc.SetFontFace(st.face)
	dc.SetColor(st.color)
	dc.DrawStringAnchored(s, x, y, ax, ay)
}

func measure(dc *gg.Context, st textStyle, s string) (float64, float64) {
	dc.SetFontFace(st.face)
	return dc.MeasureString(s)
}

func ascent(f font.Face) float64 {
	return float64(f.Metrics().Ascent) / 64
}
