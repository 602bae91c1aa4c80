package overlay

import (
	"image"
	"strings"

	"git.sr.ht/~sbinet/gg"

	"scubaoverlay/internal/fonts"
	"scubaoverlay/internal/template"
	"scubaoverlay/pkg/divelog"
)

const (
	DefaultPanelBackground = "#000000"
	DefaultChromaColor     = "#00FF00"
	DefaultFallback        = "N/A"
	DefaultTextColor       = "#FFFFFF"
	DefaultFontName        = "Arial"
	DefaultFontSize        = 22
)

// Options carries compile inputs that do not come from the template.
type Options struct {
	// Units overrides the template's display units, quantity by quantity.
	Units template.Units
	// Fonts resolves font specs; nil uses a cache over the system fonts.
	Fonts *fonts.Cache
}

func (o Options) fonts() *fonts.Cache {
	if o.Fonts != nil {
		return o.Fonts
	}
	return fonts.NewCache(fonts.NewLibrary(), nil)
}

// fieldInstr draws one dynamic value per frame.
type fieldInstr struct {
	field     string
	expr      *Expression
	at        template.Position
	style     textStyle
	fallback  string
	precision *int
	convert   Converter
	unit      string
}

// Panel is a compiled field panel. It is immutable after CompilePanel.
type Panel struct {
	width, height int
	background    *image.RGBA
	fields        []fieldInstr
}

func defaultFont(spec *template.FontSpec) template.FontSpec {
	return spec.Merge(template.FontSpec{Name: DefaultFontName, Size: DefaultFontSize, Color: DefaultTextColor})
}

// CompilePanel renders the static parts of tpl into a background and
// records one instruction per data field.
func CompilePanel(tpl *template.Template, width, height int, opts Options) (*Panel, error) {
	if err := tpl.Validate(template.KindPanel); err != nil {
		return nil, err
	}
	cache := opts.fonts()
	units := tpl.Units.Merge(opts.Units)
	labelDefault := defaultFont(tpl.DefaultLabelFont)
	dataDefault := defaultFont(tpl.DefaultDataFont)

	bg := panelBackground(tpl, width, height)
	dc := gg.NewContextForRGBA(bg)
	p := &Panel{width: width, height: height, background: bg}

	for _, item := range tpl.Items {
		switch item.ItemType() {
		case template.ItemText:
			st := resolveStyle(cache, item.Font.Merge(labelDefault), DefaultTextColor)
			at := positionOr(item.Position)
			drawText(dc, st, item.Text, float64(at.X), float64(at.Y))
		case template.ItemData:
			if item.Field == "" && item.Compute == "" {
				continue
			}
			if item.Label != "" {
				st := resolveStyle(cache, item.LabelFont.Merge(labelDefault), DefaultTextColor)
				at := positionOr(item.LabelPosition)
				drawText(dc, st, item.Label, float64(at.X), float64(at.Y))
			}
			if item.DataPosition == nil {
				continue
			}
			p.fields = append(p.fields, compileField(cache, item, dataDefault, units))
		}
	}
	return p, nil
}

func compileField(cache *fonts.Cache, item template.Item, dataDefault template.FontSpec, units template.Units) fieldInstr {
	spec := item.DataFont.Merge(dataDefault)
	if item.DataColor != "" {
		spec.Color = item.DataColor
	}
	in := fieldInstr{
		field:     item.Field,
		at:        *item.DataPosition,
		style:     resolveStyle(cache, spec, DefaultTextColor),
		fallback:  DefaultFallback,
		precision: item.Precision,
		unit:      item.Unit,
	}
	if item.Fallback != nil {
		in.fallback = *item.Fallback
	}
	if item.Compute != "" {
		in.expr = CompileExpression(item.Compute)
		return in
	}
	q := Classify(item.Field)
	if target := UnitFor(units, q); target != "" {
		in.convert = ConverterFor(q, target)
		if strings.TrimSpace(in.unit) != "" {
			in.unit = target
		}
	}
	return in
}

func positionOr(p *template.Position) template.Position {
	if p == nil {
		return template.Position{}
	}
	return *p
}

// Size returns the frame dimensions.
func (p *Panel) Size() (int, int) { return p.width, p.height }

// Background returns a copy of the static canvas.
func (p *Panel) Background() *image.RGBA { return cloneRGBA(p.background) }

// Texts resolves every dynamic field against s, in template order.
func (p *Panel) Texts(s divelog.DiveSample) []string {
	out := make([]string, len(p.fields))
	for i, f := range p.fields {
		out[i] = f.text(s)
	}
	return out
}

// Render draws s over a copy of the background.
func (p *Panel) Render(s divelog.DiveSample) *image.RGBA {
	frame := cloneRGBA(p.background)
	dc := gg.NewContextForRGBA(frame)
	for _, f := range p.fields {
		drawText(dc, f.style, f.text(s), float64(f.at.X), float64(f.at.Y))
	}
	return frame
}

func (f fieldInstr) text(s divelog.DiveSample) string {
	var v Value
	if f.expr != nil {
		if out, ok := f.expr.Eval(s); ok {
			v = TextValue(out)
		}
	} else {
		v = DisplayValue(f.field, s)
	}
	if !v.Valid() {
		v = TextValue(f.fallback)
	}
	v = v.convert(f.convert)

	var text string
	if f.precision != nil {
		text = FormatPrecision(v, *f.precision)
	} else {
		text = v.String()
	}
	return strings.TrimSpace(text + " " + f.unit)
}

// PanelTrack pairs a panel with a sample sequence for video assembly.
type PanelTrack struct {
	panel  *Panel
	cursor *Cursor
}

// Track binds samples to p. Frames at times before the first sample show the
// first sample.
func (p *Panel) Track(samples []divelog.DiveSample) *PanelTrack {
	return &PanelTrack{panel: p, cursor: NewCursor(samples)}
}

func (t *PanelTrack) Size() (int, int) { return t.panel.Size() }

func (t *PanelTrack) Empty() bool { return t.cursor.Len() == 0 }

func (t *PanelTrack) Frame(diveTime int) *image.RGBA {
	s, ok := t.cursor.At(diveTime)
	if !ok {
		return t.panel.Background()
	}
	return t.panel.Render(s)
}
