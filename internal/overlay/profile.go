package overlay

import (
	"image"
	"image/color"
	"math"

	"git.sr.ht/~sbinet/gg"
	"gonum.org/v1/gonum/floats"

	"scubaoverlay/internal/fonts"
	"scubaoverlay/internal/template"
	"scubaoverlay/pkg/divelog"
)

const (
	DefaultProfileBackground = "#00FF00"
	DefaultLineColor         = "#00AAFF"
	DefaultLineThickness     = 3
	DefaultIndicatorColor    = "#FF0000"
	DefaultIndicatorSize     = 12

	DefaultCeilingFill      = "#FF000060"
	DefaultCeilingLine      = "#FF4444"
	DefaultGasIcon          = "circle"
	DefaultGasIconSize      = 10
	DefaultGasIconColor     = "#FFFF00"
	defaultGasLabelFontSize = 14

	// depthHeadroom leaves space below the deepest point.
	depthHeadroom = 1.1
)

var defaultGasLabelOffset = template.Position{X: 8, Y: -20}

// Profile is a compiled depth profile graph: a static background holding
// the grid, axes, ceiling, profile line and gas marks, plus the state needed
// to place the position indicator.
type Profile struct {
	width, height int
	background    *image.RGBA
	samples       []divelog.DiveSample
	duration      int
	rect          image.Rectangle
	depth         Converter
	maxDepth      float64 // display units

	indicatorColor color.NRGBA
	indicatorSize  float64

	points   []image.Point
	ceilings [][]image.Point
	gasMarks []GasMark
	cursor   *Cursor
}

// CompileProfile draws the static profile of samples spanning duration
// seconds. Depths are shown in the template's depth unit, overridden by
// opts.Units.
func CompileProfile(tpl *template.Template, samples []divelog.DiveSample, width, height, duration int, opts Options) (*Profile, error) {
	switch {
	case len(samples) == 0:
		return nil, &ProfileError{Reason: "no dive samples provided"}
	case len(samples) < 2:
		return nil, &ProfileError{Reason: "at least 2 samples are required to draw a profile"}
	case duration <= 0:
		return nil, &ProfileError{Reason: "duration must be positive"}
	}
	if err := tpl.Validate(template.KindProfile); err != nil {
		return nil, err
	}
	g := tpl.Graph
	units := tpl.Units.Merge(opts.Units)

	p := &Profile{
		width:    width,
		height:   height,
		samples:  samples,
		duration: duration,
		rect:     image.Rect(g.Position.X, g.Position.Y, g.Position.X+*g.Width, g.Position.Y+*g.Height),
		depth:    ConverterFor(QuantityDepth, units.Depth),
		cursor:   NewCursor(samples),
	}
	depths := make([]float64, len(samples))
	for i, s := range samples {
		depths[i] = p.displayDepth(s.Depth)
	}
	p.maxDepth = floats.Max(depths)

	p.indicatorColor = colorOr(g.Indicator.Color, DefaultIndicatorColor)
	p.indicatorSize = DefaultIndicatorSize
	if g.Indicator.Size > 0 {
		p.indicatorSize = float64(g.Indicator.Size)
	}

	p.points = make([]image.Point, len(samples))
	for i, s := range samples {
		p.points[i] = image.Pt(p.TimeToX(s.Time), p.DepthToY(depths[i]))
	}

	p.background = solid(width, height, colorOr(tpl.BackgroundColor, DefaultProfileBackground))
	dc := gg.NewContextForRGBA(p.background)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	cache := opts.fonts()

	if g.Axes != nil {
		if g.Axes.ShowGrid {
			p.drawGrid(dc, g.Axes)
		}
		p.drawAxes(dc, cache, g.Axes)
	}
	if g.DecoCeiling != nil && g.DecoCeiling.Enabled {
		p.drawCeiling(dc, g.DecoCeiling)
	}
	p.drawLine(dc, g.Line)
	if g.GasChanges != nil && g.GasChanges.Enabled {
		p.drawGasChanges(dc, cache, g.GasChanges)
	}
	return p, nil
}

func (p *Profile) displayDepth(d float64) float64 {
	if p.depth == nil {
		return d
	}
	return p.depth(d)
}

func (p *Profile) paddedMax() float64 { return p.maxDepth * depthHeadroom }

// TimeToX maps seconds onto the graph's horizontal span.
func (p *Profile) TimeToX(t int) int {
	return p.rect.Min.X + int(float64(t)/float64(p.duration)*float64(p.rect.Dx()))
}

// DepthToY maps a depth in display units onto the graph's vertical span.
// Surface is the top edge.
func (p *Profile) DepthToY(d float64) int {
	if p.maxDepth <= 0 {
		return p.rect.Min.Y
	}
	return p.rect.Min.Y + int(d/p.paddedMax()*float64(p.rect.Dy()))
}

// MaxDepth is the deepest sample in display units.
func (p *Profile) MaxDepth() float64 { return p.maxDepth }

// Points returns the pixel position of every sample on the profile line.
func (p *Profile) Points() []image.Point { return append([]image.Point(nil), p.points...) }

// CeilingPolygons returns the filled ceiling regions, one per run.
func (p *Profile) CeilingPolygons() [][]image.Point { return p.ceilings }

// GasMarks returns the gas changes drawn on the graph.
func (p *Profile) GasMarks() []GasMark { return p.gasMarks }

func (p *Profile) Size() (int, int) { return p.width, p.height }

func (p *Profile) Empty() bool { return len(p.samples) == 0 }

// Background returns a copy of the static graph.
func (p *Profile) Background() *image.RGBA { return cloneRGBA(p.background) }

// IndicatorPosition is where the marker sits at dive time t: on the latest
// sample at or before t, or the first sample when t precedes them all.
func (p *Profile) IndicatorPosition(t int) image.Point {
	i, _ := p.cursor.Index(t)
	return p.points[i]
}

// Frame renders the graph with the indicator at dive time t.
func (p *Profile) Frame(t int) *image.RGBA {
	frame := cloneRGBA(p.background)
	at := p.IndicatorPosition(t)
	dc := gg.NewContextForRGBA(frame)
	dc.SetColor(p.indicatorColor)
	dc.DrawCircle(float64(at.X), float64(at.Y), p.indicatorSize)
	dc.Fill()
	return frame
}

func (p *Profile) drawLine(dc *gg.Context, line *template.LineStyle) {
	thickness := line.Thickness
	if thickness <= 0 {
		thickness = DefaultLineThickness
	}
	dc.SetColor(colorOr(line.Color, DefaultLineColor))
	dc.SetLineWidth(float64(thickness))
	dc.NewSubPath()
	for i, pt := range p.points {
		if i == 0 {
			dc.MoveTo(float64(pt.X), float64(pt.Y))
			continue
		}
		dc.LineTo(float64(pt.X), float64(pt.Y))
	}
	dc.Stroke()
}

func (p *Profile) drawCeiling(dc *gg.Context, cfg *template.DecoCeiling) {
	fill := cfg.Fill == nil || *cfg.Fill
	border := cfg.Border == nil || *cfg.Border
	thickness := cfg.LineThickness
	if thickness <= 0 {
		thickness = 1
	}
	surface := p.rect.Min.Y

	for _, run := range CeilingRuns(p.samples) {
		edge := make([]image.Point, len(run))
		for i, c := range run {
			edge[i] = image.Pt(p.TimeToX(c.Time), p.DepthToY(p.displayDepth(c.Depth)))
		}
		poly := make([]image.Point, 0, len(edge)+2)
		poly = append(poly, image.Pt(edge[0].X, surface))
		poly = append(poly, edge...)
		poly = append(poly, image.Pt(edge[len(edge)-1].X, surface))
		p.ceilings = append(p.ceilings, poly)

		if fill {
			dc.NewSubPath()
			for _, pt := range poly {
				dc.LineTo(float64(pt.X), float64(pt.Y))
			}
			dc.ClosePath()
			dc.SetColor(colorOr(cfg.FillColor, DefaultCeilingFill))
			dc.Fill()
		}
		if border {
			dc.NewSubPath()
			for _, pt := range edge {
				dc.LineTo(float64(pt.X), float64(pt.Y))
			}
			dc.SetColor(colorOr(cfg.LineColor, DefaultCeilingLine))
			dc.SetLineWidth(float64(thickness))
			dc.Stroke()
		}
	}
}

func (p *Profile) drawGasChanges(dc *gg.Context, cache *fonts.Cache, cfg *template.GasChanges) {
	markInitial := cfg.MarkInitial == nil || *cfg.MarkInitial
	p.gasMarks = DetectGasChanges(p.samples, markInitial)

	size := cfg.IconSize
	if size <= 0 {
		size = DefaultGasIconSize
	}
	r := float64(size) / 2
	offset := defaultGasLabelOffset
	if cfg.LabelOffset != nil {
		offset = *cfg.LabelOffset
	}
	spec := cfg.LabelFont.Merge(template.FontSpec{Name: DefaultFontName, Size: defaultGasLabelFontSize, Color: DefaultTextColor})
	st := resolveStyle(cache, spec, DefaultTextColor)
	iconColor := colorOr(cfg.IconColor, DefaultGasIconColor)

	for _, m := range p.gasMarks {
		x := float64(p.TimeToX(m.Time))
		y := float64(p.DepthToY(p.displayDepth(m.Depth)))
		switch cfg.Icon {
		case "triangle":
			dc.DrawRegularPolygon(3, x, y, r, 0)
		case "diamond":
			dc.DrawRegularPolygon(4, x, y, r, math.Pi/4)
		default:
			dc.DrawCircle(x, y, r)
		}
		dc.SetColor(iconColor)
		dc.Fill()
		drawText(dc, st, m.Label, x+float64(offset.X), y+float64(offset.Y))
	}
}
