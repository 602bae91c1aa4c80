package overlay

import (
	"fmt"
	"math"

	"git.sr.ht/~sbinet/gg"

	"scubaoverlay/internal/fonts"
	"scubaoverlay/internal/template"
)

const (
	DefaultGridTime      = 60
	DefaultGridDepth     = 10
	DefaultGridColor     = "#444444"
	DefaultTickColor     = "#FFFFFF"
	DefaultDepthTicks    = 10
	DefaultTimeTicks     = 60
	defaultTickFontSize  = 14
	defaultAxisLabelSize = 18
	tickLength           = 5
)

// Time tick formats.
const (
	TickMMSS    = "mm:ss"
	TickMM      = "mm"
	TickSeconds = "seconds"
)

// FormatTick renders a time axis label.
func FormatTick(seconds int, format string) string {
	switch format {
	case TickMM:
		return fmt.Sprintf("%d", seconds/60)
	case TickSeconds:
		return fmt.Sprintf("%d", seconds)
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (p *Profile) drawGrid(dc *gg.Context, axes *template.Axes) {
	timeStep := axes.GridInterval.Time
	if timeStep == 0 {
		timeStep = DefaultGridTime
	}
	depthStep := axes.GridInterval.Depth
	if depthStep == 0 {
		depthStep = DefaultGridDepth
	}
	thickness := axes.GridThickness
	if thickness <= 0 {
		thickness = 1
	}
	dc.SetColor(colorOr(axes.GridColor, DefaultGridColor))
	dc.SetLineWidth(float64(thickness))

	top, bottom := float64(p.rect.Min.Y), float64(p.rect.Max.Y)
	left, right := float64(p.rect.Min.X), float64(p.rect.Max.X)
	if timeStep > 0 {
		for t := timeStep; t < p.duration; t += timeStep {
			x := float64(p.TimeToX(t))
			dc.DrawLine(x, top, x, bottom)
			dc.Stroke()
		}
	}
	if depthStep > 0 {
		for d := depthStep; d < p.paddedMax(); d += depthStep {
			y := float64(p.DepthToY(d))
			dc.DrawLine(left, y, right, y)
			dc.Stroke()
		}
	}
}

func axisStyle(cache *fonts.Cache, axis *template.Axis, size int) textStyle {
	spec := axis.LabelFont.Merge(template.FontSpec{Name: DefaultFontName, Size: size, Color: DefaultTextColor})
	return resolveStyle(cache, spec, DefaultTextColor)
}

func (p *Profile) drawAxes(dc *gg.Context, cache *fonts.Cache, axes *template.Axes) {
	if axes.DepthAxis != nil {
		p.drawDepthAxis(dc, cache, axes.DepthAxis)
	}
	if axes.TimeAxis != nil {
		p.drawTimeAxis(dc, cache, axes.TimeAxis)
	}
}

func (p *Profile) drawDepthAxis(dc *gg.Context, cache *fonts.Cache, axis *template.Axis) {
	right := axis.LabelPosition == "right"
	gx, gxr := float64(p.rect.Min.X), float64(p.rect.Max.X)

	if axis.ShowTicks {
		step := axis.TickInterval
		if step <= 0 {
			step = DefaultDepthTicks
		}
		st := axisStyle(cache, axis, defaultTickFontSize)
		tick := colorOr(axis.TickColor, DefaultTickColor)
		for d := 0.0; d <= p.paddedMax(); d += step {
			y := float64(p.DepthToY(d))
			label := fmt.Sprintf("%d", int(d))
			dc.SetColor(tick)
			dc.SetLineWidth(1)
			if right {
				dc.DrawLine(gxr, y, gxr+tickLength, y)
				dc.Stroke()
				drawTextAnchored(dc, st, label, gxr+10, y, 0, 0.5)
			} else {
				dc.DrawLine(gx-tickLength, y, gx, y)
				dc.Stroke()
				drawTextAnchored(dc, st, label, gx-10, y, 1, 0.5)
			}
		}
	}

	if axis.Label == nil || *axis.Label == "" {
		return
	}
	st := axisStyle(cache, axis, defaultAxisLabelSize)
	half := float64(st.face.Size) / 2
	cy := float64(p.rect.Min.Y+p.rect.Max.Y) / 2
	cx := math.Max(gx-40, half+2)
	if right {
		cx = gxr + 40
	}
	dc.Push()
	dc.RotateAbout(-math.Pi/2, cx, cy)
	drawTextAnchored(dc, st, *axis.Label, cx, cy, 0.5, 0.5)
	dc.Pop()
}

func (p *Profile) drawTimeAxis(dc *gg.Context, cache *fonts.Cache, axis *template.Axis) {
	top := axis.LabelPosition == "top"
	gy, gyb := float64(p.rect.Min.Y), float64(p.rect.Max.Y)

	if axis.ShowTicks {
		step := int(axis.TickInterval)
		if step <= 0 {
			step = DefaultTimeTicks
		}
		st := axisStyle(cache, axis, defaultTickFontSize)
		tick := colorOr(axis.TickColor, DefaultTickColor)
		size := float64(st.face.Size)
		for t := 0; t <= p.duration; t += step {
			x := float64(p.TimeToX(t))
			label := FormatTick(t, axis.TickFormat)
			w, _ := measure(dc, st, label)
			dc.SetColor(tick)
			dc.SetLineWidth(1)
			if top {
				dc.DrawLine(x, gy-tickLength, x, gy)
				dc.Stroke()
				drawText(dc, st, label, x-w/2, gy-size-8)
			} else {
				dc.DrawLine(x, gyb, x, gyb+tickLength)
				dc.Stroke()
				drawText(dc, st, label, x-w/2, gyb+8)
			}
		}
	}

	if axis.Label == nil || *axis.Label == "" {
		return
	}
	st := axisStyle(cache, axis, defaultAxisLabelSize)
	w, _ := measure(dc, st, *axis.Label)
	center := float64(p.rect.Min.X+p.rect.Max.X) / 2
	y := gyb + 35
	if top {
		y = 5
	}
	drawText(dc, st, *axis.Label, center-w/2, y)
}
