// Package template defines the overlay template document and loads it from
// YAML. A template describes either a field panel (Items) or a depth profile
// graph (Graph).
package template

import (
	"path/filepath"
)

// Kind distinguishes the two overlay layouts.
type Kind string

const (
	KindPanel   Kind = "panel"
	KindProfile Kind = "profile"
)

// Item types.
const (
	ItemText = "text"
	ItemData = "data"
)

// Position is a pixel offset from the frame's top-left corner.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// FontSpec selects a font by family Name or file Path. Zero fields inherit
// from the applicable default font.
type FontSpec struct {
	Name  string `yaml:"name,omitempty"`
	Path  string `yaml:"path,omitempty"`
	Size  int    `yaml:"size,omitempty"`
	Color string `yaml:"color,omitempty"`
}

// Merge returns f with empty fields filled from def.
func (f *FontSpec) Merge(def FontSpec) FontSpec {
	if f == nil {
		return def
	}
	out := *f
	if out.Name == "" && out.Path == "" {
		out.Name, out.Path = def.Name, def.Path
	}
	if out.Size <= 0 {
		out.Size = def.Size
	}
	if out.Color == "" {
		out.Color = def.Color
	}
	return out
}

// Units maps each quantity to its display unit, e.g. depth: ft.
type Units struct {
	Depth       string `yaml:"depth,omitempty"`
	Pressure    string `yaml:"pressure,omitempty"`
	Temperature string `yaml:"temperature,omitempty"`
}

// Merge returns u with every non-empty field of override applied.
func (u Units) Merge(override Units) Units {
	if override.Depth != "" {
		u.Depth = override.Depth
	}
	if override.Pressure != "" {
		u.Pressure = override.Pressure
	}
	if override.Temperature != "" {
		u.Temperature = override.Temperature
	}
	return u
}

// Item is one entry of a field panel.
type Item struct {
	Type string `yaml:"type,omitempty"`

	// text items
	Text     string    `yaml:"text,omitempty"`
	Position *Position `yaml:"position,omitempty"`
	Font     *FontSpec `yaml:"font,omitempty"`

	// data items
	Field         string    `yaml:"field,omitempty"`
	Compute       string    `yaml:"compute,omitempty"`
	Unit          string    `yaml:"unit,omitempty"`
	Label         string    `yaml:"label,omitempty"`
	LabelPosition *Position `yaml:"label_position,omitempty"`
	LabelFont     *FontSpec `yaml:"label_font,omitempty"`
	DataPosition  *Position `yaml:"data_position,omitempty"`
	DataFont      *FontSpec `yaml:"data_font,omitempty"`
	DataColor     string    `yaml:"data_color,omitempty"`
	Precision     *int      `yaml:"precision,omitempty"`
	Fallback      *string   `yaml:"fallback,omitempty"`
}

// ItemType returns the item's type, defaulting to data.
func (it Item) ItemType() string {
	if it.Type == "" {
		return ItemData
	}
	return it.Type
}

type LineStyle struct {
	Color     string `yaml:"color,omitempty"`
	Thickness int    `yaml:"thickness,omitempty"`
}

type IndicatorStyle struct {
	Color string `yaml:"color,omitempty"`
	Size  int    `yaml:"size,omitempty"`
}

type GridInterval struct {
	Time  int     `yaml:"time,omitempty"`
	Depth float64 `yaml:"depth,omitempty"`
}

// Axis configures ticks and the caption of one graph axis.
type Axis struct {
	ShowTicks     bool      `yaml:"show_ticks,omitempty"`
	TickInterval  float64   `yaml:"tick_interval,omitempty"`
	TickColor     string    `yaml:"tick_color,omitempty"`
	TickFormat    string    `yaml:"tick_format,omitempty"` // mm:ss, mm or seconds
	LabelFont     *FontSpec `yaml:"label_font,omitempty"`
	LabelPosition string    `yaml:"label_position,omitempty"` // left/right or bottom/top
	Label         *string   `yaml:"label,omitempty"`
}

type Axes struct {
	ShowGrid      bool         `yaml:"show_grid,omitempty"`
	GridInterval  GridInterval `yaml:"grid_interval,omitempty"`
	GridColor     string       `yaml:"grid_color,omitempty"`
	GridThickness int          `yaml:"grid_thickness,omitempty"`
	DepthAxis     *Axis        `yaml:"depth_axis,omitempty"`
	TimeAxis      *Axis        `yaml:"time_axis,omitempty"`
}

// DecoCeiling shades the decompression ceiling reported by the computer.
type DecoCeiling struct {
	Enabled       bool   `yaml:"enabled"`
	Fill          *bool  `yaml:"fill,omitempty"`
	Border        *bool  `yaml:"border,omitempty"`
	FillColor     string `yaml:"fill_color,omitempty"` // #RRGGBBAA allowed
	LineColor     string `yaml:"line_color,omitempty"`
	LineThickness int    `yaml:"line_thickness,omitempty"`
}

// GasChanges marks each new breathing gas on the profile line.
type GasChanges struct {
	Enabled     bool      `yaml:"enabled"`
	Icon        string    `yaml:"icon,omitempty"` // circle, triangle or diamond
	IconSize    int       `yaml:"icon_size,omitempty"`
	IconColor   string    `yaml:"icon_color,omitempty"`
	LabelFont   *FontSpec `yaml:"label_font,omitempty"`
	LabelOffset *Position `yaml:"label_offset,omitempty"`
	MarkInitial *bool     `yaml:"mark_initial,omitempty"`
}

// Graph is the profile graph section. Pointer fields distinguish absent keys
// from zero values so validation can report them.
type Graph struct {
	Position    *Position       `yaml:"position,omitempty"`
	Width       *int            `yaml:"width,omitempty"`
	Height      *int            `yaml:"height,omitempty"`
	Line        *LineStyle      `yaml:"line,omitempty"`
	Indicator   *IndicatorStyle `yaml:"indicator,omitempty"`
	Axes        *Axes           `yaml:"axes,omitempty"`
	DecoCeiling *DecoCeiling    `yaml:"deco_ceiling,omitempty"`
	GasChanges  *GasChanges     `yaml:"gas_changes,omitempty"`
}

// Template is a decoded template document.
type Template struct {
	Width            int       `yaml:"width,omitempty"`
	Height           int       `yaml:"height,omitempty"`
	BackgroundColor  string    `yaml:"background_color,omitempty"`
	BackgroundImage  string    `yaml:"background_image,omitempty"`
	ChromaColor      string    `yaml:"chroma_color,omitempty"`
	DefaultLabelFont *FontSpec `yaml:"default_label_font,omitempty"`
	DefaultDataFont  *FontSpec `yaml:"default_data_font,omitempty"`
	Units            Units     `yaml:"units,omitempty"`
	Items            []Item    `yaml:"items,omitempty"`
	Graph            *Graph    `yaml:"graph,omitempty"`

	// Dir is the directory the template was loaded from.
	Dir string `yaml:"-"`
}

// Kind reports the layout the template describes.
func (t *Template) Kind() Kind {
	if t.Graph != nil {
		return KindProfile
	}
	return KindPanel
}

// FrameSize returns the template's size, substituting defaults for missing
// dimensions.
func (t *Template) FrameSize(defaultWidth, defaultHeight int) (int, int) {
	w, h := t.Width, t.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// ResolvePath interprets a path from the template. Relative paths are tried
// against the working directory first, then against the template's directory.
func (t *Template) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || t.Dir == "" {
		return p
	}
	if fileExists(p) {
		return p
	}
	candidate := filepath.Join(t.Dir, p)
	if fileExists(candidate) {
		return candidate
	}
	return p
}
