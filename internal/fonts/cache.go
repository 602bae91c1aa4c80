package fonts

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFallbacks is tried, in order, when a requested font is not found.
var DefaultFallbacks = []string{"Arial", "Arial Bold", "Helvetica", "DejaVu Sans"}

// Spec requests a font by file Path or family Name at a pixel Size.
type Spec struct {
	Name string
	Path string
	Size int
}

// Face is a sized face plus where it came from. Builtin is set when neither
// the request nor any fallback resolved.
type Face struct {
	font.Face
	Family  string
	Style   string
	Path    string
	Size    int
	Builtin bool
}

type cacheKey struct {
	name string
	path string
	size int
}

// Cache memoizes faces by name, path and size for the life of the process.
// Entries are never evicted.
type Cache struct {
	finder    Finder
	fallbacks []string

	mu     sync.Mutex
	faces  map[cacheKey]*Face
	parsed map[string]*opentype.Font
}

// NewCache resolves names through finder. A nil fallbacks uses
// DefaultFallbacks.
func NewCache(finder Finder, fallbacks []string) *Cache {
	if fallbacks == nil {
		fallbacks = DefaultFallbacks
	}
	return &Cache{
		finder:    finder,
		fallbacks: fallbacks,
		faces:     make(map[cacheKey]*Face),
		parsed:    make(map[string]*opentype.Font),
	}
}

// Face returns a face for spec. It never fails: an unresolvable request walks
// the fallback list and ends at the built-in Go font.
func (c *Cache) Face(spec Spec) *Face {
	if spec.Size <= 0 {
		spec.Size = 22
	}
	key := cacheKey{name: spec.Name, path: spec.Path, size: spec.Size}

	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.faces[key]; ok {
		return f
	}
	f := c.resolve(spec)
	c.faces[key] = f
	return f
}

// Len reports how many faces are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.faces)
}

func (c *Cache) resolve(spec Spec) *Face {
	if spec.Path != "" {
		if f, err := c.open(Entry{Path: spec.Path}, spec.Size); err == nil {
			return f
		}
	}
	if spec.Name != "" {
		if f, ok := c.byName(spec.Name, spec.Size); ok {
			return f
		}
	}
	for _, name := range c.fallbacks {
		if f, ok := c.byName(name, spec.Size); ok {
			return f
		}
	}
	return builtin(spec, c.parsedBuiltin)
}

func (c *Cache) byName(name string, size int) (*Face, bool) {
	if c.finder == nil {
		return nil, false
	}
	entry, ok := c.finder.Find(name)
	if !ok {
		return nil, false
	}
	f, err := c.open(entry, size)
	if err != nil {
		return nil, false
	}
	return f, true
}

func (c *Cache) open(entry Entry, size int) (*Face, error) {
	parsed, err := c.parse(entry)
	if err != nil {
		return nil, err
	}
	face, err := newFace(parsed, size)
	if err != nil {
		return nil, err
	}
	return &Face{Face: face, Family: entry.Family, Style: entry.Style, Path: entry.Path, Size: size}, nil
}

func (c *Cache) parse(entry Entry) (*opentype.Font, error) {
	id := fmt.Sprintf("%s#%d", entry.Path, entry.Index)
	if f, ok := c.parsed[id]; ok {
		return f, nil
	}
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, err
	}
	var f *opentype.Font
	lower := strings.ToLower(entry.Path)
	if strings.HasSuffix(lower, ".ttc") || strings.HasSuffix(lower, ".otc") {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		f, err = coll.Font(entry.Index)
		if err != nil {
			return nil, err
		}
	} else {
		f, err = opentype.Parse(data)
		if err != nil {
			return nil, err
		}
	}
	c.parsed[id] = f
	return f, nil
}

func (c *Cache) parsedBuiltin(name string, ttf []byte) (*opentype.Font, error) {
	id := "builtin:" + name
	if f, ok := c.parsed[id]; ok {
		return f, nil
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	c.parsed[id] = f
	return f, nil
}

func newFace(f *opentype.Font, size int) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// builtin returns the embedded Go font, bold when the request asks for it.
// The embedded fonts are known-good, so parse failures panic.
func builtin(spec Spec, parse func(string, []byte) (*opentype.Font, error)) *Face {
	name, style, ttf := "goregular", "Regular", goregular.TTF
	if strings.Contains(strings.ToLower(spec.Name), "bold") {
		name, style, ttf = "gobold", "Bold", gobold.TTF
	}
	parsed, err := parse(name, ttf)
	if err != nil {
		panic(fmt.Sprintf("fonts: parse embedded %s: %v", name, err))
	}
	face, err := newFace(parsed, spec.Size)
	if err != nil {
		panic(fmt.Sprintf("fonts: embedded %s face: %v", name, err))
	}
	return &Face{Face: face, Family: "Go", Style: style, Size: spec.Size, Builtin: true}
}
