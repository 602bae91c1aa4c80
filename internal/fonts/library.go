// Package fonts resolves human font names such as "Arial Bold" to renderable
// faces, scanning the platform font directories on first use.
package fonts

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/sfnt"
)

// Extensions lists the font file types the library indexes.
var Extensions = []string{".ttf", ".otf", ".ttc", ".otc"}

// Entry is one face found on disk. Index selects the face inside a collection
// file.
type Entry struct {
	Family string
	Style  string
	Path   string
	Index  int
}

// Name returns "Family Style".
func (e Entry) Name() string {
	if e.Style == "" {
		return e.Family
	}
	return e.Family + " " + e.Style
}

// Finder looks up a font entry by name.
type Finder interface {
	Find(name string) (Entry, bool)
}

// Library indexes the fonts under a set of directories. The index is built
// lazily and never refreshed.
type Library struct {
	dirs []string

	once    sync.Once
	entries []Entry
}

var _ Finder = (*Library)(nil)

// NewLibrary indexes dirs. With no dirs it uses SystemDirs.
func NewLibrary(dirs ...string) *Library {
	if len(dirs) == 0 {
		home, _ := os.UserHomeDir()
		dirs = SystemDirs(runtime.GOOS, home)
	}
	return &Library{dirs: dirs}
}

// SystemDirs returns the conventional font directories for goos.
func SystemDirs(goos, home string) []string {
	var dirs []string
	switch goos {
	case "darwin":
		dirs = []string{"/Library/Fonts", "/System/Library/Fonts", "/System/Library/Fonts/Supplemental"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
	case "windows":
		dirs = []string{`C:\Windows\Fonts`}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
	default:
		dirs = []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
	}
	return dirs
}

// Dirs returns the directories the library scans.
func (l *Library) Dirs() []string {
	return append([]string(nil), l.dirs...)
}

// Entries returns every indexed face sorted by family then style.
func (l *Library) Entries() []Entry {
	l.once.Do(l.scan)
	return append([]Entry(nil), l.entries...)
}

// Families groups the indexed styles by family name.
func (l *Library) Families() map[string][]string {
	out := make(map[string][]string)
	for _, e := range l.Entries() {
		out[e.Family] = append(out[e.Family], e.Style)
	}
	return out
}

// Find resolves a name such as "Arial", "Arial Bold" or "DejaVu Sans Mono".
// A bare family prefers its regular style.
func (l *Library) Find(name string) (Entry, bool) {
	want := normalize(name)
	if want == "" {
		return Entry{}, false
	}
	entries := l.Entries()

	for _, e := range entries {
		if normalize(e.Name()) == want {
			return e, true
		}
	}

	var family []Entry
	for _, e := range entries {
		if normalize(e.Family) == want {
			family = append(family, e)
		}
	}
	if len(family) > 0 {
		for _, e := range family {
			if isRegular(e.Style) {
				return e, true
			}
		}
		return family[0], true
	}

	// "Arial Bold Italic" against family "Arial", style "Bold Italic"
	// when the style is spelled differently, e.g. "BoldItalic".
	fam, style := splitStyle(want)
	if style == "" {
		return Entry{}, false
	}
	for _, e := range entries {
		if normalize(e.Family) == fam && compact(e.Style) == compact(style) {
			return e, true
		}
	}
	return Entry{}, false
}

func (l *Library) scan() {
	var entries []Entry
	var buf sfnt.Buffer
	for _, dir := range l.dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !hasFontExt(path) {
				return nil
			}
			found, err := readEntries(path, &buf)
			if err != nil {
				return nil
			}
			entries = append(entries, found...)
			return nil
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Family != entries[j].Family {
			return entries[i].Family < entries[j].Family
		}
		return entries[i].Style < entries[j].Style
	})
	l.entries = entries
}

func readEntries(path string, buf *sfnt.Buffer) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".ttc" || ext == ".otc" {
		coll, err := sfnt.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		var out []Entry
		for i := 0; i < coll.NumFonts(); i++ {
			f, err := coll.Font(i)
			if err != nil {
				continue
			}
			if e, ok := entryFor(f, path, i, buf); ok {
				out = append(out, e)
			}
		}
		return out, nil
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	e, ok := entryFor(f, path, 0, buf)
	if !ok {
		return nil, errors.New("font has no family name")
	}
	return []Entry{e}, nil
}

func entryFor(f *sfnt.Font, path string, index int, buf *sfnt.Buffer) (Entry, bool) {
	family := fontName(f, buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
	if family == "" {
		return Entry{}, false
	}
	style := fontName(f, buf, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)
	return Entry{Family: family, Style: style, Path: path, Index: index}, true
}

func fontName(f *sfnt.Font, buf *sfnt.Buffer, ids ...sfnt.NameID) string {
	for _, id := range ids {
		if name, err := f.Name(buf, id); err == nil && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

func hasFontExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

var styleWords = map[string]bool{
	"regular": true, "normal": true, "book": true, "roman": true,
	"bold": true, "italic": true, "oblique": true,
	"light": true, "thin": true, "medium": true, "semibold": true, "demibold": true,
	"extrabold": true, "black": true, "heavy": true,
	"condensed": true, "narrow": true,
}

// splitStyle peels trailing style words off a normalized name.
func splitStyle(name string) (family, style string) {
	words := strings.Fields(name)
	i := len(words)
	for i > 1 && styleWords[words[i-1]] {
		i--
	}
	return strings.Join(words[:i], " "), strings.Join(words[i:], " ")
}

func isRegular(style string) bool {
	switch normalize(style) {
	case "", "regular", "normal", "book", "roman":
		return true
	}
	return false
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func compact(s string) string {
	return strings.ReplaceAll(normalize(s), " ", "")
}
