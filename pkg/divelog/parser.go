package divelog

import (
	"errors"
	"io"
	"os"
	"strings"
)

// Parser decodes one export format into DiveData.
type Parser interface {
	Parse(r io.Reader) (DiveData, error)
}

type registration struct {
	ext    string
	name   string
	parser Parser
}

// registry is checked in order; the first matching extension wins.
var registry = []registration{
	{ext: ".ssrf", name: "Subsurface", parser: SubsurfaceParser{}},
	{ext: ".xml", name: "Shearwater", parser: ShearwaterParser{}},
}

// ParserFor returns the parser registered for path's extension.
func ParserFor(path string) (Parser, bool) {
	lower := strings.ToLower(path)
	for _, reg := range registry {
		if strings.HasSuffix(lower, reg.ext) {
			return reg.parser, true
		}
	}
	return nil, false
}

// SupportedExtensions lists the registered extensions with their format names,
// e.g. ".ssrf (Subsurface)".
func SupportedExtensions() []string {
	out := make([]string, len(registry))
	for i, reg := range registry {
		out[i] = reg.ext + " (" + reg.name + ")"
	}
	return out
}

// ParseFile selects a parser by file extension and decodes path.
func ParseFile(path string) (DiveData, error) {
	parser, ok := ParserFor(path)
	if !ok {
		return DiveData{}, &UnsupportedFormatError{Path: path, Supported: SupportedExtensions()}
	}

	f, err := os.Open(path)
	if err != nil {
		return DiveData{}, &MalformedLogError{Path: path, Err: err}
	}
	defer f.Close()

	data, err := parser.Parse(f)
	if err != nil {
		var malformed *MalformedLogError
		if errors.As(err, &malformed) && malformed.Path == "" {
			malformed.Path = path
		}
		return DiveData{}, err
	}
	return data, nil
}
