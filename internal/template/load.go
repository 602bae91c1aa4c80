package template

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and decodes the template at path.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	tpl, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	tpl.Dir = filepath.Dir(path)
	return tpl, nil
}

// Parse decodes a template document. Keys the document shape does not know
// are ignored.
func Parse(data []byte) (*Template, error) {
	var tpl Template
	if len(bytes.TrimSpace(data)) == 0 {
		return &tpl, nil
	}
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Validate checks the sections the given layout requires.
func (t *Template) Validate(kind Kind) error {
	var problems []string
	switch kind {
	case KindProfile:
		if t.Graph == nil {
			problems = append(problems, "missing 'graph' section")
			break
		}
		if missing := t.Graph.missingFields(); len(missing) > 0 {
			problems = append(problems, "graph section missing fields: "+strings.Join(missing, ", "))
		}
		if t.Graph.Width != nil && *t.Graph.Width <= 0 {
			problems = append(problems, fmt.Sprintf("graph width must be positive, got %d", *t.Graph.Width))
		}
		if t.Graph.Height != nil && *t.Graph.Height <= 0 {
			problems = append(problems, fmt.Sprintf("graph height must be positive, got %d", *t.Graph.Height))
		}
	case KindPanel:
		for i, it := range t.Items {
			switch it.ItemType() {
			case ItemText, ItemData:
			default:
				problems = append(problems, fmt.Sprintf("item %d: unknown type %q", i+1, it.Type))
			}
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown template kind %q", kind))
	}
	if len(problems) > 0 {
		return &ValidationError{Kind: kind, Problems: problems}
	}
	return nil
}

func (g *Graph) missingFields() []string {
	var missing []string
	if g.Position == nil {
		missing = append(missing, "position")
	}
	if g.Width == nil {
		missing = append(missing, "width")
	}
	if g.Height == nil {
		missing = append(missing, "height")
	}
	if g.Line == nil {
		missing = append(missing, "line")
	}
	if g.Indicator == nil {
		missing = append(missing, "indicator")
	}
	return missing
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
