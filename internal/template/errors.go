package template

import (
	"fmt"
	"strings"
)

// NotFoundError reports a template path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template file not found: %s; check that the template file exists and the path is correct", e.Path)
}

// ParseError reports a template that is not valid YAML for the document shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing template file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError lists structural problems for the selected layout.
type ValidationError struct {
	Kind     Kind
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s template: %s", e.Kind, strings.Join(e.Problems, "; "))
}
