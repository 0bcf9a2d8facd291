package wrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// Template renders a pongo2 template around the payload. The payload is bound
// to "content" and marked safe so it is never HTML-escaped; the asset name is
// bound to "name".
//
//	<script type="module" data-asset="{{ name }}">{{ content }}</script>
type Template struct {
	source string
	tmpl   *pongo2.Template
}

// Ensure Template implements the Wrapper interface.
var _ Wrapper = (*Template)(nil)

// NewTemplate parses source once so syntax errors surface before any input is
// read.
func NewTemplate(source string) (*Template, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.New("wrap: template source is required")
	}
	tmpl, err := pongo2.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("wrap: parse template: %w", err)
	}
	return &Template{source: source, tmpl: tmpl}, nil
}

// Source returns the template text the wrapper was built from.
func (t *Template) Source() string {
	if t == nil {
		return ""
	}
	return t.source
}

// Wrap implements Wrapper.
func (t *Template) Wrap(name, content string) (string, error) {
	if t == nil || t.tmpl == nil {
		return "", errors.New("wrap: template is nil")
	}
	out, err := t.tmpl.Execute(pongo2.Context{
		"content": pongo2.AsSafeValue(content),
		"name":    name,
	})
	if err != nil {
		return "", fmt.Errorf("wrap: execute template for %q: %w", name, err)
	}
	return out, nil
}
