// Package config loads inline plans from YAML files. Every field is optional;
// anything left out falls back to the defaults of the selected variant.
//
//	variant: script-and-style
//	template: ocr.htm
//	output: index.html
//	assets:
//	  - name: style
//	    required: false
//	  - name: icons
//	    path: icons.svg
//	    marker: "<!-- icons -->"
//	    template: '<div hidden>{{ content }}</div>'
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-htmlinline/pkg/inliner"
	"github.com/goliatone/go-htmlinline/pkg/wrap"
)

// DefaultFileName is the plan file picked up from the working directory.
const DefaultFileName = "inline.yaml"

// File mirrors the YAML document layout.
type File struct {
	Variant  string      `yaml:"variant"`
	Template string      `yaml:"template"`
	Output   string      `yaml:"output"`
	Assets   []AssetFile `yaml:"assets"`
}

// AssetFile configures one asset. Entries whose name matches a default asset
// ("script", "style") override it field by field; other names add an asset.
type AssetFile struct {
	Name     string  `yaml:"name"`
	Path     string  `yaml:"path"`
	Marker   string  `yaml:"marker"`
	Limit    *int    `yaml:"limit"`
	Open     *string `yaml:"open"`
	Close    *string `yaml:"close"`
	Template string  `yaml:"template"`
	Required *bool   `yaml:"required"`
	Disabled bool    `yaml:"disabled"`
}

// Option customises how a plan file is resolved.
type Option func(*options)

type options struct {
	variant inliner.Variant
}

// WithVariant forces the variant, ignoring the one declared in the file.
func WithVariant(variant inliner.Variant) Option {
	return func(o *options) {
		o.variant = variant
	}
}

// Default returns the built-in plan for variant.
func Default(variant inliner.Variant) inliner.Plan {
	return inliner.DefaultPlan(variant)
}

// Load reads and resolves a plan file from disk.
func Load(filename string, opts ...Option) (inliner.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return inliner.Plan{}, fmt.Errorf("config: read %s: %w", filename, err)
	}
	return Parse(data, filename, opts...)
}

// LoadFS reads and resolves a plan file from fsys.
func LoadFS(fsys fs.FS, name string, opts ...Option) (inliner.Plan, error) {
	if fsys == nil {
		return inliner.Plan{}, errors.New("config: fs is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return inliner.Plan{}, fmt.Errorf("config: read %s: %w", name, err)
	}
	return Parse(data, name, opts...)
}

// Parse decodes a YAML plan document. source labels error messages. Unknown
// keys are rejected so typos do not silently fall back to defaults.
func Parse(data []byte, source string, opts ...Option) (inliner.Plan, error) {
	resolved := options{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&resolved)
	}

	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return inliner.Plan{}, fmt.Errorf("config: parse %s: %w", source, err)
	}

	variant := resolved.variant
	if variant == "" {
		parsed, err := inliner.ParseVariant(file.Variant)
		if err != nil {
			return inliner.Plan{}, fmt.Errorf("config: %s: %w", source, err)
		}
		variant = parsed
	}

	plan, err := file.Resolve(variant)
	if err != nil {
		return inliner.Plan{}, fmt.Errorf("config: %s: %w", source, err)
	}
	return plan, nil
}

// Resolve merges the file onto the default plan of variant and validates the
// result.
func (f File) Resolve(variant inliner.Variant) (inliner.Plan, error) {
	plan := inliner.DefaultPlan(variant)

	if tmpl := strings.TrimSpace(f.Template); tmpl != "" {
		if err := checkPath(tmpl); err != nil {
			return inliner.Plan{}, fmt.Errorf("template: %w", err)
		}
		plan.Template = tmpl
	}
	if out := strings.TrimSpace(f.Output); out != "" {
		plan.Output = out
	}

	disabled := make(map[string]struct{})
	for i, raw := range f.Assets {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			return inliner.Plan{}, fmt.Errorf("asset %d has no name", i)
		}
		if raw.Disabled {
			disabled[name] = struct{}{}
			continue
		}

		idx := indexOf(plan.Assets, name)
		base := inliner.Asset{Name: name, Required: true}
		if idx >= 0 {
			base = plan.Assets[idx]
		}

		asset, err := raw.apply(base)
		if err != nil {
			return inliner.Plan{}, fmt.Errorf("asset %q: %w", name, err)
		}
		if idx >= 0 {
			plan.Assets[idx] = asset
		} else {
			plan.Assets = append(plan.Assets, asset)
		}
	}

	if len(disabled) > 0 {
		kept := plan.Assets[:0]
		for _, asset := range plan.Assets {
			if _, off := disabled[asset.Name]; off {
				continue
			}
			kept = append(kept, asset)
		}
		plan.Assets = kept
	}

	if err := plan.Validate(); err != nil {
		return inliner.Plan{}, err
	}
	return plan, nil
}

func (a AssetFile) apply(base inliner.Asset) (inliner.Asset, error) {
	out := base

	if p := strings.TrimSpace(a.Path); p != "" {
		if err := checkPath(p); err != nil {
			return inliner.Asset{}, err
		}
		out.Path = p
	}
	if a.Marker != "" {
		out.Marker.Find = a.Marker
	}
	if a.Limit != nil {
		out.Marker.Limit = *a.Limit
	}
	if a.Required != nil {
		out.Required = *a.Required
	}

	hasLiteral := a.Open != nil || a.Close != nil
	if hasLiteral && a.Template != "" {
		return inliner.Asset{}, errors.New("open/close and template are mutually exclusive")
	}

	switch {
	case a.Template != "":
		tmpl, err := wrap.NewTemplate(a.Template)
		if err != nil {
			return inliner.Asset{}, err
		}
		out.Wrapper = tmpl
	case hasLiteral:
		literal, _ := base.Wrapper.(wrap.Literal)
		if a.Open != nil {
			literal.Open = *a.Open
		}
		if a.Close != nil {
			literal.Close = *a.Close
		}
		out.Wrapper = literal
	}
	return out, nil
}

// checkPath accepts slash-separated paths, relative or absolute, without
// ".." escapes on relative ones.
func checkPath(p string) error {
	if path.IsAbs(p) {
		return nil
	}
	if !fs.ValidPath(p) {
		return fmt.Errorf("invalid path %q", p)
	}
	return nil
}

func indexOf(assets []inliner.Asset, name string) int {
	for i, asset := range assets {
		if asset.Name == name {
			return i
		}
	}
	return -1
}
