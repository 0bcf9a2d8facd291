package inliner

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-htmlinline/pkg/wrap"
)

const (
	DefaultTemplate = "ocr.htm"
	DefaultOutput   = "index.html"
	DefaultScript   = "main.js"
	DefaultStyle    = "main.css"

	ScriptAsset = "script"
	StyleAsset  = "style"
)

// Variant selects which assets the default plan inlines.
type Variant string

const (
	// VariantScriptAndStyle inlines main.js and main.css, replacing every
	// occurrence of each marker.
	VariantScriptAndStyle Variant = "script-and-style"
	// VariantScriptOnly inlines main.js alone and replaces the first
	// occurrence of its marker.
	VariantScriptOnly Variant = "script-only"
)

// DefaultVariant is used when no variant is requested.
const DefaultVariant = VariantScriptAndStyle

// ParseVariant resolves a variant name. An empty name yields DefaultVariant.
func ParseVariant(name string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultVariant, nil
	case VariantScriptAndStyle:
		return VariantScriptAndStyle, nil
	case VariantScriptOnly:
		return VariantScriptOnly, nil
	default:
		return "", fmt.Errorf("inliner: unknown variant %q", name)
	}
}

// Asset is one file whose content replaces a marker in the template.
type Asset struct {
	Name   string
	Path   string
	Marker Marker
	// Wrapper frames the payload. A nil Wrapper inserts the payload bare.
	Wrapper wrap.Wrapper
	// Required assets fail the run when missing. Optional assets are skipped.
	Required bool
}

// Plan lists the template, the output and the assets to inline, in the order
// their substitutions are applied.
type Plan struct {
	Template string
	Output   string
	Assets   []Asset
}

// DefaultPlan returns the fixed ocr.htm → index.html plan for a variant.
// Unknown variants fall back to DefaultVariant.
func DefaultPlan(variant Variant) Plan {
	plan := Plan{
		Template: DefaultTemplate,
		Output:   DefaultOutput,
	}

	switch variant {
	case VariantScriptOnly:
		plan.Assets = []Asset{scriptAsset(1)}
	default:
		plan.Assets = []Asset{scriptAsset(0), styleAsset()}
	}
	return plan
}

// Asset returns the asset with the given name.
func (p Plan) Asset(name string) (Asset, bool) {
	for _, asset := range p.Assets {
		if asset.Name == name {
			return asset, true
		}
	}
	return Asset{}, false
}

// Validate reports structural problems before any file is touched.
func (p Plan) Validate() error {
	if strings.TrimSpace(p.Template) == "" {
		return ErrNoTemplate
	}
	if strings.TrimSpace(p.Output) == "" {
		return ErrNoOutput
	}

	seen := make(map[string]struct{}, len(p.Assets))
	for i, asset := range p.Assets {
		name := strings.TrimSpace(asset.Name)
		if name == "" {
			return fmt.Errorf("inliner: asset %d has no name", i)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateAsset, name)
		}
		seen[name] = struct{}{}

		if strings.TrimSpace(asset.Path) == "" {
			return fmt.Errorf("inliner: asset %q has no path", name)
		}
		if asset.Marker.Find == "" {
			return fmt.Errorf("%w (asset %q)", ErrEmptyMarker, name)
		}
	}
	return nil
}

func scriptAsset(limit int) Asset {
	return Asset{
		Name:     ScriptAsset,
		Path:     DefaultScript,
		Marker:   Marker{Find: ScriptMarker, Limit: limit},
		Wrapper:  wrap.Script(),
		Required: true,
	}
}

func styleAsset() Asset {
	return Asset{
		Name:     StyleAsset,
		Path:     DefaultStyle,
		Marker:   Marker{Find: StyleMarker},
		Wrapper:  wrap.Style(),
		Required: true,
	}
}
