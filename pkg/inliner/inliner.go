package inliner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-htmlinline/internal/loader"
)

const outputFileMode = 0o644

// Option customises the Inliner configuration.
type Option func(*Inliner)

// WithDir sets the directory relative paths resolve against. Defaults to the
// process working directory.
func WithDir(dir string) Option {
	return func(in *Inliner) {
		if dir != "" {
			in.dir = dir
		}
	}
}

// WithFS reads the template and assets from fsys instead of disk. Names are
// passed to fsys unchanged; the output is still written under the configured
// directory.
func WithFS(fsys fs.FS) Option {
	return func(in *Inliner) {
		if fsys != nil {
			in.fs = fsys
		}
	}
}

// Inliner executes a Plan: read the assets and the template, substitute each
// marker in plan order, write the output.
type Inliner struct {
	plan   Plan
	dir    string
	fs     fs.FS
	loader *loader.Loader
}

// New constructs an Inliner for plan applying any provided options.
func New(plan Plan, options ...Option) *Inliner {
	in := &Inliner{
		plan: plan,
		dir:  ".",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(in)
	}
	in.loader = loader.New(in.fs)
	return in
}

// AssetResult reports what happened to one asset during a run.
type AssetResult struct {
	Name         string
	Path         string
	Replacements int
	// Skipped is set when an optional asset was missing.
	Skipped bool
}

// Result describes the rendered page.
type Result struct {
	// Output holds the rendered page.
	Output string
	// Path is where Run writes (or wrote) the page.
	Path   string
	Assets []AssetResult
}

// Plan returns the plan the Inliner executes.
func (in *Inliner) Plan() Plan {
	return in.plan
}

// OutputPath resolves the output location against the configured directory.
func (in *Inliner) OutputPath() string {
	return in.resolve(in.plan.Output)
}

// Render reads every input and performs the substitutions without touching
// the output file.
func (in *Inliner) Render(ctx context.Context) (Result, error) {
	if err := in.plan.Validate(); err != nil {
		return Result{}, err
	}

	payloads := make([]string, len(in.plan.Assets))
	skipped := make([]bool, len(in.plan.Assets))
	for i, asset := range in.plan.Assets {
		text, err := in.load(ctx, asset.Path)
		if err != nil {
			if !asset.Required && errors.Is(err, fs.ErrNotExist) {
				skipped[i] = true
				continue
			}
			return Result{}, fmt.Errorf("inliner: asset %q: %w", asset.Name, err)
		}
		payloads[i] = text
	}

	text, err := in.load(ctx, in.plan.Template)
	if err != nil {
		return Result{}, fmt.Errorf("inliner: template: %w", err)
	}

	result := Result{
		Path:   in.OutputPath(),
		Assets: make([]AssetResult, 0, len(in.plan.Assets)),
	}
	for i, asset := range in.plan.Assets {
		report := AssetResult{Name: asset.Name, Path: asset.Path, Skipped: skipped[i]}
		if !skipped[i] {
			replacement, err := wrapPayload(asset, payloads[i])
			if err != nil {
				return Result{}, err
			}
			text, report.Replacements = Replace(text, asset.Marker, replacement)
		}
		result.Assets = append(result.Assets, report)
	}
	result.Output = text
	return result, nil
}

// Run renders the page and writes it to OutputPath, overwriting any existing
// file.
func (in *Inliner) Run(ctx context.Context) (Result, error) {
	result, err := in.Render(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(result.Path, []byte(result.Output), outputFileMode); err != nil {
		return Result{}, fmt.Errorf("inliner: write output: %w", err)
	}
	return result, nil
}

func (in *Inliner) load(ctx context.Context, name string) (string, error) {
	if in.fs != nil {
		return in.loader.Load(ctx, name)
	}
	return in.loader.Load(ctx, in.resolve(name))
}

func (in *Inliner) resolve(name string) string {
	path := filepath.FromSlash(name)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(in.dir, path)
}

func wrapPayload(asset Asset, payload string) (string, error) {
	if asset.Wrapper == nil {
		return payload, nil
	}
	out, err := asset.Wrapper.Wrap(asset.Name, payload)
	if err != nil {
		return "", fmt.Errorf("inliner: wrap asset %q: %w", asset.Name, err)
	}
	return out, nil
}
