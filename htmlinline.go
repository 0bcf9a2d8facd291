package htmlinline

import (
	"context"

	"github.com/goliatone/go-htmlinline/pkg/config"
	"github.com/goliatone/go-htmlinline/pkg/inliner"
)

// Plan aliases inliner.Plan so callers can stay on the top-level package.
type Plan = inliner.Plan

// Asset aliases inliner.Asset.
type Asset = inliner.Asset

// Marker aliases inliner.Marker.
type Marker = inliner.Marker

// Result aliases inliner.Result.
type Result = inliner.Result

// Variant aliases inliner.Variant.
type Variant = inliner.Variant

const (
	VariantScriptAndStyle = inliner.VariantScriptAndStyle
	VariantScriptOnly     = inliner.VariantScriptOnly
)

// Inline runs the built-in ocr.htm → index.html plan for variant inside dir.
// It is the simplest entry point for build scripts.
func Inline(ctx context.Context, dir string, variant Variant) (Result, error) {
	return InlinePlan(ctx, inliner.DefaultPlan(variant), inliner.WithDir(dir))
}

// InlinePlan executes a caller supplied plan.
func InlinePlan(ctx context.Context, plan Plan, options ...inliner.Option) (Result, error) {
	return inliner.New(plan, options...).Run(ctx)
}

// InlineConfig loads a YAML plan file and executes it, resolving relative
// paths against dir.
func InlineConfig(ctx context.Context, dir, planFile string, options ...config.Option) (Result, error) {
	plan, err := config.Load(planFile, options...)
	if err != nil {
		return Result{}, err
	}
	return InlinePlan(ctx, plan, inliner.WithDir(dir))
}
