package inliner_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-htmlinline/pkg/inliner"
	"github.com/goliatone/go-htmlinline/pkg/testsupport"
	"github.com/goliatone/go-htmlinline/pkg/wrap"
)

func TestRun_ScriptAndStyleGolden(t *testing.T) {
	dir := t.TempDir()
	testsupport.CopyDir(t, filepath.Join("testdata", "page"), dir)

	in := inliner.New(inliner.DefaultPlan(inliner.VariantScriptAndStyle), inliner.WithDir(dir))
	result, err := in.Run(testsupport.Context())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	output := testsupport.MustReadFile(t, dir, "index.html")
	if output != result.Output {
		t.Fatalf("written output differs from result")
	}

	goldenPath := filepath.Join("testdata", "index.golden.html")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(output)) {
		return
	}

	want := testsupport.MustReadGoldenString(t, goldenPath)
	if diff := testsupport.CompareGolden(want, output); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	wantAssets := []inliner.AssetResult{
		{Name: "script", Path: "main.js", Replacements: 1},
		{Name: "style", Path: "main.css", Replacements: 1},
	}
	if diff := cmp.Diff(wantAssets, result.Assets); diff != "" {
		t.Fatalf("asset report mismatch (-want +got):\n%s", diff)
	}
	if result.Path != filepath.Join(dir, "index.html") {
		t.Fatalf("unexpected output path %q", result.Path)
	}
}

func TestRun_ScriptOnlyExample(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFiles(t, dir, map[string]string{
		"ocr.htm": `<html><script defer type="module" src="main.js"></script></html>`,
		"main.js": "console.log(1)",
	})

	_, err := inliner.New(inliner.DefaultPlan(inliner.VariantScriptOnly), inliner.WithDir(dir)).Run(testsupport.Context())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got := testsupport.MustReadFile(t, dir, "index.html")
	want := `<html><script type="module">console.log(1)</script></html>`
	if got != want {
		t.Fatalf("output mismatch\nwant: %s\ngot:  %s", want, got)
	}
}

func TestRender_ScriptOnlyLeavesStylesheetAndLaterMarkers(t *testing.T) {
	template := inliner.StyleMarker + inliner.ScriptMarker + inliner.ScriptMarker
	fsys := fstest.MapFS{
		"ocr.htm": &fstest.MapFile{Data: []byte(template)},
		"main.js": &fstest.MapFile{Data: []byte("go()")},
	}

	result, err := inliner.New(inliner.DefaultPlan(inliner.VariantScriptOnly), inliner.WithFS(fsys)).Render(testsupport.Context())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := inliner.StyleMarker + `<script type="module">go()</script>` + inliner.ScriptMarker
	if result.Output != want {
		t.Fatalf("output mismatch\nwant: %s\ngot:  %s", want, result.Output)
	}
}

func TestRender_TwoAssetReplacesEveryOccurrence(t *testing.T) {
	template := inliner.StyleMarker + "|" + inliner.StyleMarker + "|" + inliner.ScriptMarker
	fsys := fstest.MapFS{
		"ocr.htm":  &fstest.MapFile{Data: []byte(template)},
		"main.js":  &fstest.MapFile{Data: []byte("go()")},
		"main.css": &fstest.MapFile{Data: []byte("body{color:red}")},
	}

	result, err := inliner.New(inliner.DefaultPlan(inliner.VariantScriptAndStyle), inliner.WithFS(fsys)).Render(testsupport.Context())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "<style>body{color:red}</style>|<style>body{color:red}</style>|<script type=\"module\">go()</script>"
	if result.Output != want {
		t.Fatalf("output mismatch\nwant: %s\ngot:  %s", want, result.Output)
	}
	if result.Assets[1].Replacements != 2 {
		t.Fatalf("expected 2 style replacements, got %d", result.Assets[1].Replacements)
	}
}

func TestRender_MissingMarkersLeaveTemplateUnchanged(t *testing.T) {
	template := "<html><body>static</body></html>\n"
	fsys := fstest.MapFS{
		"ocr.htm":  &fstest.MapFile{Data: []byte(template)},
		"main.js":  &fstest.MapFile{Data: []byte("go()")},
		"main.css": &fstest.MapFile{Data: []byte("body{}")},
	}

	result, err := inliner.New(inliner.DefaultPlan(inliner.VariantScriptAndStyle), inliner.WithFS(fsys)).Render(testsupport.Context())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Output != template {
		t.Fatalf("expected template unchanged, got %q", result.Output)
	}
	for _, asset := range result.Assets {
		if asset.Replacements != 0 {
			t.Fatalf("expected no replacements for %s, got %d", asset.Name, asset.Replacements)
		}
	}
}

func TestRender_ScriptSubstitutionAppliesBeforeStyle(t *testing.T) {
	// The script payload carries the stylesheet marker; plan order means the
	// later style substitution sees and replaces it.
	fsys := fstest.MapFS{
		"ocr.htm":  &fstest.MapFile{Data: []byte(inliner.ScriptMarker)},
		"main.js":  &fstest.MapFile{Data: []byte("/*" + inliner.StyleMarker + "*/")},
		"main.css": &fstest.MapFile{Data: []byte("p{}")},
	}

	result, err := inliner.New(inliner.DefaultPlan(inliner.VariantScriptAndStyle), inliner.WithFS(fsys)).Render(testsupport.Context())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<script type="module">/*<style>p{}</style>*/</script>`
	if result.Output != want {
		t.Fatalf("output mismatch\nwant: %s\ngot:  %s", want, result.Output)
	}
}

func TestRun_Deterministic(t *testing.T) {
	dir := t.TempDir()
	testsupport.CopyDir(t, filepath.Join("testdata", "page"), dir)
	in := inliner.New(inliner.DefaultPlan(inliner.VariantScriptAndStyle), inliner.WithDir(dir))

	if _, err := in.Run(testsupport.Context()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := testsupport.MustReadFile(t, dir, "index.html")

	if _, err := in.Run(testsupport.Context()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second := testsupport.MustReadFile(t, dir, "index.html")

	if first != second {
		t.Fatalf("runs differ:\n%s", cmp.Diff(first, second))
	}
}

func TestRun_OverwritesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFiles(t, dir, map[string]string{
		"ocr.htm":    inliner.ScriptMarker,
		"main.js":    "a()",
		"index.html": strings.Repeat("stale content\n", 100),
	})

	if _, err := inliner.New(inliner.DefaultPlan(inliner.VariantScriptOnly), inliner.WithDir(dir)).Run(testsupport.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := testsupport.MustReadFile(t, dir, "index.html")
	if got != `<script type="module">a()</script>` {
		t.Fatalf("expected overwritten output, got %q", got)
	}
}

func TestRun_MissingRequiredInputs(t *testing.T) {
	cases := []struct {
		name  string
		files map[string]string
	}{
		{name: "template", files: map[string]string{"main.js": "a()", "main.css": "p{}"}},
		{name: "script", files: map[string]string{"ocr.htm": "<html></html>", "main.css": "p{}"}},
		{name: "stylesheet", files: map[string]string{"ocr.htm": "<html></html>", "main.js": "a()"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			testsupport.WriteFiles(t, dir, tc.files)

			_, err := inliner.New(inliner.DefaultPlan(inliner.VariantScriptAndStyle), inliner.WithDir(dir)).Run(testsupport.Context())
			if !errors.Is(err, fs.ErrNotExist) {
				t.Fatalf("expected fs.ErrNotExist, got %v", err)
			}
			if _, statErr := os.Stat(filepath.Join(dir, "index.html")); !errors.Is(statErr, fs.ErrNotExist) {
				t.Fatalf("expected no output file, stat err: %v", statErr)
			}
		})
	}
}

func TestRender_OptionalAssetSkipped(t *testing.T) {
	plan := inliner.DefaultPlan(inliner.VariantScriptAndStyle)
	plan.Assets[1].Required = false

	template := inliner.StyleMarker + inliner.ScriptMarker
	fsys := fstest.MapFS{
		"ocr.htm": &fstest.MapFile{Data: []byte(template)},
		"main.js": &fstest.MapFile{Data: []byte("a()")},
	}

	result, err := inliner.New(plan, inliner.WithFS(fsys)).Render(testsupport.Context())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := inliner.StyleMarker + `<script type="module">a()</script>`
	if result.Output != want {
		t.Fatalf("output mismatch\nwant: %s\ngot:  %s", want, result.Output)
	}
	if !result.Assets[1].Skipped {
		t.Fatalf("expected style asset to be reported as skipped")
	}
}

func TestRender_InvalidEncoding(t *testing.T) {
	fsys := fstest.MapFS{
		"ocr.htm": &fstest.MapFile{Data: []byte(inliner.ScriptMarker)},
		"main.js": &fstest.MapFile{Data: []byte{0xc3, 0x28}},
	}

	_, err := inliner.New(inliner.DefaultPlan(inliner.VariantScriptOnly), inliner.WithFS(fsys)).Render(testsupport.Context())
	if !errors.Is(err, inliner.ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestRender_DoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	testsupport.CopyDir(t, filepath.Join("testdata", "page"), dir)

	result, err := inliner.New(inliner.DefaultPlan(inliner.VariantScriptAndStyle), inliner.WithDir(dir)).Render(testsupport.Context())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Output == "" {
		t.Fatal("expected rendered output")
	}
	if _, err := os.Stat(filepath.Join(dir, "index.html")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("render must not create the output file, stat err: %v", err)
	}
}

func TestRun_UnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFiles(t, dir, map[string]string{
		"ocr.htm": inliner.ScriptMarker,
		"main.js": "a()",
	})

	plan := inliner.DefaultPlan(inliner.VariantScriptOnly)
	plan.Output = "missing-dir/index.html"

	_, err := inliner.New(plan, inliner.WithDir(dir)).Run(testsupport.Context())
	if err == nil {
		t.Fatal("expected write error")
	}
	if !strings.Contains(err.Error(), "write output") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	testsupport.CopyDir(t, filepath.Join("testdata", "page"), dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := inliner.New(inliner.DefaultPlan(inliner.VariantScriptAndStyle), inliner.WithDir(dir)).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type failingWrapper struct{}

func (failingWrapper) Wrap(string, string) (string, error) {
	return "", errors.New("boom")
}

func TestRender_CustomWrappers(t *testing.T) {
	tmpl, err := wrap.NewTemplate(`<script data-asset="{{ name }}">{{ content }}</script>`)
	if err != nil {
		t.Fatalf("new template: %v", err)
	}

	plan := inliner.Plan{
		Template: "page.html",
		Output:   "out.html",
		Assets: []inliner.Asset{
			{Name: "app", Path: "app.js", Marker: inliner.Marker{Find: "<!--app-->"}, Wrapper: tmpl, Required: true},
			{Name: "raw", Path: "raw.txt", Marker: inliner.Marker{Find: "<!--raw-->"}, Required: true},
		},
	}
	fsys := fstest.MapFS{
		"page.html": &fstest.MapFile{Data: []byte("<!--app--><!--raw-->")},
		"app.js":    &fstest.MapFile{Data: []byte("run()")},
		"raw.txt":   &fstest.MapFile{Data: []byte("plain")},
	}

	result, err := inliner.New(plan, inliner.WithFS(fsys)).Render(testsupport.Context())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<script data-asset="app">run()</script>plain`
	if result.Output != want {
		t.Fatalf("output mismatch\nwant: %s\ngot:  %s", want, result.Output)
	}

	plan.Assets[0].Wrapper = failingWrapper{}
	if _, err := inliner.New(plan, inliner.WithFS(fsys)).Render(testsupport.Context()); err == nil {
		t.Fatal("expected wrapper error")
	}
}
