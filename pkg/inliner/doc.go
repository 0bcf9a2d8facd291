// Package inliner embeds a script (and optionally a stylesheet) into an HTML
// template by replacing literal marker text, producing a single
// self-contained page.
//
// The default plan reads ocr.htm, main.js and main.css from the working
// directory and writes index.html:
//
//	in := inliner.New(inliner.DefaultPlan(inliner.VariantScriptAndStyle))
//	result, err := in.Run(ctx)
//
// Markers are matched literally. A marker missing from the template leaves the
// text untouched and is not an error.
package inliner
