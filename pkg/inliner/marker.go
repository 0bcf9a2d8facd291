package inliner

import "strings"

const (
	// ScriptMarker is the script reference replaced by the inlined JavaScript.
	ScriptMarker = `<script defer type="module" src="main.js"></script>`
	// StyleMarker is the stylesheet reference replaced by the inlined CSS.
	StyleMarker = `<link rel="stylesheet" type="text/css" href="main.css" />`
)

// Marker is literal text in the template that an asset replaces.
type Marker struct {
	// Find is matched byte-for-byte; no whitespace or attribute-order
	// normalisation happens.
	Find string
	// Limit caps the number of replacements. Zero or negative replaces every
	// occurrence.
	Limit int
}

// Replace substitutes marker occurrences in text with replacement and reports
// how many were replaced. The replacement is never rescanned, so a payload
// that itself contains the marker text is inserted as-is.
func Replace(text string, marker Marker, replacement string) (string, int) {
	if marker.Find == "" {
		return text, 0
	}
	count := strings.Count(text, marker.Find)
	if count == 0 {
		return text, 0
	}

	n := -1
	if marker.Limit > 0 {
		n = marker.Limit
		count = min(count, n)
	}
	return strings.Replace(text, marker.Find, replacement, n), count
}
