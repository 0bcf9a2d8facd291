package inliner

import (
	"errors"

	"github.com/goliatone/go-htmlinline/internal/loader"
)

var (
	// ErrInvalidEncoding is returned when an input file is not valid UTF-8.
	ErrInvalidEncoding = loader.ErrInvalidEncoding
	// ErrNoTemplate signals a plan without a template path.
	ErrNoTemplate = errors.New("inliner: template path is required")
	// ErrNoOutput signals a plan without an output path.
	ErrNoOutput = errors.New("inliner: output path is required")
	// ErrEmptyMarker signals an asset whose marker text is empty.
	ErrEmptyMarker = errors.New("inliner: marker text is required")
	// ErrDuplicateAsset signals two assets sharing a name.
	ErrDuplicateAsset = errors.New("inliner: duplicate asset name")
)
