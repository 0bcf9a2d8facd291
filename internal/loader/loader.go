package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"unicode/utf8"
)

// ErrInvalidEncoding reports input that is not valid UTF-8 text.
var ErrInvalidEncoding = errors.New("loader: input is not valid UTF-8")

// Loader reads text inputs either from an fs.FS or, when no filesystem is
// configured, straight from disk.
type Loader struct {
	fs fs.FS
}

// New constructs a Loader. A nil fsys makes Load resolve names as OS paths.
func New(fsys fs.FS) *Loader {
	return &Loader{fs: fsys}
}

// Load returns the named input as text. The underlying file error is wrapped
// so callers can still match fs.ErrNotExist and fs.ErrPermission.
func (l *Loader) Load(ctx context.Context, name string) (string, error) {
	var (
		data []byte
		err  error
	)

	if l != nil && l.fs != nil {
		data, err = loadFromFS(ctx, l.fs, name)
	} else {
		data, err = loadFile(ctx, name)
	}
	if err != nil {
		return "", fmt.Errorf("loader: read %s: %w", name, err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, name)
	}
	return string(data), nil
}
