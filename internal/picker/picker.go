package picker

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/harrylevesque/boardbot/internal/models"
)

// MediaType restricts what a picker offers.
type MediaType int

const (
	MediaImages MediaType = iota
	MediaVideos
	MediaAll
)

// ErrUnsupportedMedia is returned when a chosen file is outside the requested media.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// Options mirror the knobs of the platform pickers. Pickers that cannot crop
// or recompress ignore AllowsEditing and Quality.
type Options struct {
	MediaTypes    MediaType
	AllowsEditing bool
	Quality       float64 // 0..1
}

// ImageOptions is what the screen asks for: images only, editable, full quality.
func ImageOptions() Options {
	return Options{MediaTypes: MediaImages, AllowsEditing: true, Quality: 1}
}

// Result of one picker invocation. Assets is empty when Canceled is set.
type Result struct {
	Canceled bool
	Assets   []models.Asset
}

// First returns the first asset, if any.
func (r Result) First() (models.Asset, bool) {
	if r.Canceled || len(r.Assets) == 0 {
		return models.Asset{}, false
	}
	return r.Assets[0], true
}

// Picker opens a selection dialog and blocks until the user is done.
type Picker interface {
	Launch(ctx context.Context, opts Options) (Result, error)
}

// Func adapts a plain function to Picker.
type Func func(ctx context.Context, opts Options) (Result, error)

func (f Func) Launch(ctx context.Context, opts Options) (Result, error) {
	return f(ctx, opts)
}

// ImageExtensions are the file extensions accepted as image media.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".heic"}

// IsImagePath reports whether path has an image extension.
func IsImagePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Canceled is the result of a dismissed dialog.
func Canceled() Result {
	return Result{Canceled: true}
}
