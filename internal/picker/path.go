package picker

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrylevesque/boardbot/internal/models"
)

// PathPicker is the terminal stand-in for a picker dialog. Prompt is asked
// for a path each time Launch runs; an empty answer cancels. When Prompt is
// nil the fixed Paths are offered once and the picker cancels afterwards.
type PathPicker struct {
	Paths  []string
	Prompt func(ctx context.Context) (string, error)

	used bool
}

func (p *PathPicker) Launch(ctx context.Context, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var paths []string
	switch {
	case p.Prompt != nil:
		answer, err := p.Prompt(ctx)
		if err != nil {
			return Result{}, err
		}
		answer = strings.TrimSpace(answer)
		if answer != "" {
			paths = []string{answer}
		}
	case !p.used:
		p.used = true
		paths = p.Paths
	}
	if len(paths) == 0 {
		return Canceled(), nil
	}

	assets := make([]models.Asset, 0, len(paths))
	for _, path := range paths {
		asset, err := assetForPath(path, opts)
		if err != nil {
			return Result{}, err
		}
		assets = append(assets, asset)
	}
	return Result{Assets: assets}, nil
}

func assetForPath(path string, opts Options) (models.Asset, error) {
	if opts.MediaTypes == MediaImages && !IsImagePath(path) {
		return models.Asset{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return models.Asset{}, err
	}
	if info.IsDir() {
		return models.Asset{}, fmt.Errorf("%s is a directory", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return models.Asset{
		URI:      abs,
		FileName: filepath.Base(path),
		MimeType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
	}, nil
}
