package main

import (
	"context"
	"io"
	"mime"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"github.com/harrylevesque/boardbot/internal/imaging"
	"github.com/harrylevesque/boardbot/internal/models"
	"github.com/harrylevesque/boardbot/internal/picker"
)

// dialogPicker shows the Fyne file-open dialog. Launch must not be called
// from the UI goroutine: it blocks until the dialog is dismissed.
type dialogPicker struct {
	window fyne.Window
}

type pickOutcome struct {
	asset *models.Asset
	err   error
}

func (p *dialogPicker) Launch(ctx context.Context, opts picker.Options) (picker.Result, error) {
	done := make(chan pickOutcome, 1)

	fyne.Do(func() {
		d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				done <- pickOutcome{err: err}
				return
			}
			defer rc.Close()
			asset, err := assetFor(rc)
			done <- pickOutcome{asset: asset, err: err}
		}, p.window)
		if opts.MediaTypes == picker.MediaImages {
			d.SetFilter(storage.NewExtensionFileFilter(picker.ImageExtensions))
		}
		d.Show()
	})

	select {
	case <-ctx.Done():
		return picker.Result{}, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return picker.Result{}, out.err
		}
		if out.asset == nil {
			return picker.Canceled(), nil
		}
		return picker.Result{Assets: []models.Asset{*out.asset}}, nil
	}
}

// assetFor keeps local files as paths. Other storage backends are read
// into a data URI since nothing else can reopen them later.
func assetFor(rc fyne.URIReadCloser) (*models.Asset, error) {
	u := rc.URI()
	mimeType := u.MimeType()
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mime.TypeByExtension(strings.ToLower(u.Extension()))
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	asset := &models.Asset{FileName: u.Name(), MimeType: mimeType}

	if u.Scheme() == "file" {
		asset.URI = u.Path()
		return asset, nil
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	asset.URI = imaging.DataURI(mimeType, data)
	return asset, nil
}
