package picker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	return path
}

func TestPathPickerOffersPathsOnce(t *testing.T) {
	path := writeFile(t, "board.JPG")
	p := &PathPicker{Paths: []string{path}}

	res, err := p.Launch(context.Background(), ImageOptions())
	require.NoError(t, err)
	asset, ok := res.First()
	require.True(t, ok)
	assert.Equal(t, "board.JPG", asset.FileName)
	assert.Equal(t, "image/jpeg", asset.MimeType)
	assert.True(t, filepath.IsAbs(asset.URI))

	res, err = p.Launch(context.Background(), ImageOptions())
	require.NoError(t, err)
	assert.True(t, res.Canceled)
}

func TestPathPickerRejectsNonImages(t *testing.T) {
	p := &PathPicker{Paths: []string{writeFile(t, "notes.txt")}}
	_, err := p.Launch(context.Background(), ImageOptions())
	assert.True(t, errors.Is(err, ErrUnsupportedMedia))
}

func TestPathPickerAllMediaSkipsFilter(t *testing.T) {
	p := &PathPicker{Paths: []string{writeFile(t, "notes.txt")}}
	res, err := p.Launch(context.Background(), Options{MediaTypes: MediaAll})
	require.NoError(t, err)
	assert.Len(t, res.Assets, 1)
}

func TestPathPickerPromptEmptyCancels(t *testing.T) {
	p := &PathPicker{Prompt: func(context.Context) (string, error) { return "  ", nil }}
	res, err := p.Launch(context.Background(), ImageOptions())
	require.NoError(t, err)
	assert.True(t, res.Canceled)
	_, ok := res.First()
	assert.False(t, ok)
}

func TestPathPickerMissingFile(t *testing.T) {
	p := &PathPicker{Paths: []string{filepath.Join(t.TempDir(), "gone.png")}}
	_, err := p.Launch(context.Background(), ImageOptions())
	assert.Error(t, err)
}

func TestFuncAdapter(t *testing.T) {
	var got Options
	p := Func(func(_ context.Context, opts Options) (Result, error) {
		got = opts
		return Canceled(), nil
	})
	res, err := p.Launch(context.Background(), ImageOptions())
	require.NoError(t, err)
	assert.True(t, res.Canceled)
	assert.Equal(t, MediaImages, got.MediaTypes)
	assert.True(t, got.AllowsEditing)
	assert.Equal(t, 1.0, got.Quality)
}
