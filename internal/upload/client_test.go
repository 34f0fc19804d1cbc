package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrylevesque/boardbot/internal/models"
	"github.com/harrylevesque/boardbot/internal/utils"
)

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.jpg")
	require.NoError(t, os.WriteFile(path, []byte("fake jpeg"), 0644))
	return path
}

func TestProcessImageSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ProcessPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		file, header, err := r.FormFile(FieldName)
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, FileName, header.Filename)
		assert.Equal(t, ContentType, header.Header.Get("Content-Type"))
		data, _ := io.ReadAll(file)
		assert.Equal(t, "fake jpeg", string(data))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"processedImage": "https://host/out.jpg"}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	resp, err := c.ProcessImage(context.Background(), models.Asset{URI: writeImage(t)})
	require.NoError(t, err)
	assert.True(t, resp.HasResult())
	assert.Equal(t, "https://host/out.jpg", resp.ProcessedImage)
}

func TestProcessImageNoAssetMakesNoCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ProcessImage(context.Background(), models.Asset{})
	assert.True(t, errors.Is(err, ErrNoImage))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestProcessImageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		w.Write([]byte(`{"error":"file too large"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ProcessImage(context.Background(), models.Asset{URI: writeImage(t)})
	require.Error(t, err)
	var he *utils.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusRequestEntityTooLarge, he.Code)
	assert.Equal(t, `{"error":"file too large"}`, he.Message)
}

func TestProcessImageMissingResultField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).ProcessImage(context.Background(), models.Asset{URI: writeImage(t)})
	require.NoError(t, err)
	assert.False(t, resp.HasResult())
}

func TestProcessImageBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ProcessImage(context.Background(), models.Asset{URI: writeImage(t)})
	assert.Error(t, err)
}

func TestProcessImageUnreadableAsset(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.ProcessImage(context.Background(), models.Asset{URI: filepath.Join(t.TempDir(), "gone.jpg")})
	assert.Error(t, err)
}

func TestEndpoint(t *testing.T) {
	c := New("http://10.0.2.2:5000/")
	assert.Equal(t, "http://10.0.2.2:5000/process_image", c.Endpoint())
}
