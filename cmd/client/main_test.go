package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrylevesque/boardbot/internal/api"
	"github.com/harrylevesque/boardbot/internal/config"
	"github.com/harrylevesque/boardbot/internal/models"
)

var processed = []byte("processed-jpeg")

func processServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process_image" {
			http.NotFound(w, r)
			return
		}
		if _, _, err := r.FormFile("image"); err != nil {
			http.Error(w, `{"error":"no file uploaded"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.ProcessResponse{
			ProcessedImage: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(processed),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	for _, k := range []string{config.EnvServer, config.EnvWebSocket, config.EnvPlatform, config.EnvLogLevel} {
		t.Setenv(k, "")
	}
	uploadFlags.out = ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0644))
	return path
}

func TestUploadPrintsLocator(t *testing.T) {
	srv := processServer(t)
	out, _, err := execute(t, "", "--server", srv.URL, "upload", writeImage(t))
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(processed)+"\n", out)
}

func TestUploadSavesResult(t *testing.T) {
	srv := processServer(t)
	dir := t.TempDir()
	out, _, err := execute(t, "", "--server", srv.URL, "upload", "--out", dir, writeImage(t))
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Equal(t, dir, filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, processed, data)

	out, _, err = execute(t, "", "results", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, path)
}

func TestUploadPromptCancel(t *testing.T) {
	srv := processServer(t)
	out, stderr, err := execute(t, "\n", "--server", srv.URL, "upload")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "No image selected")
}

func TestUploadServerErrorIsAlerted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, stderr, err := execute(t, "", "--server", srv.URL, "upload", writeImage(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "Failed to send image")
	assert.Contains(t, stderr, "status 500")
}

func TestStatusOnce(t *testing.T) {
	srv := httptest.NewServer(api.NewStatusRouter(api.NewStatusSocket(time.Hour, zerolog.Nop())))
	defer srv.Close()

	out, _, err := execute(t, "", "--ws", "ws"+strings.TrimPrefix(srv.URL, "http"), "status", "--once")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "Disconnected"))
	assert.True(t, strings.HasSuffix(lines[1], "Connected"))
}
