package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrylevesque/boardbot/internal/config"
	"github.com/harrylevesque/boardbot/internal/models"
)

func noEnv(string) string { return "" }

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func boardPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 16; y < 48; y++ {
		for x := 16; x < 48; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boardbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_addr: 0.0.0.0:6000\n  ws_addr: 0.0.0.0:6001\nlog:\n  level: warn\n"), 0644))

	cfg, err := loadConfig(flags{config: path}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:6000", cfg.Server.HTTPAddr)
	assert.Equal(t, "0.0.0.0:6001", cfg.Server.WSAddr)
	assert.Equal(t, "warn", cfg.Log.Level)

	env := func(k string) string {
		if k == config.EnvLogLevel {
			return "error"
		}
		return ""
	}
	cfg, err = loadConfig(flags{config: path, httpAddr: "127.0.0.1:7000"}, env)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.HTTPAddr)
	assert.Equal(t, "error", cfg.Log.Level)

	cfg, err = loadConfig(flags{config: path, logLevel: "debug"}, env)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = loadConfig(flags{config: path, wsAddr: "0.0.0.0:6000"}, noEnv)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestServeProcessesAndHeartbeats(t *testing.T) {
	cfg := config.Default()
	cfg.Server.HeartbeatMs = 20
	httpLn, wsLn := listen(t), listen(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newServer(cfg, zerolog.Nop()).serve(ctx, httpLn, wsLn) }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "image.jpg")
	require.NoError(t, err)
	_, err = part.Write(boardPNG(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post("http://"+httpLn.Addr().String()+"/process_image", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out models.ProcessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, strings.HasPrefix(out.ProcessedImage, "data:image/jpeg;base64,"))

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+wsLn.Addr().String(), nil)
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for i := 0; i < 2; i++ {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, "ok", string(msg))
	}
	conn.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeStopsWhenAListenerFails(t *testing.T) {
	httpLn, wsLn := listen(t), listen(t)
	require.NoError(t, wsLn.Close())

	done := make(chan error, 1)
	go func() {
		done <- newServer(config.Default(), zerolog.Nop()).serve(context.Background(), httpLn, wsLn)
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "websocket server")
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return")
	}
}
