package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrylevesque/boardbot/internal/utils"
)

func TestDefaultPlatformTable(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "http://10.0.2.2:5000", cfg.ServerURLFor(utils.PlatformAndroid))
	assert.Equal(t, "http://localhost:5000", cfg.ServerURLFor(utils.PlatformIOS))
	assert.Equal(t, "http://127.0.0.1:5000", cfg.ServerURLFor(utils.PlatformWeb))

	assert.Equal(t, "ws://10.0.2.2:8777", cfg.WebSocketURLFor(utils.PlatformAndroid))
	assert.Equal(t, "ws://localhost:8777", cfg.WebSocketURLFor(utils.PlatformIOS))
	assert.Equal(t, "ws://localhost:8777", cfg.WebSocketURLFor(utils.PlatformWeb))
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Monitor.MaxAttempts)
	assert.Equal(t, int64(10*1024*1024), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 1920, cfg.Server.MaxDimension)
}

func TestLoadOverridesEndpointRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boardbot.yaml")
	data := []byte(`
platform: android
endpoints:
  android:
    server: http://192.168.0.10:5000/
monitor:
  max_attempts: 2
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	p, err := cfg.ResolvePlatform()
	require.NoError(t, err)
	assert.Equal(t, utils.PlatformAndroid, p)
	assert.Equal(t, "http://192.168.0.10:5000", cfg.ServerURLFor(p))
	// websocket column not overridden: built-in value stays
	assert.Equal(t, "ws://10.0.2.2:8777", cfg.WebSocketURLFor(p))
	assert.Equal(t, 2, cfg.Monitor.MaxAttempts)
}

func TestLoadLowercasesEndpointRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boardbot.yaml")
	data := []byte(`
endpoints:
  Android:
    server: http://192.168.0.10:5000
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))
	assert.Equal(t, "http://192.168.0.10:5000", cfg.ServerURLFor(utils.PlatformAndroid))
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boardbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("monitor: [1, 2"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		EnvServer:    "http://example.test:9000/",
		EnvWebSocket: "ws://example.test:9001",
		EnvPlatform:  "ios",
		EnvLogLevel:  "debug",
	}
	ApplyEnv(cfg, func(k string) string { return env[k] })

	require.NoError(t, Validate(cfg))
	assert.Equal(t, "http://example.test:9000", cfg.ServerURLFor(utils.PlatformAndroid))
	assert.Equal(t, "ws://example.test:9001", cfg.WebSocketURLFor(utils.PlatformWeb))
	assert.Equal(t, "ios", cfg.Platform)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown platform", func(c *Config) { c.Platform = "palm" }},
		{"unknown endpoint row", func(c *Config) { c.Endpoints = map[string]Endpoints{"palm": {}} }},
		{"mixed case endpoint row", func(c *Config) { c.Endpoints = map[string]Endpoints{"Android": {}} }},
		{"negative pixel budget", func(c *Config) { c.Server.MaxPixels = -1 }},
		{"ws scheme for server", func(c *Config) { c.ServerURL = "ws://localhost:5000" }},
		{"http scheme for socket", func(c *Config) { c.WebSocketURL = "http://localhost:8777" }},
		{"no host", func(c *Config) { c.ServerURL = "http://" }},
		{"negative timeout", func(c *Config) { c.Upload.TimeoutMs = -1 }},
		{"zero attempts", func(c *Config) { c.Monitor.MaxAttempts = -3 }},
		{"backoff inverted", func(c *Config) { c.Monitor.MaxBackoffMs = 10; c.Monitor.InitialBackoffMs = 20 }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"tiny dimension", func(c *Config) { c.Server.MaxDimension = 4 }},
		{"same listeners", func(c *Config) { c.Server.WSAddr = c.Server.HTTPAddr }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	cfg := Default()
	cfg.ServerURL = "http://localhost:5000/"
	before := *cfg
	require.NoError(t, Validate(cfg))
	assert.Equal(t, before, *cfg)
}
