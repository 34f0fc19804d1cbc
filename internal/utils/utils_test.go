package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONHasComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewLogger(LogOptions{Level: "debug", Format: "json", Component: "upload", Out: &buf})
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Msg("hello")
	assert.Contains(t, buf.String(), `"component":"upload"`)
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), "hello")
}

func TestNewLoggerBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewLogger(LogOptions{Level: "loud", Format: "json", Out: &buf})
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerTeesIntoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boardbot.log")
	var buf bytes.Buffer
	logger, closer, err := NewLogger(LogOptions{Format: "json", File: path, Out: &buf})
	require.NoError(t, err)

	logger.Info().Msg("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Contains(t, buf.String(), "to file")
}

func TestHTTPError(t *testing.T) {
	err := fmt.Errorf("upload: %w", NewHTTPError(500, "boom"))
	assert.Equal(t, "upload: status 500: boom", err.Error())
	assert.Equal(t, 500, StatusCode(err))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in      string
		want    Platform
		wantErr bool
	}{
		{"android", PlatformAndroid, false},
		{" IOS ", PlatformIOS, false},
		{"web", PlatformWeb, false},
		{"", DetectPlatform(), false},
		{"symbian", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePlatform(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPlatformFor(t *testing.T) {
	assert.Equal(t, PlatformAndroid, platformFor("android"))
	assert.Equal(t, PlatformIOS, platformFor("ios"))
	assert.Equal(t, PlatformWeb, platformFor("linux"))
	assert.Equal(t, PlatformWeb, platformFor("js"))
}
