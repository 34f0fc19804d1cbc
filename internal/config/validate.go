package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/harrylevesque/boardbot/internal/utils"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if _, err := cfg.ResolvePlatform(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	for name, e := range cfg.Endpoints {
		if _, err := utils.ParsePlatform(name); err != nil || name == "" {
			return fmt.Errorf("%w: endpoints: unknown platform %q", ErrInvalid, name)
		}
		// rows are looked up by the lowercase platform name
		if name != strings.ToLower(name) {
			return fmt.Errorf("%w: endpoints: platform %q must be lowercase", ErrInvalid, name)
		}
		if e.Server != "" {
			if err := checkURL(e.Server, "http", "https"); err != nil {
				return fmt.Errorf("%w: endpoints.%s.server: %v", ErrInvalid, name, err)
			}
		}
		if e.WebSocket != "" {
			if err := checkURL(e.WebSocket, "ws", "wss"); err != nil {
				return fmt.Errorf("%w: endpoints.%s.websocket: %v", ErrInvalid, name, err)
			}
		}
	}

	if cfg.ServerURL != "" {
		if err := checkURL(cfg.ServerURL, "http", "https"); err != nil {
			return fmt.Errorf("%w: server_url: %v", ErrInvalid, err)
		}
	}
	if cfg.WebSocketURL != "" {
		if err := checkURL(cfg.WebSocketURL, "ws", "wss"); err != nil {
			return fmt.Errorf("%w: websocket_url: %v", ErrInvalid, err)
		}
	}

	if cfg.Upload.TimeoutMs < 0 {
		return fmt.Errorf("%w: upload.timeout_ms must not be negative", ErrInvalid)
	}

	m := cfg.Monitor
	if m.MaxAttempts < 1 {
		return fmt.Errorf("%w: monitor.max_attempts must be at least 1", ErrInvalid)
	}
	if m.InitialBackoffMs < 1 || m.MaxBackoffMs < 1 {
		return fmt.Errorf("%w: monitor backoff must be positive", ErrInvalid)
	}
	if m.MaxBackoffMs < m.InitialBackoffMs {
		return fmt.Errorf(
			"%w: monitor.max_backoff_ms (%d) is below initial_backoff_ms (%d)",
			ErrInvalid, m.MaxBackoffMs, m.InitialBackoffMs,
		)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format must be console or json, got %q", ErrInvalid, cfg.Log.Format)
	}

	s := cfg.Server
	if s.MaxUploadBytes < 1 {
		return fmt.Errorf("%w: server.max_upload_bytes must be positive", ErrInvalid)
	}
	if s.MaxDimension < 16 {
		return fmt.Errorf("%w: server.max_dimension must be at least 16", ErrInvalid)
	}
	if s.HeartbeatMs < 1 {
		return fmt.Errorf("%w: server.heartbeat_ms must be positive", ErrInvalid)
	}
	if s.MinContourArea < 0 {
		return fmt.Errorf("%w: server.min_contour_area must not be negative", ErrInvalid)
	}
	if s.MaxPixels < 1 {
		return fmt.Errorf("%w: server.max_pixels must be positive", ErrInvalid)
	}
	if s.HTTPAddr == s.WSAddr {
		return fmt.Errorf("%w: server.http_addr and server.ws_addr must differ", ErrInvalid)
	}

	return nil
}

func checkURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("%q: scheme must be one of %v", raw, schemes)
}
