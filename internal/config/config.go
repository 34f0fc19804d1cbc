package config

import (
	"strings"
	"time"

	"github.com/harrylevesque/boardbot/internal/utils"
)

type Config struct {
	Platform     string               `yaml:"platform"`
	Endpoints    map[string]Endpoints `yaml:"endpoints"`
	ServerURL    string               `yaml:"server_url"`
	WebSocketURL string               `yaml:"websocket_url"`
	Upload       UploadConfig         `yaml:"upload"`
	Monitor      MonitorConfig        `yaml:"monitor"`
	TLS          TLSConfig            `yaml:"tls"`
	Log          LogConfig            `yaml:"log"`
	Server       ServerConfig         `yaml:"server"`
}

// Endpoints is one row of the per-platform address table.
type Endpoints struct {
	Server    string `yaml:"server"`
	WebSocket string `yaml:"websocket"`
}

// ---- CLIENT ----

type UploadConfig struct {
	TimeoutMs int `yaml:"timeout_ms"` // 0 = wait forever
}

type MonitorConfig struct {
	MaxAttempts      int `yaml:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms"`
}

type TLSConfig struct {
	CADir string `yaml:"ca_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ---- PROCESSING SERVER ----

type ServerConfig struct {
	HTTPAddr       string `yaml:"http_addr"`
	WSAddr         string `yaml:"ws_addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	MaxDimension   int    `yaml:"max_dimension"`
	HeartbeatMs    int64  `yaml:"heartbeat_ms"`
	MinContourArea int    `yaml:"min_contour_area"`
	MaxPixels      int64  `yaml:"max_pixels"`
}

// DefaultEndpoints is the built-in address table, used for any platform the
// configuration does not override.
var DefaultEndpoints = map[utils.Platform]Endpoints{
	utils.PlatformAndroid: {Server: "http://10.0.2.2:5000", WebSocket: "ws://10.0.2.2:8777"},
	utils.PlatformIOS:     {Server: "http://localhost:5000", WebSocket: "ws://localhost:8777"},
	utils.PlatformWeb:     {Server: "http://127.0.0.1:5000", WebSocket: "ws://localhost:8777"},
}

// Default returns a configuration holding only defaults.
func Default() *Config {
	cfg := &Config{}
	Normalize(cfg)
	return cfg
}

// ResolvePlatform returns the configured platform, or the detected one.
func (c *Config) ResolvePlatform() (utils.Platform, error) {
	return utils.ParsePlatform(c.Platform)
}

// endpoints merges the configured row for p over the built-in one.
func (c *Config) endpoints(p utils.Platform) Endpoints {
	e := DefaultEndpoints[p]
	if o, ok := c.Endpoints[string(p)]; ok {
		if o.Server != "" {
			e.Server = o.Server
		}
		if o.WebSocket != "" {
			e.WebSocket = o.WebSocket
		}
	}
	return e
}

// ServerURLFor is the upload base URL for p, without a trailing slash.
func (c *Config) ServerURLFor(p utils.Platform) string {
	if c.ServerURL != "" {
		return strings.TrimRight(c.ServerURL, "/")
	}
	return strings.TrimRight(c.endpoints(p).Server, "/")
}

// WebSocketURLFor is the status socket address for p.
func (c *Config) WebSocketURLFor(p utils.Platform) string {
	if c.WebSocketURL != "" {
		return c.WebSocketURL
	}
	return c.endpoints(p).WebSocket
}

func (u UploadConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutMs) * time.Millisecond
}

func (m MonitorConfig) InitialBackoff() time.Duration {
	return time.Duration(m.InitialBackoffMs) * time.Millisecond
}

func (m MonitorConfig) MaxBackoff() time.Duration {
	return time.Duration(m.MaxBackoffMs) * time.Millisecond
}

func (s ServerConfig) Heartbeat() time.Duration {
	return time.Duration(s.HeartbeatMs) * time.Millisecond
}
