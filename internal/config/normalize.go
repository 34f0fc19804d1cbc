package config

import "strings"

const (
	defaultMaxAttempts      = 5
	defaultInitialBackoffMs = 500
	defaultMaxBackoffMs     = 10_000

	defaultHTTPAddr       = "0.0.0.0:5000"
	defaultWSAddr         = "0.0.0.0:8777"
	defaultMaxUploadBytes = 10 * 1024 * 1024
	defaultMaxDimension   = 1920
	defaultHeartbeatMs    = 5_000_000
	defaultMinContourArea = 100
	defaultMaxPixels      = 50_000_000
)

// Normalize fills zero values with defaults and lowercases endpoint rows.
// Negative values are left for Validate to reject.
func Normalize(cfg *Config) {
	if len(cfg.Endpoints) > 0 {
		rows := make(map[string]Endpoints, len(cfg.Endpoints))
		for name, e := range cfg.Endpoints {
			rows[strings.ToLower(strings.TrimSpace(name))] = e
		}
		cfg.Endpoints = rows
	}

	if cfg.Monitor.MaxAttempts == 0 {
		cfg.Monitor.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Monitor.InitialBackoffMs == 0 {
		cfg.Monitor.InitialBackoffMs = defaultInitialBackoffMs
	}
	if cfg.Monitor.MaxBackoffMs == 0 {
		cfg.Monitor.MaxBackoffMs = defaultMaxBackoffMs
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}

	s := &cfg.Server
	if s.HTTPAddr == "" {
		s.HTTPAddr = defaultHTTPAddr
	}
	if s.WSAddr == "" {
		s.WSAddr = defaultWSAddr
	}
	if s.MaxUploadBytes == 0 {
		s.MaxUploadBytes = defaultMaxUploadBytes
	}
	if s.MaxDimension == 0 {
		s.MaxDimension = defaultMaxDimension
	}
	if s.HeartbeatMs == 0 {
		s.HeartbeatMs = defaultHeartbeatMs
	}
	if s.MinContourArea == 0 {
		s.MinContourArea = defaultMinContourArea
	}
	if s.MaxPixels == 0 {
		s.MaxPixels = defaultMaxPixels
	}
}
