package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvServer    = "BOARDBOT_SERVER"
	EnvWebSocket = "BOARDBOT_WS"
	EnvPlatform  = "BOARDBOT_PLATFORM"
	EnvLogLevel  = "BOARDBOT_LOG_LEVEL"
)

// Load reads a YAML configuration. An empty path or a missing file yields
// the defaults. The result is normalized but not validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	Normalize(cfg)
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables. getenv is
// usually os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvServer); v != "" {
		cfg.ServerURL = v
	}
	if v := getenv(EnvWebSocket); v != "" {
		cfg.WebSocketURL = v
	}
	if v := getenv(EnvPlatform); v != "" {
		cfg.Platform = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}
