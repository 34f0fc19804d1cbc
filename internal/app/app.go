// Package app wires configuration, logging and the network clients shared by
// the command line and desktop front ends.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/harrylevesque/boardbot/internal/certs"
	"github.com/harrylevesque/boardbot/internal/config"
	"github.com/harrylevesque/boardbot/internal/files"
	"github.com/harrylevesque/boardbot/internal/picker"
	"github.com/harrylevesque/boardbot/internal/screen"
	"github.com/harrylevesque/boardbot/internal/status"
	"github.com/harrylevesque/boardbot/internal/upload"
	"github.com/harrylevesque/boardbot/internal/utils"
)

// Overrides are the command line values that beat file and environment.
type Overrides struct {
	ConfigPath string
	Server     string
	WebSocket  string
	Platform   string
	LogLevel   string
	LogOut     io.Writer
}

// App holds everything a front end needs to build a screen.
type App struct {
	Config   *config.Config
	Platform utils.Platform
	Logger   zerolog.Logger
	HTTP     *http.Client
	Uploader *upload.Client
	Monitor  *status.Monitor
	Resolver *files.Resolver

	closer io.Closer
}

// New loads configuration (file, then environment, then overrides),
// validates it and builds the clients. component tags every log line.
func New(o Overrides, component string) (*App, error) {
	path := o.ConfigPath
	if path == "" {
		path = utils.FindConfigFile()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg, os.Getenv)
	if o.Server != "" {
		cfg.ServerURL = o.Server
	}
	if o.WebSocket != "" {
		cfg.WebSocketURL = o.WebSocket
	}
	if o.Platform != "" {
		cfg.Platform = o.Platform
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	platform, err := cfg.ResolvePlatform()
	if err != nil {
		return nil, err
	}

	logger, closer, err := utils.NewLogger(utils.LogOptions{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		File:      cfg.Log.File,
		Component: component,
		Out:       o.LogOut,
	})
	if err != nil {
		return nil, err
	}

	tlsConfig, err := certs.TLSConfig(cfg.TLS.CADir)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("load ca_dir: %w", err)
	}
	hc := &http.Client{}
	if tlsConfig != nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = tlsConfig
		hc.Transport = tr
	}

	serverURL := cfg.ServerURLFor(platform)
	wsURL := cfg.WebSocketURLFor(platform)
	logger.Debug().
		Str("platform", string(platform)).
		Str("server", serverURL).
		Str("websocket", wsURL).
		Str("config", path).
		Msg("configuration loaded")

	return &App{
		Config:   cfg,
		Platform: platform,
		Logger:   logger,
		HTTP:     hc,
		Uploader: upload.New(serverURL,
			upload.WithHTTPClient(hc),
			upload.WithTimeout(cfg.Upload.Timeout()),
			upload.WithLogger(logger.With().Str("module", "upload").Logger()),
		),
		Monitor: status.NewMonitor(status.Options{
			URL:            wsURL,
			TLSConfig:      tlsConfig,
			MaxAttempts:    cfg.Monitor.MaxAttempts,
			InitialBackoff: cfg.Monitor.InitialBackoff(),
			MaxBackoff:     cfg.Monitor.MaxBackoff(),
			Logger:         logger.With().Str("module", "status").Logger(),
		}),
		Resolver: &files.Resolver{HTTP: hc},
		closer:   closer,
	}, nil
}

// Screen builds a screen over p and subscribes it to the monitor.
func (a *App) Screen(p picker.Picker, alert screen.Alerter) *screen.Screen {
	s := screen.New(p, a.Uploader,
		screen.WithAlerter(alert),
		screen.WithLogger(a.Logger.With().Str("module", "screen").Logger()),
	)
	a.Monitor.Subscribe(s.SetConnected)
	return s
}

// Resolve fetches the bytes behind an image locator.
func (a *App) Resolve(ctx context.Context, locator string) (*files.Resource, error) {
	return a.Resolver.Resolve(ctx, locator)
}

// Close stops the monitor and releases the log file.
func (a *App) Close() error {
	a.Monitor.Stop()
	return a.closer.Close()
}
