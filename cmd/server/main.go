package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/harrylevesque/boardbot/internal/api"
	"github.com/harrylevesque/boardbot/internal/config"
	"github.com/harrylevesque/boardbot/internal/imaging"
	"github.com/harrylevesque/boardbot/internal/utils"
)

const shutdownTimeout = 5 * time.Second

type flags struct {
	config   string
	httpAddr string
	wsAddr   string
	logLevel string
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "Path to boardbot.yaml (default: search upwards, then ~/.boardbot)")
	flag.StringVar(&f.httpAddr, "http", "", "Override the HTTP listen address")
	flag.StringVar(&f.wsAddr, "ws", "", "Override the WebSocket listen address")
	flag.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	flag.Parse()

	if err := run(f); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := loadConfig(f, os.Getenv)
	if err != nil {
		return err
	}

	logger, closer, err := utils.NewLogger(utils.LogOptions{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		File:      cfg.Log.File,
		Component: "server",
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	httpLn, err := net.Listen("tcp", cfg.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("http listener: %w", err)
	}
	wsLn, err := net.Listen("tcp", cfg.Server.WSAddr)
	if err != nil {
		httpLn.Close()
		return fmt.Errorf("websocket listener: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newServer(cfg, logger).serve(ctx, httpLn, wsLn)
}

// loadConfig applies file, environment and flags in that order.
func loadConfig(f flags, getenv func(string) string) (*config.Config, error) {
	path := f.config
	if path == "" {
		path = utils.FindConfigFile()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg, getenv)
	if f.httpAddr != "" {
		cfg.Server.HTTPAddr = f.httpAddr
	}
	if f.wsAddr != "" {
		cfg.Server.WSAddr = f.wsAddr
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type server struct {
	http   *http.Server
	ws     *http.Server
	logger zerolog.Logger
}

func newServer(cfg *config.Config, logger zerolog.Logger) *server {
	params := imaging.DefaultParams()
	params.MaxDimension = cfg.Server.MaxDimension
	params.MinContourArea = float64(cfg.Server.MinContourArea)
	params.MaxPixels = cfg.Server.MaxPixels

	return &server{
		http: &http.Server{
			Handler: api.NewRouter(api.Options{
				Params:         params,
				MaxUploadBytes: cfg.Server.MaxUploadBytes,
				Logger:         logger,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		},
		ws: &http.Server{
			Handler:           api.NewStatusRouter(api.NewStatusSocket(cfg.Server.Heartbeat(), logger)),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// serve runs both servers until ctx ends or one of them fails, then shuts
// both down. A clean shutdown returns nil.
func (s *server) serve(ctx context.Context, httpLn, wsLn net.Listener) error {
	errCh := make(chan error, 2)
	s.start(s.http, httpLn, "http", errCh)
	s.start(s.ws, wsLn, "websocket", errCh)

	var err error
	select {
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down")
	case err = <-errCh:
		s.logger.Error().Err(err).Msg("listener failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// hijacked websocket connections are not tracked by Shutdown
	_ = s.ws.Close()
	if serr := s.http.Shutdown(shutdownCtx); serr != nil {
		s.logger.Warn().Err(serr).Msg("http shutdown")
	}
	return err
}

func (s *server) start(srv *http.Server, ln net.Listener, name string, errCh chan<- error) {
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msgf("%s server listening", name)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s server: %w", name, err)
		}
	}()
}
