package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LogOptions configures NewLogger.
type LogOptions struct {
	Level     string // debug, info, warn, error
	Format    string // console or json
	File      string // optional file the log is also appended to
	Component string
	Out       io.Writer // defaults to os.Stderr
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the logger shared by the binaries. The returned closer
// releases the log file, if one was opened.
func NewLogger(opts LogOptions) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if opts.Out != nil {
		out = opts.Out
	}
	if opts.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, NoColor: opts.Out != nil}
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = file
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Component != "" {
		ctx = ctx.Str("component", opts.Component)
	}
	return ctx.Logger(), closer, nil
}
