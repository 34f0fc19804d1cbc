package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrylevesque/boardbot/internal/app"
	"github.com/harrylevesque/boardbot/internal/utils"
)

func newApp(cmd *cobra.Command) (*app.App, error) {
	return app.New(app.Overrides{
		ConfigPath: rootFlags.config,
		Server:     rootFlags.server,
		WebSocket:  rootFlags.ws,
		Platform:   rootFlags.platform,
		LogLevel:   rootFlags.logLevel,
		LogOut:     cmd.ErrOrStderr(),
	}, "client")
}

// linePrompt asks for an image path on in.
func linePrompt(in io.Reader, out io.Writer) func(context.Context) (string, error) {
	r := bufio.NewReader(in)
	return func(ctx context.Context) (string, error) {
		fmt.Fprint(out, "Image path (empty to cancel): ")
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		return line, nil
	}
}

func defaultResultsDir() string {
	return filepath.Join(utils.DataDir(), "results")
}
